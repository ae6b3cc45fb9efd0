package model

// View names one of the four independent complaint lists. Each view owns
// its own filter and pagination state.
type View string

const (
	ViewMine     View = "mine"
	ViewAssigned View = "assigned"
	ViewPublic   View = "public"
	ViewAll      View = "all"
)

var Views = []View{ViewMine, ViewAssigned, ViewPublic, ViewAll}

func (v View) Valid() bool {
	switch v {
	case ViewMine, ViewAssigned, ViewPublic, ViewAll:
		return true
	}
	return false
}

// Filter is the active predicate for one view. The url tags drive the
// gateway's query-string encoding.
type Filter struct {
	Status     Status   `json:"status,omitempty" url:"status,omitempty"`
	CategoryID string   `json:"category_id,omitempty" url:"category_id,omitempty"`
	Priority   Priority `json:"priority,omitempty" url:"priority,omitempty"`
	From       string   `json:"from,omitempty" url:"from,omitempty"`
	To         string   `json:"to,omitempty" url:"to,omitempty"`
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

type Page struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ComplaintPage is one fetched page plus its pagination metadata.
type ComplaintPage struct {
	Data       []Complaint `json:"data"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	Total      int         `json:"total"`
	TotalPages int         `json:"total_pages"`
}
