package model

type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Icon          string        `json:"icon,omitempty"`
	SubCategories []SubCategory `json:"sub_categories,omitempty"`
}

// Clone returns a deep copy so cached catalog entries never alias the
// snapshots handed to callers.
func (c Category) Clone() Category {
	out := c
	if c.SubCategories != nil {
		out.SubCategories = append([]SubCategory(nil), c.SubCategories...)
	}
	return out
}

type SubCategory struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}
