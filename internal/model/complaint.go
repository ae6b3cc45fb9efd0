package model

import (
	"time"
)

type Status string

const (
	StatusSubmitted    Status = "submitted"
	StatusAcknowledged Status = "acknowledged"
	StatusInProgress   Status = "in_progress"
	StatusResolved     Status = "resolved"
	StatusRejected     Status = "rejected"
	StatusReopened     Status = "reopened"
	StatusClosed       Status = "closed"
)

func (s Status) Known() bool {
	switch s {
	case StatusSubmitted, StatusAcknowledged, StatusInProgress,
		StatusResolved, StatusRejected, StatusReopened, StatusClosed:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type Role string

const (
	RoleCitizen  Role = "citizen"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Actor is the opaque identity supplied by the authentication collaborator.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Complaint struct {
	ID              string     `json:"id"`
	ComplaintNumber string     `json:"complaint_number,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CategoryID      string     `json:"category_id"`
	SubCategoryID   string     `json:"sub_category_id,omitempty"`
	Priority        Priority   `json:"priority"`
	Status          Status     `json:"status"`
	Address         string     `json:"address"`
	Landmark        string     `json:"landmark,omitempty"`
	Location        *GeoPoint  `json:"location,omitempty"`
	Images          []string   `json:"images,omitempty"`
	IsAnonymous     bool       `json:"is_anonymous"`
	UpvoteCount     int        `json:"upvote_count"`
	HasUpvoted      bool       `json:"has_upvoted"`
	CommentCount    int        `json:"comment_count"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolutionDate  *time.Time `json:"resolution_date,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	AssignedTo      string     `json:"assigned_to,omitempty"`
	SLADeadline     *time.Time `json:"sla_deadline,omitempty"`

	// Local marks an optimistic placeholder row that has not been
	// confirmed by the backend yet. Never sent upstream.
	Local bool `json:"local,omitempty"`
}

// Clone returns a deep copy so that rollback snapshots and read-only
// snapshots never alias the store's own slices.
func (c Complaint) Clone() Complaint {
	out := c
	if c.Images != nil {
		out.Images = append([]string(nil), c.Images...)
	}
	if c.Location != nil {
		loc := *c.Location
		out.Location = &loc
	}
	if c.ResolutionDate != nil {
		d := *c.ResolutionDate
		out.ResolutionDate = &d
	}
	if c.SLADeadline != nil {
		d := *c.SLADeadline
		out.SLADeadline = &d
	}
	return out
}

type CreateComplaintRequest struct {
	Title         string   `json:"title" validate:"required,min=3"`
	Description   string   `json:"description" validate:"required,min=10"`
	CategoryID    string   `json:"category_id" validate:"required"`
	SubCategoryID string   `json:"sub_category_id,omitempty"`
	Priority      Priority `json:"priority" validate:"required,priority"`
	Address       string   `json:"address" validate:"required"`
	Landmark      string   `json:"landmark,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Images        []string `json:"images,omitempty"`
	IsAnonymous   bool     `json:"is_anonymous"`

	// ClientRef is the pending-submission reference, stable across retries.
	// The backend treats it as an idempotency key.
	ClientRef string `json:"client_ref,omitempty"`
}

// Placeholder builds the optimistic local row shown in "mine" while the
// submission waits for a confirmed remote create.
func (r CreateComplaintRequest) Placeholder(clientRef string, createdAt time.Time) Complaint {
	c := Complaint{
		ID:            clientRef,
		Title:         r.Title,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		SubCategoryID: r.SubCategoryID,
		Priority:      r.Priority,
		Status:        StatusSubmitted,
		Address:       r.Address,
		Landmark:      r.Landmark,
		Images:        append([]string(nil), r.Images...),
		IsAnonymous:   r.IsAnonymous,
		CreatedAt:     createdAt,
		Local:         true,
	}
	if r.Latitude != nil && r.Longitude != nil {
		c.Location = &GeoPoint{Latitude: *r.Latitude, Longitude: *r.Longitude}
	}
	return c
}
