package model

import (
	"time"
)

type Comment struct {
	ID          string    `json:"id"`
	ComplaintID string    `json:"complaint_id"`
	AuthorID    string    `json:"author_id"`
	Content     string    `json:"content"`
	Images      []string  `json:"images,omitempty"`
	IsOfficial  bool      `json:"is_official"`
	CreatedAt   time.Time `json:"created_at"`
}
