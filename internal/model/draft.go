package model

import (
	"time"
)

// Draft is the single in-progress form slot, one per actor.
type Draft struct {
	Payload CreateComplaintRequest `json:"payload"`
	Step    int                    `json:"step"`
	SavedAt time.Time              `json:"saved_at"`
}

// PendingSubmission is a fully-validated payload awaiting a confirmed
// remote create. Queue membership is the sole success tracker: an entry
// is removed only after the backend confirms the create.
type PendingSubmission struct {
	ClientRef  string                 `json:"client_ref"`
	Payload    CreateComplaintRequest `json:"payload"`
	EnqueuedAt time.Time              `json:"enqueued_at"`
	Attempts   int                    `json:"attempts"`
	LastError  string                 `json:"last_error,omitempty"`
}
