// Package gateway is the client of the remote complaint repository. The
// backend owns the authoritative record; everything here returns either
// a confirmed entity or one of the typed errors in errors.go.
package gateway

import (
	"context"

	"github.com/civicfix/civicfix_client/internal/model"
)

// ComplaintGateway is the remote system-of-record contract consumed by
// the store engines.
type ComplaintGateway interface {
	Create(ctx context.Context, payload model.CreateComplaintRequest, actorID string) (model.Complaint, error)
	FetchPage(ctx context.Context, view model.View, page, perPage int, filter model.Filter) (model.ComplaintPage, error)
	UpdateStatus(ctx context.Context, id string, newStatus model.Status, actorID, notes string, images []string) (model.Complaint, error)
	Assign(ctx context.Context, id, employeeID, actorID string) (model.Complaint, error)
	ToggleUpvote(ctx context.Context, id, actorID string) (bool, error)
	AddComment(ctx context.Context, id, actorID, content string, images []string, isOfficial bool) (model.Comment, error)
}

// CategorySource supplies the static reference catalog. The REST client
// implements it alongside ComplaintGateway.
type CategorySource interface {
	FetchCategories(ctx context.Context) ([]model.Category, error)
}
