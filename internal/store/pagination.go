package store

import (
	"context"

	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// FetchPage replaces one view's collection and metadata with the fetched
// page. Page-replace, not append: repeated calls with the same page are
// idempotent. A failed fetch leaves the previous page untouched, and a
// response superseded by a newer fetch for the same view is discarded.
func (s *Store) FetchPage(ctx context.Context, view model.View, page, perPage int, filter model.Filter) error {
	if !view.Valid() {
		return errors.Wrapf(ErrUnknownView, "%s", view)
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	s.mu.Lock()
	vs := s.views[view]
	vs.seq++
	token := vs.seq
	s.mu.Unlock()

	result, err := s.gateway.FetchPage(ctx, view, page, perPage, filter)

	s.mu.Lock()
	defer s.mu.Unlock()
	if vs.seq != token {
		s.logger.Debug("discarding stale fetch",
			zap.String("view", string(view)),
			zap.Uint64("token", token),
			zap.Uint64("latest", vs.seq),
		)
		return nil
	}
	if err != nil {
		s.lastErr = err
		return err
	}

	data := make([]model.Complaint, 0, len(result.Data))
	for _, c := range result.Data {
		data = append(data, c.Clone())
	}
	vs.data = data
	vs.filter = filter
	vs.page = model.Page{
		Page:       result.Page,
		PerPage:    result.PerPage,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	}
	s.lastErr = nil
	return nil
}
