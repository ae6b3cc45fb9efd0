// Package store owns the client's in-memory complaint collections and
// funnels every mutation through two engines: the optimistic mutation
// engine (mutation.go) and the pagination engine (pagination.go). The
// offline draft and pending-submission queue live in sync.go on top of
// the durable store.
package store

import (
	"sync"

	"github.com/civicfix/civicfix_client/internal/gateway"
	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/civicfix/civicfix_client/internal/storage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrMutationInFlight = errors.New("mutation already in flight for complaint")
	ErrUnknownComplaint = errors.New("complaint not present in any view")
	ErrUnknownView      = errors.New("unknown view")
)

type viewState struct {
	data   []model.Complaint
	filter model.Filter
	page   model.Page
	seq    uint64
}

// Store is the single state container per process. The remote gateway
// owns the authoritative record; nothing here is assumed correct until
// confirmed.
type Store struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	gateway gateway.ComplaintGateway
	durable storage.DurableStore

	views    map[model.View]*viewState
	current  *model.Complaint
	inflight map[string]struct{}
	lastErr  error
}

func New(gw gateway.ComplaintGateway, durable storage.DurableStore, logger *zap.Logger) *Store {
	views := make(map[model.View]*viewState, len(model.Views))
	for _, v := range model.Views {
		views[v] = &viewState{page: model.Page{Page: 1, PerPage: defaultPerPage}}
	}
	return &Store{
		logger:   logger,
		gateway:  gw,
		durable:  durable,
		views:    views,
		inflight: make(map[string]struct{}),
	}
}

// Snapshot returns a copy of one view's collection, filter and page
// metadata. Callers may hold the result across renders without racing
// the engines.
func (s *Store) Snapshot(view model.View) ([]model.Complaint, model.Filter, model.Page, error) {
	if !view.Valid() {
		return nil, model.Filter{}, model.Page{}, errors.Wrapf(ErrUnknownView, "%s", view)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	vs := s.views[view]
	data := make([]model.Complaint, 0, len(vs.data))
	for _, c := range vs.data {
		data = append(data, c.Clone())
	}
	return data, vs.filter, vs.page, nil
}

// SetCurrent selects the detail view's complaint from the in-memory
// collections.
func (s *Store) SetCurrent(id string) (model.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range model.Views {
		for _, c := range s.views[v].data {
			if c.ID == id {
				clone := c.Clone()
				s.current = &clone
				return clone.Clone(), nil
			}
		}
	}
	return model.Complaint{}, errors.Wrapf(ErrUnknownComplaint, "%s", id)
}

func (s *Store) Current() (model.Complaint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.Complaint{}, false
	}
	return s.current.Clone(), true
}

func (s *Store) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// LastError is the single error slot the UI renders from.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) setLastErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// Lookup finds the freshest copy of id across views and current detail.
func (s *Store) Lookup(id string) (model.Complaint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range model.Views {
		for _, c := range s.views[v].data {
			if c.ID == id {
				return c.Clone(), true
			}
		}
	}
	if s.current != nil && s.current.ID == id {
		return s.current.Clone(), true
	}
	return model.Complaint{}, false
}

// restoreEntry is a pre-mutation copy of one list's row.
type restoreEntry struct {
	view      model.View
	complaint model.Complaint
}

type rollbackSnapshot struct {
	entries []restoreEntry
	current *model.Complaint
}

func (r rollbackSnapshot) empty() bool {
	return len(r.entries) == 0 && r.current == nil
}

func (s *Store) captureLocked(id string) rollbackSnapshot {
	var snap rollbackSnapshot
	for _, v := range model.Views {
		for _, c := range s.views[v].data {
			if c.ID == id {
				snap.entries = append(snap.entries, restoreEntry{view: v, complaint: c.Clone()})
			}
		}
	}
	if s.current != nil && s.current.ID == id {
		clone := s.current.Clone()
		snap.current = &clone
	}
	return snap
}

// applyLocked runs fn against every copy of id so all lists agree before
// the next read.
func (s *Store) applyLocked(id string, fn func(*model.Complaint)) {
	for _, v := range model.Views {
		data := s.views[v].data
		for i := range data {
			if data[i].ID == id {
				fn(&data[i])
			}
		}
	}
	if s.current != nil && s.current.ID == id {
		fn(s.current)
	}
}

// restoreLocked puts pre-mutation copies back by id. A row that vanished
// meanwhile (view replaced by a fetch) is left alone: fetched data is
// server truth.
func (s *Store) restoreLocked(id string, snap rollbackSnapshot) {
	for _, entry := range snap.entries {
		data := s.views[entry.view].data
		for i := range data {
			if data[i].ID == id {
				data[i] = entry.complaint.Clone()
			}
		}
	}
	if snap.current != nil && s.current != nil && s.current.ID == id {
		clone := snap.current.Clone()
		s.current = &clone
	}
}

// replaceLocalLocked swaps the optimistic placeholder identified by
// clientRef for the server-confirmed row.
func (s *Store) replaceLocalLocked(clientRef string, confirmed model.Complaint) {
	replaced := false
	for _, v := range model.Views {
		data := s.views[v].data
		for i := range data {
			if data[i].ID == clientRef {
				data[i] = confirmed.Clone()
				replaced = true
			}
		}
	}
	if !replaced {
		mine := s.views[model.ViewMine]
		mine.data = append([]model.Complaint{confirmed.Clone()}, mine.data...)
	}
	if s.current != nil && s.current.ID == clientRef {
		clone := confirmed.Clone()
		s.current = &clone
	}
}
