package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/civicfix/civicfix_client/internal/gateway"
	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/civicfix/civicfix_client/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGateway is an in-test ComplaintGateway. Each operation succeeds
// unless a hook or error is installed.
type fakeGateway struct {
	mu sync.Mutex

	createFn    func(payload model.CreateComplaintRequest) (model.Complaint, error)
	createCalls []model.CreateComplaintRequest

	fetchFn    func(view model.View, page, perPage int, filter model.Filter) (model.ComplaintPage, error)
	fetchCalls int

	updateStatusErr   error
	updateStatusCalls int

	assignErr error

	upvoteFn    func() (bool, error)
	upvoteErr   error
	upvoteCalls int

	commentErr error
}

func (g *fakeGateway) Create(_ context.Context, payload model.CreateComplaintRequest, _ string) (model.Complaint, error) {
	g.mu.Lock()
	g.createCalls = append(g.createCalls, payload)
	fn := g.createFn
	n := len(g.createCalls)
	g.mu.Unlock()

	if fn != nil {
		return fn(payload)
	}
	return confirmedComplaint(payload, n), nil
}

func (g *fakeGateway) FetchPage(_ context.Context, view model.View, page, perPage int, filter model.Filter) (model.ComplaintPage, error) {
	g.mu.Lock()
	g.fetchCalls++
	fn := g.fetchFn
	g.mu.Unlock()

	if fn != nil {
		return fn(view, page, perPage, filter)
	}
	return model.ComplaintPage{Page: page, PerPage: perPage}, nil
}

func (g *fakeGateway) UpdateStatus(_ context.Context, id string, newStatus model.Status, _, _ string, _ []string) (model.Complaint, error) {
	g.mu.Lock()
	g.updateStatusCalls++
	err := g.updateStatusErr
	g.mu.Unlock()

	if err != nil {
		return model.Complaint{}, err
	}
	return model.Complaint{ID: id, Status: newStatus}, nil
}

func (g *fakeGateway) Assign(_ context.Context, id, employeeID, _ string) (model.Complaint, error) {
	if g.assignErr != nil {
		return model.Complaint{}, g.assignErr
	}
	return model.Complaint{ID: id, AssignedTo: employeeID, Status: model.StatusAcknowledged}, nil
}

func (g *fakeGateway) ToggleUpvote(_ context.Context, _, _ string) (bool, error) {
	g.mu.Lock()
	g.upvoteCalls++
	fn := g.upvoteFn
	err := g.upvoteErr
	g.mu.Unlock()

	if fn != nil {
		return fn()
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (g *fakeGateway) AddComment(_ context.Context, id, actorID, content string, images []string, isOfficial bool) (model.Comment, error) {
	if g.commentErr != nil {
		return model.Comment{}, g.commentErr
	}
	return model.Comment{
		ID:          "cm-1",
		ComplaintID: id,
		AuthorID:    actorID,
		Content:     content,
		Images:      images,
		IsOfficial:  isOfficial,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func confirmedComplaint(payload model.CreateComplaintRequest, n int) model.Complaint {
	return model.Complaint{
		ID:              fmt.Sprintf("srv-%d", n),
		ComplaintNumber: fmt.Sprintf("#CF-2026-%04d", n),
		Title:           payload.Title,
		Description:     payload.Description,
		CategoryID:      payload.CategoryID,
		Priority:        payload.Priority,
		Status:          model.StatusSubmitted,
		Address:         payload.Address,
		CreatedAt:       time.Now().UTC(),
	}
}

func newTestStore(t *testing.T) (*Store, *fakeGateway, *storage.MemoryStore) {
	t.Helper()
	gw := &fakeGateway{}
	durable := storage.NewMemoryStore()
	return New(gw, durable, zap.NewNop()), gw, durable
}

// seedView loads complaints into one view through the pagination engine,
// the same way the UI would.
func seedView(t *testing.T, s *Store, gw *fakeGateway, view model.View, complaints ...model.Complaint) {
	t.Helper()
	gw.mu.Lock()
	gw.fetchFn = func(_ model.View, page, perPage int, _ model.Filter) (model.ComplaintPage, error) {
		return model.ComplaintPage{
			Data:       complaints,
			Page:       page,
			PerPage:    perPage,
			Total:      len(complaints),
			TotalPages: 1,
		}, nil
	}
	gw.mu.Unlock()
	require.NoError(t, s.FetchPage(context.Background(), view, 1, 20, model.Filter{}))
	gw.mu.Lock()
	gw.fetchFn = nil
	gw.mu.Unlock()
}

func complaintFixture(id string, status model.Status) model.Complaint {
	return model.Complaint{
		ID:           id,
		Title:        "Broken streetlight on Main Rd",
		Description:  "The light at the junction has been out for a week.",
		CategoryID:   "cat-roads",
		Priority:     model.PriorityMedium,
		Status:       status,
		Address:      "12 Main Rd",
		UpvoteCount:  5,
		CommentCount: 2,
		CreatedAt:    time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, gw, _ := newTestStore(t)
	seedView(t, s, gw, model.ViewPublic, complaintFixture("c-1", model.StatusSubmitted))

	data, _, _, err := s.Snapshot(model.ViewPublic)
	require.NoError(t, err)
	require.Len(t, data, 1)

	data[0].Title = "mutated by caller"
	data[0].UpvoteCount = 999

	again, _, _, err := s.Snapshot(model.ViewPublic)
	require.NoError(t, err)
	assert.Equal(t, "Broken streetlight on Main Rd", again[0].Title)
	assert.Equal(t, 5, again[0].UpvoteCount)
}

func TestSnapshotUnknownView(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, _, _, err := s.Snapshot(model.View("archive"))
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestSetCurrentFromView(t *testing.T) {
	s, gw, _ := newTestStore(t)
	seedView(t, s, gw, model.ViewPublic, complaintFixture("c-1", model.StatusSubmitted))

	got, err := s.SetCurrent("c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ID)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "c-1", cur.ID)

	s.ClearCurrent()
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestSetCurrentUnknownComplaint(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, err := s.SetCurrent("nope")
	assert.ErrorIs(t, err, ErrUnknownComplaint)
}

var _ gateway.ComplaintGateway = (*fakeGateway)(nil)
