package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/civicfix/civicfix_client/internal/gateway"
	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validPayload(title string) model.CreateComplaintRequest {
	return model.CreateComplaintRequest{
		Title:       title,
		Description: "There is a large pothole swallowing tyres here.",
		CategoryID:  "cat-roads",
		Priority:    model.PriorityHigh,
		Address:     "45 Harbour St",
	}
}

func TestDraftRoundTrip(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	draft := model.Draft{Payload: validPayload("Pothole on Harbour St"), Step: 2}
	require.NoError(t, s.SaveDraft(ctx, citizen.ID, draft))

	got, err := s.Draft(ctx, citizen.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Pothole on Harbour St", got.Payload.Title)
	assert.Equal(t, 2, got.Step)
	assert.False(t, got.SavedAt.IsZero())

	require.NoError(t, s.ClearDraft(ctx, citizen.ID))
	got, err = s.Draft(ctx, citizen.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDraftSurvivesRestart(t *testing.T) {
	s, _, durable := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveDraft(ctx, citizen.ID, model.Draft{Payload: validPayload("Pothole"), Step: 1}))

	// A fresh store over the same durable backend sees the slot.
	restarted := New(&fakeGateway{}, durable, zap.NewNop())
	got, err := restarted.Draft(ctx, citizen.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Pothole", got.Payload.Title)
}

func TestDraftsAreNamespacedPerActor(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveDraft(ctx, "actor-a", model.Draft{Payload: validPayload("A's pothole")}))

	got, err := s.Draft(ctx, "actor-b")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEnqueueRejectsInvalidPayload(t *testing.T) {
	s, _, _ := newTestStore(t)
	payload := validPayload("ok title")
	payload.Description = "too short"

	_, err := s.EnqueuePending(context.Background(), citizen.ID, payload)
	assert.ErrorIs(t, err, gateway.ErrValidation)

	queue, qerr := s.Pending(context.Background(), citizen.ID)
	require.NoError(t, qerr)
	assert.Empty(t, queue)
}

func TestEnqueueShowsLocalPlaceholder(t *testing.T) {
	s, _, _ := newTestStore(t)
	sub, err := s.EnqueuePending(context.Background(), citizen.ID, validPayload("Pothole"))
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ClientRef)
	assert.Equal(t, sub.ClientRef, sub.Payload.ClientRef)

	mine, _, _, err := s.Snapshot(model.ViewMine)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].Local)
	assert.Equal(t, sub.ClientRef, mine[0].ID)
	assert.Equal(t, model.StatusSubmitted, mine[0].Status)
}

func TestSyncPendingConfirmsInOrder(t *testing.T) {
	s, gw, _ := newTestStore(t)
	ctx := context.Background()
	_, err := s.EnqueuePending(ctx, citizen.ID, validPayload("First pothole"))
	require.NoError(t, err)
	_, err = s.EnqueuePending(ctx, citizen.ID, validPayload("Second pothole"))
	require.NoError(t, err)

	report, err := s.SyncPending(ctx, citizen)
	require.NoError(t, err)
	require.Len(t, report.Submitted, 2)
	assert.Empty(t, report.Failed)
	assert.Equal(t, "First pothole", gw.createCalls[0].Title)
	assert.Equal(t, "Second pothole", gw.createCalls[1].Title)

	numberPattern := regexp.MustCompile(`^#[A-Z0-9-]+$`)
	for _, c := range report.Submitted {
		assert.Regexp(t, numberPattern, c.ComplaintNumber)
	}

	queue, err := s.Pending(ctx, citizen.ID)
	require.NoError(t, err)
	assert.Empty(t, queue)

	// Placeholders were swapped for confirmed rows.
	mine, _, _, err := s.Snapshot(model.ViewMine)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, c := range mine {
		assert.False(t, c.Local)
		assert.NotEmpty(t, c.ComplaintNumber)
	}
}

func TestSyncPendingFailedEntryStaysQueued(t *testing.T) {
	s, gw, _ := newTestStore(t)
	ctx := context.Background()
	for _, title := range []string{"First pothole", "Second pothole", "Third pothole"} {
		_, err := s.EnqueuePending(ctx, citizen.ID, validPayload(title))
		require.NoError(t, err)
	}

	n := 0
	gw.createFn = func(payload model.CreateComplaintRequest) (model.Complaint, error) {
		if payload.Title == "Second pothole" {
			return model.Complaint{}, errors.Wrap(gateway.ErrNetwork, "create")
		}
		n++
		return confirmedComplaint(payload, n), nil
	}

	report, err := s.SyncPending(ctx, citizen)
	require.NoError(t, err)
	assert.Len(t, report.Submitted, 2)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "Second pothole", report.Failed[0].Payload.Title)
	assert.Equal(t, 1, report.Failed[0].Attempts)
	assert.NotEmpty(t, report.Failed[0].LastError)

	queue, err := s.Pending(ctx, citizen.ID)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	failedRef := queue[0].ClientRef

	// Next pass retries only the failed entry with the same client ref.
	gw.mu.Lock()
	gw.createFn = nil
	gw.createCalls = nil
	gw.mu.Unlock()

	report, err = s.SyncPending(ctx, citizen)
	require.NoError(t, err)
	require.Len(t, report.Submitted, 1)
	require.Len(t, gw.createCalls, 1)
	assert.Equal(t, failedRef, gw.createCalls[0].ClientRef)

	queue, err = s.Pending(ctx, citizen.ID)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestSyncPendingUnauthorizedAbortsRun(t *testing.T) {
	s, gw, _ := newTestStore(t)
	ctx := context.Background()
	_, err := s.EnqueuePending(ctx, citizen.ID, validPayload("First pothole"))
	require.NoError(t, err)
	_, err = s.EnqueuePending(ctx, citizen.ID, validPayload("Second pothole"))
	require.NoError(t, err)

	gw.createFn = func(model.CreateComplaintRequest) (model.Complaint, error) {
		return model.Complaint{}, gateway.ErrUnauthorized
	}

	report, err := s.SyncPending(ctx, citizen)
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)
	assert.Empty(t, report.Submitted)
	assert.Len(t, gw.createCalls, 1)

	// Nothing was dropped; both entries wait for the next session.
	queue, qerr := s.Pending(ctx, citizen.ID)
	require.NoError(t, qerr)
	assert.Len(t, queue, 2)
	assert.ErrorIs(t, s.LastError(), gateway.ErrUnauthorized)
}

func TestSyncPendingEmptyQueueIsNoop(t *testing.T) {
	s, gw, _ := newTestStore(t)
	report, err := s.SyncPending(context.Background(), citizen)
	require.NoError(t, err)
	assert.Empty(t, report.Submitted)
	assert.Empty(t, report.Failed)
	assert.Zero(t, len(gw.createCalls))
}

func TestPendingQueueSurvivesRestart(t *testing.T) {
	s, _, durable := newTestStore(t)
	ctx := context.Background()
	sub, err := s.EnqueuePending(ctx, citizen.ID, validPayload("Pothole"))
	require.NoError(t, err)

	restarted := New(&fakeGateway{}, durable, zap.NewNop())
	queue, err := restarted.Pending(ctx, citizen.ID)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, sub.ClientRef, queue[0].ClientRef)

	report, err := restarted.SyncPending(ctx, citizen)
	require.NoError(t, err)
	require.Len(t, report.Submitted, 1)

	queue, err = restarted.Pending(ctx, citizen.ID)
	require.NoError(t, err)
	assert.Empty(t, queue)
}
