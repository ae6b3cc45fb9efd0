package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/civicfix/civicfix_client/internal/gateway"
	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/civicfix/civicfix_client/internal/storage"
	"github.com/civicfix/civicfix_client/util"
	"github.com/lucsky/cuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Durable keys are namespaced per actor so a shared kiosk device never
// leaks one citizen's draft to another.
func draftKey(actorID string) string   { return "draft:" + actorID }
func pendingKey(actorID string) string { return "pending:" + actorID }

// SaveDraft overwrites the single draft slot.
func (s *Store) SaveDraft(ctx context.Context, actorID string, draft model.Draft) error {
	draft.SavedAt = time.Now().UTC()
	raw, err := json.Marshal(draft)
	if err != nil {
		return errors.Wrap(err, "encoding draft")
	}
	return s.durable.Put(ctx, draftKey(actorID), raw)
}

// Draft restores the saved slot, nil when none exists.
func (s *Store) Draft(ctx context.Context, actorID string) (*model.Draft, error) {
	raw, err := s.durable.Get(ctx, draftKey(actorID))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var draft model.Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, errors.Wrap(err, "decoding draft")
	}
	return &draft, nil
}

func (s *Store) ClearDraft(ctx context.Context, actorID string) error {
	return s.durable.Delete(ctx, draftKey(actorID))
}

// EnqueuePending validates the payload, appends it to the durable queue
// and shows an optimistic placeholder in "mine". The entry leaves the
// queue only after a confirmed remote create.
func (s *Store) EnqueuePending(ctx context.Context, actorID string, payload model.CreateComplaintRequest) (model.PendingSubmission, error) {
	if err := util.ValidateStruct(payload); err != nil {
		return model.PendingSubmission{}, errors.Wrap(gateway.ErrValidation, err.Error())
	}

	sub := model.PendingSubmission{
		ClientRef:  cuid.New(),
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}
	sub.Payload.ClientRef = sub.ClientRef

	queue, err := s.loadQueue(ctx, actorID)
	if err != nil {
		return model.PendingSubmission{}, err
	}
	queue = append(queue, sub)
	if err := s.persistQueue(ctx, actorID, queue); err != nil {
		return model.PendingSubmission{}, err
	}

	placeholder := sub.Payload.Placeholder(sub.ClientRef, sub.EnqueuedAt)
	s.mu.Lock()
	mine := s.views[model.ViewMine]
	mine.data = append([]model.Complaint{placeholder}, mine.data...)
	s.mu.Unlock()

	s.logger.Info("submission queued", zap.String("client_ref", sub.ClientRef))
	return sub, nil
}

// Pending returns the queue contents in insertion order.
func (s *Store) Pending(ctx context.Context, actorID string) ([]model.PendingSubmission, error) {
	return s.loadQueue(ctx, actorID)
}

type SyncReport struct {
	Submitted []model.Complaint         `json:"submitted,omitempty"`
	Failed    []model.PendingSubmission `json:"failed,omitempty"`
}

// SyncPending replays the queue in insertion order. A failed entry stays
// queued with its error recorded while later entries are still
// attempted; an unauthorized answer aborts the run since every later
// create would fail the same way. Queue membership is persisted after
// each confirmed create so a crash mid-sync cannot resubmit.
func (s *Store) SyncPending(ctx context.Context, actor model.Actor) (SyncReport, error) {
	queue, err := s.loadQueue(ctx, actor.ID)
	if err != nil {
		return SyncReport{}, err
	}

	var report SyncReport
	remaining := make([]model.PendingSubmission, 0, len(queue))

	for i, sub := range queue {
		created, err := s.gateway.Create(ctx, sub.Payload, actor.ID)
		if err != nil {
			if errors.Is(err, gateway.ErrUnauthorized) {
				remaining = append(remaining, queue[i:]...)
				if persistErr := s.persistQueue(ctx, actor.ID, remaining); persistErr != nil {
					s.logger.Error("persisting queue after auth failure", zap.Error(persistErr))
				}
				s.setLastErr(err)
				return report, err
			}
			sub.Attempts++
			sub.LastError = err.Error()
			remaining = append(remaining, sub)
			report.Failed = append(report.Failed, sub)
			s.logger.Warn("pending submission failed",
				zap.String("client_ref", sub.ClientRef),
				zap.Int("attempts", sub.Attempts),
				zap.Error(err),
			)
			continue
		}

		s.mu.Lock()
		s.replaceLocalLocked(sub.ClientRef, created)
		s.mu.Unlock()
		report.Submitted = append(report.Submitted, created)

		checkpoint := make([]model.PendingSubmission, 0, len(remaining)+len(queue)-i-1)
		checkpoint = append(checkpoint, remaining...)
		checkpoint = append(checkpoint, queue[i+1:]...)
		if err := s.persistQueue(ctx, actor.ID, checkpoint); err != nil {
			return report, err
		}

		s.logger.Info("pending submission confirmed",
			zap.String("client_ref", sub.ClientRef),
			zap.String("complaint_number", created.ComplaintNumber),
		)
	}

	if err := s.persistQueue(ctx, actor.ID, remaining); err != nil {
		return report, err
	}
	if len(report.Failed) == 0 {
		s.setLastErr(nil)
	}
	return report, nil
}

func (s *Store) loadQueue(ctx context.Context, actorID string) ([]model.PendingSubmission, error) {
	raw, err := s.durable.Get(ctx, pendingKey(actorID))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var queue []model.PendingSubmission
	if err := json.Unmarshal(raw, &queue); err != nil {
		return nil, errors.Wrap(err, "decoding pending queue")
	}
	return queue, nil
}

func (s *Store) persistQueue(ctx context.Context, actorID string, queue []model.PendingSubmission) error {
	if len(queue) == 0 {
		return s.durable.Delete(ctx, pendingKey(actorID))
	}
	raw, err := json.Marshal(queue)
	if err != nil {
		return errors.Wrap(err, "encoding pending queue")
	}
	return s.durable.Put(ctx, pendingKey(actorID), raw)
}
