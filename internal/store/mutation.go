package store

import (
	"context"
	"time"

	"github.com/civicfix/civicfix_client/internal/gateway"
	"github.com/civicfix/civicfix_client/internal/lifecycle"
	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// runMutation is the one optimistic-mutation helper: apply locally,
// call the remote, roll every copy back on failure. A per-complaint
// in-flight guard keeps two mutations for the same id from interleaving
// their apply/rollback steps.
func (s *Store) runMutation(ctx context.Context, id string, apply func(*model.Complaint), remote func(context.Context) error) error {
	s.mu.Lock()
	if _, busy := s.inflight[id]; busy {
		s.mu.Unlock()
		return errors.Wrapf(ErrMutationInFlight, "%s", id)
	}
	snap := s.captureLocked(id)
	if snap.empty() {
		s.mu.Unlock()
		return errors.Wrapf(ErrUnknownComplaint, "%s", id)
	}
	s.inflight[id] = struct{}{}
	s.applyLocked(id, apply)
	s.mu.Unlock()

	err := remote(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
	if err != nil {
		s.restoreLocked(id, snap)
		s.lastErr = err
		s.logger.Warn("mutation rolled back",
			zap.String("complaint_id", id),
			zap.Error(err),
		)
		return err
	}
	s.lastErr = nil
	return nil
}

// UpdateStatus drives the state machine. Illegal transitions fail here,
// before any network call.
func (s *Store) UpdateStatus(ctx context.Context, id string, newStatus model.Status, actor model.Actor, notes string, images []string) error {
	cur, ok := s.Lookup(id)
	if !ok {
		return errors.Wrapf(ErrUnknownComplaint, "%s", id)
	}
	if _, err := lifecycle.Transition(cur.Status, newStatus, actor.Role); err != nil {
		return err
	}

	now := time.Now().UTC()
	apply := func(c *model.Complaint) {
		c.Status = newStatus
		switch newStatus {
		case model.StatusResolved:
			c.ResolutionDate = &now
			if notes != "" {
				c.ResolutionNotes = notes
			}
		case model.StatusClosed:
			if c.ResolutionDate == nil {
				c.ResolutionDate = &now
			}
		case model.StatusReopened:
			c.ResolutionDate = nil
			c.ResolutionNotes = ""
		}
	}
	return s.runMutation(ctx, id, apply, func(ctx context.Context) error {
		_, err := s.gateway.UpdateStatus(ctx, id, newStatus, actor.ID, notes, images)
		return err
	})
}

// Assign sets the assignee. Assigning a complaint that is still
// submitted also acknowledges it; assignment is never its own status.
func (s *Store) Assign(ctx context.Context, id, employeeID string, actor model.Actor) error {
	if actor.Role == model.RoleCitizen {
		return errors.Wrap(gateway.ErrUnauthorized, "citizens cannot assign complaints")
	}
	cur, ok := s.Lookup(id)
	if !ok {
		return errors.Wrapf(ErrUnknownComplaint, "%s", id)
	}

	acknowledge := cur.Status == model.StatusSubmitted
	if acknowledge {
		if _, err := lifecycle.Transition(cur.Status, model.StatusAcknowledged, actor.Role); err != nil {
			return err
		}
	}

	apply := func(c *model.Complaint) {
		c.AssignedTo = employeeID
		if acknowledge {
			c.Status = model.StatusAcknowledged
		}
	}
	return s.runMutation(ctx, id, apply, func(ctx context.Context) error {
		_, err := s.gateway.Assign(ctx, id, employeeID, actor.ID)
		return err
	})
}

// ToggleUpvote flips has_upvoted and moves the counter by exactly one.
// When the remote answers "already upvoted" against a local not-upvoted
// state, the remote answer wins and the optimistic change stands.
func (s *Store) ToggleUpvote(ctx context.Context, id string, actor model.Actor) error {
	cur, ok := s.Lookup(id)
	if !ok {
		return errors.Wrapf(ErrUnknownComplaint, "%s", id)
	}
	wasUpvoted := cur.HasUpvoted

	apply := func(c *model.Complaint) {
		if c.HasUpvoted {
			c.HasUpvoted = false
			if c.UpvoteCount > 0 {
				c.UpvoteCount--
			}
		} else {
			c.HasUpvoted = true
			c.UpvoteCount++
		}
	}
	return s.runMutation(ctx, id, apply, func(ctx context.Context) error {
		_, err := s.gateway.ToggleUpvote(ctx, id, actor.ID)
		if errors.Is(err, gateway.ErrAlreadyUpvoted) && !wasUpvoted {
			s.logger.Info("upvote conflict reconciled against remote",
				zap.String("complaint_id", id),
			)
			return nil
		}
		return err
	})
}

// AddComment bumps the comment count optimistically and returns the
// confirmed comment. is_official is derived from the actor: admins, or
// the employee the complaint is assigned to.
func (s *Store) AddComment(ctx context.Context, id string, actor model.Actor, content string, images []string) (model.Comment, error) {
	cur, ok := s.Lookup(id)
	if !ok {
		return model.Comment{}, errors.Wrapf(ErrUnknownComplaint, "%s", id)
	}
	isOfficial := actor.Role == model.RoleAdmin ||
		(actor.Role == model.RoleEmployee && cur.AssignedTo == actor.ID)

	var created model.Comment
	apply := func(c *model.Complaint) { c.CommentCount++ }
	err := s.runMutation(ctx, id, apply, func(ctx context.Context) error {
		comment, err := s.gateway.AddComment(ctx, id, actor.ID, content, images, isOfficial)
		if err != nil {
			return err
		}
		created = comment
		return nil
	})
	return created, err
}
