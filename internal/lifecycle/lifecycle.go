// Package lifecycle holds the complaint status state machine. It is pure
// logic: no I/O, no store access. The mutation engine consults it before
// any remote call so illegal transitions never reach the network.
package lifecycle

import (
	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/pkg/errors"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// transitions is the reachability graph. rejected and closed are terminal.
var transitions = map[model.Status][]model.Status{
	model.StatusSubmitted:    {model.StatusAcknowledged},
	model.StatusAcknowledged: {model.StatusInProgress},
	model.StatusInProgress:   {model.StatusResolved, model.StatusRejected},
	model.StatusResolved:     {model.StatusReopened, model.StatusClosed},
	model.StatusReopened:     {model.StatusAcknowledged},
	model.StatusRejected:     {},
	model.StatusClosed:       {},
}

// Transition validates (current, requested, role) and returns the new
// status, or fails with ErrInvalidTransition.
func Transition(current, requested model.Status, role model.Role) (model.Status, error) {
	if !current.Known() || !requested.Known() {
		return "", errors.Wrapf(ErrInvalidTransition, "unknown status %q -> %q", current, requested)
	}
	if !Reachable(current, requested) {
		return "", errors.Wrapf(ErrInvalidTransition, "%s -> %s", current, requested)
	}
	if !allowed(role, current, requested) {
		return "", errors.Wrapf(ErrInvalidTransition, "%s -> %s not permitted for role %s", current, requested, role)
	}
	return requested, nil
}

// Reachable reports whether requested is a direct successor of current.
func Reachable(current, requested model.Status) bool {
	for _, next := range transitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from s.
func Terminal(s model.Status) bool {
	return len(transitions[s]) == 0
}

// allowed encodes the role matrix: citizens may only reopen a resolved
// complaint, admins alone may close, employees and admins drive the rest.
func allowed(role model.Role, current, requested model.Status) bool {
	switch role {
	case model.RoleCitizen:
		return current == model.StatusResolved && requested == model.StatusReopened
	case model.RoleEmployee:
		return requested != model.StatusClosed
	case model.RoleAdmin:
		return true
	}
	return false
}
