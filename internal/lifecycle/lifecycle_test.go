package lifecycle

import (
	"errors"
	"testing"

	"github.com/civicfix/civicfix_client/internal/model"
)

var allStatuses = []model.Status{
	model.StatusSubmitted,
	model.StatusAcknowledged,
	model.StatusInProgress,
	model.StatusResolved,
	model.StatusRejected,
	model.StatusReopened,
	model.StatusClosed,
}

func TestTransitionGraph(t *testing.T) {
	allowed := map[model.Status][]model.Status{
		model.StatusSubmitted:    {model.StatusAcknowledged},
		model.StatusAcknowledged: {model.StatusInProgress},
		model.StatusInProgress:   {model.StatusResolved, model.StatusRejected},
		model.StatusResolved:     {model.StatusReopened, model.StatusClosed},
		model.StatusReopened:     {model.StatusAcknowledged},
	}

	for _, current := range allStatuses {
		for _, requested := range allStatuses {
			wantOK := false
			for _, next := range allowed[current] {
				if next == requested {
					wantOK = true
				}
			}

			got, err := Transition(current, requested, model.RoleAdmin)
			if wantOK {
				if err != nil {
					t.Errorf("Transition(%s, %s, admin) returned error %v; want %s", current, requested, err, requested)
				}
				if got != requested {
					t.Errorf("Transition(%s, %s, admin) = %s; want %s", current, requested, got, requested)
				}
			} else {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Transition(%s, %s, admin) = (%s, %v); want ErrInvalidTransition", current, requested, got, err)
				}
			}
		}
	}
}

func TestTransitionRoleMatrix(t *testing.T) {
	testCases := []struct {
		name      string
		current   model.Status
		requested model.Status
		role      model.Role
		wantOK    bool
	}{
		{"citizen reopens resolved", model.StatusResolved, model.StatusReopened, model.RoleCitizen, true},
		{"citizen cannot acknowledge", model.StatusSubmitted, model.StatusAcknowledged, model.RoleCitizen, false},
		{"citizen cannot resolve", model.StatusInProgress, model.StatusResolved, model.RoleCitizen, false},
		{"citizen cannot close", model.StatusResolved, model.StatusClosed, model.RoleCitizen, false},
		{"employee acknowledges", model.StatusSubmitted, model.StatusAcknowledged, model.RoleEmployee, true},
		{"employee starts work", model.StatusAcknowledged, model.StatusInProgress, model.RoleEmployee, true},
		{"employee resolves", model.StatusInProgress, model.StatusResolved, model.RoleEmployee, true},
		{"employee rejects", model.StatusInProgress, model.StatusRejected, model.RoleEmployee, true},
		{"employee reacknowledges reopened", model.StatusReopened, model.StatusAcknowledged, model.RoleEmployee, true},
		{"employee cannot close", model.StatusResolved, model.StatusClosed, model.RoleEmployee, false},
		{"admin closes", model.StatusResolved, model.StatusClosed, model.RoleAdmin, true},
		{"unknown role denied", model.StatusSubmitted, model.StatusAcknowledged, model.Role("intern"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Transition(tc.current, tc.requested, tc.role)
			if tc.wantOK && err != nil {
				t.Errorf("Transition(%s, %s, %s) returned error %v; want success", tc.current, tc.requested, tc.role, err)
			}
			if !tc.wantOK && !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Transition(%s, %s, %s) = %v; want ErrInvalidTransition", tc.current, tc.requested, tc.role, err)
			}
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range allStatuses {
		want := s == model.StatusRejected || s == model.StatusClosed
		if Terminal(s) != want {
			t.Errorf("Terminal(%s) = %v; want %v", s, Terminal(s), want)
		}
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	if _, err := Transition(model.Status("archived"), model.StatusClosed, model.RoleAdmin); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("unknown current status should fail with ErrInvalidTransition, got %v", err)
	}
	if _, err := Transition(model.StatusSubmitted, model.Status("archived"), model.RoleAdmin); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("unknown requested status should fail with ErrInvalidTransition, got %v", err)
	}
}
