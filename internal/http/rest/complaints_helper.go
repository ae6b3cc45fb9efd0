package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/civicfix/civicfix_client/internal/gateway"
	"github.com/civicfix/civicfix_client/internal/lifecycle"
	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/civicfix/civicfix_client/internal/store"
	"github.com/civicfix/civicfix_client/util/values"
)

// parseListQuery builds the view, pagination and filter from the query
// string. Callers changing the filter are expected to request page 1.
func parseListQuery(r *http.Request) (model.View, int, int, model.Filter, error) {
	q := r.URL.Query()

	view := model.View(q.Get("view"))
	if view == "" {
		view = model.ViewPublic
	}
	if !view.Valid() {
		return "", 0, 0, model.Filter{}, errors.New("unknown view " + string(view))
	}

	page := parseQueryInt(q.Get("page"), 1)
	perPage := parseQueryInt(q.Get("per_page"), 0)

	filter := model.Filter{
		Status:     model.Status(q.Get("status")),
		CategoryID: q.Get("category_id"),
		Priority:   model.Priority(q.Get("priority")),
		From:       q.Get("from"),
		To:         q.Get("to"),
	}
	if filter.Status != "" && !filter.Status.Known() {
		return "", 0, 0, model.Filter{}, errors.New("unknown status " + string(filter.Status))
	}

	return view, page, perPage, filter, nil
}

func parseQueryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// errStatus maps the core error taxonomy onto response statuses.
func errStatus(err error) string {
	switch {
	case errors.Is(err, gateway.ErrValidation):
		return values.Unprocessable
	case errors.Is(err, gateway.ErrUnauthorized):
		return values.NotAuthorised
	case errors.Is(err, gateway.ErrNotFound), errors.Is(err, store.ErrUnknownComplaint):
		return values.NotFound
	case errors.Is(err, lifecycle.ErrInvalidTransition), errors.Is(err, store.ErrMutationInFlight):
		return values.Conflict
	case errors.Is(err, gateway.ErrAlreadyUpvoted):
		return values.Conflict
	case errors.Is(err, store.ErrUnknownView):
		return values.BadRequestBody
	default:
		return values.Error
	}
}
