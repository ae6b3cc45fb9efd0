package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/civicfix/civicfix_client/util/tracing"
	"github.com/civicfix/civicfix_client/util/values"
	"github.com/lucsky/cuid"
)

// RequestTracing handles the request tracing context
func RequestTracing(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestSource := r.Header.Get(values.HeaderRequestSource)
		if requestSource == "" {
			requestSource = "ui"
		}

		requestID := r.Header.Get(values.HeaderRequestID)
		if requestID == "" {
			requestID = cuid.New()
		}

		tracingContext := tracing.Context{
			RequestID:     requestID,
			RequestSource: requestSource,
		}

		ctx = context.WithValue(ctx, values.ContextTracingKey, tracingContext)
		next.ServeHTTP(w, r.WithContext(ctx))
	}

	return http.HandlerFunc(fn)
}

// RequireActor reads the opaque actor identity minted by the external
// authentication collaborator. Session handling is not this subsystem's
// concern; a missing id is simply unauthorized.
func (api *API) RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := r.Header.Get(values.HeaderActorID)
		if actorID == "" {
			writeErrorResponse(w, errors.New("missing actor id"), values.NotAuthorised, "not-authorized")
			return
		}

		role := model.Role(r.Header.Get(values.HeaderActorRole))
		switch role {
		case model.RoleCitizen, model.RoleEmployee, model.RoleAdmin:
		default:
			role = model.RoleCitizen
		}

		ctx := context.WithValue(r.Context(), values.ContextActorKey, model.Actor{ID: actorID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFromContext(ctx context.Context) (model.Actor, error) {
	actor, ok := ctx.Value(values.ContextActorKey).(model.Actor)
	if !ok || actor.ID == "" {
		return model.Actor{}, errors.New("actor not found in context")
	}
	return actor, nil
}
