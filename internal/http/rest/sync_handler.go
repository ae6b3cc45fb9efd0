package rest

import (
	"net/http"

	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/civicfix/civicfix_client/util"
	"github.com/civicfix/civicfix_client/util/tracing"
	"github.com/civicfix/civicfix_client/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) DraftRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireActor)
		r.Method(http.MethodGet, "/", Handler(api.GetDraft))
		r.Method(http.MethodPut, "/", Handler(api.SaveDraft))
		r.Method(http.MethodDelete, "/", Handler(api.ClearDraft))
	})

	return mux
}

func (api *API) PendingRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireActor)
		r.Method(http.MethodGet, "/", Handler(api.ListPending))
		r.Method(http.MethodPost, "/sync", Handler(api.SyncPending))
	})

	return mux
}

func (api *API) GetDraft(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	actor, err := actorFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get actor from context", values.NotAuthorised, &tc)
	}

	draft, err := api.Store.Draft(r.Context(), actor.ID)
	if err != nil {
		return respondWithError(err, "failed to load draft", values.Error, &tc)
	}
	if draft == nil {
		return respondWithError(nil, "no draft saved", values.NotFound, &tc)
	}

	return &ServerResponse{
		Status:     values.Success,
		Message:    "draft restored",
		StatusCode: util.StatusCode(values.Success),
		Data:       draft,
	}
}

func (api *API) SaveDraft(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var draft model.Draft
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &draft); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	actor, err := actorFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get actor from context", values.NotAuthorised, &tc)
	}

	if err := api.Store.SaveDraft(r.Context(), actor.ID, draft); err != nil {
		return respondWithError(err, "failed to save draft", values.Error, &tc)
	}

	return &ServerResponse{
		Status:     values.Success,
		Message:    "draft saved",
		StatusCode: util.StatusCode(values.Success),
	}
}

func (api *API) ClearDraft(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	actor, err := actorFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get actor from context", values.NotAuthorised, &tc)
	}

	if err := api.Store.ClearDraft(r.Context(), actor.ID); err != nil {
		return respondWithError(err, "failed to clear draft", values.Error, &tc)
	}

	return &ServerResponse{
		Status:     values.Success,
		Message:    "draft cleared",
		StatusCode: util.StatusCode(values.Success),
	}
}

type pendingPayload struct {
	Entries []model.PendingSubmission `json:"entries"`
	Count   int                       `json:"count"`
}

func (api *API) ListPending(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	actor, err := actorFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get actor from context", values.NotAuthorised, &tc)
	}

	entries, err := api.Store.Pending(r.Context(), actor.ID)
	if err != nil {
		return respondWithError(err, "failed to load pending queue", values.Error, &tc)
	}

	return &ServerResponse{
		Status:     values.Success,
		Message:    "pending submissions",
		StatusCode: util.StatusCode(values.Success),
		Data:       pendingPayload{Entries: entries, Count: len(entries)},
	}
}

func (api *API) SyncPending(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	actor, err := actorFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get actor from context", values.NotAuthorised, &tc)
	}

	report, err := api.Store.SyncPending(r.Context(), actor)
	if err != nil {
		resp := respondWithError(err, "sync aborted", errStatus(err), &tc)
		resp.Data = report
		return resp
	}

	return &ServerResponse{
		Status:     values.Success,
		Message:    "sync finished",
		StatusCode: util.StatusCode(values.Success),
		Data:       report,
	}
}
