package rest

import (
	"net/http"

	"github.com/civicfix/civicfix_client/internal/model"
	"github.com/civicfix/civicfix_client/util"
	"github.com/civicfix/civicfix_client/util/tracing"
	"github.com/civicfix/civicfix_client/util/values"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (api *API) ComplaintRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireActor)
		r.Method(http.MethodGet, "/", Handler(api.ListComplaints))
		r.Method(http.MethodPost, "/", Handler(api.CreateComplaint))
		r.Method(http.MethodGet, "/views/{view}", Handler(api.ViewSnapshot))

		r.Method(http.MethodGet, "/{complaintID}", Handler(api.GetComplaint))
		r.Method(http.MethodPatch, "/{complaintID}/status", Handler(api.UpdateComplaintStatus))
		r.Method(http.MethodPost, "/{complaintID}/assign", Handler(api.AssignComplaint))
		r.Method(http.MethodPost, "/{complaintID}/upvote", Handler(api.UpvoteComplaint))
		r.Method(http.MethodPost, "/{complaintID}/comments", Handler(api.CommentOnComplaint))
	})

	return mux
}

type listPayload struct {
	Data   []model.Complaint `json:"data"`
	Filter model.Filter      `json:"filter"`
	Meta   model.Page        `json:"meta"`
}

func (api *API) ListComplaints(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	view, page, perPage, filter, err := parseListQuery(r)
	if err != nil {
		return respondWithError(err, "invalid list query", values.BadRequestBody, &tc)
	}

	if fetchErr := api.Store.FetchPage(r.Context(), view, page, perPage, filter); fetchErr != nil {
		// The previous page stays visible; the error rides along.
		data, f, meta, _ := api.Store.Snapshot(view)
		resp := respondWithError(fetchErr, "failed to fetch complaints", errStatus(fetchErr), &tc)
		resp.Data = listPayload{Data: data, Filter: f, Meta: meta}
		return resp
	}

	data, f, meta, _ := api.Store.Snapshot(view)
	return &ServerResponse{
		Status:     values.Success,
		Message:    "complaints fetched",
		StatusCode: util.StatusCode(values.Success),
		Data:       listPayload{Data: data, Filter: f, Meta: meta},
	}
}

// ViewSnapshot returns the in-memory collection without touching the
// backend.
func (api *API) ViewSnapshot(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	view := model.View(chi.URLParam(r, "view"))
	data, f, meta, err := api.Store.Snapshot(view)
	if err != nil {
		return respondWithError(err, "unknown view", values.BadRequestBody, &tc)
	}

	return &ServerResponse{
		Status:     values.Success,
		Message:    "snapshot",
		StatusCode: util.StatusCode(values.Success),
		Data:       listPayload{Data: data, Filter: f, Meta: meta},
	}
}

func (api *API) GetComplaint(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "complaintID")
	complaint, err := api.Store.SetCurrent(id)
	if err != nil {
		return respondWithError(err, "complaint not found", values.NotFound, &tc)
	}

	return &ServerResponse{
		Status:     values.Success,
		Message:    "complaint detail",
		StatusCode: util.StatusCode(values.Success),
		Data:       complaint,
	}
}

type createPayload struct {
	Submission model.PendingSubmission `json:"submission"`
	Sync       interface{}             `json:"sync,omitempty"`
}

func (api *API) CreateComplaint(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateComplaintRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	actor, err := actorFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get actor from context", values.NotAuthorised, &tc)
	}

	if api.Images != nil && len(req.Images) > 0 {
		urls, uploadErr := api.Images.UploadAll(r.Context(), req.Images)
		if uploadErr != nil {
			return respondWithError(uploadErr, "failed to upload images", values.Error, &tc)
		}
		req.Images = urls
	}

	sub, err := api.Store.EnqueuePending(r.Context(), actor.ID, req)
	if err != nil {
		return respondWithError(err, "submission rejected", errStatus(err), &tc)
	}

	if clearErr := api.Store.ClearDraft(r.Context(), actor.ID); clearErr != nil {
		api.Log.Warn("clearing draft after submission", zap.Error(clearErr))
	}

	// Best effort immediate sync; a failure leaves the entry queued.
	report, _ := api.Store.SyncPending(r.Context(), actor)

	return &ServerResponse{
		Status:     values.Created,
		Message:    "complaint submitted",
		StatusCode: util.StatusCode(values.Created),
		Data:       createPayload{Submission: sub, Sync: report},
	}
}

func (api *API) UpdateComplaintStatus(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "complaintID")

	var req struct {
		Status model.Status `json:"status"`
		Notes  string       `json:"notes,omitempty"`
		Images []string     `json:"images,omitempty"`
	}
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	actor, err := actorFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get actor from context", values.NotAuthorised, &tc)
	}

	if err := api.Store.UpdateStatus(r.Context(), id, req.Status, actor, req.Notes, req.Images); err != nil {
		return respondWithError(err, "status update failed", errStatus(err), &tc)
	}

	complaint, _ := api.Store.Lookup(id)
	return &ServerResponse{
		Status:     values.Success,
		Message:    "status updated",
		StatusCode: util.StatusCode(values.Success),
		Data:       complaint,
	}
}

func (api *API) AssignComplaint(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "complaintID")

	var req struct {
		EmployeeID string `json:"employee_id"`
	}
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	actor, err := actorFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get actor from context", values.NotAuthorised, &tc)
	}

	if err := api.Store.Assign(r.Context(), id, req.EmployeeID, actor); err != nil {
		return respondWithError(err, "assignment failed", errStatus(err), &tc)
	}

	complaint, _ := api.Store.Lookup(id)
	return &ServerResponse{
		Status:     values.Success,
		Message:    "complaint assigned",
		StatusCode: util.StatusCode(values.Success),
		Data:       complaint,
	}
}

func (api *API) UpvoteComplaint(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "complaintID")

	actor, err := actorFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get actor from context", values.NotAuthorised, &tc)
	}

	if err := api.Store.ToggleUpvote(r.Context(), id, actor); err != nil {
		return respondWithError(err, "upvote failed", errStatus(err), &tc)
	}

	complaint, _ := api.Store.Lookup(id)
	return &ServerResponse{
		Status:     values.Success,
		Message:    "upvote toggled",
		StatusCode: util.StatusCode(values.Success),
		Data:       complaint,
	}
}

func (api *API) CommentOnComplaint(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "complaintID")

	var req struct {
		Content string   `json:"content"`
		Images  []string `json:"images,omitempty"`
	}
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}
	if req.Content == "" {
		return respondWithError(nil, "comment content is required", values.Unprocessable, &tc)
	}

	actor, err := actorFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get actor from context", values.NotAuthorised, &tc)
	}

	comment, err := api.Store.AddComment(r.Context(), id, actor, req.Content, req.Images)
	if err != nil {
		return respondWithError(err, "failed to add comment", errStatus(err), &tc)
	}

	return &ServerResponse{
		Status:     values.Created,
		Message:    "comment added",
		StatusCode: util.StatusCode(values.Created),
		Data:       comment,
	}
}
