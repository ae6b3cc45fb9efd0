package rest

import (
	"net/http"

	"github.com/civicfix/civicfix_client/util"
	"github.com/civicfix/civicfix_client/util/tracing"
	"github.com/civicfix/civicfix_client/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) CategoryRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Method(http.MethodGet, "/", Handler(api.ListCategories))
	return mux
}

func (api *API) ListCategories(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	categories, err := api.Catalog.Categories(r.Context())
	if err != nil {
		return respondWithError(err, "failed to load categories", values.Error, &tc)
	}

	return &ServerResponse{
		Status:     values.Success,
		Message:    "categories fetched",
		StatusCode: util.StatusCode(values.Success),
		Data:       categories,
	}
}
