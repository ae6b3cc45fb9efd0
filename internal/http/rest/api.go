package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/civicfix/civicfix_client/config"
	"github.com/civicfix/civicfix_client/internal/catalog"
	"github.com/civicfix/civicfix_client/internal/store"
	"github.com/civicfix/civicfix_client/util/storage"
	"github.com/civicfix/civicfix_client/util/values"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultIdleTimeout  = time.Minute
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

// API is the presentation facade: read-only snapshots plus the
// mutation/fetch entry points. The UI layer binds here; no business
// logic lives in the handlers.
type API struct {
	Server  *http.Server
	Config  *config.Config
	Store   *store.Store
	Catalog *catalog.Catalog
	Images  *storage.ImageStore
	Log     *zap.Logger
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(RequestTracing)

	mux.Get("/healthz",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		},
	)

	mux.Mount("/complaints", api.ComplaintRoutes())
	mux.Mount("/draft", api.DraftRoutes())
	mux.Mount("/pending", api.PendingRoutes())
	mux.Mount("/categories", api.CategoryRoutes())

	return mux
}

func (a *API) Shutdown() error {
	err := a.Server.Shutdown(context.Background())
	if err != nil {
		return err
	}
	return nil
}
