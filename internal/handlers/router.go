package handlers

import (
	"net/http"
	"strings"

	"github.com/ray-u/bare-photos/internal/middleware"

	"github.com/gorilla/mux"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Auth middleware.AuthConfig
	// StaticDir is served at / when set.
	StaticDir string
}

// NewRouter registers the API, probes and optional static files. Probes are
// outside basic auth; everything under /api requires it when configured.
func NewRouter(h *Handlers, cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet, http.MethodHead).Name("healthz")
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead).Name("livez")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.BasicAuth(cfg.Auth))
	api.HandleFunc("/photos", h.ListPhotos).Methods(http.MethodGet).Name("photos")
	api.HandleFunc("/file", h.ServeFile).Methods(http.MethodGet, http.MethodHead).Name("file")
	api.HandleFunc("/thumb", h.ServeThumbnail).Methods(http.MethodGet, http.MethodHead).Name("thumb")
	api.HandleFunc("/favorite", h.SetFavorite).Methods(http.MethodPost).Name("favorite")
	api.HandleFunc("/delete", h.DeletePhotos).Methods(http.MethodPost).Name("delete")
	api.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet).Name("version")

	if cfg.StaticDir != "" {
		static := middleware.BasicAuth(cfg.Auth)(http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/").
			MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
				return !strings.HasPrefix(req.URL.Path, "/api/")
			}).
			Handler(static).
			Name("static")
	}

	return r
}
