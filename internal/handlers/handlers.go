package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ray-u/bare-photos/internal/filesystem"
	"github.com/ray-u/bare-photos/internal/library"
	"github.com/ray-u/bare-photos/internal/logging"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Handlers serves the photo API for one Index.
type Handlers struct {
	index             *library.Index
	retry             filesystem.RetryConfig
	exiftoolAvailable bool
	startTime         time.Time
}

// New creates Handlers backed by idx. exiftoolAvailable is reported by the
// health check.
func New(idx *library.Index, exiftoolAvailable bool) *Handlers {
	return &Handlers{
		index:             idx,
		retry:             filesystem.DefaultRetryConfig(),
		exiftoolAvailable: exiftoolAvailable,
		startTime:         time.Now(),
	}
}

// MetricsHandler returns the Prometheus scrape handler
func (h *Handlers) MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// writeJSON writes v with the given status. Slashes and non-ASCII text are
// left unescaped so paths read naturally in responses.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// decodeObject reads a JSON object body. A body that is not an object
// (including null) is rejected.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, bool) {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, false
	}
	return payload, payload != nil
}

func requestPath(r *http.Request) string {
	q := r.URL.Query()
	if p := q.Get("path"); p != "" {
		return p
	}
	return q.Get("name")
}
