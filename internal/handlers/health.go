package handlers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/ray-u/bare-photos/internal/filesystem"
	"github.com/ray-u/bare-photos/internal/media"
	"github.com/ray-u/bare-photos/internal/startup"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	PhotoRoot    bool   `json:"photoRoot"`
	Exiftool     bool   `json:"exiftool"`
	Vips         bool   `json:"vips"`
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports whether the photo root is reachable. A missing root
// answers 503 with status "degraded".
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	rootOK := false
	if info, err := h.statRoot(); err == nil && info.IsDir() {
		rootOK = true
	}

	response := HealthResponse{
		Status:       "healthy",
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		PhotoRoot:    rootOK,
		Exiftool:     h.exiftoolAvailable,
		Vips:         media.IsVipsAvailable(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	status := http.StatusOK
	if !rootOK {
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, http.StatusOK, startup.GetBuildInfo())
}

func (h *Handlers) statRoot() (os.FileInfo, error) {
	return filesystem.StatWithRetry(h.index.Root(), h.retry)
}
