package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ray-u/bare-photos/internal/logging"
)

// DeleteResponse is returned by DeletePhotos. OK is false when any path failed.
type DeleteResponse struct {
	OK      bool     `json:"ok"`
	Deleted []string `json:"deleted"`
	Failed  []string `json:"failed"`
}

// DeletePhotos removes the photos in {"paths": [...]}. Non-string entries
// are ignored; a request with no string paths is rejected.
func (h *Handlers) DeletePhotos(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeObject(w, r)
	if !ok {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	var values []interface{}
	if raw, ok := payload["paths"]; ok {
		if err := json.Unmarshal(raw, &values); err != nil {
			http.Error(w, "paths must be array", http.StatusBadRequest)
			return
		}
	}

	paths := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			paths = append(paths, s)
		}
	}
	if len(paths) == 0 {
		http.Error(w, "no paths", http.StatusBadRequest)
		return
	}

	result := h.index.Delete(r.Context(), paths)
	if !result.OK() {
		logging.Warn("DeletePhotos: %d deleted, %d failed", len(result.Deleted), len(result.Failed))
	}

	writeJSON(w, http.StatusOK, DeleteResponse{
		OK:      result.OK(),
		Deleted: result.Deleted,
		Failed:  result.Failed,
	})
}
