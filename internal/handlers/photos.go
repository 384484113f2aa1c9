package handlers

import (
	"net/http"

	"github.com/ray-u/bare-photos/internal/library"
	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/mediatypes"
)

// ListPhotos returns every photo matching ?filter= (all, image, raw) and,
// with ?favorites=1, only favorites.
func (h *Handlers) ListPhotos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := library.Options{
		Filter:        mediatypes.ParseFilter(q.Get("filter")),
		FavoritesOnly: q.Get("favorites") == "1" || q.Get("favorites") == "true",
	}

	listing, err := h.index.List(r.Context(), opts)
	if err != nil {
		logging.Error("ListPhotos failed: %v", err)
		http.Error(w, "failed to list photos", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, listing)
}
