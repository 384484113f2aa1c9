package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ray-u/bare-photos/internal/favorites"
	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/safepath"
)

// FavoriteResponse is returned by SetFavorite.
type FavoriteResponse struct {
	OK       bool   `json:"ok"`
	Path     string `json:"path"`
	Favorite bool   `json:"favorite"`
}

// SetFavorite marks or unmarks one photo. Body: {"path": "...", "favorite": bool};
// favorite defaults to true when absent or null.
func (h *Handlers) SetFavorite(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeObject(w, r)
	if !ok {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	var raw string
	if p, ok := payload["path"]; ok {
		// Non-string paths resolve to nothing and yield 404.
		_ = json.Unmarshal(p, &raw)
	}

	favorite := true
	if v, ok := payload["favorite"]; ok {
		favorite = truthy(v, true)
	}

	res, err := safepath.ResolveAndConfirm(h.index.Root(), raw)
	if err != nil {
		logging.Debug("SetFavorite: %v", err)
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if err := favorites.SetFavorite(r.Context(), h.index.Favorites(), res.Rel, favorite); err != nil {
		logging.Error("SetFavorite %s: %v", res.Rel, err)
		http.Error(w, "failed to save favorite", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, FavoriteResponse{OK: true, Path: res.Rel, Favorite: favorite})
}

// truthy interprets a loosely typed JSON flag: false, 0, "", "0", empty
// arrays and empty objects are false. null yields def.
func truthy(raw json.RawMessage, def bool) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	switch t := v.(type) {
	case nil:
		return def
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "" && t != "0"
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	default:
		return def
	}
}
