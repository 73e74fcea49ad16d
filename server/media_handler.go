package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"NovaStream/logger"
	"NovaStream/storage"
)

// MediaHandler streams a stored video or avatar.
func (h *APIHandler) MediaHandler(w http.ResponseWriter, r *http.Request) {
	ref, ok := storage.CleanRef(strings.TrimPrefix(r.URL.Path, storage.MediaRoute))
	if !ok {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	object, contentType, err := h.app.OpenMedia(r.Context(), ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		internalError(w, "media", err)
		return
	}
	defer object.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000") // 缓存一年
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, object); err != nil {
		logger.Warn("[Media] error serving file", logger.String("ref", ref), logger.ErrorField(err))
	}
}

// NavigationHandler returns the current view.
func (h *APIHandler) NavigationHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Navigation())
}

// HomeHandler returns to the home grid.
func (h *APIHandler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Home())
}
