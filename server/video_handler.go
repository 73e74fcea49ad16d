package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"NovaStream/core/app"
	"NovaStream/core/catalog"
	"NovaStream/model"

	"github.com/gorilla/mux"
)

// maxUploadMemory is the part of a multipart upload kept in memory; the rest
// spills to temp files.
const maxUploadMemory = 32 << 20

// SearchVideosHandler 搜索视频 (?q=)
func (h *APIHandler) SearchVideosHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Search(r.URL.Query().Get("q")))
}

// UploadVideoHandler accepts multipart fields file, title, description and
// category.
func (h *APIHandler) UploadVideoHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Video file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	video, err := h.app.Upload(r.Context(), app.UploadInput{
		Form: catalog.UploadForm{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Category:    r.FormValue("category"),
		},
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		Size:        header.Size,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrEmptyTitle) {
			http.Error(w, "Title is required", http.StatusBadRequest)
			return
		}
		internalError(w, "upload", err)
		return
	}
	if video == nil {
		http.Error(w, "Not signed in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

// SuggestRequest names the picked file.
type SuggestRequest struct {
	FileName string `json:"fileName"`
}

// SuggestResponse is prefilled upload metadata.
type SuggestResponse struct {
	Suggestion model.Suggestion `json:"suggestion"`
	Fallback   bool             `json:"fallback"`
}

// SuggestHandler proposes title, description and category for a file name.
func (h *APIHandler) SuggestHandler(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileName == "" {
		http.Error(w, "fileName is required", http.StatusBadRequest)
		return
	}
	suggestion, fallback := h.app.Suggest(r.Context(), req.FileName)
	writeJSON(w, http.StatusOK, SuggestResponse{Suggestion: suggestion, Fallback: fallback})
}

// GetVideoHandler 获取单个视频
func (h *APIHandler) GetVideoHandler(w http.ResponseWriter, r *http.Request) {
	video := h.app.Video(mux.Vars(r)["id"])
	if video == nil {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// WatchVideoHandler counts a view and opens the player.
func (h *APIHandler) WatchVideoHandler(w http.ResponseWriter, r *http.Request) {
	video, err := h.app.WatchVideo(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		internalError(w, "view", err)
		return
	}
	if video == nil {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, video)
}

// RelatedVideosHandler lists the recommended rail.
func (h *APIHandler) RelatedVideosHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Related(mux.Vars(r)["id"]))
}

// LikeVideoHandler toggles the like of the session user.
func (h *APIHandler) LikeVideoHandler(w http.ResponseWriter, r *http.Request) {
	result, ok, err := h.app.ToggleLike(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		internalError(w, "like", err)
		return
	}
	if !ok {
		http.Error(w, "Video not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
