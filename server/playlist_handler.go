package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// CreatePlaylistRequest 创建播放列表请求
type CreatePlaylistRequest struct {
	Name    string `json:"name"`
	VideoID string `json:"videoId"`
}

// ListPlaylistsHandler 获取当前用户的播放列表
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Playlists())
}

// CreatePlaylistHandler 创建播放列表
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req CreatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pl, err := h.app.CreatePlaylist(r.Context(), req.Name, req.VideoID)
	if err != nil {
		internalError(w, "create playlist", err)
		return
	}
	if pl == nil {
		http.Error(w, "Playlist name is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, pl)
}

// GetPlaylistHandler returns a playlist with its videos and opens it.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	view := h.app.OpenPlaylist(mux.Vars(r)["id"])
	if view == nil {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// TogglePlaylistVideoHandler adds or removes a video.
func (h *APIHandler) TogglePlaylistVideoHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pl, err := h.app.TogglePlaylistVideo(r.Context(), vars["id"], vars["videoId"])
	if err != nil {
		internalError(w, "toggle playlist video", err)
		return
	}
	if pl == nil {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, pl)
}
