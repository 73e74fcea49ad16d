package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"NovaStream/model"

	"github.com/gorilla/mux"
)

// AuthorProfileHandler returns a creator page and opens it.
func (h *APIHandler) AuthorProfileHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Profile(mux.Vars(r)["name"]))
}

// SubscribeHandler toggles the subscription to an author.
func (h *APIHandler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.app.ToggleSubscribe(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		internalError(w, "subscribe", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// AvatarRequest sets the avatar to an existing image URL or data URL.
type AvatarRequest struct {
	Avatar string `json:"avatar"`
}

// ChangeAvatarHandler accepts a multipart "image" file or a JSON body.
func (h *APIHandler) ChangeAvatarHandler(w http.ResponseWriter, r *http.Request) {
	var (
		user *model.UserView
		err  error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, ferr := r.FormFile("image")
		if ferr != nil {
			http.Error(w, "Image file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()
		user, err = h.app.UploadAvatar(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	} else {
		var req AvatarRequest
		if derr := json.NewDecoder(r.Body).Decode(&req); derr != nil || req.Avatar == "" {
			http.Error(w, "avatar is required", http.StatusBadRequest)
			return
		}
		user, err = h.app.ChangeAvatar(r.Context(), req.Avatar)
	}

	if err != nil {
		internalError(w, "avatar", err)
		return
	}
	if user == nil {
		http.Error(w, "Not signed in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
