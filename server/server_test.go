package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"NovaStream/core/app"
	"NovaStream/core/auth"
	"NovaStream/core/hub"
	"NovaStream/core/navigation"
	"NovaStream/model"
	"NovaStream/repository"
	"NovaStream/storage"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	t     *testing.T
	hub   *hub.Hub
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	media, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "media"))
	require.NoError(t, err)

	h := hub.New()
	go h.Run()
	t.Cleanup(h.Stop)

	a, err := app.New(context.Background(), app.Options{
		Repo:      repository.NewMemorySlotRepository(),
		KeyPrefix: "novastream_",
		Media:     media,
		Hub:       h,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(NewAPIHandler(a, auth.NewTokenIssuer("test-secret", time.Hour), h)))
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, t: t, hub: h}
}

func (s *testServer) do(method, path string, body io.Reader, contentType string) *http.Response {
	s.t.Helper()
	req, err := http.NewRequest(method, s.URL+path, body)
	require.NoError(s.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	s.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *testServer) doJSON(method, path string, payload interface{}) *http.Response {
	s.t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(s.t, err)
		body = bytes.NewReader(data)
	}
	return s.do(method, path, body, "application/json")
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func (s *testServer) login(username string) {
	s.t.Helper()
	resp := s.doJSON(http.MethodPost, "/api/auth/login", LoginRequest{Username: username, Password: "pw"})
	require.Equal(s.t, http.StatusOK, resp.StatusCode)
	var out LoginResponse
	decode(s.t, resp, &out)
	require.NotEmpty(s.t, out.Token)
	require.Equal(s.t, username, out.User.Username)
	s.token = out.Token
}

func (s *testServer) upload(title, fileName, content string) *http.Response {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(s.t, mw.WriteField("title", title))
	require.NoError(s.t, mw.WriteField("category", "Coding"))
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(s.t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(s.t, err)
	require.NoError(s.t, mw.Close())
	return s.do(http.MethodPost, "/api/videos", &buf, mw.FormDataContentType())
}

func TestLoginUploadViewLike(t *testing.T) {
	s := newTestServer(t)
	s.login("alice")

	resp := s.upload("Demo", "demo.mp4", "frames")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var video model.VideoRecord
	decode(t, resp, &video)
	assert.Equal(t, "Demo", video.Title)
	assert.Equal(t, "alice", video.Author)
	assert.Equal(t, "Coding", video.Category)

	for i := 0; i < 2; i++ {
		resp = s.do(http.MethodPost, "/api/videos/"+video.ID+"/view", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	decode(t, resp, &video)
	assert.Equal(t, int64(2), video.Views)

	resp = s.do(http.MethodGet, "/api/navigation", nil, "")
	var view navigation.View
	decode(t, resp, &view)
	assert.Equal(t, navigation.View{Mode: navigation.ModeVideo, VideoID: video.ID}, view)

	var like app.LikeResult
	resp = s.do(http.MethodPost, "/api/videos/"+video.ID+"/like", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &like)
	assert.Equal(t, app.LikeResult{Liked: true, Likes: 1}, like)

	resp = s.do(http.MethodPost, "/api/videos/"+video.ID+"/like", nil, "")
	decode(t, resp, &like)
	assert.Equal(t, app.LikeResult{Liked: false, Likes: 0}, like)

	// media is served back
	resp = s.do(http.MethodGet, video.URL, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "frames", string(data))
}

func TestSearchAndGet(t *testing.T) {
	s := newTestServer(t)
	s.login("alice")
	require.Equal(t, http.StatusCreated, s.upload("Go tutorial", "go.mp4", "x").StatusCode)
	require.Equal(t, http.StatusCreated, s.upload("Cooking", "cook.mp4", "x").StatusCode)

	var videos []model.VideoRecord
	decode(t, s.do(http.MethodGet, "/api/videos?q=coding", nil, ""), &videos)
	assert.Len(t, videos, 2) // both uploaded with category Coding

	decode(t, s.do(http.MethodGet, "/api/videos?q=cook", nil, ""), &videos)
	require.Len(t, videos, 1)

	var related []model.VideoRecord
	decode(t, s.do(http.MethodGet, "/api/videos/"+videos[0].ID+"/related", nil, ""), &related)
	require.Len(t, related, 1)
	assert.Equal(t, "Go tutorial", related[0].Title)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/videos/missing", nil, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/videos/missing/view", nil, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/videos/missing/like", nil, "").StatusCode)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/session", nil, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, s.upload("Demo", "demo.mp4", "x").StatusCode)

	s.token = "not-a-token"
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/playlists", nil, "").StatusCode)
}

func TestLoginValidation(t *testing.T) {
	s := newTestServer(t)
	resp := s.doJSON(http.MethodPost, "/api/auth/login", LoginRequest{Username: "alice"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/auth/login", strings.NewReader("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	s := newTestServer(t)
	s.login("alice")

	resp := s.do(http.MethodGet, "/api/session", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user model.UserView
	decode(t, resp, &user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, model.DefaultAvatar("alice"), user.Avatar)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPost, "/api/auth/logout", nil, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/session", nil, "").StatusCode)
}

func TestTokenOfReplacedSessionIsRejected(t *testing.T) {
	s := newTestServer(t)
	s.login("alice")
	aliceToken := s.token
	s.login("bob")

	s.token = aliceToken
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/session", nil, "").StatusCode)
}

func TestUploadValidation(t *testing.T) {
	s := newTestServer(t)
	s.login("alice")

	assert.Equal(t, http.StatusBadRequest, s.upload("   ", "demo.mp4", "x").StatusCode)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "No file"))
	require.NoError(t, mw.Close())
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/api/videos", &buf, mw.FormDataContentType()).StatusCode)
}

func TestSuggestFallsBackWithoutKey(t *testing.T) {
	s := newTestServer(t)
	s.login("alice")

	resp := s.doJSON(http.MethodPost, "/api/videos/suggest", SuggestRequest{FileName: "beach.day.mp4"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out SuggestResponse
	decode(t, resp, &out)
	assert.True(t, out.Fallback)
	assert.Equal(t, "beach", out.Suggestion.Title)

	resp = s.doJSON(http.MethodPost, "/api/videos/suggest", SuggestRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthorsAndAvatar(t *testing.T) {
	s := newTestServer(t)
	s.login("alice")

	resp := s.do(http.MethodPost, "/api/authors/bob/subscribe", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sub app.SubscribeResult
	decode(t, resp, &sub)
	assert.Equal(t, app.SubscribeResult{Subscribed: true, SubscriberCount: 1}, sub)

	var profile model.ProfileView
	decode(t, s.do(http.MethodGet, "/api/authors/bob", nil, ""), &profile)
	assert.True(t, profile.Subscribed)
	assert.False(t, profile.IsSelf)

	resp = s.doJSON(http.MethodPut, "/api/me/avatar", AvatarRequest{Avatar: "https://img.example/a.png"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user model.UserView
	decode(t, resp, &user)
	assert.Equal(t, "https://img.example/a.png", user.Avatar)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "me.png")
	require.NoError(t, err)
	fw.Write([]byte("png"))
	require.NoError(t, mw.Close())
	resp = s.do(http.MethodPut, "/api/me/avatar", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &user)
	assert.True(t, strings.HasPrefix(user.Avatar, "/media/avatars/"))

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, user.Avatar, nil, "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, s.doJSON(http.MethodPut, "/api/me/avatar", AvatarRequest{}).StatusCode)
}

func TestPlaylistRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login("alice")
	var video model.VideoRecord
	decode(t, s.upload("Demo", "demo.mp4", "x"), &video)

	resp := s.doJSON(http.MethodPost, "/api/playlists", CreatePlaylistRequest{Name: "Mix", VideoID: video.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var pl model.Playlist
	decode(t, resp, &pl)
	assert.Equal(t, []string{video.ID}, pl.VideoIDs)

	assert.Equal(t, http.StatusBadRequest,
		s.doJSON(http.MethodPost, "/api/playlists", CreatePlaylistRequest{Name: " ", VideoID: video.ID}).StatusCode)

	var view model.PlaylistView
	decode(t, s.do(http.MethodGet, "/api/playlists/"+pl.ID, nil, ""), &view)
	require.Len(t, view.Videos, 1)

	resp = s.do(http.MethodPost, "/api/playlists/"+pl.ID+"/videos/"+video.ID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &pl)
	assert.Empty(t, pl.VideoIDs)

	var list []model.Playlist
	decode(t, s.do(http.MethodGet, "/api/playlists", nil, ""), &list)
	require.Len(t, list, 1)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/playlists/missing", nil, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPost, "/api/playlists/missing/videos/x", nil, "").StatusCode)
}

func TestMediaRejectsBadReferences(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/media/videos/missing.mp4", nil, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/media/other/file", nil, "").StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodOptions, "/api/videos", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestWebSocketReceivesEvents(t *testing.T) {
	s := newTestServer(t)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(s.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	s.login("alice")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var evt hub.Event
	require.NoError(t, json.Unmarshal(msg, &evt))
	assert.Equal(t, hub.EventSession, evt.Type)
}
