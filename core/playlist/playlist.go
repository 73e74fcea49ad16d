package playlist

import (
	"context"
	"strings"
	"time"

	"NovaStream/core/state"
	"NovaStream/logger"
	"NovaStream/model"

	"github.com/google/uuid"
)

// CreatedAtLayout renders playlist creation dates as M/D/YYYY.
const CreatedAtLayout = "1/2/2006"

// Manager manages the session user's playlists. Playlists live inside the
// user record, so every change persists the user slot only.
type Manager struct {
	store *state.Store
	newID func() string
	now   func() time.Time
}

// NewManager creates a playlist manager.
func NewManager(store *state.Store) *Manager {
	return &Manager{store: store, newID: uuid.NewString, now: time.Now}
}

// Create appends a playlist seeded with initialVideoID. Blank names and
// anonymous sessions are ignored.
func (m *Manager) Create(ctx context.Context, name, initialVideoID string) (*model.Playlist, error) {
	user := m.store.User
	name = strings.TrimSpace(name)
	if user == nil || name == "" {
		return nil, nil
	}

	ids := []string{}
	if initialVideoID != "" {
		ids = append(ids, initialVideoID)
	}
	pl := model.Playlist{
		ID:        m.newID(),
		Name:      name,
		VideoIDs:  ids,
		CreatedAt: m.now().Format(CreatedAtLayout),
	}
	user.Playlists = append(user.Playlists, pl)

	if err := m.store.Persist(ctx, state.SlotUser); err != nil {
		return nil, err
	}
	logger.Info("[Playlist] created",
		logger.String("id", pl.ID),
		logger.String("name", pl.Name))
	out := pl.Clone()
	return &out, nil
}

// ToggleMembership removes videoID from the playlist if present, otherwise
// appends it. Unknown playlists are ignored.
func (m *Manager) ToggleMembership(ctx context.Context, playlistID, videoID string) (*model.Playlist, error) {
	user := m.store.User
	if user == nil {
		return nil, nil
	}
	i := m.index(playlistID)
	if i < 0 {
		return nil, nil
	}

	pl := &user.Playlists[i]
	var added bool
	pl.VideoIDs, added = model.Toggle(pl.VideoIDs, videoID)

	if err := m.store.Persist(ctx, state.SlotUser); err != nil {
		return nil, err
	}
	logger.Debug("[Playlist] membership toggled",
		logger.String("playlist", playlistID),
		logger.String("video", videoID),
		logger.Bool("added", added))
	out := pl.Clone()
	return &out, nil
}

// List returns copies of the session user's playlists.
func (m *Manager) List() []model.Playlist {
	user := m.store.User
	if user == nil {
		return []model.Playlist{}
	}
	out := make([]model.Playlist, len(user.Playlists))
	for i, pl := range user.Playlists {
		out[i] = pl.Clone()
	}
	return out
}

// Get returns a copy of the playlist, or nil.
func (m *Manager) Get(playlistID string) *model.Playlist {
	i := m.index(playlistID)
	if i < 0 {
		return nil
	}
	pl := m.store.User.Playlists[i].Clone()
	return &pl
}

func (m *Manager) index(playlistID string) int {
	if m.store.User == nil {
		return -1
	}
	for i := range m.store.User.Playlists {
		if m.store.User.Playlists[i].ID == playlistID {
			return i
		}
	}
	return -1
}
