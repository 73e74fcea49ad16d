package catalog

import (
	"context"
	"strings"

	"NovaStream/core/state"
	"NovaStream/logger"
	"NovaStream/model"

	"github.com/google/uuid"
)

// DefaultUploadedAt is stamped on uploads that carry no display time.
const DefaultUploadedAt = "Just now"

// Manager owns the ordered video catalog inside the Store.
type Manager struct {
	store *state.Store
	newID func() string
}

// NewManager creates a catalog manager over store.
func NewManager(store *state.Store) *Manager {
	return &Manager{store: store, newID: uuid.NewString}
}

// Upload prepends record to the catalog as authored by authorUsername and
// bumps that author's videoCount. An empty author (no session) is a no-op.
func (m *Manager) Upload(ctx context.Context, record model.VideoRecord, authorUsername string) (*model.VideoRecord, error) {
	if authorUsername == "" {
		logger.Debug("[Catalog] upload ignored, not signed in")
		return nil, nil
	}

	record = record.Clone()
	if record.ID == "" || m.store.FindVideo(record.ID) >= 0 {
		record.ID = m.newID()
	}
	record.Author = authorUsername
	record.Views = 0
	record.Likes = 0
	if record.UploadedAt == "" {
		record.UploadedAt = DefaultUploadedAt
	}
	if record.Qualities == nil {
		record.Qualities = []model.Quality{}
	}

	videos := make([]model.VideoRecord, 0, len(m.store.Videos)+1)
	videos = append(videos, record)
	m.store.Videos = append(videos, m.store.Videos...)

	stat := m.store.AuthorStats[authorUsername]
	stat.VideoCount++
	m.store.AuthorStats[authorUsername] = stat

	if err := m.store.Persist(ctx, state.SlotVideos, state.SlotAuthorStats); err != nil {
		return nil, err
	}

	logger.Info("[Catalog] video uploaded",
		logger.String("id", record.ID),
		logger.String("author", authorUsername),
		logger.String("title", record.Title))
	out := record.Clone()
	return &out, nil
}

// RecordView increments the view counter. Every call counts.
func (m *Manager) RecordView(ctx context.Context, videoID string) error {
	i := m.store.FindVideo(videoID)
	if i < 0 {
		return nil
	}
	m.store.Videos[i].Views++
	return m.store.Persist(ctx, state.SlotVideos)
}

// ToggleLike adjusts likes by +1 when liked, -1 otherwise, never below zero.
func (m *Manager) ToggleLike(ctx context.Context, videoID string, liked bool) error {
	i := m.store.FindVideo(videoID)
	if i < 0 {
		return nil
	}
	v := &m.store.Videos[i]
	if liked {
		v.Likes++
	} else if v.Likes > 0 {
		v.Likes--
	}
	return m.store.Persist(ctx, state.SlotVideos)
}

// Search matches query case-insensitively against title or category.
// An empty query returns the whole catalog.
func (m *Manager) Search(query string) []model.VideoRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return model.CloneVideos(m.store.Videos)
	}
	out := []model.VideoRecord{}
	for _, v := range m.store.Videos {
		if strings.Contains(strings.ToLower(v.Title), q) || strings.Contains(strings.ToLower(v.Category), q) {
			out = append(out, v.Clone())
		}
	}
	return out
}

// Get returns a copy of the video, or nil.
func (m *Manager) Get(videoID string) *model.VideoRecord {
	i := m.store.FindVideo(videoID)
	if i < 0 {
		return nil
	}
	v := m.store.Videos[i].Clone()
	return &v
}

// Exists reports whether videoID is in the catalog.
func (m *Manager) Exists(videoID string) bool {
	return m.store.FindVideo(videoID) >= 0
}

// ByAuthor lists an author's uploads, newest first.
func (m *Manager) ByAuthor(author string) []model.VideoRecord {
	return m.filter(func(v model.VideoRecord) bool { return v.Author == author })
}

// ByIDs lists the catalog videos whose id is in ids, in catalog order.
// Unknown ids are skipped.
func (m *Manager) ByIDs(ids []string) []model.VideoRecord {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return m.filter(func(v model.VideoRecord) bool {
		_, ok := set[v.ID]
		return ok
	})
}

// Related lists every video except excludeID.
func (m *Manager) Related(excludeID string) []model.VideoRecord {
	return m.filter(func(v model.VideoRecord) bool { return v.ID != excludeID })
}

func (m *Manager) filter(keep func(model.VideoRecord) bool) []model.VideoRecord {
	out := []model.VideoRecord{}
	for _, v := range m.store.Videos {
		if keep(v) {
			out = append(out, v.Clone())
		}
	}
	return out
}
