package state

import (
	"context"
	"encoding/json"
	"fmt"

	"NovaStream/logger"
	"NovaStream/model"
	"NovaStream/repository"
)

// Slot names one independently persisted part of the state.
type Slot string

const (
	SlotUser        Slot = "user"
	SlotVideos      Slot = "videos"
	SlotAuthorStats Slot = "author_stats"
)

// Store is the in-memory state tree mirrored to a SlotRepository. It holds
// no lock: callers serialise access (see core/app).
type Store struct {
	repo   repository.SlotRepository
	prefix string

	User        *model.User
	Videos      []model.VideoRecord // newest first
	AuthorStats model.AuthorStats
}

// NewStore creates an empty store. prefix is prepended to every slot key.
func NewStore(repo repository.SlotRepository, prefix string) *Store {
	return &Store{
		repo:        repo,
		prefix:      prefix,
		Videos:      []model.VideoRecord{},
		AuthorStats: model.AuthorStats{},
	}
}

func (s *Store) key(slot Slot) string {
	return s.prefix + string(slot)
}

// Load reads all three slots. A missing or unparsable slot is treated as
// absent; only repository read failures are returned.
func (s *Store) Load(ctx context.Context) error {
	s.User = nil
	s.Videos = []model.VideoRecord{}
	s.AuthorStats = model.AuthorStats{}

	var user model.User
	found, err := s.read(ctx, SlotUser, &user)
	if err != nil {
		return err
	}
	if found && user.Username != "" {
		user.Normalize()
		s.User = &user
	}

	var videos []model.VideoRecord
	if found, err = s.read(ctx, SlotVideos, &videos); err != nil {
		return err
	}
	if found && videos != nil {
		s.Videos = videos
	}

	var stats model.AuthorStats
	if found, err = s.read(ctx, SlotAuthorStats, &stats); err != nil {
		return err
	}
	if found && stats != nil {
		s.AuthorStats = stats
	}

	logger.Info("[Store] state loaded",
		logger.Bool("signedIn", s.User != nil),
		logger.Int("videos", len(s.Videos)),
		logger.Int("authors", len(s.AuthorStats)))
	return nil
}

func (s *Store) read(ctx context.Context, slot Slot, dst interface{}) (bool, error) {
	raw, ok, err := s.repo.Get(ctx, s.key(slot))
	if err != nil {
		return false, fmt.Errorf("failed to load %s slot: %w", slot, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Warn("[Store] malformed slot treated as absent",
			logger.String("slot", string(slot)),
			logger.ErrorField(err))
		return false, nil
	}
	return true, nil
}

// Persist writes the named slots in order. A nil User removes the user slot.
func (s *Store) Persist(ctx context.Context, slots ...Slot) error {
	for _, slot := range slots {
		if err := s.persistSlot(ctx, slot); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) persistSlot(ctx context.Context, slot Slot) error {
	var value interface{}
	switch slot {
	case SlotUser:
		if s.User == nil {
			if err := s.repo.Delete(ctx, s.key(slot)); err != nil {
				return fmt.Errorf("failed to clear user slot: %w", err)
			}
			return nil
		}
		value = s.User
	case SlotVideos:
		value = s.Videos
	case SlotAuthorStats:
		value = s.AuthorStats
	default:
		return fmt.Errorf("unknown slot %q", slot)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s slot: %w", slot, err)
	}
	if err := s.repo.Set(ctx, s.key(slot), data); err != nil {
		return fmt.Errorf("failed to persist %s slot: %w", slot, err)
	}
	return nil
}

// Snapshot is a deep copy of the state for read-only consumers.
type Snapshot struct {
	User        *model.User         `json:"user"`
	Videos      []model.VideoRecord `json:"videos"`
	AuthorStats model.AuthorStats   `json:"authorStats"`
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		User:        s.User.Clone(),
		Videos:      model.CloneVideos(s.Videos),
		AuthorStats: s.AuthorStats.Clone(),
	}
}

// FindVideo returns the index of videoID in the catalog, or -1.
func (s *Store) FindVideo(videoID string) int {
	for i := range s.Videos {
		if s.Videos[i].ID == videoID {
			return i
		}
	}
	return -1
}
