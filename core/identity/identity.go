package identity

import (
	"context"
	"strings"

	"NovaStream/core/auth"
	"NovaStream/core/catalog"
	"NovaStream/core/state"
	"NovaStream/logger"
	"NovaStream/model"
)

// Manager owns the session user and the per-author aggregates.
type Manager struct {
	store   *state.Store
	catalog *catalog.Manager
	auth    auth.Authenticator
}

// NewManager creates an identity manager. A nil authenticator falls back to
// auth.StubAuthenticator.
func NewManager(store *state.Store, cat *catalog.Manager, authenticator auth.Authenticator) *Manager {
	if authenticator == nil {
		authenticator = auth.StubAuthenticator{}
	}
	return &Manager{store: store, catalog: cat, auth: authenticator}
}

// Current returns the session user, or nil when anonymous.
func (m *Manager) Current() *model.User {
	return m.store.User
}

// CurrentUsername returns the session username, or "".
func (m *Manager) CurrentUsername() string {
	if m.store.User == nil {
		return ""
	}
	return m.store.User.Username
}

// Login opens a session for username. A stats entry with the default avatar
// is created the first time a username is seen.
func (m *Manager) Login(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if err := m.auth.Authenticate(ctx, username, password); err != nil {
		return nil, err
	}

	m.store.User = model.NewUser(username)
	m.ensureAuthor(username)

	if err := m.store.Persist(ctx, state.SlotUser, state.SlotAuthorStats); err != nil {
		return nil, err
	}
	logger.Info("[Identity] signed in", logger.String("username", username))
	return m.store.User, nil
}

// Logout clears the session user and its persisted slot.
func (m *Manager) Logout(ctx context.Context) error {
	if m.store.User == nil {
		return nil
	}
	username := m.store.User.Username
	m.store.User = nil
	if err := m.store.Persist(ctx, state.SlotUser); err != nil {
		return err
	}
	logger.Info("[Identity] signed out", logger.String("username", username))
	return nil
}

// ToggleSubscribe follows or unfollows author depending on current membership.
// Subscribing to yourself, or doing anything while anonymous, is a no-op.
func (m *Manager) ToggleSubscribe(ctx context.Context, author string) (bool, error) {
	user := m.store.User
	if user == nil || author == "" || author == user.Username {
		return false, nil
	}

	var subscribed bool
	user.Subscriptions, subscribed = model.Toggle(user.Subscriptions, author)

	stat := m.ensureAuthor(author)
	if subscribed {
		stat.SubscriberCount++
	} else if stat.SubscriberCount > 0 {
		stat.SubscriberCount--
	}
	m.store.AuthorStats[author] = stat

	if err := m.store.Persist(ctx, state.SlotUser, state.SlotAuthorStats); err != nil {
		return subscribed, err
	}
	logger.Info("[Identity] subscription toggled",
		logger.String("author", author),
		logger.Bool("subscribed", subscribed),
		logger.Int64("subscribers", stat.SubscriberCount))
	return subscribed, nil
}

// ToggleLikeVideo flips videoID in the liked set and forwards the same
// outcome to the catalog like counter.
func (m *Manager) ToggleLikeVideo(ctx context.Context, videoID string) (bool, error) {
	user := m.store.User
	if user == nil || !m.catalog.Exists(videoID) {
		return false, nil
	}

	var liked bool
	user.LikedVideos, liked = model.Toggle(user.LikedVideos, videoID)
	if err := m.store.Persist(ctx, state.SlotUser); err != nil {
		return liked, err
	}
	if err := m.catalog.ToggleLike(ctx, videoID, liked); err != nil {
		return liked, err
	}
	return liked, nil
}

// ChangeAvatar sets the session user's avatar. The author stats entry is the
// only place avatars are stored.
func (m *Manager) ChangeAvatar(ctx context.Context, image string) error {
	user := m.store.User
	if user == nil || image == "" {
		return nil
	}
	stat := m.ensureAuthor(user.Username)
	stat.Avatar = image
	m.store.AuthorStats[user.Username] = stat
	if err := m.store.Persist(ctx, state.SlotAuthorStats); err != nil {
		return err
	}
	logger.Info("[Identity] avatar changed", logger.String("username", user.Username))
	return nil
}

// Avatar resolves the avatar for username.
func (m *Manager) Avatar(username string) string {
	if stat, ok := m.store.AuthorStats[username]; ok && stat.Avatar != "" {
		return stat.Avatar
	}
	return model.DefaultAvatar(username)
}

// Stats returns the aggregate for author (zero value if unknown).
func (m *Manager) Stats(author string) model.AuthorStat {
	return m.store.AuthorStats[author]
}

// IsSubscribed reports whether the session user follows author.
func (m *Manager) IsSubscribed(author string) bool {
	return m.store.User != nil && m.store.User.IsSubscribed(author)
}

// View renders the session user with the resolved avatar, or nil.
func (m *Manager) View() *model.UserView {
	u := m.store.User.Clone()
	if u == nil {
		return nil
	}
	return &model.UserView{
		Username:      u.Username,
		Avatar:        m.Avatar(u.Username),
		Subscriptions: u.Subscriptions,
		LikedVideos:   u.LikedVideos,
		Playlists:     u.Playlists,
	}
}

// Profile renders a creator page for author.
func (m *Manager) Profile(author string) model.ProfileView {
	stat := m.store.AuthorStats[author]
	return model.ProfileView{
		Author:          author,
		Avatar:          m.Avatar(author),
		SubscriberCount: stat.SubscriberCount,
		VideoCount:      stat.VideoCount,
		IsSelf:          author == m.CurrentUsername(),
		Subscribed:      m.IsSubscribed(author),
		Videos:          m.catalog.ByAuthor(author),
	}
}

func (m *Manager) ensureAuthor(name string) model.AuthorStat {
	stat, ok := m.store.AuthorStats[name]
	if !ok {
		stat = model.AuthorStat{Avatar: model.DefaultAvatar(name)}
		m.store.AuthorStats[name] = stat
	}
	return stat
}

// HasLiked reports whether the session user liked videoID.
func (m *Manager) HasLiked(videoID string) bool {
	return m.store.User != nil && m.store.User.HasLiked(videoID)
}
