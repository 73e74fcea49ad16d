package identity

import (
	"context"
	"testing"

	"NovaStream/core/auth"
	"NovaStream/core/catalog"
	"NovaStream/core/state"
	"NovaStream/model"
	"NovaStream/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo    repository.SlotRepository
	store   *state.Store
	catalog *catalog.Manager
	ids     *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repository.NewMemorySlotRepository()
	store := state.NewStore(repo, "novastream_")
	require.NoError(t, store.Load(context.Background()))
	cat := catalog.NewManager(store)
	return &fixture{repo: repo, store: store, catalog: cat, ids: NewManager(store, cat, nil)}
}

func (f *fixture) login(t *testing.T, username string) {
	t.Helper()
	_, err := f.ids.Login(context.Background(), username, "pw")
	require.NoError(t, err)
}

func (f *fixture) upload(t *testing.T, title, author string) *model.VideoRecord {
	t.Helper()
	v, err := f.catalog.Upload(context.Background(), model.VideoRecord{Title: title}, author)
	require.NoError(t, err)
	return v
}

func TestLoginCreatesUserAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.ids.Login(ctx, " alice ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.Subscriptions)
	assert.Empty(t, user.LikedVideos)
	assert.Empty(t, user.Playlists)

	stat := f.store.AuthorStats["alice"]
	assert.Equal(t, model.AuthorStat{Avatar: model.DefaultAvatar("alice")}, stat)

	_, ok, err := f.repo.Get(ctx, "novastream_user")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoginRejectsEmptyCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ids.Login(ctx, "   ", "pw")
	assert.ErrorIs(t, err, auth.ErrEmptyCredentials)
	_, err = f.ids.Login(ctx, "alice", "")
	assert.ErrorIs(t, err, auth.ErrEmptyCredentials)
	assert.Nil(t, f.ids.Current())
}

func TestLoginKeepsExistingStats(t *testing.T) {
	f := newFixture(t)
	f.store.AuthorStats["alice"] = model.AuthorStat{SubscriberCount: 5, VideoCount: 2, Avatar: "custom.png"}

	f.login(t, "alice")
	assert.Equal(t, model.AuthorStat{SubscriberCount: 5, VideoCount: 2, Avatar: "custom.png"}, f.store.AuthorStats["alice"])
}

func TestLoginAsAnotherUserReplacesSession(t *testing.T) {
	f := newFixture(t)
	f.login(t, "alice")
	_, err := f.ids.ToggleSubscribe(context.Background(), "bob")
	require.NoError(t, err)

	f.login(t, "carol")
	assert.Equal(t, "carol", f.ids.CurrentUsername())
	assert.Empty(t, f.ids.Current().Subscriptions)
}

func TestLogoutDeletesPersistedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "alice")

	require.NoError(t, f.ids.Logout(ctx))
	assert.Nil(t, f.ids.Current())
	assert.Nil(t, f.ids.View())

	_, ok, err := f.repo.Get(ctx, "novastream_user")
	require.NoError(t, err)
	assert.False(t, ok)

	// stats survive logout
	assert.Contains(t, f.store.AuthorStats, "alice")

	// logging out twice is harmless
	require.NoError(t, f.ids.Logout(ctx))
}

func TestToggleSubscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "alice")

	subscribed, err := f.ids.ToggleSubscribe(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, subscribed)
	assert.True(t, f.ids.IsSubscribed("bob"))
	assert.Equal(t, int64(1), f.ids.Stats("bob").SubscriberCount)
	assert.Equal(t, model.DefaultAvatar("bob"), f.ids.Stats("bob").Avatar)

	subscribed, err = f.ids.ToggleSubscribe(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, subscribed)
	assert.False(t, f.ids.IsSubscribed("bob"))
	assert.Equal(t, int64(0), f.ids.Stats("bob").SubscriberCount)
}

func TestToggleSubscribeFloorsAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "alice")

	// subscription recorded locally but the counter was never raised
	f.store.User.Subscriptions = []string{"bob"}
	f.store.AuthorStats["bob"] = model.AuthorStat{}

	subscribed, err := f.ids.ToggleSubscribe(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, subscribed)
	assert.Equal(t, int64(0), f.ids.Stats("bob").SubscriberCount)
}

func TestToggleSubscribeNoops(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// anonymous
	subscribed, err := f.ids.ToggleSubscribe(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, subscribed)
	assert.NotContains(t, f.store.AuthorStats, "bob")

	// self
	f.login(t, "alice")
	subscribed, err = f.ids.ToggleSubscribe(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, subscribed)
	assert.Empty(t, f.ids.Current().Subscriptions)
	assert.Zero(t, f.ids.Stats("alice").SubscriberCount)
}

func TestToggleLikeVideoForwardsToCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "alice")
	v := f.upload(t, "Demo", "alice")

	liked, err := f.ids.ToggleLikeVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.True(t, f.ids.HasLiked(v.ID))
	assert.Equal(t, int64(1), f.catalog.Get(v.ID).Likes)

	liked, err = f.ids.ToggleLikeVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.False(t, f.ids.HasLiked(v.ID))
	assert.Equal(t, int64(0), f.catalog.Get(v.ID).Likes)
}

func TestToggleLikeVideoNoops(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.upload(t, "Demo", "bob")

	liked, err := f.ids.ToggleLikeVideo(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, f.catalog.Get(v.ID).Likes)

	f.login(t, "alice")
	liked, err = f.ids.ToggleLikeVideo(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, f.ids.Current().LikedVideos)
}

func TestChangeAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ids.ChangeAvatar(ctx, "new.png"))
	assert.Empty(t, f.store.AuthorStats)

	f.login(t, "alice")
	require.NoError(t, f.ids.ChangeAvatar(ctx, ""))
	assert.Equal(t, model.DefaultAvatar("alice"), f.ids.Avatar("alice"))

	require.NoError(t, f.ids.ChangeAvatar(ctx, "new.png"))
	assert.Equal(t, "new.png", f.ids.Avatar("alice"))
	assert.Equal(t, "new.png", f.ids.View().Avatar)
	assert.Equal(t, "new.png", f.ids.Profile("alice").Avatar)

	// a new login keeps the avatar
	require.NoError(t, f.ids.Logout(ctx))
	f.login(t, "alice")
	assert.Equal(t, "new.png", f.ids.View().Avatar)
}

func TestAvatarFallback(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, model.DefaultAvatar("ghost"), f.ids.Avatar("ghost"))
	f.store.AuthorStats["ghost"] = model.AuthorStat{VideoCount: 1}
	assert.Equal(t, model.DefaultAvatar("ghost"), f.ids.Avatar("ghost"))
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, "alice")
	f.upload(t, "Mine", "alice")
	f.upload(t, "Theirs", "bob")
	_, err := f.ids.ToggleSubscribe(ctx, "bob")
	require.NoError(t, err)

	bob := f.ids.Profile("bob")
	assert.Equal(t, "bob", bob.Author)
	assert.False(t, bob.IsSelf)
	assert.True(t, bob.Subscribed)
	assert.Equal(t, int64(1), bob.SubscriberCount)
	assert.Equal(t, int64(1), bob.VideoCount)
	require.Len(t, bob.Videos, 1)
	assert.Equal(t, "Theirs", bob.Videos[0].Title)

	me := f.ids.Profile("alice")
	assert.True(t, me.IsSelf)
	assert.False(t, me.Subscribed)
}
