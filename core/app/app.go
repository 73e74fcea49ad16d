package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"NovaStream/core/agent"
	"NovaStream/core/auth"
	"NovaStream/core/catalog"
	"NovaStream/core/hub"
	"NovaStream/core/identity"
	"NovaStream/core/navigation"
	"NovaStream/core/playlist"
	"NovaStream/core/state"
	"NovaStream/logger"
	"NovaStream/model"
	"NovaStream/repository"
	"NovaStream/storage"
)

// Options wires an App. Repo and Media are required.
type Options struct {
	Repo          repository.SlotRepository
	KeyPrefix     string
	Authenticator auth.Authenticator
	Suggester     agent.Suggester
	Media         storage.BlobStore
	Hub           *hub.Hub // optional
}

// App is the single entry point for every operation. Operations run one at a
// time in call order; Suggest and media transfers happen outside the lock.
type App struct {
	mu sync.Mutex

	store     *state.Store
	catalog   *catalog.Manager
	identity  *identity.Manager
	playlists *playlist.Manager
	nav       *navigation.Navigator

	suggester agent.Suggester
	media     storage.BlobStore
	hub       *hub.Hub
}

// New loads the persisted state and builds the managers over it.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Repo == nil || opts.Media == nil {
		return nil, fmt.Errorf("app: repository and media store are required")
	}
	store := state.NewStore(opts.Repo, opts.KeyPrefix)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	cat := catalog.NewManager(store)
	return &App{
		store:     store,
		catalog:   cat,
		identity:  identity.NewManager(store, cat, opts.Authenticator),
		playlists: playlist.NewManager(store),
		nav:       navigation.New(),
		suggester: opts.Suggester,
		media:     opts.Media,
		hub:       opts.Hub,
	}, nil
}

func (a *App) publish(eventType hub.EventType, data interface{}) {
	a.hub.Publish(eventType, data)
}

// ---- session ----

// Login opens the session and returns the user view.
func (a *App) Login(ctx context.Context, username, password string) (*model.UserView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.identity.Login(ctx, username, password); err != nil {
		return nil, err
	}
	view := a.identity.View()
	a.publish(hub.EventSession, view)
	a.publish(hub.EventAuthors, a.store.AuthorStats.Clone())
	return view, nil
}

// Logout ends the session and returns navigation to HOME.
func (a *App) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.identity.Logout(ctx); err != nil {
		return err
	}
	a.nav.Reset()
	a.publish(hub.EventSession, nil)
	return nil
}

// Session returns the signed-in user, or nil.
func (a *App) Session() *model.UserView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identity.View()
}

// CurrentUsername returns "" when anonymous.
func (a *App) CurrentUsername() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.identity.CurrentUsername()
}

// ---- catalog ----

// Search filters the catalog by title or category.
func (a *App) Search(query string) []model.VideoRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Search(query)
}

// Video returns one video or nil.
func (a *App) Video(id string) *model.VideoRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Get(id)
}

// WatchVideo counts a view and opens the player for id.
func (a *App) WatchVideo(ctx context.Context, id string) (*model.VideoRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.catalog.Exists(id) {
		return nil, nil
	}
	if err := a.catalog.RecordView(ctx, id); err != nil {
		return nil, err
	}
	a.nav.OpenVideo(id)
	video := a.catalog.Get(id)
	a.publish(hub.EventCatalog, video)
	return video, nil
}

// Related lists every other video in catalog order.
func (a *App) Related(id string) []model.VideoRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.catalog.Related(id)
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// ToggleLike likes or unlikes id for the session user. The bool is false
// when nothing happened (anonymous or unknown video).
func (a *App) ToggleLike(ctx context.Context, id string) (LikeResult, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.identity.Current() == nil || !a.catalog.Exists(id) {
		return LikeResult{}, false, nil
	}
	liked, err := a.identity.ToggleLikeVideo(ctx, id)
	if err != nil {
		return LikeResult{}, false, err
	}
	video := a.catalog.Get(id)
	a.publish(hub.EventCatalog, video)
	a.publish(hub.EventSession, a.identity.View())
	return LikeResult{Liked: liked, Likes: video.Likes}, true, nil
}

// Suggest asks the suggester for metadata without holding the lock.
func (a *App) Suggest(ctx context.Context, fileName string) (model.Suggestion, bool) {
	return agent.SuggestOrFallback(ctx, a.suggester, fileName)
}

// UploadInput is a media file plus the form fields describing it.
type UploadInput struct {
	Form        catalog.UploadForm
	FileName    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// Upload stores the media and adds it to the catalog as the session user.
// It returns (nil, nil) when nobody is signed in.
func (a *App) Upload(ctx context.Context, in UploadInput) (*model.VideoRecord, error) {
	if a.CurrentUsername() == "" {
		logger.Info("[App] upload ignored, not signed in", logger.String("file", in.FileName))
		return nil, nil
	}
	// validate before writing any bytes
	if _, err := catalog.NewDraft(in.Form); err != nil {
		return nil, err
	}

	ref, err := storage.Save(ctx, a.media, storage.KindVideo, in.FileName, in.ContentType, in.Body, in.Size)
	if err != nil {
		return nil, err
	}
	in.Form.MediaURL = storage.MediaURL(ref)
	record, err := catalog.NewDraft(in.Form)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// the session may have ended while the bytes were stored
	author := a.identity.CurrentUsername()
	if author == "" {
		a.discard(ref)
		return nil, nil
	}
	video, err := a.catalog.Upload(ctx, record, author)
	if err != nil || video == nil {
		return video, err
	}
	a.publish(hub.EventCatalog, video)
	a.publish(hub.EventAuthors, a.store.AuthorStats.Clone())
	return video, nil
}

// discard removes media stored for an upload that did not happen.
func (a *App) discard(ref string) {
	// the request context may already be cancelled
	if err := a.media.Delete(context.Background(), ref); err != nil {
		logger.Warn("[App] orphaned media left behind", logger.String("ref", ref), logger.ErrorField(err))
		return
	}
	logger.Info("[App] session ended during upload, media discarded", logger.String("ref", ref))
}

// ---- social ----

// Profile returns the creator page for author and opens it.
func (a *App) Profile(author string) model.ProfileView {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nav.OpenProfile(author)
	return a.identity.Profile(author)
}

// SubscribeResult is the outcome of a subscription toggle.
type SubscribeResult struct {
	Subscribed      bool  `json:"subscribed"`
	SubscriberCount int64 `json:"subscriberCount"`
}

// ToggleSubscribe follows or unfollows author.
func (a *App) ToggleSubscribe(ctx context.Context, author string) (SubscribeResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	before := a.store.User.Clone()
	subscribed, err := a.identity.ToggleSubscribe(ctx, author)
	if err != nil {
		return SubscribeResult{}, err
	}
	result := SubscribeResult{Subscribed: subscribed, SubscriberCount: a.identity.Stats(author).SubscriberCount}
	if before != nil && author != before.Username {
		a.publish(hub.EventAuthors, a.store.AuthorStats.Clone())
		a.publish(hub.EventSession, a.identity.View())
	}
	return result, nil
}

// ChangeAvatar sets the avatar to an image reference or data URL.
func (a *App) ChangeAvatar(ctx context.Context, image string) (*model.UserView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.changeAvatar(ctx, image)
}

// changeAvatar requires a.mu.
func (a *App) changeAvatar(ctx context.Context, image string) (*model.UserView, error) {
	if err := a.identity.ChangeAvatar(ctx, image); err != nil {
		return nil, err
	}
	view := a.identity.View()
	if view != nil && image != "" {
		a.publish(hub.EventSession, view)
		a.publish(hub.EventAuthors, a.store.AuthorStats.Clone())
	}
	return view, nil
}

// UploadAvatar stores an image and makes it the avatar.
func (a *App) UploadAvatar(ctx context.Context, fileName, contentType string, r io.Reader, size int64) (*model.UserView, error) {
	if a.CurrentUsername() == "" {
		return nil, nil
	}
	ref, err := storage.Save(ctx, a.media, storage.KindAvatar, fileName, contentType, r, size)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.identity.Current() == nil {
		a.discard(ref)
		return nil, nil
	}
	return a.changeAvatar(ctx, storage.MediaURL(ref))
}

// ---- playlists ----

// Playlists lists the session user's playlists.
func (a *App) Playlists() []model.Playlist {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playlists.List()
}

// CreatePlaylist creates a playlist seeded with videoID.
func (a *App) CreatePlaylist(ctx context.Context, name, videoID string) (*model.Playlist, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pl, err := a.playlists.Create(ctx, name, videoID)
	if err != nil || pl == nil {
		return pl, err
	}
	a.publish(hub.EventPlaylists, a.playlists.List())
	return pl, nil
}

// TogglePlaylistVideo adds or removes videoID.
func (a *App) TogglePlaylistVideo(ctx context.Context, playlistID, videoID string) (*model.Playlist, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pl, err := a.playlists.ToggleMembership(ctx, playlistID, videoID)
	if err != nil || pl == nil {
		return pl, err
	}
	a.publish(hub.EventPlaylists, a.playlists.List())
	return pl, nil
}

// OpenPlaylist resolves a playlist's videos and opens it.
func (a *App) OpenPlaylist(id string) *model.PlaylistView {
	a.mu.Lock()
	defer a.mu.Unlock()

	pl := a.playlists.Get(id)
	if pl == nil {
		return nil
	}
	a.nav.OpenPlaylist(id)
	return &model.PlaylistView{Playlist: *pl, Videos: a.catalog.ByIDs(pl.VideoIDs)}
}

// ---- navigation / state ----

// Navigation returns the current view.
func (a *App) Navigation() navigation.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nav.Current()
}

// Home returns to the home grid.
func (a *App) Home() navigation.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nav.Home()
}

// Snapshot copies the whole state.
func (a *App) Snapshot() state.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Snapshot()
}

// OpenMedia streams a stored media object.
func (a *App) OpenMedia(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	return a.media.Open(ctx, ref)
}
