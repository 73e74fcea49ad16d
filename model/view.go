package model

// UserView is the API shape of the session user, with the avatar resolved.
type UserView struct {
	Username      string     `json:"username"`
	Avatar        string     `json:"avatar"`
	Subscriptions []string   `json:"subscriptions"`
	LikedVideos   []string   `json:"likedVideos"`
	Playlists     []Playlist `json:"playlists"`
}

// ProfileView is a creator page.
type ProfileView struct {
	Author          string        `json:"author"`
	Avatar          string        `json:"avatar"`
	SubscriberCount int64         `json:"subscriberCount"`
	VideoCount      int64         `json:"videoCount"`
	IsSelf          bool          `json:"isSelf"`
	Subscribed      bool          `json:"subscribed"`
	Videos          []VideoRecord `json:"videos"`
}

// PlaylistView is a playlist with its videos resolved from the catalog.
type PlaylistView struct {
	Playlist Playlist      `json:"playlist"`
	Videos   []VideoRecord `json:"videos"`
}
