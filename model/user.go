package model

// User is the signed-in session user. The avatar is not stored here; it is
// resolved from AuthorStats by username.
type User struct {
	Username      string     `json:"username"`
	Subscriptions []string   `json:"subscriptions"` // author names this user follows
	LikedVideos   []string   `json:"likedVideos"`   // video ids
	Playlists     []Playlist `json:"playlists"`
}

// NewUser creates an empty user record for username.
func NewUser(username string) *User {
	return &User{
		Username:      username,
		Subscriptions: []string{},
		LikedVideos:   []string{},
		Playlists:     []Playlist{},
	}
}

// IsSubscribed reports whether the user follows author.
func (u *User) IsSubscribed(author string) bool {
	return contains(u.Subscriptions, author)
}

// HasLiked reports whether videoID is in the user's liked set.
func (u *User) HasLiked(videoID string) bool {
	return contains(u.LikedVideos, videoID)
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := &User{
		Username:      u.Username,
		Subscriptions: append([]string{}, u.Subscriptions...),
		LikedVideos:   append([]string{}, u.LikedVideos...),
		Playlists:     make([]Playlist, len(u.Playlists)),
	}
	for i, pl := range u.Playlists {
		c.Playlists[i] = pl.Clone()
	}
	return c
}

// Normalize replaces nil collections with empty ones so a decoded record
// always serialises as arrays.
func (u *User) Normalize() {
	if u.Subscriptions == nil {
		u.Subscriptions = []string{}
	}
	if u.LikedVideos == nil {
		u.LikedVideos = []string{}
	}
	if u.Playlists == nil {
		u.Playlists = []Playlist{}
	}
	for i := range u.Playlists {
		if u.Playlists[i].VideoIDs == nil {
			u.Playlists[i].VideoIDs = []string{}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Toggle removes every occurrence of s from list if present, otherwise
// appends it. The returned bool is true when s is a member afterwards.
func Toggle(list []string, s string) ([]string, bool) {
	if !contains(list, s) {
		return append(list, s), true
	}
	out := make([]string, 0, len(list)-1)
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out, false
}
