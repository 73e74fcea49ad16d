package model

// Playlist is a named, ordered collection of video ids owned by one User.
// Duplicate ids are not prevented.
type Playlist struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	VideoIDs  []string `json:"videoIds"`
	CreatedAt string   `json:"createdAt"` // display string
}

// Clone returns a deep copy.
func (p Playlist) Clone() Playlist {
	p.VideoIDs = append([]string{}, p.VideoIDs...)
	return p
}

// Contains reports whether videoID is in the playlist.
func (p Playlist) Contains(videoID string) bool {
	return contains(p.VideoIDs, videoID)
}
