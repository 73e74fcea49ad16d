package navigation

// Mode is the screen currently shown.
type Mode string

const (
	ModeHome     Mode = "HOME"
	ModeVideo    Mode = "VIDEO"
	ModeProfile  Mode = "PROFILE"
	ModePlaylist Mode = "PLAYLIST"
)

// View is the presentation state. Only the field matching Mode is set.
type View struct {
	Mode       Mode   `json:"mode"`
	VideoID    string `json:"videoId,omitempty"`
	Author     string `json:"author,omitempty"`
	PlaylistID string `json:"playlistId,omitempty"`
}

// Navigator tracks which view is open. It never mutates domain state.
type Navigator struct {
	current View
}

func New() *Navigator {
	return &Navigator{current: View{Mode: ModeHome}}
}

func (n *Navigator) Current() View { return n.current }

func (n *Navigator) OpenVideo(id string) View {
	n.current = View{Mode: ModeVideo, VideoID: id}
	return n.current
}

func (n *Navigator) OpenProfile(author string) View {
	n.current = View{Mode: ModeProfile, Author: author}
	return n.current
}

func (n *Navigator) OpenPlaylist(id string) View {
	n.current = View{Mode: ModePlaylist, PlaylistID: id}
	return n.current
}

func (n *Navigator) Home() View {
	n.current = View{Mode: ModeHome}
	return n.current
}

// Reset returns to HOME. Called on logout.
func (n *Navigator) Reset() {
	n.Home()
}
