package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavigator(t *testing.T) {
	n := New()
	assert.Equal(t, View{Mode: ModeHome}, n.Current())

	assert.Equal(t, View{Mode: ModeVideo, VideoID: "v1"}, n.OpenVideo("v1"))
	assert.Equal(t, View{Mode: ModeProfile, Author: "bob"}, n.OpenProfile("bob"))
	assert.Equal(t, View{Mode: ModePlaylist, PlaylistID: "p1"}, n.OpenPlaylist("p1"))
	assert.Equal(t, View{Mode: ModePlaylist, PlaylistID: "p1"}, n.Current())

	n.Reset()
	assert.Equal(t, View{Mode: ModeHome}, n.Current())

	n.OpenVideo("v2")
	assert.Equal(t, View{Mode: ModeHome}, n.Home())
}
