package model

// Quality is a playback quality label offered by the player.
type Quality string

const (
	Quality360p  Quality = "360p"
	Quality720p  Quality = "720p"
	Quality1080p Quality = "1080p"
	Quality4K    Quality = "4K"
)

// AllQualities is the quality set stamped on every upload.
var AllQualities = []Quality{Quality360p, Quality720p, Quality1080p, Quality4K}

// Categories offered by the upload form. Other values are accepted verbatim.
var Categories = []string{"General", "Music", "Gaming", "AI", "Coding", "Live", "Comedy"}

const DefaultCategory = "General"

// VideoRecord is one catalog entry. URL is a media reference, never content.
type VideoRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    string    `json:"duration"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Author      string    `json:"author"`
	UploadedAt  string    `json:"uploadedAt"` // display string
	Qualities   []Quality `json:"qualities"`
	Category    string    `json:"category"`
}

// Clone returns a deep copy.
func (v VideoRecord) Clone() VideoRecord {
	v.Qualities = append([]Quality{}, v.Qualities...)
	return v
}

// CloneVideos deep-copies a catalog slice.
func CloneVideos(videos []VideoRecord) []VideoRecord {
	out := make([]VideoRecord, len(videos))
	for i, v := range videos {
		out[i] = v.Clone()
	}
	return out
}
