package catalog

import (
	"errors"
	"strings"

	"NovaStream/model"
)

// ErrEmptyTitle is returned when an upload form has no usable title.
var ErrEmptyTitle = errors.New("title is required")

const (
	DefaultDescription = "No description provided."
	DefaultDuration    = "0:30"
)

// UploadForm is what the upload dialog submits.
type UploadForm struct {
	Title       string
	Description string
	Category    string
	MediaURL    string
}

// NewDraft builds the record handed to Upload. Author and counters are set
// by Upload itself.
func NewDraft(form UploadForm) (model.VideoRecord, error) {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return model.VideoRecord{}, ErrEmptyTitle
	}
	description := strings.TrimSpace(form.Description)
	if description == "" {
		description = DefaultDescription
	}
	category := strings.TrimSpace(form.Category)
	if category == "" {
		category = model.DefaultCategory
	}

	return model.VideoRecord{
		Title:       title,
		Description: description,
		URL:         form.MediaURL,
		Duration:    DefaultDuration,
		Category:    category,
		Qualities:   append([]model.Quality{}, model.AllQualities...),
	}, nil
}
