package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Open for unknown references.
var ErrNotFound = errors.New("media object not found")

// Media kinds, used as the first reference segment.
const (
	KindVideo  = "videos"
	KindAvatar = "avatars"
)

// MediaRoute is the URL prefix media references are served under.
const MediaRoute = "/media/"

// BlobStore keeps uploaded media bytes. References are slash separated
// relative paths such as "videos/<uuid>.mp4".
type BlobStore interface {
	Put(ctx context.Context, ref, contentType string, r io.Reader, size int64) error
	Open(ctx context.Context, ref string) (io.ReadCloser, string, error)
	// Delete removes ref. A missing object is not an error.
	Delete(ctx context.Context, ref string) error
}

// contentTypes covers media the system mime table often lacks.
var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ContentType guesses the media type from the extension of name.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// NewRef builds a fresh reference for an upload of kind, keeping the
// extension of fileName.
func NewRef(kind, fileName string) string {
	return kind + "/" + uuid.NewString() + strings.ToLower(path.Ext(fileName))
}

// MediaURL is the URL stored on records for ref.
func MediaURL(ref string) string {
	return MediaRoute + ref
}

// CleanRef validates a reference taken from a request path. It rejects
// anything that could escape the media root.
func CleanRef(ref string) (string, bool) {
	ref = strings.TrimPrefix(ref, "/")
	if ref == "" || strings.Contains(ref, "\\") {
		return "", false
	}
	cleaned := path.Clean(ref)
	if cleaned != ref || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", false
	}
	kind, _, ok := strings.Cut(cleaned, "/")
	if !ok || (kind != KindVideo && kind != KindAvatar) {
		return "", false
	}
	return cleaned, true
}

// Save stores r under a fresh reference of kind and returns that reference.
func Save(ctx context.Context, store BlobStore, kind, fileName, contentType string, r io.Reader, size int64) (string, error) {
	ref := NewRef(kind, fileName)
	if err := store.Put(ctx, ref, contentType, r, size); err != nil {
		return "", err
	}
	return ref, nil
}
