package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"NovaStream/core/catalog"
	"NovaStream/logger"
	"NovaStream/model"
	"NovaStream/storage"
)

// ImportFile uploads a file from disk with suggested metadata, the way the
// upload dialog does when a file is picked.
func (a *App) ImportFile(ctx context.Context, path string) (*model.VideoRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	name := filepath.Base(path)
	suggestion, fallback := a.Suggest(ctx, name)
	logger.Debug("[Import] metadata suggested",
		logger.String("file", name),
		logger.String("title", suggestion.Title),
		logger.Bool("fallback", fallback))

	return a.Upload(ctx, UploadInput{
		Form: catalog.UploadForm{
			Title:       suggestion.Title,
			Description: suggestion.Description,
			Category:    suggestion.Category,
		},
		FileName:    name,
		ContentType: storage.ContentType(name),
		Body:        f,
		Size:        info.Size(),
	})
}
