package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"NovaStream/logger"

	"github.com/fsnotify/fsnotify"
)

// VideoExtensions are the file types picked up from the drop folder.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".mkv":  true,
	".avi":  true,
	".m4v":  true,
}

// IsVideoFile reports whether name has a video extension.
func IsVideoFile(name string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(name))]
}

// HandlerFunc processes one stable file. A returned error puts the file back
// in the queue; it is tried again after the retry delay.
type HandlerFunc func(ctx context.Context, path string) error

// Watcher feeds new video files in a directory to a handler, once each.
type Watcher struct {
	dir     string
	handler HandlerFunc
	settle  time.Duration
	retry   time.Duration
	tick    time.Duration

	processed sync.Map
}

// New creates a watcher. settle is how long a file must go without events
// before it is handed over; failed files wait five times as long.
func New(dir string, settle time.Duration, handler HandlerFunc) *Watcher {
	if settle <= 0 {
		settle = time.Second
	}
	tick := settle / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	return &Watcher{dir: dir, handler: handler, settle: settle, retry: 5 * settle, tick: tick}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create watch dir: %w", err)
	}

	// 创建文件监听器
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	logger.Info("[Watcher] watching drop folder", logger.String("dir", w.dir))

	// path -> time the file becomes due
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && IsVideoFile(event.Name) {
				pending[event.Name] = time.Now().Add(w.settle)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("[Watcher] watch error", logger.ErrorField(err))

		case <-ticker.C:
			now := time.Now()
			for path, due := range pending {
				if now.Before(due) {
					continue // 文件可能还在写入
				}
				delete(pending, path)
				if !w.process(ctx, path) {
					pending[path] = now.Add(w.retry)
				}
			}
		}
	}
}

// process reports false when the file should be tried again.
func (w *Watcher) process(ctx context.Context, path string) bool {
	if _, loaded := w.processed.LoadOrStore(path, true); loaded {
		return true
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return true
	}
	if err := w.handler(ctx, path); err != nil {
		w.processed.Delete(path)
		logger.Warn("[Watcher] import failed, will retry",
			logger.String("file", path),
			logger.Duration("retry", w.retry),
			logger.ErrorField(err))
		return false
	}
	logger.Info("[Watcher] imported", logger.String("file", path))
	return true
}
