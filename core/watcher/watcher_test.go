package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	calls    map[string]int
	failures int // calls to fail before succeeding
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[filepath.Base(path)]++
	if r.failures > 0 {
		r.failures--
		return errors.New("not signed in")
	}
	return nil
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func touch(t *testing.T, path string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func startWatcher(t *testing.T, dir string, rec *recorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := New(dir, 50*time.Millisecond, rec.handle)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
}

func TestIsVideoFile(t *testing.T) {
	assert.True(t, IsVideoFile("clip.mp4"))
	assert.True(t, IsVideoFile("/tmp/CLIP.MOV"))
	assert.False(t, IsVideoFile("notes.txt"))
	assert.False(t, IsVideoFile("mp4"))
}

func TestWatcherImportsEachVideoOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	rec := &recorder{calls: map[string]int{}}
	startWatcher(t, dir, rec)

	clip := filepath.Join(dir, "clip.mp4")
	notes := filepath.Join(dir, "notes.txt")

	// keep writing until the watcher has subscribed and picked the file up
	require.Eventually(t, func() bool {
		if _, err := os.Stat(dir); err != nil {
			return false
		}
		touch(t, clip)
		touch(t, notes)
		return rec.count("clip.mp4") > 0
	}, 5*time.Second, 100*time.Millisecond)

	touch(t, clip)
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, 1, rec.count("clip.mp4"))
	assert.Zero(t, rec.count("notes.txt"))
}

func TestWatcherRetriesFailedImports(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{calls: map[string]int{}, failures: 2}
	startWatcher(t, dir, rec)

	clip := filepath.Join(dir, "late.mov")
	require.Eventually(t, func() bool {
		touch(t, clip)
		return rec.count("late.mov") > 0
	}, 5*time.Second, 100*time.Millisecond)

	// no further writes: the queue alone brings the file back
	require.Eventually(t, func() bool { return rec.count("late.mov") == 3 }, 5*time.Second, 20*time.Millisecond)
	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, 3, rec.count("late.mov"))
}

func TestNewDefaults(t *testing.T) {
	w := New("inbox", 0, nil)
	assert.Equal(t, time.Second, w.settle)
	assert.Equal(t, 250*time.Millisecond, w.tick)
	assert.Equal(t, 5*time.Second, w.retry)

	w = New("inbox", 20*time.Millisecond, nil)
	assert.Equal(t, 10*time.Millisecond, w.tick)
}
