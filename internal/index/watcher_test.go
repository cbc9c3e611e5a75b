package index

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: A corpus write triggers one debounced reload
func TestCorpusWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.md")
	require.NoError(t, os.WriteFile(path, []byte("## Old\n---\n"), 0o644))

	var fired atomic.Int32
	var lastRaw atomic.Value

	w := NewCorpusWatcher(path, func(ctx context.Context, raw string) error {
		fired.Add(1)
		lastRaw.Store(raw)
		return nil
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	// Give the watcher time to attach before writing
	time.Sleep(100 * time.Millisecond)

	// Burst of writes collapses into one reload
	require.NoError(t, os.WriteFile(path, []byte("## New A\n---\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("## New B\n---\n"), 0o644))

	require.Eventually(t, func() bool {
		return fired.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)

	assert.Equal(t, "## New B\n---\n", lastRaw.Load())

	cancel()
	<-done
}

// TS02: Changes to other files in the directory are ignored
func TestCorpusWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.md")
	require.NoError(t, os.WriteFile(path, []byte("## X\n---\n"), 0o644))

	var fired atomic.Int32
	w := NewCorpusWatcher(path, func(ctx context.Context, raw string) error {
		fired.Add(1)
		return nil
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("noise"), 0o644))
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, int32(0), fired.Load())

	cancel()
	<-done
}
