package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/loader"
)

func startWatcher(t *testing.T, dir string, calls *atomic.Int32) *Watcher {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	w := New(dir, loader.NewRegistry(), 100*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}, zap.NewNop())
	require.NoError(t, w.Start(ctx))

	t.Cleanup(func() {
		cancel()
		<-w.Done()
	})
	return w
}

func write(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("content"), 0o600))
}

func TestWatcher_DebouncesBurstIntoOneRebuild(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, dir, &calls)

	write(t, dir, "a.txt")
	write(t, dir, "b.md")
	write(t, dir, "c.pdf")

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_IgnoresUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	startWatcher(t, dir, &calls)

	write(t, dir, "notes.docx")
	write(t, dir, ".upload-123")

	time.Sleep(400 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestWatcher_RemovalTriggersRebuild(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.txt")
	var calls atomic.Int32
	startWatcher(t, dir, &calls)

	require.NoError(t, os.Remove(filepath.Join(dir, "a.txt")))

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw_docs")
	var calls atomic.Int32
	startWatcher(t, dir, &calls)

	assert.DirExists(t, dir)
}
