package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/nfse-ingest/internal/common"
)

func next(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}

func TestWatcherEmitsExistingAndNewFiles(t *testing.T) {
	root := t.TempDir()
	existing := write(t, root, "old.txt", "CNPJ: 12.345.678/0001-99")
	write(t, root, "skip.md", "ignored")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{root}, InitialScan: true, Debounce: 20 * time.Millisecond}, common.DiscardLogger())
	require.NoError(t, err)

	assert.Equal(t, existing, next(t, events))

	created := write(t, root, "new.xml", "<nota/>")
	assert.Equal(t, created, next(t, events))

	cancel()
	for range events {
	}
}

func TestWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, common.DiscardLogger())
	assert.Error(t, err)

	_, _, err = StartWatcher(context.Background(), WatchConfig{Roots: []string{filepath.Join(t.TempDir(), "missing")}}, common.DiscardLogger())
	assert.Error(t, err)
}
