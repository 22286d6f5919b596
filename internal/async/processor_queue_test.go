package async

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/nfse-ingest/internal/common"
)

type recordingProcessor struct {
	mu    sync.Mutex
	paths []string
	ids   []string
}

func (p *recordingProcessor) ProcessFile(ctx context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths = append(p.paths, path)
	p.ids = append(p.ids, common.RequestIDFromContext(ctx))
	if path == "bad.txt" {
		return errors.New("boom")
	}
	return nil
}

func TestProcessorQueueDrainsOnShutdown(t *testing.T) {
	proc := &recordingProcessor{}
	q := NewProcessorQueue(proc, common.DiscardLogger(), WithWorkers(3), WithQueueSize(1), WithProcessTimeout(time.Second))

	ctx := context.Background()
	want := []string{"a.txt", "b.xml", "bad.txt", "c.json", "d.pdf"}
	for _, p := range want {
		require.NoError(t, q.Enqueue(ctx, Job{Path: p, TraceID: "trace-" + p}))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	q.Shutdown(shutdownCtx)

	proc.mu.Lock()
	defer proc.mu.Unlock()
	got := append([]string(nil), proc.paths...)
	sort.Strings(got)
	assert.Equal(t, want, got)
	for i, p := range proc.paths {
		assert.Equal(t, "trace-"+p, proc.ids[i])
	}
}

func TestProcessorQueueRejectsAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&recordingProcessor{}, common.DiscardLogger())
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{Path: "late.txt"})
	assert.ErrorIs(t, err, ErrQueueClosed)
}
