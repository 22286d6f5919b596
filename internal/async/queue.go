package async

import (
	"context"
	"time"
)

// Job is one file waiting to be ingested.
type Job struct {
	Path        string
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// Processor handles one job's file.
type Processor interface {
	ProcessFile(ctx context.Context, path string) error
}
