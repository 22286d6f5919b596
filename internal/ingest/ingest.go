package ingest

import (
	"context"

	"github.com/joseph-ayodele/nfse-ingest/internal/services/nfse"
)

// FileResult is the per-file ingest outcome.
type FileResult struct {
	Path     string `json:"path"`
	Format   string `json:"format,omitempty"`
	HashHex  string `json:"sha256,omitempty"`
	NotaID   *int64 `json:"nota_id,omitempty"`
	Existing bool   `json:"existing,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Err      string `json:"error,omitempty"`
}

// DirStats summarizes a directory ingest.
type DirStats struct {
	Scanned   uint32 `json:"scanned"`
	Matched   uint32 `json:"matched"`
	Succeeded uint32 `json:"succeeded"`
	Existing  uint32 `json:"existing"`
	Failed    uint32 `json:"failed"`
}

// Inserter is the behavior the usecase depends on.
type Inserter interface {
	Insert(ctx context.Context, payload any) nfse.InsertResult
}

// FileLedger remembers ingested file contents by sha256 so a file seen again
// resolves to the nota fiscal it produced instead of being inserted twice.
type FileLedger interface {
	GetByHash(ctx context.Context, hashHex string) (notaID int64, found bool, err error)
	Create(ctx context.Context, hashHex, sourcePath, ext string, size int64, notaID int64) error
}
