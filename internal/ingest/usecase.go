package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	"github.com/joseph-ayodele/nfse-ingest/internal/extract"
)

// Usecase reads invoice files from the local filesystem and inserts them.
type Usecase struct {
	extractor   extract.TextExtractor
	inserter    Inserter
	files       FileLedger // nil disables content dedup
	logger      *slog.Logger
	AllowedExts map[string]struct{} // lowercased sans '.'; nil -> every supported format
}

func NewUsecase(extractor extract.TextExtractor, inserter Inserter, files FileLedger, logger *slog.Logger) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{extractor: extractor, inserter: inserter, files: files, logger: logger}
}

// IngestPath extracts the text of one file and inserts it as an invoice.
// Contents already on the ledger resolve to their recorded nota fiscal
// without being extracted again. The returned error mirrors FileResult.Err.
func (u *Usecase) IngestPath(ctx context.Context, path string) (FileResult, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return FileResult{Path: path, Err: err.Error()}, fmt.Errorf("abs path: %w", err)
	}
	out := FileResult{Path: abs}
	if !allowed(abs, u.AllowedExts) {
		err := fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(abs))
		out.Err = err.Error()
		return out, err
	}

	hashHex, size, err := hashFile(abs)
	if err != nil {
		out.Err = err.Error()
		return out, err
	}
	out.HashHex = hashHex
	ext := constants.NormalizeExt(filepath.Ext(abs))

	if u.files != nil {
		id, found, err := u.files.GetByHash(ctx, hashHex)
		if err != nil {
			out.Err = err.Error()
			return out, fmt.Errorf("lookup hash: %w", err)
		}
		if found {
			out.Format = constants.MapExtToFormat(ext)
			out.NotaID, out.Existing = &id, true
			u.logger.Info("file already ingested", "path", abs, "sha256", hashHex, "nota_id", id)
			return out, nil
		}
	}

	res, err := u.extractor.Extract(ctx, abs)
	out.Format = res.SourceType
	if err != nil {
		out.Err = err.Error()
		return out, fmt.Errorf("extract: %w", err)
	}
	for _, w := range res.Warnings {
		u.logger.Warn("extraction warning", "path", abs, "warning", w)
	}
	if strings.TrimSpace(res.Text) == "" {
		err := errors.New("no text extracted")
		out.Err = err.Error()
		return out, err
	}

	ins := u.inserter.Insert(ctx, res.Text)
	if !ins.Success {
		out.Reason, out.Err = ins.Reason, ins.Error
		return out, fmt.Errorf("insert %s: %s", ins.Reason, ins.Error)
	}
	out.NotaID, out.Existing = ins.NotaID, ins.Existing
	if u.files != nil {
		if err := u.files.Create(ctx, hashHex, abs, ext, size, *ins.NotaID); err != nil {
			u.logger.Warn("failed to record ingested file", "path", abs, "sha256", hashHex, "error", err)
		}
	}
	u.logger.Info("file ingested",
		"path", abs,
		"format", out.Format,
		"sha256", out.HashHex,
		"nota_id", *ins.NotaID,
		"existing", ins.Existing,
		"request_id", common.RequestIDFromContext(ctx),
	)
	return out, nil
}

// hashFile returns the hex sha256 and size of a file's bytes.
func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// ProcessFile satisfies async.Processor.
func (u *Usecase) ProcessFile(ctx context.Context, path string) error {
	_, err := u.IngestPath(ctx, path)
	return err
}
