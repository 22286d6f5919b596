package repository

import (
	"context"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/nfse-ingest/constants"
)

// SourceFileRepository remembers which file contents were already ingested
// and the nota fiscal each one produced.
type SourceFileRepository interface {
	GetByHash(ctx context.Context, hashHex string) (notaID int64, found bool, err error)
	Create(ctx context.Context, hashHex, sourcePath, ext string, size int64, notaID int64) error
}

type sourceFileRepo struct {
	drv    *entsql.Driver
	logger *slog.Logger
}

func NewSourceFileRepository(drv *entsql.Driver, logger *slog.Logger) SourceFileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &sourceFileRepo{
		drv:    drv,
		logger: logger,
	}
}

func (r *sourceFileRepo) GetByHash(ctx context.Context, hashHex string) (int64, bool, error) {
	b := entsql.Dialect(r.drv.Dialect())
	q, args := b.Select("nota_fiscal_id").
		From(b.Table(constants.TableArquivoOrigem)).
		Where(entsql.EQ("sha256", hashHex)).
		Query()
	id, found, err := scanID(ctx, r.drv, q, args)
	if err != nil {
		r.logger.Error("failed to get source file by hash", "sha256", hashHex, "error", err)
		return 0, false, err
	}
	return id, found, nil
}

// Create records a file's hash. A hash already on record is left untouched.
func (r *sourceFileRepo) Create(ctx context.Context, hashHex, sourcePath, ext string, size int64, notaID int64) error {
	q, args := entsql.Dialect(r.drv.Dialect()).
		Insert(constants.TableArquivoOrigem).
		Columns("sha256", "caminho", "extensao", "tamanho", "nota_fiscal_id").
		Values(hashHex, sourcePath, ext, size, notaID).
		OnConflict(entsql.ConflictColumns("sha256"), entsql.DoNothing()).
		Query()
	if err := exec(ctx, r.drv, q, args); err != nil {
		r.logger.Error("failed to create source file", "sha256", hashHex, "source_path", sourcePath, "error", err)
		return err
	}
	return nil
}
