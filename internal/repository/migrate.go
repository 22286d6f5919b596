package repository

import (
	"context"
	"fmt"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/db"
	"github.com/joseph-ayodele/nfse-ingest/internal/entity"
	"github.com/joseph-ayodele/nfse-ingest/internal/reference"
)

// Migrate applies the schema for the driver's dialect and seeds the
// reference tables. Both steps are idempotent: tables already holding
// rows are left as they are.
func Migrate(ctx context.Context, drv *entsql.Driver, catalog *reference.Catalog, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	ddl, err := db.Schema(drv.Dialect())
	if err != nil {
		return err
	}
	if err := exec(ctx, drv, ddl, nil); err != nil {
		logger.Error("failed to apply schema", "dialect", drv.Dialect(), "error", err)
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.Info("schema applied", "dialect", drv.Dialect())

	if catalog == nil {
		return nil
	}
	seeds := []struct {
		table string
		cols  []string
		rows  [][]any
	}{
		{constants.TableDicionarioDados, []string{"tabela", "coluna", "tipo_dado", "tamanho", "permite_nulo", "chave", "descricao", "exemplo"}, dictionaryRows(catalog.Dictionary)},
		{constants.TableAtividadeMunicipio, []string{"codigo", "descricao"}, codeRows(catalog.AtividadesMunicipio)},
		{constants.TableAtividadeNacional, []string{"codigo", "descricao"}, codeRows(catalog.AtividadesNacional)},
		{constants.TableLocalPrestacao, []string{"codigo", "municipio"}, codeRows(catalog.LocaisPrestacao)},
	}
	for _, s := range seeds {
		n, err := seed(ctx, drv, s.table, s.cols, s.rows)
		if err != nil {
			logger.Error("failed to seed reference table", "table", s.table, "error", err)
			return fmt.Errorf("seed %s: %w", s.table, err)
		}
		if n > 0 {
			logger.Info("reference table seeded", "table", s.table, "rows", n)
		} else {
			logger.Debug("reference table already populated", "table", s.table)
		}
	}
	return nil
}

// seed inserts rows into an empty table inside one transaction.
func seed(ctx context.Context, drv *entsql.Driver, table string, cols []string, rows [][]any) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	count, err := countRows(ctx, drv, table)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := drv.Tx(ctx)
	if err != nil {
		return 0, err
	}
	ins := entsql.Dialect(drv.Dialect()).Insert(table).Columns(cols...)
	for _, r := range rows {
		ins.Values(r...)
	}
	q, args := ins.Query()
	if err := exec(ctx, tx, q, args); err != nil {
		return 0, rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func countRows(ctx context.Context, drv *entsql.Driver, table string) (int64, error) {
	q, args := entsql.Dialect(drv.Dialect()).
		Select(entsql.Count("*")).
		From(entsql.Dialect(drv.Dialect()).Table(table)).
		Query()
	n, _, err := scanID(ctx, drv, q, args)
	return n, err
}

func dictionaryRows(entries []entity.DictionaryEntry) [][]any {
	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{e.Tabela, e.Coluna, e.TipoDado, text(e.Tamanho), e.PermiteNulo, text(e.Chave), e.Descricao, text(e.Exemplo)}
	}
	return rows
}

func codeRows(codes []entity.ReferenceCode) [][]any {
	rows := make([][]any, len(codes))
	for i, c := range codes {
		rows[i] = []any{c.Codigo, c.Descricao}
	}
	return rows
}
