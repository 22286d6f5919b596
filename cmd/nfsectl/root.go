package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	"github.com/joseph-ayodele/nfse-ingest/internal/export"
	"github.com/joseph-ayodele/nfse-ingest/internal/extract"
	"github.com/joseph-ayodele/nfse-ingest/internal/ingest"
	repo "github.com/joseph-ayodele/nfse-ingest/internal/repository"
	"github.com/joseph-ayodele/nfse-ingest/internal/server"
	"github.com/joseph-ayodele/nfse-ingest/internal/services/nfse"
)

// app holds what every subcommand needs once the store is open.
type app struct {
	cfg    *common.Config
	logger *slog.Logger
	drv    *entsql.Driver
	pool   *pgxpool.Pool

	svc       *nfse.Service
	extractor *extract.FileExtractor
	ingestor  *ingest.Usecase
	exporter  *export.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var dsn string

	root := &cobra.Command{
		Use:          "nfsectl",
		Short:        "Normalize and store NFS-e invoices",
		Version:      constants.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.cfg = common.LoadConfig()
			if dsn != "" {
				a.cfg.Database.DSN = dsn
			}
			a.logger = common.NewLogger(a.cfg.App)

			drv, pool, err := server.ConnectDB(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			a.drv, a.pool = drv, pool

			a.svc = nfse.NewService(repo.NewInvoiceRepository(drv, a.logger), repo.NewQueryRepository(drv, a.logger), a.logger)
			a.extractor = extract.NewFileExtractor(extract.Config{MaxBytes: a.cfg.Ingest.MaxFileBytes}, a.logger)
			a.ingestor = ingest.NewUsecase(a.extractor, a.svc, repo.NewSourceFileRepository(drv, a.logger), a.logger)
			a.exporter = export.NewService(a.svc, a.logger)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.drv != nil {
				repo.Close(a.drv, a.pool, a.logger)
			}
		},
	}
	root.PersistentFlags().StringVar(&dsn, "db", "", "database DSN (overrides DB_URL)")

	root.AddCommand(
		newMigrateCmd(a),
		newInsertCmd(a),
		newIngestCmd(a),
		newQueryCmd(a),
		newDictionaryCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
