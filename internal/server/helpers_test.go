package server

import (
	"context"
	"testing"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	"github.com/joseph-ayodele/nfse-ingest/internal/export"
	"github.com/joseph-ayodele/nfse-ingest/internal/extract"
	"github.com/joseph-ayodele/nfse-ingest/internal/ingest"
	"github.com/joseph-ayodele/nfse-ingest/internal/repository"
	"github.com/joseph-ayodele/nfse-ingest/internal/services/nfse"
)

const trustedPayload = `{"nota_fiscal": {
  "prestador": {"razao_social": "ACME SERVICOS LTDA", "cnpj": "12.345.678/0001-99"},
  "tomador": {"nome_razao_social": "FULANO DE TAL", "cpf_cnpj": "123.456.789-00"},
  "nota": {"numero": "104", "identificador": "NFSE-104", "data_fato_gerador": "15/03/2024"},
  "servico": {"valor_servico": "500,00", "descricao_servico": "Consultoria"}
}}`

type stack struct {
	drv      *entsql.Driver
	svc      *nfse.Service
	ingestor *ingest.Usecase
	exporter *export.Service
}

func newStack(t *testing.T) *stack {
	t.Helper()
	ctx := context.Background()
	logger := common.DiscardLogger()

	cfg := &common.Config{
		App:      common.AppConfig{Name: "nfse-test"},
		Database: common.DatabaseConfig{DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"},
	}
	drv, pool, err := ConnectDB(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { repository.Close(drv, pool, logger) })

	invoices := repository.NewInvoiceRepository(drv, logger)
	svc := nfse.NewService(invoices, repository.NewQueryRepository(drv, logger), logger)
	return &stack{
		drv:      drv,
		svc:      svc,
		ingestor: ingest.NewUsecase(extract.NewFileExtractor(extract.Config{}, logger), svc, repository.NewSourceFileRepository(drv, logger), logger),
		exporter: export.NewService(svc, logger),
	}
}
