package repository

import (
	"context"
	"testing"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	"github.com/joseph-ayodele/nfse-ingest/internal/entity"
	"github.com/joseph-ayodele/nfse-ingest/internal/reference"
)

// openTestDB opens a private in-memory SQLite store with the schema applied.
func openTestDB(t *testing.T) *entsql.Driver {
	t.Helper()
	ctx := context.Background()
	logger := common.DiscardLogger()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	drv, pool, err := Open(ctx, Config{DSN: dsn}, logger)
	require.NoError(t, err)
	require.Nil(t, pool)
	t.Cleanup(func() { Close(drv, pool, logger) })

	catalog, err := reference.Load()
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, drv, catalog, logger))
	return drv
}

func count(t *testing.T, drv *entsql.Driver, table string) int64 {
	t.Helper()
	n, err := countRows(context.Background(), drv, table)
	require.NoError(t, err)
	return n
}

func strp(s string) *string { return &s }

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func sampleInvoice() *entity.Invoice {
	return &entity.Invoice{
		Prestador: entity.Prestador{
			RazaoSocial: "ACME SERVICOS LTDA",
			CNPJ:        "12.345.678/0001-99",
			Municipio:   strp("São Paulo - SP"),
		},
		Tomador: entity.Tomador{
			NomeRazaoSocial: "FULANO DE TAL",
			CPFCNPJ:         "123.456.789-00",
			Email:           strp("fulano@example.com"),
		},
		Nota: entity.NotaFiscal{
			Numero:          "104",
			Identificador:   strp("NFSE-0001"),
			DataFatoGerador: strp("2024-03-15"),
			DataHoraEmissao: strp("2024-03-15 14:30:00"),
		},
		Servico: entity.Servico{
			Aliquota:         dec("5"),
			ValorServico:     dec("500.00"),
			ValorLiquido:     dec("475.00"),
			DescricaoServico: strp("Consultoria"),
		},
	}
}
