package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/nfse-ingest/internal/entity"
)

// InvoiceLister is the read side the export needs.
type InvoiceLister interface {
	ListInvoices(ctx context.Context) ([]*entity.InvoiceSummary, error)
}

// Service produces XLSX bytes for invoice exports.
type Service struct {
	invoices InvoiceLister
	logger   *slog.Logger
}

func NewService(invoices InvoiceLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{invoices: invoices, logger: logger}
}

const sheet = "Notas"

var headers = []string{
	"Número",
	"Identificador",
	"Data Fato Gerador",
	"Data/Hora Emissão",
	"Prestador",
	"CNPJ Prestador",
	"Tomador",
	"CPF/CNPJ Tomador",
	"Valor Serviço",
	"Valor Líquido",
	"Descrição",
}

// ExportInvoicesXLSX returns a workbook with one row per stored invoice.
func (s *Service) ExportInvoicesXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	invoices, err := s.invoices.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	_ = f.SetCellStyle(sheet, "A1", "K1", bold)

	row := 2
	for _, inv := range invoices {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, inv.Numero)
		write(2, deref(inv.Identificador))
		write(3, deref(inv.DataFatoGerador))
		write(4, deref(inv.DataHoraEmissao))
		write(5, inv.PrestadorNome)
		write(6, inv.PrestadorCNPJ)
		write(7, inv.TomadorNome)
		write(8, inv.TomadorDocumento)
		write(9, amount(inv.ValorServico))
		write(10, amount(inv.ValorLiquido))
		write(11, truncate(deref(inv.DescricaoServico), 140))
		row++
	}
	if row > 2 {
		last, _ := excelize.CoordinatesToCellName(10, row-1)
		_ = f.SetCellStyle(sheet, "I2", last, money)
	}

	_ = f.SetColWidth(sheet, "A", "B", 16) // number, identifier
	_ = f.SetColWidth(sheet, "C", "D", 20) // dates
	_ = f.SetColWidth(sheet, "E", "H", 28) // parties
	_ = f.SetColWidth(sheet, "I", "J", 14) // amounts
	_ = f.SetColWidth(sheet, "K", "K", 60) // description

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(invoices),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// amount writes absent values as empty cells rather than zero.
func amount(d decimal.NullDecimal) any {
	if !d.Valid {
		return ""
	}
	return d.Decimal.InexactFloat64()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
