package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	"github.com/joseph-ayodele/nfse-ingest/internal/entity"
)

// Row is one result row with its values in column order.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the value of the named column.
func (r Row) Get(column string) (any, bool) {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return nil, false
}

// MarshalJSON writes the row as an object keeping column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TableCount is the row count of one table.
type TableCount struct {
	Table string `json:"table"`
	Count int64  `json:"count"`
}

type QueryRepository interface {
	Query(ctx context.Context, statement string) ([]Row, error)
	Dictionary(ctx context.Context) ([]Row, error)
	Stats(ctx context.Context) ([]TableCount, error)
}

type queryRepository struct {
	drv    *entsql.Driver
	logger *slog.Logger
}

func NewQueryRepository(drv *entsql.Driver, logger *slog.Logger) QueryRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &queryRepository{
		drv:    drv,
		logger: logger,
	}
}

// Query runs a single read statement and returns every row. The statement
// executes inside a transaction that is always rolled back.
func (r *queryRepository) Query(ctx context.Context, statement string) ([]Row, error) {
	v := common.NewValidator().Field("sql", statement, common.Required, common.ReadStatement)
	if err := v.Error(); err != nil {
		r.logger.Warn("rejected query", "error", v.ErrorMessage())
		return nil, err
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		r.logger.Error("failed to begin query transaction", "error", err)
		return nil, common.NewAppError(string(constants.FailureConnection), "could not begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var rows entsql.Rows
	if err := tx.Query(ctx, statement, []any{}, &rows); err != nil {
		r.logger.Error("failed to execute query", "error", err)
		return nil, common.WrapError(err, "execute query")
	}
	defer rows.Close()

	out, err := collect(&rows)
	if err != nil {
		r.logger.Error("failed to read query rows", "error", err)
		return nil, common.WrapError(err, "read rows")
	}
	return out, nil
}

// Dictionary returns the field dictionary in insertion order.
func (r *queryRepository) Dictionary(ctx context.Context) ([]Row, error) {
	b := entsql.Dialect(r.drv.Dialect())
	q, args := b.Select().From(b.Table(constants.TableDicionarioDados)).OrderBy("id").Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		r.logger.Error("failed to read dictionary", "error", err)
		return nil, common.WrapError(err, "read dictionary")
	}
	defer rows.Close()
	return collect(&rows)
}

func collect(rows *entsql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types := make([]string, len(cols))
	if cts, err := rows.ColumnTypes(); err == nil {
		for i, ct := range cts {
			types[i] = ct.DatabaseTypeName()
		}
	}
	out := []Row{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i := range vals {
			vals[i] = plainValue(vals[i], types[i])
		}
		out = append(out, Row{Columns: cols, Values: vals})
	}
	return out, rows.Err()
}

// plainValue turns driver values into JSON-friendly ones. Times follow the
// declared column type: DATE renders as an ISO date and any TIME or TIMESTAMP
// type keeps its clock. Undeclared times drop a zero clock.
func plainValue(v any, dbType string) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		t = t.UTC()
		dbType = strings.ToUpper(dbType)
		switch {
		case dbType == "DATE":
			return t.Format(constants.ISODate)
		case strings.Contains(dbType, "TIME"):
			return t.Format(constants.ISODateTime)
		case t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0:
			return t.Format(constants.ISODate)
		}
		return t.Format(constants.ISODateTime)
	default:
		return v
	}
}

// ListInvoices returns one summary per header, oldest first.
func (r *invoiceRepository) ListInvoices(ctx context.Context) ([]*entity.InvoiceSummary, error) {
	b := entsql.Dialect(r.drv.Dialect())
	n := b.Table(constants.TableNotaFiscal).As("n")
	p := b.Table(constants.TablePrestador).As("p")
	t := b.Table(constants.TableTomador).As("t")
	s := b.Table(constants.TableServico).As("s")

	q, args := b.Select(
		n.C("id"), n.C("numero"), n.C("identificador"), n.C("data_fato_gerador"), n.C("data_hora_emissao"),
		p.C("razao_social"), p.C("cnpj"), t.C("nome_razao_social"), t.C("cpf_cnpj"),
		s.C("valor_servico"), s.C("valor_liquido"), s.C("descricao_servico"),
	).
		From(n).
		Join(p).On(n.C("prestador_id"), p.C("id")).
		Join(t).On(n.C("tomador_id"), t.C("id")).
		LeftJoin(s).On(s.C("nota_fiscal_id"), n.C("id")).
		OrderBy(n.C("id")).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, q, args, &rows); err != nil {
		r.logger.Error("failed to list invoices", "error", err)
		return nil, common.WrapError(err, "list invoices")
	}
	defer rows.Close()

	var out []*entity.InvoiceSummary
	for rows.Next() {
		var (
			sum                        entity.InvoiceSummary
			ident, dfg, dhe, descricao any
		)
		if err := rows.Scan(&sum.ID, &sum.Numero, &ident, &dfg, &dhe,
			&sum.PrestadorNome, &sum.PrestadorCNPJ, &sum.TomadorNome, &sum.TomadorDocumento,
			&sum.ValorServico, &sum.ValorLiquido, &descricao); err != nil {
			r.logger.Error("failed to scan invoice", "error", err)
			return nil, common.WrapError(err, "scan invoice")
		}
		sum.Identificador = optString(ident, "")
		sum.DataFatoGerador = optString(dfg, "DATE")
		sum.DataHoraEmissao = optString(dhe, "DATETIME")
		sum.DescricaoServico = optString(descricao, "")
		out = append(out, &sum)
	}
	return out, rows.Err()
}

func optString(v any, dbType string) *string {
	switch t := plainValue(v, dbType).(type) {
	case nil:
		return nil
	case string:
		return &t
	default:
		return nil
	}
}
