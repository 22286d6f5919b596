package repository

import (
	"context"
	"log/slog"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/internal/common"
	"github.com/joseph-ayodele/nfse-ingest/internal/entity"
)

// InsertOutcome identifies the header an insert resolved to.
type InsertOutcome struct {
	NotaID      int64 `json:"nota_id"`
	PrestadorID int64 `json:"prestador_id"`
	TomadorID   int64 `json:"tomador_id"`
	// Existing is true when the identificador was already known and nothing
	// past the issuer and recipient upserts was written.
	Existing bool `json:"existing"`
}

type InvoiceRepository interface {
	Insert(ctx context.Context, inv *entity.Invoice) (*InsertOutcome, error)
	ListInvoices(ctx context.Context) ([]*entity.InvoiceSummary, error)
}

type invoiceRepository struct {
	drv    *entsql.Driver
	logger *slog.Logger
}

func NewInvoiceRepository(drv *entsql.Driver, logger *slog.Logger) InvoiceRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &invoiceRepository{
		drv:    drv,
		logger: logger,
	}
}

// Insert persists inv in a single transaction. Issuer and recipient are
// looked up by natural key before inserting; a known identificador
// short-circuits to the existing header. Every error carries the failing
// step as its AppError code and leaves nothing behind.
func (r *invoiceRepository) Insert(ctx context.Context, inv *entity.Invoice) (*InsertOutcome, error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		r.logger.Error("failed to begin transaction", "error", err)
		return nil, fail(constants.FailureConnection, "could not begin transaction", err)
	}

	out := &InsertOutcome{}
	b := entsql.Dialect(r.drv.Dialect())

	if out.PrestadorID, err = r.upsertPrestador(ctx, tx, b, &inv.Prestador); err != nil {
		r.logger.Error("failed to upsert prestador", "cnpj", inv.Prestador.CNPJ, "error", err)
		return nil, rollback(tx, fail(constants.FailureIssuerUpsert, "could not upsert prestador", err))
	}
	if out.TomadorID, err = r.upsertTomador(ctx, tx, b, &inv.Tomador); err != nil {
		r.logger.Error("failed to upsert tomador", "cpf_cnpj", inv.Tomador.CPFCNPJ, "error", err)
		return nil, rollback(tx, fail(constants.FailureRecipientUpsert, "could not upsert tomador", err))
	}

	if id := inv.Nota.Identificador; id != nil && *id != "" {
		q, args := b.Select("id").From(b.Table(constants.TableNotaFiscal)).Where(entsql.EQ("identificador", *id)).Query()
		existing, found, err := scanID(ctx, tx, q, args)
		if err != nil {
			r.logger.Error("failed to look up identificador", "identificador", *id, "error", err)
			return nil, rollback(tx, fail(constants.FailureDuplicateLookup, "could not look up identificador", err))
		}
		if found {
			if err := tx.Commit(); err != nil {
				return nil, rollback(tx, fail(constants.FailureCommit, "could not commit", err))
			}
			r.logger.Warn("nota fiscal already exists", "nota_id", existing, "identificador", *id)
			out.NotaID, out.Existing = existing, true
			return out, nil
		}
	}

	inv.Nota.PrestadorID, inv.Nota.TomadorID = out.PrestadorID, out.TomadorID
	if out.NotaID, err = insertNota(ctx, tx, b, &inv.Nota); err != nil {
		r.logger.Error("failed to insert nota fiscal", "numero", inv.Nota.Numero, "error", err)
		return nil, rollback(tx, fail(constants.FailureHeaderInsert, "could not insert nota_fiscal", err))
	}

	inv.Servico.NotaFiscalID = out.NotaID
	if inv.Servico.ID, err = insertServico(ctx, tx, b, &inv.Servico); err != nil {
		r.logger.Error("failed to insert servico", "nota_id", out.NotaID, "error", err)
		return nil, rollback(tx, fail(constants.FailureServiceInsert, "could not insert servico", err))
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit nota fiscal", "nota_id", out.NotaID, "error", err)
		return nil, rollback(tx, fail(constants.FailureCommit, "could not commit", err))
	}
	inv.Nota.ID = out.NotaID
	r.logger.Info("nota fiscal inserted", "nota_id", out.NotaID, "numero", inv.Nota.Numero)
	return out, nil
}

func (r *invoiceRepository) upsertPrestador(ctx context.Context, tx dialect.Tx, b *entsql.DialectBuilder, p *entity.Prestador) (int64, error) {
	q, args := b.Select("id").From(b.Table(constants.TablePrestador)).Where(entsql.EQ("cnpj", p.CNPJ)).Query()
	id, found, err := scanID(ctx, tx, q, args)
	if err != nil || found {
		p.ID = id
		return id, err
	}

	q, args = b.Insert(constants.TablePrestador).
		Columns("razao_social", "cnpj", "endereco", "cep", "bairro", "municipio", "inscricao_municipal", "inscricao_estadual").
		Values(p.RazaoSocial, p.CNPJ, text(p.Endereco), text(p.CEP), text(p.Bairro), text(p.Municipio), text(p.InscricaoMunicipal), text(p.InscricaoEstadual)).
		Returning("id").
		Query()
	id, _, err = scanID(ctx, tx, q, args)
	p.ID = id
	return id, err
}

func (r *invoiceRepository) upsertTomador(ctx context.Context, tx dialect.Tx, b *entsql.DialectBuilder, t *entity.Tomador) (int64, error) {
	q, args := b.Select("id").From(b.Table(constants.TableTomador)).
		Where(entsql.And(entsql.EQ("cpf_cnpj", t.CPFCNPJ), entsql.EQ("nome_razao_social", t.NomeRazaoSocial))).
		Query()
	id, found, err := scanID(ctx, tx, q, args)
	if err != nil || found {
		t.ID = id
		return id, err
	}

	q, args = b.Insert(constants.TableTomador).
		Columns("nome_razao_social", "cpf_cnpj", "inscricao_municipal", "endereco", "numero", "complemento", "bairro", "cep", "cidade_estado", "telefone", "email").
		Values(t.NomeRazaoSocial, t.CPFCNPJ, text(t.InscricaoMunicipal), text(t.Endereco), text(t.Numero), text(t.Complemento), text(t.Bairro), text(t.CEP), text(t.CidadeEstado), text(t.Telefone), text(t.Email)).
		Returning("id").
		Query()
	id, _, err = scanID(ctx, tx, q, args)
	t.ID = id
	return id, err
}

func insertNota(ctx context.Context, tx dialect.Tx, b *entsql.DialectBuilder, n *entity.NotaFiscal) (int64, error) {
	q, args := b.Insert(constants.TableNotaFiscal).
		Columns("numero", "serie", "situacao", "tipo", "identificador", "data_fato_gerador", "data_hora_emissao",
			"codigo_verificacao", "autenticidade_url", "prestador_id", "tomador_id", "observacoes", "outras_informacoes").
		Values(n.Numero, text(n.Serie), text(n.Situacao), text(n.Tipo), text(n.Identificador), text(n.DataFatoGerador), text(n.DataHoraEmissao),
			text(n.CodigoVerificacao), text(n.AutenticidadeURL), n.PrestadorID, n.TomadorID, text(n.Observacoes), text(n.OutrasInformacoes)).
		Returning("id").
		Query()
	id, _, err := scanID(ctx, tx, q, args)
	return id, err
}

func insertServico(ctx context.Context, tx dialect.Tx, b *entsql.DialectBuilder, s *entity.Servico) (int64, error) {
	q, args := b.Insert(constants.TableServico).
		Columns("nota_fiscal_id", "codigo_servico", "local_prestacao", "aliquota", "valor_servico", "desconto_incondicionado",
			"valor_deducao", "valor_iss", "natureza_operacao", "descricao_servico", "valor_total", "desconto_incondicional",
			"deducao", "base_calculo", "issqn", "issrf", "ir", "inss", "csll", "cofins", "pis", "outras_retencoes",
			"total_tributos_federais", "desconto_condicional", "valor_liquido").
		Values(s.NotaFiscalID, text(s.CodigoServico), text(s.LocalPrestacao), money(s.Aliquota), money(s.ValorServico), money(s.DescontoIncondicionado),
			money(s.ValorDeducao), money(s.ValorISS), text(s.NaturezaOperacao), text(s.DescricaoServico), money(s.ValorTotal), money(s.DescontoIncondicional),
			money(s.Deducao), money(s.BaseCalculo), money(s.ISSQN), money(s.ISSRF), money(s.IR), money(s.INSS), money(s.CSLL), money(s.COFINS), money(s.PIS), money(s.OutrasRetencoes),
			money(s.TotalTributosFederais), money(s.DescontoCondicional), money(s.ValorLiquido)).
		Returning("id").
		Query()
	id, _, err := scanID(ctx, tx, q, args)
	return id, err
}

func fail(reason constants.FailureReason, message string, cause error) error {
	return common.NewAppError(string(reason), message, cause)
}
