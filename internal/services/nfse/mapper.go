package nfse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/nfse-ingest/constants"
	"github.com/joseph-ayodele/nfse-ingest/internal/coerce"
	"github.com/joseph-ayodele/nfse-ingest/internal/entity"
	"github.com/joseph-ayodele/nfse-ingest/internal/normalize"
)

// toInvoice maps a normalized record onto the persisted aggregate, applying
// coercion to every date and money field and defaults to the natural keys.
func toInvoice(rec normalize.Record, c *coerce.Coercer) *entity.Invoice {
	p, t, n, s := rec.Prestador, rec.Tomador, rec.Nota, rec.Servico

	inv := &entity.Invoice{
		Prestador: entity.Prestador{
			RazaoSocial:        orDefault(field(p, "razao_social"), constants.NotInformed),
			CNPJ:               orDefault(field(p, "cnpj"), constants.NotInformed),
			Endereco:           field(p, "endereco"),
			CEP:                field(p, "cep"),
			Bairro:             field(p, "bairro"),
			Municipio:          field(p, "municipio"),
			InscricaoMunicipal: field(p, "inscricao_municipal"),
			InscricaoEstadual:  field(p, "inscricao_estadual"),
		},
		Tomador: entity.Tomador{
			NomeRazaoSocial:    orDefault(field(t, "nome_razao_social"), constants.NotInformed),
			CPFCNPJ:            orDefault(field(t, "cpf_cnpj"), constants.NotInformed),
			InscricaoMunicipal: field(t, "inscricao_municipal"),
			Endereco:           field(t, "endereco"),
			Numero:             field(t, "numero"),
			Complemento:        field(t, "complemento"),
			Bairro:             field(t, "bairro"),
			CEP:                field(t, "cep"),
			CidadeEstado:       field(t, "cidade_estado"),
			Telefone:           field(t, "telefone"),
			Email:              field(t, "email"),
		},
		Nota: entity.NotaFiscal{
			Numero:            orDefault(field(n, "numero"), constants.NoInvoiceNumber),
			Serie:             field(n, "serie"),
			Situacao:          field(n, "situacao"),
			Tipo:              field(n, "tipo"),
			Identificador:     field(n, "identificador"),
			DataFatoGerador:   c.Date(value(n, "data_fato_gerador")),
			DataHoraEmissao:   c.DateTime(value(n, "data_hora_emissao")),
			CodigoVerificacao: field(n, "codigo_verificacao"),
			AutenticidadeURL:  field(n, "autenticidade_url"),
			Observacoes:       note(rec, "observacoes"),
			OutrasInformacoes: note(rec, "outras_informacoes"),
		},
		Servico: entity.Servico{
			CodigoServico:          field(s, "codigo_servico"),
			LocalPrestacao:         field(s, "local_prestacao"),
			Aliquota:               c.Rate(value(s, "aliquota")),
			ValorServico:           c.Decimal(value(s, "valor_servico")),
			DescontoIncondicionado: c.Decimal(value(s, "desconto_incondicionado")),
			ValorDeducao:           c.Decimal(value(s, "valor_deducao")),
			ValorISS:               c.Decimal(value(s, "valor_iss")),
			NaturezaOperacao:       field(s, "natureza_operacao"),
			DescricaoServico:       field(s, "descricao_servico"),
			ValorTotal:             c.Decimal(value(s, "valor_total")),
			DescontoIncondicional:  c.Decimal(value(s, "desconto_incondicional")),
			Deducao:                c.Decimal(value(s, "deducao")),
			BaseCalculo:            c.Decimal(value(s, "base_calculo")),
			ISSQN:                  c.Decimal(value(s, "issqn")),
			ISSRF:                  c.Decimal(value(s, "issrf")),
			IR:                     c.Decimal(value(s, "ir")),
			INSS:                   c.Decimal(value(s, "inss")),
			CSLL:                   c.Decimal(value(s, "csll")),
			COFINS:                 c.Decimal(value(s, "cofins")),
			PIS:                    c.Decimal(value(s, "pis")),
			OutrasRetencoes:        c.Decimal(value(s, "outras_retencoes")),
			TotalTributosFederais:  c.Decimal(value(s, "total_tributos_federais")),
			DescontoCondicional:    c.Decimal(value(s, "desconto_condicional")),
			ValorLiquido:           c.Decimal(value(s, "valor_liquido")),
		},
	}
	return inv
}

// value returns the raw scalar stored under key, or nil.
func value(m normalize.Mapping, key string) any {
	v, _ := m.Get(key)
	return v
}

// field renders the scalar under key as text. Nested structures and blank
// strings are treated as absent.
func field(m normalize.Mapping, key string) *string {
	var out string
	switch v := value(m, key).(type) {
	case nil, normalize.Mapping, []any, map[string]any:
		return nil
	case string:
		out = v
	case json.Number:
		out = v.String()
	default:
		out = fmt.Sprint(v)
	}
	if strings.TrimSpace(out) == "" {
		return nil
	}
	return &out
}

// note reads a header note, falling back to keys next to the sections.
func note(rec normalize.Record, key string) *string {
	if s := field(rec.Nota, key); s != nil {
		return s
	}
	return field(rec.Extras, key)
}

func orDefault(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
