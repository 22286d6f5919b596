package entity

import (
	"github.com/shopspring/decimal"
)

// Prestador is the service provider (issuer) of an invoice.
// CNPJ is the natural key.
type Prestador struct {
	ID                 int64   `json:"id"`
	RazaoSocial        string  `json:"razao_social"`
	CNPJ               string  `json:"cnpj"`
	Endereco           *string `json:"endereco,omitempty"`
	CEP                *string `json:"cep,omitempty"`
	Bairro             *string `json:"bairro,omitempty"`
	Municipio          *string `json:"municipio,omitempty"`
	InscricaoMunicipal *string `json:"inscricao_municipal,omitempty"`
	InscricaoEstadual  *string `json:"inscricao_estadual,omitempty"`
}

// Tomador is the service recipient, keyed by (CPFCNPJ, NomeRazaoSocial).
type Tomador struct {
	ID                 int64   `json:"id"`
	NomeRazaoSocial    string  `json:"nome_razao_social"`
	CPFCNPJ            string  `json:"cpf_cnpj"`
	InscricaoMunicipal *string `json:"inscricao_municipal,omitempty"`
	Endereco           *string `json:"endereco,omitempty"`
	Numero             *string `json:"numero,omitempty"`
	Complemento        *string `json:"complemento,omitempty"`
	Bairro             *string `json:"bairro,omitempty"`
	CEP                *string `json:"cep,omitempty"`
	CidadeEstado       *string `json:"cidade_estado,omitempty"`
	Telefone           *string `json:"telefone,omitempty"`
	Email              *string `json:"email,omitempty"`
}

// NotaFiscal is the invoice header. Dates are ISO strings once coerced.
type NotaFiscal struct {
	ID                int64   `json:"id"`
	Numero            string  `json:"numero"`
	Serie             *string `json:"serie,omitempty"`
	Situacao          *string `json:"situacao,omitempty"`
	Tipo              *string `json:"tipo,omitempty"`
	Identificador     *string `json:"identificador,omitempty"`
	DataFatoGerador   *string `json:"data_fato_gerador,omitempty"`
	DataHoraEmissao   *string `json:"data_hora_emissao,omitempty"`
	CodigoVerificacao *string `json:"codigo_verificacao,omitempty"`
	AutenticidadeURL  *string `json:"autenticidade_url,omitempty"`
	PrestadorID       int64   `json:"prestador_id"`
	TomadorID         int64   `json:"tomador_id"`
	Observacoes       *string `json:"observacoes,omitempty"`
	OutrasInformacoes *string `json:"outras_informacoes,omitempty"`
}

// Servico is the single service line owned by a NotaFiscal.
// Money fields are nullable: an invalid decimal means "not reported", never zero.
type Servico struct {
	ID                     int64               `json:"id"`
	NotaFiscalID           int64               `json:"nota_fiscal_id"`
	CodigoServico          *string             `json:"codigo_servico,omitempty"`
	LocalPrestacao         *string             `json:"local_prestacao,omitempty"`
	Aliquota               decimal.NullDecimal `json:"aliquota"`
	ValorServico           decimal.NullDecimal `json:"valor_servico"`
	DescontoIncondicionado decimal.NullDecimal `json:"desconto_incondicionado"`
	ValorDeducao           decimal.NullDecimal `json:"valor_deducao"`
	ValorISS               decimal.NullDecimal `json:"valor_iss"`
	NaturezaOperacao       *string             `json:"natureza_operacao,omitempty"`
	DescricaoServico       *string             `json:"descricao_servico,omitempty"`
	ValorTotal             decimal.NullDecimal `json:"valor_total"`
	DescontoIncondicional  decimal.NullDecimal `json:"desconto_incondicional"`
	Deducao                decimal.NullDecimal `json:"deducao"`
	BaseCalculo            decimal.NullDecimal `json:"base_calculo"`
	ISSQN                  decimal.NullDecimal `json:"issqn"`
	ISSRF                  decimal.NullDecimal `json:"issrf"`
	IR                     decimal.NullDecimal `json:"ir"`
	INSS                   decimal.NullDecimal `json:"inss"`
	CSLL                   decimal.NullDecimal `json:"csll"`
	COFINS                 decimal.NullDecimal `json:"cofins"`
	PIS                    decimal.NullDecimal `json:"pis"`
	OutrasRetencoes        decimal.NullDecimal `json:"outras_retencoes"`
	TotalTributosFederais  decimal.NullDecimal `json:"total_tributos_federais"`
	DescontoCondicional    decimal.NullDecimal `json:"desconto_condicional"`
	ValorLiquido           decimal.NullDecimal `json:"valor_liquido"`
}

// Invoice is the aggregate persisted by one insert.
type Invoice struct {
	Prestador Prestador  `json:"prestador"`
	Tomador   Tomador    `json:"tomador"`
	Nota      NotaFiscal `json:"nota"`
	Servico   Servico    `json:"servico"`
}

// InvoiceSummary is a flattened read model used by listings and exports.
type InvoiceSummary struct {
	ID               int64               `json:"id"`
	Numero           string              `json:"numero"`
	Identificador    *string             `json:"identificador,omitempty"`
	DataFatoGerador  *string             `json:"data_fato_gerador,omitempty"`
	DataHoraEmissao  *string             `json:"data_hora_emissao,omitempty"`
	PrestadorNome    string              `json:"prestador_razao_social"`
	PrestadorCNPJ    string              `json:"prestador_cnpj"`
	TomadorNome      string              `json:"tomador_nome_razao_social"`
	TomadorDocumento string              `json:"tomador_cpf_cnpj"`
	ValorServico     decimal.NullDecimal `json:"valor_servico"`
	ValorLiquido     decimal.NullDecimal `json:"valor_liquido"`
	DescricaoServico *string             `json:"descricao_servico,omitempty"`
}
