package constants

// Wrapper is the top-level key of a trusted-shape payload.
const Wrapper = "nota_fiscal"

// Section names of the canonical record.
type Section string

const (
	SectionPrestador Section = "prestador"
	SectionTomador   Section = "tomador"
	SectionNota      Section = "nota"
	SectionServico   Section = "servico"
)

// Sections lists the canonical sections in their stable order.
var Sections = []Section{SectionPrestador, SectionTomador, SectionNota, SectionServico}

// Persisted tables.
const (
	TablePrestador          = "prestador"
	TableTomador            = "tomador"
	TableNotaFiscal         = "nota_fiscal"
	TableServico            = "servico"
	TableServicoAtividade   = "servico_atividade"
	TableAtividadeMunicipio = "atividade_municipio"
	TableAtividadeNacional  = "atividade_nacional"
	TableLocalPrestacao     = "local_prestacao"
	TableDicionarioDados    = "dicionario_dados"
	TableArquivoOrigem      = "arquivo_origem"
)

// StatsTables are the tables reported by table statistics, in display order.
var StatsTables = []string{
	TablePrestador,
	TableTomador,
	TableNotaFiscal,
	TableServico,
	TableAtividadeMunicipio,
	TableAtividadeNacional,
	TableDicionarioDados,
}

// Defaults written when a NOT NULL column has nothing to go on.
const (
	NotInformed     = "Não informado"
	NoInvoiceNumber = "SN"
	ISODate         = "2006-01-02"
	ISODateTime     = "2006-01-02 15:04:05"
)
