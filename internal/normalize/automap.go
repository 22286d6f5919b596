package normalize

import (
	"github.com/joseph-ayodele/nfse-ingest/constants"
)

// maxSearchDepth bounds the nested-mapping search.
const maxSearchDepth = 64

// alias routes a canonical field to its section and lists the source
// spellings to look for, highest priority first.
type alias struct {
	section constants.Section
	target  string
	keys    []string
}

var aliases = []alias{
	{constants.SectionPrestador, "razao_social", []string{"razao_social", "razaoSocial", "nome_prestador", "prestador_nome", "RazaoSocial"}},
	{constants.SectionPrestador, "cnpj", []string{"cnpj", "CNPJ", "cnpj_prestador", "prestador_cnpj", "Cnpj"}},
	{constants.SectionPrestador, "inscricao_municipal", []string{"inscricao_municipal", "inscricaoMunicipal", "InscricaoMunicipal"}},
	{constants.SectionPrestador, "municipio", []string{"municipio", "Municipio", "cidade_prestador"}},
	{constants.SectionTomador, "nome_razao_social", []string{"nome", "razao_social", "razaoSocial", "tomador_nome", "nome_razao_social", "nome_tomador"}},
	{constants.SectionTomador, "cpf_cnpj", []string{"cpf", "cnpj", "CPF", "CNPJ", "documento", "cpf_cnpj", "cpfCnpj", "CpfCnpj"}},
	{constants.SectionTomador, "email", []string{"email", "Email", "e_mail"}},
	{constants.SectionTomador, "telefone", []string{"telefone", "Telefone", "fone"}},
	{constants.SectionNota, "numero", []string{"numero", "numero_nota", "nf", "nota", "Numero", "numero_nfse"}},
	{constants.SectionNota, "serie", []string{"serie", "Serie"}},
	{constants.SectionNota, "identificador", []string{"identificador", "chave", "chave_acesso", "chaveAcesso"}},
	{constants.SectionNota, "data_fato_gerador", []string{"data", "data_emissao", "dataEmissao", "dt_emissao", "DataEmissao", "data_competencia", "Competencia"}},
	{constants.SectionNota, "data_hora_emissao", []string{"data_hora_emissao", "dataHoraEmissao"}},
	{constants.SectionNota, "codigo_verificacao", []string{"codigo_verificacao", "codigoVerificacao", "CodigoVerificacao"}},
	{constants.SectionServico, "valor_servico", []string{"valor", "valor_total", "valorTotal", "total", "valor_servico", "ValorServicos", "valorServico"}},
	{constants.SectionServico, "descricao_servico", []string{"descricao", "discriminacao", "servico", "desc_servico", "Discriminacao", "descricao_servico"}},
	{constants.SectionServico, "aliquota", []string{"aliquota", "Aliquota"}},
	{constants.SectionServico, "valor_iss", []string{"valor_iss", "valorIss", "ValorIss"}},
	{constants.SectionServico, "valor_liquido", []string{"valor_liquido", "valorLiquido", "ValorLiquidoNfse"}},
	{constants.SectionServico, "codigo_servico", []string{"codigo_servico", "codigoServico", "ItemListaServico"}},
}

// AutoMap builds a Record from a mapping without the canonical wrapper by
// searching it for known field aliases. Unmatched fields stay absent.
func AutoMap(m Mapping) Record {
	var rec Record
	for _, a := range aliases {
		if v, ok := findField(m, a.keys); ok {
			rec.set(a.section, a.target, v)
		}
	}
	return rec
}

type frame struct {
	m     Mapping
	depth int
}

// findField walks m depth-first in document order. At each mapping every
// alias is tried in priority order before any nested mapping is entered,
// and the first non-empty scalar found is returned.
func findField(m Mapping, keys []string) (any, bool) {
	stack := []frame{{m: m}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, k := range keys {
			if v, ok := top.m.Get(k); ok && present(v) {
				return v, true
			}
		}
		if top.depth >= maxSearchDepth {
			continue
		}
		for i := len(top.m) - 1; i >= 0; i-- {
			if sub, ok := top.m[i].Value.(Mapping); ok {
				stack = append(stack, frame{m: sub, depth: top.depth + 1})
			}
		}
	}
	return nil, false
}

// present reports whether v is a usable scalar.
func present(v any) bool {
	switch t := v.(type) {
	case nil, Mapping, []any:
		return false
	case string:
		return t != ""
	default:
		return true
	}
}
