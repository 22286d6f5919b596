package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, s string) Mapping {
	t.Helper()
	v, err := DecodeJSON(s)
	require.NoError(t, err)
	m, ok := v.(Mapping)
	require.True(t, ok)
	return m
}

func TestAutoMapAliasPriority(t *testing.T) {
	// both aliases coexist; the earlier alias in the list wins
	rec := AutoMap(mustJSON(t, `{"total": "1,00", "valor": "2,00"}`))
	assert.Equal(t, "2,00", get(t, rec.Servico, "valor_servico"))
}

func TestAutoMapTopLevelBeforeNested(t *testing.T) {
	rec := AutoMap(mustJSON(t, `{"dados": {"numero": "9"}, "nf": "1"}`))
	assert.Equal(t, "1", get(t, rec.Nota, "numero"))
}

func TestAutoMapFirstNestedMatchWins(t *testing.T) {
	// the first nested mapping in document order is searched completely,
	// even though a higher priority alias sits in a later sibling
	rec := AutoMap(mustJSON(t, `{
		"a": {"deep": {"total": "10"}},
		"b": {"valor": "20"}
	}`))
	assert.Equal(t, "10", get(t, rec.Servico, "valor_servico"))
}

func TestAutoMapSkipsEmptyAndNonScalar(t *testing.T) {
	rec := AutoMap(mustJSON(t, `{
		"cnpj": "",
		"servico": {"descricao": "Suporte", "valor": null},
		"nota": {"numero": "77"},
		"itens": [{"valor": "5"}],
		"pagamento": {"total": 0}
	}`))
	// "servico" holds a mapping, so the search descends and finds descricao
	assert.Equal(t, "Suporte", get(t, rec.Servico, "descricao_servico"))
	assert.Equal(t, "77", get(t, rec.Nota, "numero"))
	// lists are not searched; null is not a value; zero is
	v, ok := rec.Servico.Get("valor_servico")
	require.True(t, ok)
	assert.Equal(t, "0", v.(interface{ String() string }).String())
	assert.False(t, rec.Prestador.Has("cnpj"))
}

func TestAutoMapSharedAliasesFeedBothSections(t *testing.T) {
	rec := AutoMap(mustJSON(t, `{"razao_social": "ACME", "cnpj": "12.345.678/0001-99"}`))
	assert.Equal(t, "ACME", get(t, rec.Prestador, "razao_social"))
	assert.Equal(t, "ACME", get(t, rec.Tomador, "nome_razao_social"))
	assert.Equal(t, "12.345.678/0001-99", get(t, rec.Tomador, "cpf_cnpj"))
}

func TestAutoMapUnmatchedFieldsAbsent(t *testing.T) {
	rec := AutoMap(mustJSON(t, `{"foo": {"bar": "baz"}}`))
	assert.True(t, rec.IsEmpty())
}

func TestAutoMapDeepNesting(t *testing.T) {
	var b strings.Builder
	depth := 500
	for i := 0; i < depth; i++ {
		b.WriteString(`{"n":`)
	}
	b.WriteString(`{"valor": "1"}`)
	for i := 0; i < depth; i++ {
		b.WriteString(`}`)
	}

	var rec Record
	assert.NotPanics(t, func() { rec = AutoMap(mustJSON(t, b.String())) })
	// beyond the search depth the value is not found
	assert.False(t, rec.Servico.Has("valor_servico"))

	shallow := AutoMap(mustJSON(t, `{"n":{"n":{"n":{"valor":"1"}}}}`))
	assert.Equal(t, "1", get(t, shallow.Servico, "valor_servico"))
}
