package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, m Mapping, key string) any {
	t.Helper()
	v, ok := m.Get(key)
	require.True(t, ok, "missing key %q in %v", key, m.Keys())
	return v
}

func TestNormalizeTrustedShape(t *testing.T) {
	payload := map[string]any{
		"nota_fiscal": map[string]any{
			"prestador":   map[string]any{"razao_social": "ACME", "cnpj": "12.345.678/0001-99"},
			"tomador":     map[string]any{"nome_razao_social": "Fulano", "cpf_cnpj": "123.456.789-00"},
			"nota":        map[string]any{"numero": "104", "identificador": "ABC"},
			"servico":     map[string]any{"valor_servico": "500,00"},
			"observacoes": "entregue",
		},
	}

	rec := Normalize(payload)
	assert.Equal(t, "ACME", get(t, rec.Prestador, "razao_social"))
	assert.Equal(t, "123.456.789-00", get(t, rec.Tomador, "cpf_cnpj"))
	assert.Equal(t, "ABC", get(t, rec.Nota, "identificador"))
	assert.Equal(t, "500,00", get(t, rec.Servico, "valor_servico"))
	assert.Equal(t, "entregue", get(t, rec.Extras, "observacoes"))
}

func TestNormalizeTrustedShapeIsNotRemapped(t *testing.T) {
	// a trusted payload keeps its sections even if aliases would route elsewhere
	rec := Normalize(`{"nota_fiscal": {"prestador": {"nome": "X"}, "nota": {}}}`)
	assert.Equal(t, "X", get(t, rec.Prestador, "nome"))
	assert.Empty(t, rec.Tomador)
	assert.Empty(t, rec.Servico)
}

func TestNormalizeFencedJSON(t *testing.T) {
	text := "```json\n{\"nota_fiscal\": {\"prestador\": {\"cnpj\": \"11.111.111/0001-11\"}}}\n```"
	rec := Normalize(text)
	assert.Equal(t, "11.111.111/0001-11", get(t, rec.Prestador, "cnpj"))
}

func TestNormalizeAutoMapAliases(t *testing.T) {
	rec := Normalize(map[string]any{"valorTotal": "750.00", "cnpj": "12.345.678/0001-99"})
	assert.Equal(t, "750.00", get(t, rec.Servico, "valor_servico"))
	assert.Equal(t, "12.345.678/0001-99", get(t, rec.Prestador, "cnpj"))
	assert.Empty(t, rec.Nota)
}

func TestNormalizeJSONNumbersKeepPrecision(t *testing.T) {
	rec := Normalize(`{"valor": 1234.50}`)
	assert.Equal(t, json.Number("1234.50"), get(t, rec.Servico, "valor_servico"))
}

func TestNormalizeJSONStringHoldingPayload(t *testing.T) {
	rec := Normalize(`"CNPJ: 12.345.678/0001-99"`)
	assert.Equal(t, "12.345.678/0001-99", get(t, rec.Prestador, "cnpj"))
}

func TestNormalizeJSONNonObject(t *testing.T) {
	for _, in := range []string{"123", "[1, 2]", "true", "null"} {
		rec := Normalize(in)
		assert.True(t, rec.IsEmpty(), in)
	}
}

func TestNormalizeXML(t *testing.T) {
	text := "```xml\n" + `<?xml version="1.0" encoding="ISO-8859-1"?>
<CompNfse xmlns="http://www.abrasf.org.br/nfse.xsd">
  <Nfse versao="2.02">
    <Numero>104</Numero>
    <CodigoVerificacao>AB12-CD</CodigoVerificacao>
    <Prestador>
      <Cnpj>12.345.678/0001-99</Cnpj>
      <RazaoSocial>ACME LTDA</RazaoSocial>
    </Prestador>
    <Servico>
      <ValorServicos>1.500,00</ValorServicos>
      <Discriminacao>Consultoria</Discriminacao>
    </Servico>
  </Nfse>
</CompNfse>` + "\n```"

	p := Classify(text)
	require.Equal(t, KindXML, p.Kind)

	rec := Normalize(text)
	assert.Equal(t, "104", get(t, rec.Nota, "numero"))
	assert.Equal(t, "AB12-CD", get(t, rec.Nota, "codigo_verificacao"))
	assert.Equal(t, "12.345.678/0001-99", get(t, rec.Prestador, "cnpj"))
	assert.Equal(t, "ACME LTDA", get(t, rec.Prestador, "razao_social"))
	assert.Equal(t, "1.500,00", get(t, rec.Servico, "valor_servico"))
	assert.Equal(t, "Consultoria", get(t, rec.Servico, "descricao_servico"))
}

func TestNormalizeXMLTrustedRoot(t *testing.T) {
	rec := Normalize(`<nota_fiscal><prestador><cnpj>1</cnpj></prestador><servico><valor_servico>10</valor_servico></servico></nota_fiscal>`)
	assert.Equal(t, "1", get(t, rec.Prestador, "cnpj"))
	assert.Equal(t, "10", get(t, rec.Servico, "valor_servico"))
}

func TestNormalizeXMLBareWrapperRoot(t *testing.T) {
	text := `<nota_fiscal><cnpj>12.345.678/0001-99</cnpj><valor>500,00</valor></nota_fiscal>`
	p := Classify(text)
	require.Equal(t, KindXML, p.Kind)
	assert.False(t, p.Mapping.Has("nota_fiscal"))

	rec := Normalize(text)
	assert.Equal(t, "12.345.678/0001-99", get(t, rec.Prestador, "cnpj"))
	assert.Equal(t, "500,00", get(t, rec.Servico, "valor_servico"))
	assert.Empty(t, rec.Extras)
}

func TestDecodeXMLStructure(t *testing.T) {
	v, err := DecodeXML(`<root id="7">lead<item>a</item><item>b</item><item>c</item><empty/></root>`)
	require.NoError(t, err)

	m, ok := v.(Mapping)
	require.True(t, ok)
	root := m.Sub("root")
	require.NotNil(t, root)
	assert.Equal(t, []string{"id", "_text", "item", "empty"}, root.Keys())
	assert.Equal(t, "7", get(t, root, "id"))
	assert.Equal(t, "lead", get(t, root, "_text"))
	assert.Equal(t, []any{"a", "b", "c"}, get(t, root, "item"))
	assert.Equal(t, Mapping{}, get(t, root, "empty"))
}

func TestDecodeXMLLeafRoot(t *testing.T) {
	v, err := DecodeXML(`<msg kind="x">CNPJ: 12.345.678/0001-99</msg>`)
	require.NoError(t, err)
	assert.Equal(t, "CNPJ: 12.345.678/0001-99", v)

	rec := Normalize(`<msg>CNPJ: 12.345.678/0001-99</msg>`)
	assert.Equal(t, "12.345.678/0001-99", get(t, rec.Prestador, "cnpj"))
}

func TestDecodeXMLRejects(t *testing.T) {
	for _, in := range []string{
		"CNPJ: 12.345.678/0001-99",
		"<a>1</a><b>2</b>",
		"<a>1</a> trailing",
		"<a><b></a>",
		"",
	} {
		_, err := DecodeXML(in)
		assert.Error(t, err, in)
	}
}

func TestNormalizeFreeTextFallback(t *testing.T) {
	rec := Normalize("CNPJ: 12.345.678/0001-99\nVALOR: R$ 500,00")

	assert.Equal(t, []string{"cnpj"}, rec.Prestador.Keys())
	assert.Equal(t, "12.345.678/0001-99", get(t, rec.Prestador, "cnpj"))
	assert.Equal(t, []string{"valor_servico"}, rec.Servico.Keys())
	assert.Equal(t, "500,00", get(t, rec.Servico, "valor_servico"))
	assert.Empty(t, rec.Tomador)
	assert.Empty(t, rec.Nota)
}

func TestNormalizeUnknownType(t *testing.T) {
	for _, in := range []any{nil, 42, 3.14, []string{"x"}, struct{}{}} {
		rec := Normalize(in)
		assert.True(t, rec.IsEmpty())

		out, err := json.Marshal(rec)
		require.NoError(t, err)
		assert.JSONEq(t, `{"nota_fiscal":{"prestador":{},"tomador":{},"nota":{},"servico":{}}}`, string(out))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   any
		want Kind
	}{
		{map[string]any{"nota_fiscal": map[string]any{}}, KindTrusted},
		{map[string]any{"cnpj": "1"}, KindMapping},
		{`{"cnpj": "1"}`, KindJSON},
		{[]byte(`{"cnpj": "1"}`), KindJSON},
		{`<a><cnpj>1</cnpj></a>`, KindXML},
		{"Nota 12 emitida", KindText},
		{"", KindText},
		{7, KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.in).Kind, "%v", tt.in)
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanText("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "<a/>", CleanText("```xml  <a/>```"))
	assert.Equal(t, "texto", CleanText("  ```\ntexto\n```  "))
	// fence markers are matched case-sensitively
	assert.Equal(t, "JSON\n{}", CleanText("```JSON\n{}"))
}
