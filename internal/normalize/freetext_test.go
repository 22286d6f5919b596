package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromText(t *testing.T) {
	text := "PREFEITURA MUNICIPAL\r\n" +
		"Nota Nº: 104\r\n" +
		"Data e Hora de Emissão: 15/03/2024 14:30\r\n" +
		"Código de Verificação: AB12-CD34\r\n" +
		"Prestador CNPJ:\t11.222.333/0001-44\r\n" +
		"Tomador CPF 123.456.789-00\r\n" +
		"Valor Total: R$ 1.234,56\r\n" +
		"Total: R$ 9,99\r\n"

	rec := ExtractFromText(text)
	assert.Equal(t, "11.222.333/0001-44", get(t, rec.Prestador, "cnpj"))
	assert.Equal(t, "123.456.789-00", get(t, rec.Tomador, "cpf_cnpj"))
	assert.Equal(t, "15/03/2024", get(t, rec.Nota, "data_fato_gerador"))
	assert.Equal(t, "15/03/2024 14:30", get(t, rec.Nota, "data_hora_emissao"))
	assert.Equal(t, "AB12-CD34", get(t, rec.Nota, "codigo_verificacao"))
	// first occurrence wins
	assert.Equal(t, "1.234,56", get(t, rec.Servico, "valor_servico"))
}

func TestExtractFromTextCaseInsensitive(t *testing.T) {
	rec := ExtractFromText("cnpj 12.345.678/0001-99 nf #55 emissão 01/02/2023")
	assert.Equal(t, "12.345.678/0001-99", get(t, rec.Prestador, "cnpj"))
	assert.Equal(t, "55", get(t, rec.Nota, "numero"))
	assert.Equal(t, "01/02/2023", get(t, rec.Nota, "data_fato_gerador"))
}

func TestExtractFromTextNoMatches(t *testing.T) {
	rec := ExtractFromText("recibo sem dados reconheciveis")
	assert.True(t, rec.IsEmpty())
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b\n\nc", normalizeWhitespace("  a\t\tb   \r\n\r\n\r\n\r\nc  "))
	assert.Equal(t, "", normalizeWhitespace(""))
}
