package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	require.NotEmpty(t, c.Dictionary)
	assert.NotEmpty(t, c.AtividadesNacional)
	assert.NotEmpty(t, c.AtividadesMunicipio)
	assert.NotEmpty(t, c.LocaisPrestacao)

	first := c.Dictionary[0]
	assert.Equal(t, "prestador", first.Tabela)
	assert.Equal(t, "id", first.Coluna)
	require.NotNil(t, first.Chave)
	assert.Equal(t, "PK", *first.Chave)

	seen := map[string]bool{}
	for _, e := range c.Dictionary {
		key := e.Tabela + "." + e.Coluna
		assert.False(t, seen[key], "duplicate entry %s", key)
		seen[key] = true
	}
	for _, col := range []string{"prestador.cnpj", "tomador.cpf_cnpj", "nota_fiscal.identificador", "servico.valor_servico"} {
		assert.True(t, seen[col], col)
	}

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, c, again)
}

func TestParseRejectsInvalidCatalog(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing sections",
			doc:  "dicionario_dados: []\n",
		},
		{
			name: "bad nullability flag",
			doc: `dicionario_dados:
  - tabela: prestador
    coluna: id
    tipo_dado: INTEGER
    permite_nulo: TALVEZ
    descricao: x
atividade_municipio: []
atividade_nacional: []
local_prestacao: []
`,
		},
		{
			name: "code without description",
			doc: `dicionario_dados:
  - tabela: prestador
    coluna: id
    tipo_dado: INTEGER
    permite_nulo: NAO
    descricao: x
atividade_municipio:
  - codigo: "1"
atividade_nacional: []
local_prestacao: []
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
