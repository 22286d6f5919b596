package entity

// DictionaryEntry describes one column of the persisted schema.
type DictionaryEntry struct {
	Tabela      string  `json:"tabela" yaml:"tabela"`
	Coluna      string  `json:"coluna" yaml:"coluna"`
	TipoDado    string  `json:"tipo_dado" yaml:"tipo_dado"`
	Tamanho     *string `json:"tamanho,omitempty" yaml:"tamanho,omitempty"`
	PermiteNulo string  `json:"permite_nulo" yaml:"permite_nulo"`
	Chave       *string `json:"chave,omitempty" yaml:"chave,omitempty"`
	Descricao   string  `json:"descricao" yaml:"descricao"`
	Exemplo     *string `json:"exemplo,omitempty" yaml:"exemplo,omitempty"`
}

// ReferenceCode is a row of a code catalog (atividade_municipio, atividade_nacional, local_prestacao).
type ReferenceCode struct {
	Codigo    string `json:"codigo" yaml:"codigo"`
	Descricao string `json:"descricao" yaml:"descricao"`
}
