// Package reference holds the static catalogs seeded into the store: the
// field dictionary and the activity and municipality code tables.
package reference

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/nfse-ingest/internal/entity"
)

//go:embed reference.yaml
var referenceYAML []byte

//go:embed schema.json
var schemaJSON []byte

// Catalog is the full set of reference data.
type Catalog struct {
	Dictionary          []entity.DictionaryEntry `yaml:"dicionario_dados"`
	AtividadesMunicipio []entity.ReferenceCode   `yaml:"atividade_municipio"`
	AtividadesNacional  []entity.ReferenceCode   `yaml:"atividade_nacional"`
	LocaisPrestacao     []entity.ReferenceCode   `yaml:"local_prestacao"`
}

var load = sync.OnceValues(func() (*Catalog, error) {
	return Parse(referenceYAML)
})

// Load returns the embedded catalog. It is parsed once per process and must
// not be modified by callers.
func Load() (*Catalog, error) {
	return load()
}

// Parse validates a YAML catalog against the embedded schema and decodes it.
func Parse(doc []byte) (*Catalog, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}
	var c Catalog
	if err := yaml.Unmarshal(doc, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

func validate(doc []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("reference.json", bytes.NewReader(schemaJSON)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("reference.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	raw, err := yaml.YAMLToJSON(doc)
	if err != nil {
		return fmt.Errorf("convert catalog: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal catalog: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("catalog does not match schema: %w", err)
	}
	return nil
}
