package normalize

import (
	"github.com/joseph-ayodele/nfse-ingest/constants"
)

// Record is the canonical four-section invoice representation.
// Extras holds any other keys found next to the sections inside the wrapper,
// such as observacoes or outras_informacoes.
type Record struct {
	Prestador Mapping
	Tomador   Mapping
	Nota      Mapping
	Servico   Mapping
	Extras    Mapping
}

func (r *Record) set(s constants.Section, key string, value any) {
	switch s {
	case constants.SectionPrestador:
		r.Prestador.Set(key, value)
	case constants.SectionTomador:
		r.Tomador.Set(key, value)
	case constants.SectionNota:
		r.Nota.Set(key, value)
	case constants.SectionServico:
		r.Servico.Set(key, value)
	}
}

// IsEmpty reports whether no section carries a field.
func (r Record) IsEmpty() bool {
	return len(r.Prestador) == 0 && len(r.Tomador) == 0 && len(r.Nota) == 0 && len(r.Servico) == 0
}

// Mapping renders the record in its wrapped wire shape.
func (r Record) Mapping() Mapping {
	inner := Mapping{
		{Key: string(constants.SectionPrestador), Value: orEmpty(r.Prestador)},
		{Key: string(constants.SectionTomador), Value: orEmpty(r.Tomador)},
		{Key: string(constants.SectionNota), Value: orEmpty(r.Nota)},
		{Key: string(constants.SectionServico), Value: orEmpty(r.Servico)},
	}
	inner = append(inner, r.Extras...)
	return Mapping{{Key: constants.Wrapper, Value: inner}}
}

// MarshalJSON writes the wrapped wire shape.
func (r Record) MarshalJSON() ([]byte, error) {
	return r.Mapping().MarshalJSON()
}

func orEmpty(m Mapping) Mapping {
	if m == nil {
		return Mapping{}
	}
	return m
}

// fromTrusted reads the sections of an already wrapped mapping. A wrapper
// or section holding something other than a mapping reads as empty.
func fromTrusted(m Mapping) Record {
	inner := m.Sub(constants.Wrapper)
	var rec Record
	for _, f := range inner {
		switch constants.Section(f.Key) {
		case constants.SectionPrestador:
			rec.Prestador, _ = f.Value.(Mapping)
		case constants.SectionTomador:
			rec.Tomador, _ = f.Value.(Mapping)
		case constants.SectionNota:
			rec.Nota, _ = f.Value.(Mapping)
		case constants.SectionServico:
			rec.Servico, _ = f.Value.(Mapping)
		default:
			rec.Extras = append(rec.Extras, f)
		}
	}
	return rec
}
