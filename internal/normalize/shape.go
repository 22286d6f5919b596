package normalize

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/nfse-ingest/constants"
)

// Kind is the detected shape of an incoming payload.
type Kind int

const (
	KindUnknown Kind = iota
	KindTrusted
	KindMapping
	KindJSON
	KindXML
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindTrusted:
		return "trusted"
	case KindMapping:
		return "mapping"
	case KindJSON:
		return "json"
	case KindXML:
		return "xml"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Payload is a classified input. Exactly one of Mapping, Value or Text is
// meaningful, depending on Kind.
type Payload struct {
	Kind    Kind
	Mapping Mapping
	// Value is the decoded document when it is not an object.
	Value any
	Text  string
}

var (
	reFenceJSON = regexp.MustCompile("```json\\s*")
	reFenceXML  = regexp.MustCompile("```xml\\s*")
	reFence     = regexp.MustCompile("```\\s*")
)

// CleanText strips Markdown code fences and surrounding whitespace.
func CleanText(s string) string {
	s = reFenceJSON.ReplaceAllString(s, "")
	s = reFenceXML.ReplaceAllString(s, "")
	s = reFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Classify resolves the shape of v once. Text is fence-stripped and then
// tried as JSON, then XML, falling back to free text.
func Classify(v any) Payload {
	switch t := v.(type) {
	case Mapping:
		return classifyMapping(t)
	case map[string]any:
		return classifyMapping(FromMap(t))
	case []byte:
		return classifyText(string(t))
	case string:
		return classifyText(t)
	default:
		return Payload{Kind: KindUnknown}
	}
}

func classifyMapping(m Mapping) Payload {
	if m.Has(constants.Wrapper) {
		return Payload{Kind: KindTrusted, Mapping: m}
	}
	return Payload{Kind: KindMapping, Mapping: m}
}

func classifyText(s string) Payload {
	s = CleanText(s)
	if v, err := DecodeJSON(s); err == nil {
		if m, ok := v.(Mapping); ok {
			return Payload{Kind: KindJSON, Mapping: m}
		}
		return Payload{Kind: KindJSON, Value: v}
	}
	if v, err := DecodeXML(s); err == nil {
		if m, ok := v.(Mapping); ok {
			return Payload{Kind: KindXML, Mapping: unwrapBareRoot(m)}
		}
		return Payload{Kind: KindXML, Value: v}
	}
	return Payload{Kind: KindText, Text: s}
}

// unwrapBareRoot drops a nota_fiscal root element that carries no section
// children, so its fields reach the auto-mapper instead of the extras.
func unwrapBareRoot(m Mapping) Mapping {
	if len(m) != 1 || m[0].Key != constants.Wrapper {
		return m
	}
	inner, ok := m[0].Value.(Mapping)
	if !ok {
		return m
	}
	for _, s := range constants.Sections {
		if inner.Has(string(s)) {
			return m
		}
	}
	return inner
}
