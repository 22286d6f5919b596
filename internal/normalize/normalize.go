// Package normalize turns invoice payloads of arbitrary shape into the
// canonical four-section Record.
package normalize

// maxTextDepth bounds how many times a JSON string may itself hold another
// encoded payload.
const maxTextDepth = 8

// Normalize converts payload into a Record. It never fails: input that
// cannot be interpreted yields an empty Record.
//
// Accepted inputs are Mapping, map[string]any, string and []byte.
func Normalize(payload any) Record {
	return normalize(Classify(payload), 0)
}

func normalize(p Payload, depth int) Record {
	switch p.Kind {
	case KindTrusted:
		return fromTrusted(p.Mapping)
	case KindMapping:
		return AutoMap(p.Mapping)
	case KindJSON, KindXML:
		if p.Mapping != nil {
			return normalize(classifyMapping(p.Mapping), depth)
		}
		// a decoded string is itself a payload; other values carry nothing
		if s, ok := p.Value.(string); ok && depth < maxTextDepth {
			return normalize(classifyText(s), depth+1)
		}
		return Record{}
	case KindText:
		return ExtractFromText(p.Text)
	default:
		return Record{}
	}
}
