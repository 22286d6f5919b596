package normalize

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// textKey holds element text when the element also has children.
const textKey = "_text"

type xmlNode struct {
	name     string
	fields   Mapping
	text     strings.Builder
	children int
}

// DecodeXML parses a single-rooted XML document.
//
// Attributes merge into the element's mapping, repeated child tags collapse
// into a list, and a childless element with text becomes that text. Names
// are used without their namespace. The result is the root wrapped under its
// own name, or a string when the root is a text leaf.
func DecodeXML(s string) (any, error) {
	dec := xml.NewDecoder(strings.NewReader(s))
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }

	var (
		stack []*xmlNode
		root  any
		name  string
		done  bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if done {
				return nil, errors.New("xml: multiple root elements")
			}
			if n := len(stack); n > 0 {
				stack[n-1].firstChild()
			}
			node := &xmlNode{name: t.Name.Local, fields: Mapping{}}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				node.fields.Set(a.Name.Local, a.Value)
			}
			stack = append(stack, node)
		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, errors.New("xml: text outside root element")
				}
				continue
			}
			// only text ahead of the first child counts as element text
			if top := stack[len(stack)-1]; top.children == 0 {
				top.text.Write(t)
			}
		case xml.EndElement:
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			value := node.value()
			if len(stack) == 0 {
				root, name, done = value, node.name, true
				continue
			}
			appendChild(&stack[len(stack)-1].fields, node.name, value)
		}
	}
	if !done {
		return nil, errors.New("xml: no root element")
	}
	if m, ok := root.(Mapping); ok {
		return Mapping{{Key: name, Value: m}}, nil
	}
	return root, nil
}

// firstChild records a child start, moving any leading text into the
// mapping before the first child is added.
func (n *xmlNode) firstChild() {
	n.children++
	if n.children > 1 {
		return
	}
	if text := strings.TrimSpace(n.text.String()); text != "" {
		n.fields.Set(textKey, text)
	}
}

func (n *xmlNode) value() any {
	if n.children == 0 {
		if text := strings.TrimSpace(n.text.String()); text != "" {
			return text
		}
	}
	return n.fields
}

func appendChild(m *Mapping, name string, value any) {
	existing, ok := m.Get(name)
	if !ok {
		m.Set(name, value)
		return
	}
	if list, isList := existing.([]any); isList {
		m.Set(name, append(list, value))
		return
	}
	m.Set(name, []any{existing, value})
}
