package pattern

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeXML reads a BulletML document into a raw tree. Namespaces and
// doctype declarations are ignored; only label and type attributes are kept.
func DecodeXML(r io.Reader) (RawNode, error) {
	dec := xml.NewDecoder(r)

	var (
		stack []*RawNode
		root  *RawNode
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return RawNode{}, fmt.Errorf("pattern: decode xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if root != nil {
				return RawNode{}, fmt.Errorf("pattern: decode xml: content after root element")
			}
			n := &RawNode{Name: el.Name.Local}
			for _, attr := range el.Attr {
				switch attr.Name.Local {
				case "label":
					n.Label = attr.Value
				case "type":
					n.Type = attr.Value
				}
			}
			stack = append(stack, n)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Value += string(el)
			}
		case xml.EndElement:
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n.Value = strings.TrimSpace(n.Value)
			if len(stack) == 0 {
				root = n
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, *n)
		}
	}

	if root == nil {
		return RawNode{}, fmt.Errorf("pattern: decode xml: no root element")
	}
	return *root, nil
}

// ParseXML decodes, compiles and resolves a BulletML XML document.
func ParseXML(r io.Reader) (*Tree, error) {
	raw, err := DecodeXML(r)
	if err != nil {
		return nil, err
	}
	return Build(raw)
}

// DecodeYAML reads the YAML form of a pattern: a RawNode document with
// node/label/type/value/children keys.
func DecodeYAML(data []byte) (RawNode, error) {
	var raw RawNode
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return RawNode{}, fmt.Errorf("pattern: decode yaml: %w", err)
	}
	return raw, nil
}

// ParseYAML decodes, compiles and resolves the YAML form of a pattern.
func ParseYAML(data []byte) (*Tree, error) {
	raw, err := DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return Build(raw)
}
