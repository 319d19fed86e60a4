// Parses SVG documents into a mutable tree that keeps attribute names,
// attribute order and text content exactly as written, so a rewrite of
// the tree disturbs only what it means to change.
package svgdom

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// NodeKind discriminates the Node variants.
type NodeKind uint8

const (
	ElementNode NodeKind = iota
	TextNode
)

// Attr is one attribute, with the name spelled as in the source
// ("xlink:href", not a resolved namespace pair). Namespace declarations
// are kept as ordinary attributes.
type Attr struct {
	Name  string
	Value string
}

// Node is an element or a text run.
type Node struct {
	Kind     NodeKind
	Name     string // element tag, with prefix if the source had one
	Attrs    []Attr
	Parent   *Node
	Children []*Node
	Text     string // TextNode content
}

// Document is a parsed SVG file.
type Document struct {
	Root *Node
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr replaces the named attribute in place, or appends it.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// RemoveAttr deletes the named attribute, keeping the order of the rest.
func (n *Node) RemoveAttr(name string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// Classes splits the class attribute on whitespace.
func (n *Node) Classes() []string {
	v, ok := n.Attr("class")
	if !ok {
		return nil
	}
	return strings.Fields(v)
}

// nsScope reconstructs prefixed names from the namespace URIs the
// decoder resolves them to. Scopes nest with elements.
type nsScope struct {
	prefixes   map[string]string // URI -> prefix
	defaultURI string
	parent     *nsScope
}

func (s *nsScope) lookup(uri string) (string, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if p, ok := sc.prefixes[uri]; ok {
			return p, true
		}
	}
	return "", false
}

func (s *nsScope) defaultNS() string {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.defaultURI != "" {
			return sc.defaultURI
		}
	}
	return ""
}

func attrName(s *nsScope, name xml.Name) string {
	switch {
	case name.Space == "xmlns":
		return "xmlns:" + name.Local
	case name.Space == "" && name.Local == "xmlns":
		return "xmlns"
	case name.Space == "":
		return name.Local
	}
	if p, ok := s.lookup(name.Space); ok {
		return p + ":" + name.Local
	}
	// undeclared prefixes come through with the prefix in Space
	return name.Space + ":" + name.Local
}

func elementName(s *nsScope, name xml.Name) string {
	if name.Space == "" || name.Space == s.defaultNS() {
		return name.Local
	}
	if p, ok := s.lookup(name.Space); ok {
		return p + ":" + name.Local
	}
	return name.Space + ":" + name.Local
}

// Parse reads an SVG document, decoding any charset the XML prolog
// declares. Comments, processing instructions and the doctype are
// dropped; the engine writes its own prolog.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	var (
		doc   Document
		cur   *Node
		scope = &nsScope{prefixes: map[string]string{}}
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			scope = &nsScope{prefixes: map[string]string{}, parent: scope}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					scope.prefixes[a.Value] = a.Name.Local
				} else if a.Name.Space == "" && a.Name.Local == "xmlns" {
					scope.defaultURI = a.Value
				}
			}
			n := &Node{Kind: ElementNode, Name: elementName(scope, t.Name), Parent: cur}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: attrName(scope, a.Name), Value: a.Value})
			}
			if cur == nil {
				if doc.Root != nil {
					return nil, fmt.Errorf("malformed XML: multiple root elements")
				}
				doc.Root = n
			} else {
				cur.Children = append(cur.Children, n)
			}
			cur = n
		case xml.EndElement:
			cur = cur.Parent
			scope = scope.parent
		case xml.CharData:
			if cur != nil {
				cur.Children = append(cur.Children, &Node{Kind: TextNode, Text: string(t), Parent: cur})
			}
		}
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("malformed XML: no root element")
	}
	return &doc, nil
}

// ParseFile reads and parses the file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
