// Resolves the style of an element from stylesheet rules and its
// inline style attribute, so that the scaling engine sees one flat
// property list per element.
package svgstyle

import (
	"sort"
	"strings"

	"github.com/benoitkugler/svgscale/svgdom"
)

// Relation positions the optional ancestor part of a selector.
type Relation uint8

const (
	NoAncestor Relation = iota
	Descendant          // whitespace combinator
	Child               // '>' combinator
)

// Simple is one compound of tag, id and class conditions, all of which
// must hold on the same element.
type Simple struct {
	Tag     string
	ID      string
	Classes []string
}

// Matches reports whether n satisfies every condition of s.
func (s Simple) Matches(n *svgdom.Node) bool {
	if n == nil || n.Kind != svgdom.ElementNode {
		return false
	}
	if s.Tag != "" && s.Tag != n.Name {
		return false
	}
	if s.ID != "" {
		id, _ := n.Attr("id")
		if id != s.ID {
			return false
		}
	}
	if len(s.Classes) > 0 {
		have := n.Classes()
		for _, want := range s.Classes {
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// Selector is a target compound with at most one ancestor compound.
type Selector struct {
	Target   Simple
	Ancestor Simple
	Relation Relation
}

// Matches reports whether the selector selects n.
func (s Selector) Matches(n *svgdom.Node) bool {
	if !s.Target.Matches(n) {
		return false
	}
	switch s.Relation {
	case NoAncestor:
		return true
	case Child:
		return s.Ancestor.Matches(n.Parent)
	default:
		for p := n.Parent; p != nil; p = p.Parent {
			if s.Ancestor.Matches(p) {
				return true
			}
		}
		return false
	}
}

// Prop is one CSS declaration.
type Prop struct {
	Key, Value string
}

// Rule binds a selector to declarations, ranked for the cascade.
type Rule struct {
	Selector    Selector
	Props       []Prop
	Specificity uint32
	order       int // position in the concatenated stylesheets
}

func specificity(s Selector) uint32 {
	one := func(c Simple) uint32 {
		var v uint32
		if c.ID != "" {
			v += 100
		}
		v += 10 * uint32(len(c.Classes))
		if c.Tag != "" {
			v++
		}
		return v
	}
	v := one(s.Target)
	if s.Relation != NoAncestor {
		v += one(s.Ancestor)
	}
	return v
}

// Collect parses every <style> element of the document into rules, in
// document order. Selector syntax outside the supported subset is
// dropped silently, matching how a renderer ignores rules it cannot
// apply.
func Collect(doc *svgdom.Document) []Rule {
	var sheet strings.Builder
	var walk func(n *svgdom.Node)
	walk = func(n *svgdom.Node) {
		if n.Kind == svgdom.ElementNode && n.Name == "style" {
			for _, c := range n.Children {
				if c.Kind == svgdom.TextNode {
					sheet.WriteString(c.Text)
				}
			}
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(doc.Root)
	return parseSheet(sheet.String())
}

func stripComments(s string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, "/*")
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		j := strings.Index(s[i+2:], "*/")
		if j < 0 {
			return b.String()
		}
		s = s[i+2+j+2:]
	}
}

func parseSheet(sheet string) []Rule {
	sheet = stripComments(sheet)
	var rules []Rule
	order := 0
	for {
		open := strings.IndexByte(sheet, '{')
		if open < 0 {
			return rules
		}
		clos := strings.IndexByte(sheet[open:], '}')
		if clos < 0 {
			return rules
		}
		selectors := sheet[:open]
		body := sheet[open+1 : open+clos]
		sheet = sheet[open+clos+1:]

		props := ParseInline(body)
		for _, selText := range strings.Split(selectors, ",") {
			sel, ok := parseSelector(selText)
			if !ok {
				continue
			}
			rules = append(rules, Rule{
				Selector:    sel,
				Props:       props,
				Specificity: specificity(sel),
				order:       order,
			})
			order++
		}
	}
}

// parseSimple reads one tag/#id/.class compound, in any order.
func parseSimple(s string) (Simple, bool) {
	var out Simple
	i := 0
	ident := func() string {
		start := i
		for i < len(s) {
			c := s[i]
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
				(c >= '0' && c <= '9') || c == '-' || c == '_' {
				i++
				continue
			}
			break
		}
		return s[start:i]
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			id := ident()
			if id == "" {
				return out, false
			}
			out.ID = id
		case '.':
			i++
			cl := ident()
			if cl == "" {
				return out, false
			}
			out.Classes = append(out.Classes, cl)
		default:
			if out.Tag != "" {
				return out, false
			}
			tag := ident()
			if tag == "" {
				return out, false
			}
			out.Tag = tag
		}
	}
	if out.Tag == "" && out.ID == "" && len(out.Classes) == 0 {
		return out, false
	}
	return out, true
}

func parseSelector(s string) (Selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, false
	}
	if i := strings.IndexByte(s, '>'); i >= 0 {
		anc, ok := parseSimple(strings.TrimSpace(s[:i]))
		if !ok {
			return Selector{}, false
		}
		tgt, ok := parseSimple(strings.TrimSpace(s[i+1:]))
		if !ok {
			return Selector{}, false
		}
		return Selector{Target: tgt, Ancestor: anc, Relation: Child}, true
	}
	parts := strings.Fields(s)
	switch len(parts) {
	case 1:
		tgt, ok := parseSimple(parts[0])
		if !ok {
			return Selector{}, false
		}
		return Selector{Target: tgt}, true
	case 2:
		anc, ok := parseSimple(parts[0])
		if !ok {
			return Selector{}, false
		}
		tgt, ok := parseSimple(parts[1])
		if !ok {
			return Selector{}, false
		}
		return Selector{Target: tgt, Ancestor: anc, Relation: Descendant}, true
	default:
		// deeper combinator chains are out of scope
		return Selector{}, false
	}
}

// Resolve computes the flat property list for n: matching rules sorted
// by specificity then source order, later values winning, with the
// inline style attribute on top. The first occurrence of a key fixes
// its position in the result.
func Resolve(rules []Rule, n *svgdom.Node) []Prop {
	var matched []Rule
	for _, r := range rules {
		if r.Selector.Matches(n) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Specificity != matched[j].Specificity {
			return matched[i].Specificity < matched[j].Specificity
		}
		return matched[i].order < matched[j].order
	})
	var out []Prop
	merge := func(props []Prop) {
		for _, p := range props {
			replaced := false
			for i := range out {
				if out[i].Key == p.Key {
					out[i].Value = p.Value
					replaced = true
					break
				}
			}
			if !replaced {
				out = append(out, p)
			}
		}
	}
	for _, r := range matched {
		merge(r.Props)
	}
	if inline, ok := n.Attr("style"); ok {
		merge(ParseInline(inline))
	}
	return out
}

// ParseInline splits "key:value;key:value" declarations. Entries
// without a colon are dropped.
func ParseInline(s string) []Prop {
	var props []Prop
	for _, decl := range strings.Split(s, ";") {
		colon := strings.IndexByte(decl, ':')
		if colon < 0 {
			continue
		}
		key := strings.TrimSpace(decl[:colon])
		val := strings.TrimSpace(decl[colon+1:])
		if key == "" {
			continue
		}
		props = append(props, Prop{Key: key, Value: val})
	}
	return props
}

// Serialize renders props back into style attribute syntax.
func Serialize(props []Prop) string {
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = p.Key + ":" + p.Value
	}
	return strings.Join(parts, ";")
}

// Get returns the value of key in props.
func Get(props []Prop, key string) (string, bool) {
	for _, p := range props {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Set replaces key in place or appends it.
func Set(props []Prop, key, value string) []Prop {
	for i := range props {
		if props[i].Key == key {
			props[i].Value = value
			return props
		}
	}
	return append(props, Prop{Key: key, Value: value})
}

// Remove deletes key, keeping the order of the rest.
func Remove(props []Prop, key string) []Prop {
	for i := range props {
		if props[i].Key == key {
			return append(props[:i], props[i+1:]...)
		}
	}
	return props
}
