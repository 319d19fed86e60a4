package svgstyle

import (
	"strings"
	"testing"

	"github.com/benoitkugler/svgscale/svgdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *svgdom.Document {
	t.Helper()
	doc, err := svgdom.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func findByID(n *svgdom.Node, id string) *svgdom.Node {
	if n.Kind == svgdom.ElementNode {
		if v, _ := n.Attr("id"); v == id {
			return n
		}
	}
	for _, c := range n.Children {
		if m := findByID(c, id); m != nil {
			return m
		}
	}
	return nil
}

func TestCollectAndSpecificity(t *testing.T) {
	doc := mustParse(t, `<svg>
  <style>
    /* tag, class and id rules with increasing weight */
    rect { stroke-width: 1; }
    .wide { stroke-width: 2; }
    #main { stroke-width: 3; }
  </style>
  <rect id="main" class="wide" width="10"/>
  <rect class="wide" width="10"/>
  <rect width="10"/>
</svg>`)
	rules := Collect(doc)
	require.Len(t, rules, 3)
	assert.Equal(t, uint32(1), rules[0].Specificity)
	assert.Equal(t, uint32(10), rules[1].Specificity)
	assert.Equal(t, uint32(100), rules[2].Specificity)

	props := Resolve(rules, findByID(doc.Root, "main"))
	v, ok := Get(props, "stroke-width")
	require.True(t, ok)
	assert.Equal(t, "3", v, "id beats class beats tag")
}

func TestSourceOrderBreaksTies(t *testing.T) {
	doc := mustParse(t, `<svg>
  <style>.a { fill: red; } .b { fill: blue; }</style>
  <rect id="r" class="a b"/>
</svg>`)
	props := Resolve(Collect(doc), findByID(doc.Root, "r"))
	v, _ := Get(props, "fill")
	assert.Equal(t, "blue", v)
}

func TestInlineStyleWins(t *testing.T) {
	doc := mustParse(t, `<svg>
  <style>#r { fill: red; stroke: black; }</style>
  <rect id="r" style="fill: green"/>
</svg>`)
	props := Resolve(Collect(doc), findByID(doc.Root, "r"))
	v, _ := Get(props, "fill")
	assert.Equal(t, "green", v)
	v, _ = Get(props, "stroke")
	assert.Equal(t, "black", v)
}

func TestCombinators(t *testing.T) {
	doc := mustParse(t, `<svg>
  <style>
    g rect { fill: a; }
    g > rect { stroke: b; }
    svg > rect { opacity: c; }
  </style>
  <g><rect id="inner"/></g>
  <rect id="outer"/>
</svg>`)
	rules := Collect(doc)

	inner := Resolve(rules, findByID(doc.Root, "inner"))
	v, ok := Get(inner, "fill")
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	_, ok = Get(inner, "opacity")
	assert.False(t, ok, "child combinator requires the immediate parent")
	v, _ = Get(inner, "stroke")
	assert.Equal(t, "b", v)

	outer := Resolve(rules, findByID(doc.Root, "outer"))
	_, ok = Get(outer, "fill")
	assert.False(t, ok, "descendant combinator needs a matching ancestor")
	v, _ = Get(outer, "opacity")
	assert.Equal(t, "c", v)
}

func TestCompoundSelector(t *testing.T) {
	sel, ok := parseSelector("rect.wide.tall#main")
	require.True(t, ok)
	assert.Equal(t, Simple{Tag: "rect", ID: "main", Classes: []string{"wide", "tall"}}, sel.Target)
	assert.Equal(t, uint32(121), specificity(sel))
}

func TestUnsupportedSelectorsDropped(t *testing.T) {
	rules := parseSheet(`
    rect:hover { fill: a; }
    a b c { fill: b; }
    [width] { fill: c; }
    rect { fill: d; }
  `)
	require.Len(t, rules, 1)
	v, _ := Get(rules[0].Props, "fill")
	assert.Equal(t, "d", v)
}

func TestParseInlineAndSerialize(t *testing.T) {
	props := ParseInline(" fill : red ; stroke-width:2;;broken")
	assert.Equal(t, []Prop{{"fill", "red"}, {"stroke-width", "2"}}, props)
	assert.Equal(t, "fill:red;stroke-width:2", Serialize(props))
}
