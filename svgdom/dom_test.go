package svgdom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesNames(t *testing.T) {
	const in = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="16">
  <use xlink:href="#a" class="icon small"/>
</svg>`
	doc, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	root := doc.Root
	assert.Equal(t, "svg", root.Name)
	require.Len(t, root.Attrs, 3)
	assert.Equal(t, Attr{"xmlns", "http://www.w3.org/2000/svg"}, root.Attrs[0])
	assert.Equal(t, Attr{"xmlns:xlink", "http://www.w3.org/1999/xlink"}, root.Attrs[1])
	assert.Equal(t, Attr{"width", "16"}, root.Attrs[2])

	var use *Node
	for _, c := range root.Children {
		if c.Kind == ElementNode {
			use = c
		}
	}
	require.NotNil(t, use)
	assert.Equal(t, "use", use.Name)
	href, ok := use.Attr("xlink:href")
	assert.True(t, ok)
	assert.Equal(t, "#a", href)
	assert.Equal(t, []string{"icon", "small"}, use.Classes())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("<svg><rect></svg>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed XML")

	_, err = Parse(strings.NewReader(""))
	require.Error(t, err)
}

func TestNodeAttrOps(t *testing.T) {
	n := &Node{Kind: ElementNode, Name: "rect", Attrs: []Attr{{"x", "1"}, {"y", "2"}}}
	n.SetAttr("x", "10")
	v, _ := n.Attr("x")
	assert.Equal(t, "10", v)
	assert.Equal(t, "x", n.Attrs[0].Name, "SetAttr keeps position")

	n.SetAttr("width", "5")
	assert.Len(t, n.Attrs, 3)

	n.RemoveAttr("y")
	_, ok := n.Attr("y")
	assert.False(t, ok)
	assert.Len(t, n.Attrs, 2)
}

func TestWriter(t *testing.T) {
	var w Writer
	w.StartElement("svg")
	w.WriteAttribute("width", "16")
	w.StartElement("text")
	w.WriteText("a < b & \"c\"")
	w.EndElement()
	w.StartElement("rect")
	w.WriteAttribute("x", `q"t`)
	w.EndElement()
	w.EndElement()
	assert.Equal(t,
		`<svg width="16"><text>a &lt; b &amp; "c"</text><rect x="q&quot;t"/></svg>`,
		string(w.Bytes()))
}
