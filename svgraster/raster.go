// Renders a parsed SVG document to a bitmap by wrapping rasterx.
// The renderer covers the shape, paint and transform subset needed to
// preview rescaled icons; paint servers, filters and clipping are
// ignored.
package svgraster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgscale/svgdom"
	"github.com/benoitkugler/svgscale/svgnum"
	"github.com/benoitkugler/svgscale/svgstyle"
	"github.com/benoitkugler/svgscale/svgtransform"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Renderer rasterizes filled and stroked paths. Filling and stroking
// use separate instances to avoid shared scanner state.
type Renderer struct {
	filler *rasterx.Filler
	dasher *rasterx.Dasher
}

// NewRenderer returns a renderer drawing into the given scanner.
func NewRenderer(width, height int, scanner rasterx.Scanner) *Renderer {
	return &Renderer{
		filler: rasterx.NewFiller(width, height, scanner),
		dasher: rasterx.NewDasher(width, height, scanner),
	}
}

func (rd *Renderer) clear() {
	rd.filler.Clear()
	rd.dasher.Clear()
}

func (rd *Renderer) start(a fixed.Point26_6) {
	rd.filler.Start(a)
	rd.dasher.Start(a)
}

func (rd *Renderer) line(b fixed.Point26_6) {
	rd.filler.Line(b)
	rd.dasher.Line(b)
}

func (rd *Renderer) quadBezier(b, c fixed.Point26_6) {
	rd.filler.QuadBezier(b, c)
	rd.dasher.QuadBezier(b, c)
}

func (rd *Renderer) cubeBezier(b, c, d fixed.Point26_6) {
	rd.filler.CubeBezier(b, c, d)
	rd.dasher.CubeBezier(b, c, d)
}

func (rd *Renderer) stop(closeLoop bool) {
	rd.filler.Stop(closeLoop)
	rd.dasher.Stop(closeLoop)
}

// drawState is the inherited paint context of one element.
type drawState struct {
	fill          color.Color // nil turns filling off
	stroke        color.Color // nil turns stroking off
	fillOpacity   float64
	strokeOpacity float64
	opacity       float64
	strokeWidth   float64
	m             svgtransform.Matrix2D
}

// skippedContainers hold content that is referenced, not rendered in
// place, or that this renderer does not interpret.
var skippedContainers = map[string]bool{
	"defs": true, "style": true, "clipPath": true, "mask": true,
	"marker": true, "pattern": true, "filter": true, "symbol": true,
	"linearGradient": true, "radialGradient": true,
	"title": true, "desc": true, "metadata": true,
}

// Render rasterizes doc into a width x height image. The root viewBox
// (or, failing that, the width/height attributes) is mapped onto the
// full target rectangle.
func Render(doc *svgdom.Document, width, height int) (*image.RGBA, error) {
	vbX, vbY, vbW, vbH, err := viewBox(doc.Root)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	rd := NewRenderer(width, height, scanner)

	rules := svgstyle.Collect(doc)
	state := drawState{
		fill:          color.NRGBA{0, 0, 0, 255}, // black, the initial fill paint
		fillOpacity:   1,
		strokeOpacity: 1,
		opacity:       1,
		strokeWidth:   1,
		m: svgtransform.Identity.
			Scale(float64(width)/vbW, float64(height)/vbH).
			Translate(-vbX, -vbY),
	}
	if err := rd.renderNode(doc.Root, rules, state); err != nil {
		return nil, err
	}
	return img, nil
}

// viewBox extracts the root coordinate system, falling back to the
// width and height attributes for documents without one.
func viewBox(root *svgdom.Node) (x, y, w, h float64, err error) {
	if v, ok := root.Attr("viewBox"); ok {
		f := strings.FieldsFunc(v, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r' })
		if len(f) != 4 {
			return 0, 0, 0, 0, fmt.Errorf("invalid viewBox %q", v)
		}
		var vals [4]float64
		for i, s := range f {
			vals[i], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return 0, 0, 0, 0, fmt.Errorf("invalid viewBox %q", v)
			}
		}
		if vals[2] <= 0 || vals[3] <= 0 {
			return 0, 0, 0, 0, fmt.Errorf("invalid viewBox %q", v)
		}
		return vals[0], vals[1], vals[2], vals[3], nil
	}
	w, err = lengthAttr(root, "width")
	if err != nil {
		return 0, 0, 0, 0, err
	}
	h, err = lengthAttr(root, "height")
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("cannot size <%s>: no viewBox and no positive width/height", root.Name)
	}
	return 0, 0, w, h, nil
}

func lengthAttr(n *svgdom.Node, name string) (float64, error) {
	v, ok := n.Attr(name)
	if !ok {
		return 0, nil
	}
	num, _, _ := svgnum.SplitUnit(strings.TrimSpace(v))
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q on <%s>", name, v, n.Name)
	}
	return f, nil
}

func floatAttr(n *svgdom.Node, props []svgstyle.Prop, name string, def float64) (float64, error) {
	v, ok := svgstyle.Get(props, name)
	if !ok {
		v, ok = n.Attr(name)
	}
	if !ok {
		return def, nil
	}
	num, _, _ := svgnum.SplitUnit(strings.TrimSpace(v))
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q on <%s>", name, v, n.Name)
	}
	return f, nil
}

// applyPaint folds the paint attributes and cascaded properties of n
// into the inherited state.
func applyPaint(n *svgdom.Node, props []svgstyle.Prop, state drawState) (drawState, error) {
	get := func(key string) (string, bool) {
		if v, ok := svgstyle.Get(props, key); ok {
			return v, true
		}
		return n.Attr(key)
	}
	if v, ok := get("fill"); ok {
		c, err := ParseColor(v)
		if err != nil {
			return state, err
		}
		state.fill = c
	}
	if v, ok := get("stroke"); ok {
		c, err := ParseColor(v)
		if err != nil {
			return state, err
		}
		state.stroke = c
	}
	var err error
	if state.fillOpacity, err = floatAttr(n, props, "fill-opacity", state.fillOpacity); err != nil {
		return state, err
	}
	if state.strokeOpacity, err = floatAttr(n, props, "stroke-opacity", state.strokeOpacity); err != nil {
		return state, err
	}
	var groupOpacity float64
	if groupOpacity, err = floatAttr(n, props, "opacity", 1); err != nil {
		return state, err
	}
	state.opacity *= groupOpacity
	if state.strokeWidth, err = floatAttr(n, props, "stroke-width", state.strokeWidth); err != nil {
		return state, err
	}
	if v, ok := get("transform"); ok {
		ops, err := svgtransform.Parse(v)
		if err != nil {
			return state, err
		}
		local, err := svgtransform.Compose(ops)
		if err != nil {
			return state, err
		}
		state.m = state.m.Mult(local)
	}
	return state, nil
}

func (rd *Renderer) renderNode(n *svgdom.Node, rules []svgstyle.Rule, state drawState) error {
	if n.Kind != svgdom.ElementNode {
		return nil
	}
	if skippedContainers[n.Name] {
		return nil
	}
	props := svgstyle.Resolve(rules, n)
	state, err := applyPaint(n, props, state)
	if err != nil {
		return fmt.Errorf("<%s>: %w", n.Name, err)
	}

	// stroke parameters must be set before the path is fed in: the
	// dasher generates stroke geometry incrementally
	rd.clear()
	if w := strokePixelWidth(state); w > 0 {
		rd.dasher.SetStroke(fixed.Int26_6(w*64), 4*64,
			rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Round, nil, 0)
	}

	b := &pathBuilder{rd: rd, m: state.m}
	drawn := true
	switch n.Name {
	case "rect":
		err = addRect(b, n, props)
	case "circle", "ellipse":
		err = addEllipse(b, n, props)
	case "line":
		err = addLine(b, n, props)
	case "polyline":
		err = addPoly(b, n, false)
	case "polygon":
		err = addPoly(b, n, true)
	case "path":
		d, _ := n.Attr("d")
		err = appendPath(b, d)
		b.stop(false)
	default:
		drawn = false
	}
	if err != nil {
		return fmt.Errorf("<%s>: %w", n.Name, err)
	}
	if drawn {
		rd.draw(state)
	}

	for _, c := range n.Children {
		if err := rd.renderNode(c, rules, state); err != nil {
			return err
		}
	}
	return nil
}

// strokePixelWidth is a uniform approximation of the transformed
// stroke width.
func strokePixelWidth(state drawState) float64 {
	return state.strokeWidth * math.Sqrt(math.Abs(state.m.Det()))
}

// draw paints the current path with the fill and stroke of state.
func (rd *Renderer) draw(state drawState) {
	if state.fill != nil {
		rd.filler.SetColor(rasterx.ApplyOpacity(state.fill, state.fillOpacity*state.opacity))
		rd.filler.Draw()
	}
	if state.stroke != nil && strokePixelWidth(state) > 0 {
		rd.dasher.SetColor(rasterx.ApplyOpacity(state.stroke, state.strokeOpacity*state.opacity))
		rd.dasher.Draw()
	}
}

const kappa = 0.5522847498307903 // 4*(sqrt(2)-1)/3, circle from cubics

func addRect(b *pathBuilder, n *svgdom.Node, props []svgstyle.Prop) error {
	x, err := floatAttr(n, props, "x", 0)
	if err != nil {
		return err
	}
	y, err := floatAttr(n, props, "y", 0)
	if err != nil {
		return err
	}
	w, err := floatAttr(n, props, "width", 0)
	if err != nil {
		return err
	}
	h, err := floatAttr(n, props, "height", 0)
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return nil
	}
	rx, err := floatAttr(n, props, "rx", 0)
	if err != nil {
		return err
	}
	ry, err := floatAttr(n, props, "ry", rx)
	if err != nil {
		return err
	}
	if rx == 0 {
		rx = ry
	}
	if rx <= 0 || ry <= 0 {
		b.moveTo(x, y)
		b.lineTo(x+w, y)
		b.lineTo(x+w, y+h)
		b.lineTo(x, y+h)
		b.close()
		return nil
	}
	if rx > w/2 {
		rx = w / 2
	}
	if ry > h/2 {
		ry = h / 2
	}
	b.moveTo(x+rx, y)
	b.lineTo(x+w-rx, y)
	b.cubeTo(x+w-rx+kappa*rx, y, x+w, y+ry-kappa*ry, x+w, y+ry)
	b.lineTo(x+w, y+h-ry)
	b.cubeTo(x+w, y+h-ry+kappa*ry, x+w-rx+kappa*rx, y+h, x+w-rx, y+h)
	b.lineTo(x+rx, y+h)
	b.cubeTo(x+rx-kappa*rx, y+h, x, y+h-ry+kappa*ry, x, y+h-ry)
	b.lineTo(x, y+ry)
	b.cubeTo(x, y+ry-kappa*ry, x+rx-kappa*rx, y, x+rx, y)
	b.close()
	return nil
}

func addEllipse(b *pathBuilder, n *svgdom.Node, props []svgstyle.Prop) error {
	cx, err := floatAttr(n, props, "cx", 0)
	if err != nil {
		return err
	}
	cy, err := floatAttr(n, props, "cy", 0)
	if err != nil {
		return err
	}
	var rx, ry float64
	if n.Name == "circle" {
		rx, err = floatAttr(n, props, "r", 0)
		ry = rx
	} else {
		rx, err = floatAttr(n, props, "rx", 0)
		if err == nil {
			ry, err = floatAttr(n, props, "ry", 0)
		}
	}
	if err != nil {
		return err
	}
	if rx <= 0 || ry <= 0 {
		return nil
	}
	b.moveTo(cx+rx, cy)
	b.cubeTo(cx+rx, cy+kappa*ry, cx+kappa*rx, cy+ry, cx, cy+ry)
	b.cubeTo(cx-kappa*rx, cy+ry, cx-rx, cy+kappa*ry, cx-rx, cy)
	b.cubeTo(cx-rx, cy-kappa*ry, cx-kappa*rx, cy-ry, cx, cy-ry)
	b.cubeTo(cx+kappa*rx, cy-ry, cx+rx, cy-kappa*ry, cx+rx, cy)
	b.close()
	return nil
}

func addLine(b *pathBuilder, n *svgdom.Node, props []svgstyle.Prop) error {
	x1, err := floatAttr(n, props, "x1", 0)
	if err != nil {
		return err
	}
	y1, err := floatAttr(n, props, "y1", 0)
	if err != nil {
		return err
	}
	x2, err := floatAttr(n, props, "x2", 0)
	if err != nil {
		return err
	}
	y2, err := floatAttr(n, props, "y2", 0)
	if err != nil {
		return err
	}
	b.moveTo(x1, y1)
	b.lineTo(x2, y2)
	b.stop(false)
	return nil
}

func addPoly(b *pathBuilder, n *svgdom.Node, closed bool) error {
	v, ok := n.Attr("points")
	if !ok {
		return nil
	}
	f := strings.FieldsFunc(v, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' || r == '\n' || r == '\r' })
	if len(f) < 4 || len(f)%2 != 0 {
		return fmt.Errorf("invalid points %q", v)
	}
	coords := make([]float64, len(f))
	for i, s := range f {
		var err error
		coords[i], err = strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid points %q", v)
		}
	}
	b.moveTo(coords[0], coords[1])
	for i := 2; i < len(coords); i += 2 {
		b.lineTo(coords[i], coords[i+1])
	}
	if closed {
		b.close()
	} else {
		b.stop(false)
	}
	return nil
}
