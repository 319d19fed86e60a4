// Rewrites an SVG document so that every quantity expressed in user
// units is multiplied by a constant factor, leaving everything relative
// (percentages, object-bounding-box geometry, ratios) untouched.
package svgscale

import (
	"fmt"
	"io"

	"github.com/benoitkugler/svgscale/svgdom"
	"github.com/benoitkugler/svgscale/svgnum"
	"github.com/benoitkugler/svgscale/svgpath"
	"github.com/benoitkugler/svgscale/svgstyle"
	"github.com/benoitkugler/svgscale/svgtransform"
)

// ScaleContext carries the parameters of one rescaling run.
type ScaleContext struct {
	Scale     float64
	Precision int  // fractional digits in rewritten numbers
	FixStroke bool // bake non-scaling strokes into a scaled width
}

const xmlHeader = "<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\"?>\n"

// Scale serializes doc with every user-unit quantity multiplied by
// ctx.Scale. Stylesheet rules are resolved onto each element and the
// <style> elements dropped, so the output carries its styling inline.
func Scale(doc *svgdom.Document, ctx *ScaleContext) ([]byte, error) {
	rules := svgstyle.Collect(doc)
	var w svgdom.Writer
	w.WriteRaw(xmlHeader)
	err := walk(&w, doc.Root, ctx, rules, inherited{})
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// ScaleStream parses from r and writes the scaled document to w.
func ScaleStream(w io.Writer, r io.Reader, ctx *ScaleContext) error {
	doc, err := svgdom.Parse(r)
	if err != nil {
		return err
	}
	out, err := Scale(doc, ctx)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// inherited is the scaling state a subtree receives from its ancestors.
type inherited struct {
	// a strict ancestor carries a non-translate transform: its matrix
	// already absorbs the document scale for this subtree, so geometry
	// and further transforms below stay in their original units.
	noScaleTransform bool
	// the subtree is measured against a bounding box, not user units
	skipScale bool
}

// unitExemptions reports which coordinate systems around n are
// bounding-box relative: self covers n's own geometry attributes, desc
// covers the content n clips, masks, fills or marks with.
func unitExemptions(n *svgdom.Node) (self, desc bool) {
	boundingBox := func(attr, def string) bool {
		v, ok := n.Attr(attr)
		if !ok {
			v = def
		}
		return v == "objectBoundingBox"
	}
	switch n.Name {
	case "linearGradient", "radialGradient":
		self = boundingBox("gradientUnits", "objectBoundingBox")
	case "pattern":
		self = boundingBox("patternUnits", "objectBoundingBox")
		desc = boundingBox("patternContentUnits", "userSpaceOnUse")
	case "mask":
		self = boundingBox("maskUnits", "objectBoundingBox")
		desc = boundingBox("maskContentUnits", "userSpaceOnUse")
	case "clipPath":
		if boundingBox("clipPathUnits", "userSpaceOnUse") {
			self, desc = true, true
		}
	case "filter":
		self = boundingBox("filterUnits", "objectBoundingBox")
		desc = boundingBox("primitiveUnits", "userSpaceOnUse")
	case "marker":
		// markerUnits defaults to strokeWidth: the marker viewport
		// already follows the (scaled) stroke width.
		v, ok := n.Attr("markerUnits")
		if !ok || v == "strokeWidth" {
			self, desc = true, true
		}
	}
	return self, desc
}

func transformOps(n *svgdom.Node, props []svgstyle.Prop) ([]svgtransform.Op, string, error) {
	if v, ok := svgstyle.Get(props, "transform"); ok {
		ops, err := svgtransform.Parse(v)
		return ops, v, err
	}
	if v, ok := n.Attr("transform"); ok {
		ops, err := svgtransform.Parse(v)
		return ops, v, err
	}
	return nil, "", nil
}

func walk(w *svgdom.Writer, n *svgdom.Node, ctx *ScaleContext, rules []svgstyle.Rule, inh inherited) error {
	if n.Kind == svgdom.TextNode {
		w.WriteText(n.Text)
		return nil
	}
	// stylesheets are resolved inline, the elements dropped
	if n.Name == "style" {
		return nil
	}

	props := svgstyle.Resolve(rules, n)

	ops, rawTransform, err := transformOps(n, props)
	if err != nil {
		return numErr(n, "transform", rawTransform, err)
	}
	selfNonTranslate := svgtransform.HasNonTranslate(ops)
	selfUnits, descUnits := unitExemptions(n)

	// a transform on n itself is still rewritten: its matrix is what
	// carries the scale down to the subtree.
	exemptTransform := inh.noScaleTransform || inh.skipScale
	exemptGeom := exemptTransform || selfNonTranslate || selfUnits

	nonScalingStroke := false
	if v, ok := svgstyle.Get(props, "vector-effect"); ok {
		nonScalingStroke = v == "non-scaling-stroke"
	} else if v, ok := n.Attr("vector-effect"); ok {
		nonScalingStroke = v == "non-scaling-stroke"
	}
	keepStrokeWidth := nonScalingStroke && !ctx.FixStroke

	if ctx.FixStroke && nonScalingStroke {
		props = svgstyle.Remove(props, "vector-effect")
	}

	scaleValue := func(key, value string, cat category) (string, bool, error) {
		switch cat {
		case pathData:
			if exemptGeom {
				return value, true, nil
			}
			out, err := svgpath.Scale(value, ctx.Scale, ctx.Precision)
			return out, true, err
		case length:
			if exemptGeom || (key == "stroke-width" && keepStrokeWidth) {
				return value, true, nil
			}
			out, ok, err := svgnum.ScaleLength(value, ctx.Scale, ctx.Precision)
			if !ok {
				// relative units stay relative
				return value, true, nil
			}
			return out, true, err
		case numberList, viewBoxList:
			if exemptGeom {
				return value, true, nil
			}
			out, err := svgnum.ScaleList(value, ctx.Scale, ctx.Precision)
			return out, true, err
		case inverseList:
			if exemptGeom {
				return value, true, nil
			}
			out, err := svgnum.ScaleList(value, 1/ctx.Scale, ctx.Precision)
			return out, true, err
		case transformList:
			if exemptTransform {
				return value, true, nil
			}
			out, err := svgtransform.ScaleValue(value, ctx.Scale, ctx.Precision)
			return out, true, err
		default:
			return value, false, nil
		}
	}

	// rewrite cascaded properties with the same rules as attributes
	for i, p := range props {
		out, _, err := scaleValue(p.Key, p.Value, attrCategories[p.Key])
		if err != nil {
			return numErr(n, p.Key, p.Value, err)
		}
		props[i].Value = out
	}

	w.StartElement(n.Name)
	styleWritten := false
	for _, a := range n.Attrs {
		switch a.Name {
		case "style":
			// the resolved cascade replaces the original inline style,
			// at its original position
			if len(props) > 0 {
				w.WriteAttribute("style", svgstyle.Serialize(props))
			}
			styleWritten = true
			continue
		case "vector-effect":
			if ctx.FixStroke && a.Value == "non-scaling-stroke" {
				continue
			}
		}
		out, _, err := scaleValue(a.Name, a.Value, attrCategories[a.Name])
		if err != nil {
			return numErr(n, a.Name, a.Value, err)
		}
		w.WriteAttribute(a.Name, out)
	}
	if !styleWritten && len(props) > 0 {
		w.WriteAttribute("style", svgstyle.Serialize(props))
	}

	childInh := inherited{
		noScaleTransform: inh.noScaleTransform || selfNonTranslate,
		skipScale:        inh.skipScale || descUnits,
	}
	for _, c := range n.Children {
		if err := walk(w, c, ctx, rules, childInh); err != nil {
			return err
		}
	}
	w.EndElement()
	return nil
}

// Validate checks the parameters before a run.
func (ctx *ScaleContext) Validate() error {
	if ctx.Scale == 0 {
		return fmt.Errorf("scale factor must not be zero")
	}
	if ctx.Precision < 0 {
		return fmt.Errorf("precision must not be negative, got %d", ctx.Precision)
	}
	return nil
}
