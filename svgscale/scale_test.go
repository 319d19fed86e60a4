package svgscale

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/benoitkugler/svgscale/svgdom"
	"github.com/benoitkugler/svgscale/svgpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rescale(t *testing.T, in string, ctx *ScaleContext) string {
	t.Helper()
	doc, err := svgdom.Parse(strings.NewReader(in))
	require.NoError(t, err)
	out, err := Scale(doc, ctx)
	require.NoError(t, err)
	return strings.TrimPrefix(string(out), xmlHeader)
}

func TestScaleBasic(t *testing.T) {
	in := `<svg width="16" height="16" viewBox="0 0 16 16"><rect x="1" y="2" width="4" height="4" rx="0.5"/><path d="M10 10 A 5 5 0 0 1 20 20"/></svg>`
	want := `<svg width="32" height="32" viewBox="0 0 32 32"><rect x="2" y="4" width="8" height="8" rx="1"/><path d="M20 20 A 10 10 0 0 1 40 40"/></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 2, Precision: 4}))
}

func TestScaleIdentity(t *testing.T) {
	in := `<svg width="16"><rect x="1.5" width="4"/><text x="2">hello &amp; goodbye</text></svg>`
	assert.Equal(t, in, rescale(t, in, &ScaleContext{Scale: 1, Precision: 4}))
}

func TestScaleHeader(t *testing.T) {
	doc, err := svgdom.Parse(strings.NewReader(`<svg/>`))
	require.NoError(t, err)
	out, err := Scale(doc, &ScaleContext{Scale: 2, Precision: 4})
	require.NoError(t, err)
	assert.Equal(t, xmlHeader+"<svg/>", string(out))
}

func TestScaleKeepsPrefixedNames(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"><use xlink:href="#a" x="4"/></svg>`
	want := `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"><use xlink:href="#a" x="8"/></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 2, Precision: 4}))
}

func TestTransformInheritance(t *testing.T) {
	// a translation scales and leaves the subtree in scaled units; a
	// rotation becomes a matrix absorbing the scale, so the subtree
	// keeps its original geometry
	in := `<svg><g transform="translate(5,5)"><rect width="10"/></g><g transform="rotate(90)"><path d="M1 1L2 2"/></g></svg>`
	want := `<svg><g transform="translate(10,10)"><rect width="20"/></g><g transform="matrix(0,2,-2,0,0,0)"><path d="M1 1L2 2"/></g></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 2, Precision: 4}))
}

func TestLoneScaleTransform(t *testing.T) {
	in := `<svg><g transform="scale(0.5)"><rect width="10" height="10"/></g></svg>`
	want := `<svg><g transform="scale(2)"><rect width="10" height="10"/></g></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 4, Precision: 4}))
}

func TestAncestorTransformShieldsDescendantTransforms(t *testing.T) {
	in := `<svg><g transform="scale(2)"><g transform="translate(3,3)"><rect x="1"/></g></g></svg>`
	want := `<svg><g transform="scale(4)"><g transform="translate(3,3)"><rect x="1"/></g></g></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 2, Precision: 4}))
}

func TestBoundingBoxUnitsExempt(t *testing.T) {
	in := `<svg><clipPath clipPathUnits="objectBoundingBox"><rect x="0.1" y="0.1" width="0.8" height="0.8"/></clipPath><rect width="10"/></svg>`
	want := `<svg><clipPath clipPathUnits="objectBoundingBox"><rect x="0.1" y="0.1" width="0.8" height="0.8"/></clipPath><rect width="40"/></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 4, Precision: 4}))
}

func TestGradientUnitsDefault(t *testing.T) {
	// gradientUnits defaults to objectBoundingBox, so bare gradient
	// coordinates are fractions of the target box
	in := `<svg><linearGradient id="a" x1="0" y1="0" x2="1" y2="1"/><linearGradient id="b" gradientUnits="userSpaceOnUse" x2="10"/></svg>`
	want := `<svg><linearGradient id="a" x1="0" y1="0" x2="1" y2="1"/><linearGradient id="b" gradientUnits="userSpaceOnUse" x2="20"/></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 2, Precision: 4}))
}

func TestCascadeResolvedInline(t *testing.T) {
	in := `<svg><style>rect{width:5}.wide{width:10}#main{width:20}</style><rect id="main" class="wide"/><rect class="wide"/></svg>`
	want := `<svg><rect id="main" class="wide" style="width:40"/><rect class="wide" style="width:20"/></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 2, Precision: 4}))
}

func TestInlineStylePosition(t *testing.T) {
	in := `<svg><rect style="stroke-width:2;fill:red" width="4"/></svg>`
	want := `<svg><rect style="stroke-width:4;fill:red" width="8"/></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 2, Precision: 4}))
}

func TestBaseFrequencyInverse(t *testing.T) {
	in := `<svg><filter><feTurbulence baseFrequency="0.05 0.1"/></filter></svg>`
	want := `<svg><filter><feTurbulence baseFrequency="0.1 0.2"/></filter></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 0.5, Precision: 4}))
}

func TestNonScalingStroke(t *testing.T) {
	in := `<svg><path d="M0 0L10 0" stroke-width="2" vector-effect="non-scaling-stroke"/></svg>`

	want := `<svg><path d="M0 0L20 0" stroke-width="2" vector-effect="non-scaling-stroke"/></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 2, Precision: 4}))

	// --fix-stroke bakes the effect into a scaled width
	want = `<svg><path d="M0 0L20 0" stroke-width="4"/></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 2, Precision: 4, FixStroke: true}))
}

func TestRelativeUnitsPassThrough(t *testing.T) {
	in := `<svg><rect width="50%" height="10"/><rect width="2em"/></svg>`
	want := `<svg><rect width="50%" height="20"/><rect width="2em"/></svg>`
	assert.Equal(t, want, rescale(t, in, &ScaleContext{Scale: 2, Precision: 4}))
}

func TestErrorLocatesElement(t *testing.T) {
	doc, err := svgdom.Parse(strings.NewReader(`<svg><rect id="bad" width="abc"/></svg>`))
	require.NoError(t, err)
	_, err = Scale(doc, &ScaleContext{Scale: 2, Precision: 4})
	var ne *NumericParseError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, "width", ne.Key)
	assert.Equal(t, "rect id=bad", ne.Element)
	assert.Contains(t, err.Error(), `invalid width "abc" on <rect id=bad>`)
}

func TestErrorWrapsPathError(t *testing.T) {
	doc, err := svgdom.Parse(strings.NewReader(`<svg><path d="M10e"/></svg>`))
	require.NoError(t, err)
	_, err = Scale(doc, &ScaleContext{Scale: 2, Precision: 4})
	var pe *svgpath.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, svgpath.InvalidNumber, pe.Reason)
}

func TestScaleStream(t *testing.T) {
	var out bytes.Buffer
	err := ScaleStream(&out, strings.NewReader(`<svg width="16"/>`), &ScaleContext{Scale: 0.5, Precision: 4})
	require.NoError(t, err)
	assert.Equal(t, xmlHeader+`<svg width="8"/>`, out.String())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&ScaleContext{Scale: 2, Precision: 4}).Validate())
	assert.NoError(t, (&ScaleContext{Scale: -1, Precision: 4}).Validate(), "mirroring scales are allowed")
	assert.Error(t, (&ScaleContext{Scale: 0, Precision: 4}).Validate())
	assert.Error(t, (&ScaleContext{Scale: 2, Precision: -1}).Validate())
}
