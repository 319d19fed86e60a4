package svgscale

// category tells the walker how the value of an attribute (or style
// property) responds to a change of document scale.
type category uint8

const (
	opaque       category = iota // colors, ids, enumerations: copied verbatim
	pathData                     // the d mini-language
	length                       // single number with optional absolute unit
	numberList                   // whitespace/comma separated numbers
	inverseList                  // numbers in 1/user-units, multiplied by 1/scale
	transformList                // transform function calls
	viewBoxList                  // min-x min-y width height
)

// attrCategories is consulted for both attribute names and style
// property keys; anything absent is opaque.
var attrCategories = map[string]category{
	"d": pathData,

	"width": length, "height": length,
	"x": length, "y": length, "z": length,
	"x1": length, "y1": length, "x2": length, "y2": length,
	"cx": length, "cy": length, "r": length,
	"rx": length, "ry": length,
	"fx": length, "fy": length,
	"dx": length, "dy": length,
	"refX": length, "refY": length,
	"markerWidth": length, "markerHeight": length,
	"font-size": length, "letter-spacing": length,
	"stroke-width": length, "stroke-dashoffset": length,
	"surfaceScale": length,
	"pointsAtX":    length, "pointsAtY": length, "pointsAtZ": length,

	"stroke-dasharray": numberList,
	"stdDeviation":     numberList,
	"radius":           numberList,
	"scale":            numberList,
	"kernelUnitLength": numberList,

	// spatial frequencies are reciprocal lengths
	"baseFrequency": inverseList,

	"transform":         transformList,
	"gradientTransform": transformList,
	"patternTransform":  transformList,

	"viewBox": viewBoxList,
}
