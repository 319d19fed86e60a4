package svgtransform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgscale/svgnum"
)

// Op is one function call of a transform list, before composition.
type Op struct {
	Name   string
	Params []float64
}

// ParseError reports transform-list text the grammar rejects.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "invalid transform: " + e.Raw
}

// ArityError reports a transform function called with a parameter count
// its definition does not allow.
type ArityError struct {
	Name  string
	Count int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("transform %s does not take %d parameters", e.Name, e.Count)
}

// UnsupportedFunctionError reports an unknown transform function name.
type UnsupportedFunctionError struct {
	Name string
}

func (e *UnsupportedFunctionError) Error() string {
	return "unsupported transform function: " + e.Name
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Parse decomposes a transform list into function calls. Parameter
// counts are not checked here; Compose enforces arity.
func Parse(s string) ([]Op, error) {
	var ops []Op
	i := 0
	for {
		for i < len(s) && (isSpace(s[i]) || s[i] == ',') {
			i++
		}
		if i == len(s) {
			return ops, nil
		}
		start := i
		for i < len(s) && ((s[i] >= 'a' && s[i] <= 'z') || (s[i] >= 'A' && s[i] <= 'Z')) {
			i++
		}
		name := s[start:i]
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if name == "" || i == len(s) || s[i] != '(' {
			return nil, &ParseError{Raw: s}
		}
		i++
		op := Op{Name: name}
		for {
			for i < len(s) && (isSpace(s[i]) || s[i] == ',') {
				i++
			}
			if i == len(s) {
				return nil, &ParseError{Raw: s}
			}
			if s[i] == ')' {
				i++
				break
			}
			start := i
			for i < len(s) && s[i] != ')' && s[i] != ',' && !isSpace(s[i]) {
				i++
			}
			v, err := strconv.ParseFloat(s[start:i], 64)
			if err != nil {
				return nil, &ParseError{Raw: s}
			}
			op.Params = append(op.Params, v)
		}
		ops = append(ops, op)
	}
}

// Compose multiplies the ops left to right, so that the rightmost
// function applies to a point first.
func Compose(ops []Op) (Matrix2D, error) {
	m := Identity
	for _, op := range ops {
		n := len(op.Params)
		switch op.Name {
		case "translate":
			switch n {
			case 1:
				m = m.Translate(op.Params[0], 0)
			case 2:
				m = m.Translate(op.Params[0], op.Params[1])
			default:
				return Identity, &ArityError{op.Name, n}
			}
		case "scale":
			switch n {
			case 1:
				m = m.Scale(op.Params[0], op.Params[0])
			case 2:
				m = m.Scale(op.Params[0], op.Params[1])
			default:
				return Identity, &ArityError{op.Name, n}
			}
		case "rotate":
			switch n {
			case 1:
				m = m.Rotate(op.Params[0] * math.Pi / 180)
			case 3:
				cx, cy := op.Params[1], op.Params[2]
				m = m.Translate(cx, cy).Rotate(op.Params[0] * math.Pi / 180).Translate(-cx, -cy)
			default:
				return Identity, &ArityError{op.Name, n}
			}
		case "skewX":
			if n != 1 {
				return Identity, &ArityError{op.Name, n}
			}
			m = m.SkewX(op.Params[0] * math.Pi / 180)
		case "skewY":
			if n != 1 {
				return Identity, &ArityError{op.Name, n}
			}
			m = m.SkewY(op.Params[0] * math.Pi / 180)
		case "matrix":
			if n != 6 {
				return Identity, &ArityError{op.Name, n}
			}
			p := op.Params
			m = m.Mult(Matrix2D{p[0], p[1], p[2], p[3], p[4], p[5]})
		default:
			return Identity, &UnsupportedFunctionError{op.Name}
		}
	}
	return m, nil
}

// HasNonTranslate reports whether any op moves points other than by a
// pure translation.
func HasNonTranslate(ops []Op) bool {
	for _, op := range ops {
		if op.Name != "translate" {
			return true
		}
	}
	return false
}

// zeroSnap clears the numeric dust a composed rotation leaves in
// coefficients that are exactly zero in real arithmetic.
const zeroSnap = 1e-12

func snap(v float64) float64 {
	if math.Abs(v) < zeroSnap {
		return 0
	}
	return v
}

// ScaleValue rewrites a transform attribute so that the geometry it
// positions lands at the scaled coordinates.
//
// A list of pure translations keeps its shape with each offset
// multiplied, as does a lone scale() with its factors. Anything else
// is composed into a single matrix() whose six
// coefficients absorb the document scale uniformly, which also scales
// the subtree the matrix governs.
func ScaleValue(input string, scale float64, precision int) (string, error) {
	ops, err := Parse(input)
	if err != nil {
		return "", err
	}
	if len(ops) == 0 {
		return input, nil
	}
	if !HasNonTranslate(ops) {
		parts := make([]string, len(ops))
		for i, op := range ops {
			switch len(op.Params) {
			case 1:
				parts[i] = fmt.Sprintf("translate(%s)", svgnum.Format(op.Params[0]*scale, precision))
			case 2:
				parts[i] = fmt.Sprintf("translate(%s,%s)",
					svgnum.Format(op.Params[0]*scale, precision),
					svgnum.Format(op.Params[1]*scale, precision))
			default:
				return "", &ArityError{op.Name, len(op.Params)}
			}
		}
		return strings.Join(parts, " "), nil
	}
	if len(ops) == 1 && ops[0].Name == "scale" {
		// the subtree below keeps its original units, so the scale
		// factor itself absorbs the document scale, keeping the
		// readable spelling
		op := ops[0]
		switch len(op.Params) {
		case 1:
			return fmt.Sprintf("scale(%s)", svgnum.Format(op.Params[0]*scale, precision)), nil
		case 2:
			return fmt.Sprintf("scale(%s,%s)",
				svgnum.Format(op.Params[0]*scale, precision),
				svgnum.Format(op.Params[1]*scale, precision)), nil
		default:
			return "", &ArityError{op.Name, len(op.Params)}
		}
	}
	m, err := Compose(ops)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("matrix(%s,%s,%s,%s,%s,%s)",
		svgnum.Format(snap(m.A*scale), precision),
		svgnum.Format(snap(m.B*scale), precision),
		svgnum.Format(snap(m.C*scale), precision),
		svgnum.Format(snap(m.D*scale), precision),
		svgnum.Format(snap(m.E*scale), precision),
		svgnum.Format(snap(m.F*scale), precision)), nil
}
