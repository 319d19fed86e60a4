package svgraster

import (
	"fmt"
	"math"

	"github.com/benoitkugler/svgscale/svgpath"
	"github.com/benoitkugler/svgscale/svgtransform"
	"golang.org/x/image/math/fixed"
)

// maxDx is the maximum radians a cubic spline is allowed to span
// in ellipse parametric when approximating an off-axis ellipse.
const maxDx float64 = math.Pi / 8

func toFixedP(x, y float64) (p fixed.Point26_6) {
	p.X = fixed.Int26_6(x * 64)
	p.Y = fixed.Int26_6(y * 64)
	return p
}

// pathBuilder feeds a path, given in user coordinates, through a
// transform into the renderer.
type pathBuilder struct {
	rd *Renderer
	m  svgtransform.Matrix2D

	x, y           float64 // current point, user space
	startX, startY float64
	inPath         bool
}

func (b *pathBuilder) point(x, y float64) fixed.Point26_6 {
	return toFixedP(b.m.Transform(x, y))
}

func (b *pathBuilder) moveTo(x, y float64) {
	b.stop(false)
	b.rd.start(b.point(x, y))
	b.x, b.y = x, y
	b.startX, b.startY = x, y
	b.inPath = true
}

func (b *pathBuilder) lineTo(x, y float64) {
	b.rd.line(b.point(x, y))
	b.x, b.y = x, y
}

func (b *pathBuilder) quadTo(cx, cy, x, y float64) {
	b.rd.quadBezier(b.point(cx, cy), b.point(x, y))
	b.x, b.y = x, y
}

func (b *pathBuilder) cubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	b.rd.cubeBezier(b.point(c1x, c1y), b.point(c2x, c2y), b.point(x, y))
	b.x, b.y = x, y
}

func (b *pathBuilder) close() {
	if b.inPath {
		b.rd.stop(true)
		b.x, b.y = b.startX, b.startY
		b.inPath = false
	}
}

func (b *pathBuilder) stop(closeLoop bool) {
	if b.inPath {
		b.rd.stop(closeLoop)
		b.inPath = false
	}
}

// paramCounts gives the operand count of one repetition of each
// command letter.
var paramCounts = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// appendPath replays path data into the builder, resolving relative
// commands, implicit line-tos and control point reflections.
func appendPath(b *pathBuilder, d string) error {
	cmds, err := svgpath.Parse(d)
	if err != nil {
		return err
	}
	var (
		ctrlX, ctrlY float64 // last control point, for S/T reflection
		hasCtrl      bool
		quadCtrl     bool // control point came from a quadratic
	)
	for ci, cmd := range cmds {
		upper := cmd.Letter &^ 0x20
		rel := cmd.Letter >= 'a'
		count := paramCounts[upper]
		if ci == 0 && upper != 'M' {
			return fmt.Errorf("path must start with a moveto, got %q", cmd.Letter)
		}
		if count == 0 {
			if len(cmd.Params) != 0 {
				return fmt.Errorf("closepath takes no parameters")
			}
			b.close()
			hasCtrl = false
			continue
		}
		if len(cmd.Params) == 0 || len(cmd.Params)%count != 0 {
			return fmt.Errorf("command %q wants groups of %d parameters, got %d",
				cmd.Letter, count, len(cmd.Params))
		}
		for i := 0; i < len(cmd.Params); i += count {
			p := cmd.Params[i : i+count]
			op := upper
			// extra coordinate pairs after a moveto are linetos
			if upper == 'M' && i > 0 {
				op = 'L'
			}
			var ox, oy float64
			if rel {
				ox, oy = b.x, b.y
			}
			switch op {
			case 'M':
				b.moveTo(ox+p[0], oy+p[1])
				hasCtrl = false
			case 'L':
				b.lineTo(ox+p[0], oy+p[1])
				hasCtrl = false
			case 'H':
				b.lineTo(ox+p[0], b.y)
				hasCtrl = false
			case 'V':
				b.lineTo(b.x, oy+p[0])
				hasCtrl = false
			case 'C':
				b.cubeTo(ox+p[0], oy+p[1], ox+p[2], oy+p[3], ox+p[4], oy+p[5])
				ctrlX, ctrlY = ox+p[2], oy+p[3]
				hasCtrl, quadCtrl = true, false
			case 'S':
				c1x, c1y := b.x, b.y
				if hasCtrl && !quadCtrl {
					c1x, c1y = 2*b.x-ctrlX, 2*b.y-ctrlY
				}
				b.cubeTo(c1x, c1y, ox+p[0], oy+p[1], ox+p[2], oy+p[3])
				ctrlX, ctrlY = ox+p[0], oy+p[1]
				hasCtrl, quadCtrl = true, false
			case 'Q':
				b.quadTo(ox+p[0], oy+p[1], ox+p[2], oy+p[3])
				ctrlX, ctrlY = ox+p[0], oy+p[1]
				hasCtrl, quadCtrl = true, true
			case 'T':
				c1x, c1y := b.x, b.y
				if hasCtrl && quadCtrl {
					c1x, c1y = 2*b.x-ctrlX, 2*b.y-ctrlY
				}
				b.quadTo(c1x, c1y, ox+p[0], oy+p[1])
				ctrlX, ctrlY = c1x, c1y
				hasCtrl, quadCtrl = true, true
			case 'A':
				arc := [7]float64{math.Abs(p[0]), math.Abs(p[1]), p[2], p[3], p[4], ox + p[5], oy + p[6]}
				b.addArc(arc)
				hasCtrl = false
			}
		}
	}
	return nil
}

// addArc converts one elliptical arc segment into cubic splines; the
// parameters are rx, ry, rotation (degrees), large-arc flag, sweep
// flag and the absolute end point.
func (b *pathBuilder) addArc(points [7]float64) {
	px, py := b.x, b.y
	if points[0] == 0 || points[1] == 0 {
		// degenerate radii draw a straight line, per the spec
		b.lineTo(points[5], points[6])
		return
	}
	cx, cy := findEllipseCenter(&points[0], &points[1], points[2]*math.Pi/180,
		px, py, points[5], points[6], points[4] == 0, points[3] == 0)

	rotX := points[2] * math.Pi / 180
	largeArc := points[3] != 0
	sweep := points[4] != 0
	startAngle := math.Atan2(py-cy, px-cx) - rotX
	endAngle := math.Atan2(points[6]-cy, points[5]-cx) - rotX
	deltaTheta := endAngle - startAngle
	arcBig := math.Abs(deltaTheta) > math.Pi

	// approximate the ellipse with cubic splines over its eta
	// parameterization
	etaStart := math.Atan2(math.Sin(startAngle)/points[1], math.Cos(startAngle)/points[0])
	etaEnd := math.Atan2(math.Sin(endAngle)/points[1], math.Cos(endAngle)/points[0])
	deltaEta := etaEnd - etaStart
	if arcBig != largeArc {
		if deltaEta < 0 {
			deltaEta += math.Pi * 2
		} else {
			deltaEta -= math.Pi * 2
		}
	}
	if deltaEta < 0 && sweep {
		deltaEta += math.Pi * 2
	} else if deltaEta >= 0 && !sweep {
		deltaEta -= math.Pi * 2
	}

	segs := int(math.Abs(deltaEta)/maxDx) + 1
	dEta := deltaEta / float64(segs)
	// cubic control lengths by the method of L. Maisonobe, "Drawing an
	// elliptical arc using polylines, quadratic or cubic Bezier
	// curves", 2003
	tde := math.Tan(dEta / 2)
	alpha := math.Sin(dEta) * (math.Sqrt(4+3*tde*tde) - 1) / 3
	lx, ly := px, py
	sinTheta, cosTheta := math.Sin(rotX), math.Cos(rotX)
	ldx, ldy := ellipsePrime(points[0], points[1], sinTheta, cosTheta, etaStart)
	for i := 1; i <= segs; i++ {
		eta := etaStart + dEta*float64(i)
		var nx, ny float64
		if i == segs {
			// land on the exact end point, free of roundoff
			nx, ny = points[5], points[6]
		} else {
			nx, ny = ellipsePointAt(points[0], points[1], sinTheta, cosTheta, eta, cx, cy)
		}
		dx, dy := ellipsePrime(points[0], points[1], sinTheta, cosTheta, eta)
		b.cubeTo(lx+alpha*ldx, ly+alpha*ldy, nx-alpha*dx, ny-alpha*dy, nx, ny)
		lx, ly, ldx, ldy = nx, ny, dx, dy
	}
}

// ellipsePrime gives the tangent vector of the eta parameterization.
func ellipsePrime(a, b, sinTheta, cosTheta, eta float64) (px, py float64) {
	bCosEta := b * math.Cos(eta)
	aSinEta := a * math.Sin(eta)
	px = -aSinEta*cosTheta - bCosEta*sinTheta
	py = -aSinEta*sinTheta + bCosEta*cosTheta
	return px, py
}

// ellipsePointAt gives the point of the eta parameterization.
func ellipsePointAt(a, b, sinTheta, cosTheta, eta, cx, cy float64) (px, py float64) {
	aCosEta := a * math.Cos(eta)
	bSinEta := b * math.Sin(eta)
	px = cx + aCosEta*cosTheta - bSinEta*sinTheta
	py = cy + aCosEta*sinTheta + bSinEta*cosTheta
	return px, py
}

// findEllipseCenter locates the center of the ellipse if it exists. If
// it does not, the radii are increased minimally, preserving their
// ratio, for a solution to be possible. The problem reduces, by
// coordinate transformations, to finding the center of a circle
// through the origin and one other point.
func findEllipseCenter(ra, rb *float64, rotX, startX, startY, endX, endY float64, sweep, smallArc bool) (cx, cy float64) {
	cos, sin := math.Cos(rotX), math.Sin(rotX)

	// move origin to the start point
	nx, ny := endX-startX, endY-startY
	// rotate the ellipse x-axis onto the coordinate x-axis
	nx, ny = nx*cos+ny*sin, -nx*sin+ny*cos
	// scale x so that ra = rb: the ellipse is now a circle of radius rb
	nx *= *rb / *ra

	midX, midY := nx/2, ny/2
	midlenSq := midX*midX + midY*midY

	var hr float64
	if *rb**rb < midlenSq {
		// the requested ellipse does not exist: the span is longer than
		// its widest diameter, so grow the radii to fit
		nrb := math.Sqrt(midlenSq)
		if *ra == *rb {
			*ra = nrb // prevents roundoff
		} else {
			*ra = *ra * nrb / *rb
		}
		*rb = nrb
	} else {
		hr = math.Sqrt(*rb**rb-midlenSq) / math.Sqrt(midlenSq)
	}
	if sweep == smallArc {
		cx = midX + midY*hr
		cy = midY - midX*hr
	} else {
		cx = midX - midY*hr
		cy = midY + midX*hr
	}

	// reverse the scale, then rotate and translate back
	cx *= *ra / *rb
	return cx*cos - cy*sin + startX, cx*sin + cy*cos + startY
}
