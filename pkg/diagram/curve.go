// Curve descriptors for loop paths. A curve is an ordered list of line,
// quadratic or cubic Bézier segments, independent of any rendering API.

package diagram

import (
	"fmt"
	"math"
	"strings"
)

// CurveKind selects how a segment's points are interpreted.
type CurveKind int

const (
	CurveLine      CurveKind = iota // P0, P1
	CurveQuadratic                  // P0, C, P1
	CurveCubic                      // P0, C1, C2, P1
)

// CurveSegment is one piece of a curve. Points include both end points.
type CurveSegment struct {
	Kind   CurveKind
	Points []Point
}

// Curve is a sequence of segments; consecutive segments need not touch
// (the C-terminal tail is drawn as two separate strokes).
type Curve struct {
	Segments []CurveSegment
}

// LineCurve is a single straight segment.
func LineCurve(a, b Point) Curve {
	return Curve{Segments: []CurveSegment{{Kind: CurveLine, Points: []Point{a, b}}}}
}

// Start returns the first point of the curve.
func (c Curve) Start() Point {
	if len(c.Segments) == 0 || len(c.Segments[0].Points) == 0 {
		return Point{}
	}
	return c.Segments[0].Points[0]
}

// End returns the last point of the curve.
func (c Curve) End() Point {
	if len(c.Segments) == 0 {
		return Point{}
	}
	last := c.Segments[len(c.Segments)-1].Points
	if len(last) == 0 {
		return Point{}
	}
	return last[len(last)-1]
}

// IsFlat reports whether the curve is a single straight line.
func (c Curve) IsFlat() bool {
	return len(c.Segments) == 1 && c.Segments[0].Kind == CurveLine
}

// Translate returns the curve shifted by d.
func (c Curve) Translate(d Point) Curve {
	out := Curve{Segments: make([]CurveSegment, len(c.Segments))}
	for i, s := range c.Segments {
		pts := make([]Point, len(s.Points))
		for j, p := range s.Points {
			pts[j] = p.Add(d)
		}
		out.Segments[i] = CurveSegment{Kind: s.Kind, Points: pts}
	}
	return out
}

// evaluate computes the point on one segment at local parameter t ∈ [0,1].
func (s CurveSegment) evaluate(t float64) Point {
	p := s.Points
	mt := 1 - t
	switch s.Kind {
	case CurveQuadratic:
		if len(p) < 3 {
			break
		}
		return Point{
			X: mt*mt*p[0].X + 2*mt*t*p[1].X + t*t*p[2].X,
			Y: mt*mt*p[0].Y + 2*mt*t*p[1].Y + t*t*p[2].Y,
		}
	case CurveCubic:
		if len(p) < 4 {
			break
		}
		mt2 := mt * mt
		t2 := t * t
		return Point{
			X: mt2*mt*p[0].X + 3*mt2*t*p[1].X + 3*mt*t2*p[2].X + t2*t*p[3].X,
			Y: mt2*mt*p[0].Y + 3*mt2*t*p[1].Y + 3*mt*t2*p[2].Y + t2*t*p[3].Y,
		}
	}
	if len(p) == 0 {
		return Point{}
	}
	return p[0].Lerp(p[len(p)-1], t)
}

// At computes the point at parameter t ∈ [0,1]; each segment covers an
// equal share of the parameter range.
func (c Curve) At(t float64) Point {
	n := len(c.Segments)
	if n == 0 {
		return Point{}
	}
	if t <= 0 {
		return c.Segments[0].evaluate(0)
	}
	if t >= 1 {
		return c.Segments[n-1].evaluate(1)
	}
	seg := int(t * float64(n))
	if seg >= n {
		seg = n - 1
	}
	return c.Segments[seg].evaluate(t*float64(n) - float64(seg))
}

// Flatten samples each segment into steps pieces and returns one polyline
// per segment.
func (c Curve) Flatten(steps int) [][]Point {
	if steps < 1 {
		steps = 1
	}
	out := make([][]Point, 0, len(c.Segments))
	for _, s := range c.Segments {
		n := steps
		if s.Kind == CurveLine {
			n = 1
		}
		line := make([]Point, n+1)
		for i := 0; i <= n; i++ {
			line[i] = s.evaluate(float64(i) / float64(n))
		}
		out = append(out, line)
	}
	return out
}

// Length approximates the curve length by sampling.
func (c Curve) Length() float64 {
	length := 0.0
	for _, line := range c.Flatten(64) {
		for i := 1; i < len(line); i++ {
			length += line[i-1].Dist(line[i])
		}
	}
	return length
}

// Bounds returns the bounding box of all control points, which contains
// the curve itself.
func (c Curve) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, s := range c.Segments {
		for _, p := range s.Points {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	return
}

// PathData renders the curve as SVG path data.
func (c Curve) PathData() string {
	var sb strings.Builder
	for i, s := range c.Segments {
		if len(s.Points) == 0 {
			continue
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "M%s", pt(s.Points[0]))
		switch s.Kind {
		case CurveQuadratic:
			sb.WriteString(" Q")
		case CurveCubic:
			sb.WriteString(" C")
		default:
			sb.WriteString(" L")
		}
		for j, p := range s.Points[1:] {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(pt(p))
		}
	}
	return sb.String()
}

func pt(p Point) string {
	return fmt.Sprintf("%s,%s", num(p.X), num(p.Y))
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}
