package diagram

import (
	"fmt"
	"math"

	"github.com/ha1tch/chanmap/pkg/channel"
)

// CurveFor synthesizes the curve of a loop in domain-local coordinates.
// The bow grows with the loop length; zero-length loops are flat lines and
// the C-terminal tail keeps its fixed shape whatever its length.
func CurveFor(loopIndex int, r channel.Range, family channel.Family) (Curve, error) {
	topo := TopologyFor(family)
	spec, _, ok := topo.LoopAt(loopIndex)
	if !ok {
		return Curve{}, fmt.Errorf("loop index %d outside %s topology (%d loops)", loopIndex, family, topo.LoopCount())
	}
	if !r.Valid() {
		return FlatFallback(spec), &channel.InvalidRangeError{Start: r.Start, End: r.End}
	}
	return synthesize(spec.Curve, float64(r.Len()), topo.MaxBowLength), nil
}

// FlatFallback is the straight segment drawn in place of a loop whose
// curve cannot be synthesized.
func FlatFallback(spec LoopSpec) Curve {
	c := spec.Curve
	if len(c.Fixed) > 0 {
		return LineCurve(c.Fixed[0].Points[0], lastPoint(c.Fixed))
	}
	return LineCurve(templatePoint(c.Points[0]), templatePoint(c.Points[len(c.Points)-1]))
}

// Bow returns how far the bend points of a template move for a loop of
// the given length.
func Bow(c CurveTemplate, length, maxBow float64) float64 {
	return c.Baseline + c.Gain*math.Min(length, maxBow)
}

func synthesize(c CurveTemplate, length, maxBow float64) Curve {
	if len(c.Fixed) > 0 {
		segs := make([]CurveSegment, len(c.Fixed))
		for i, s := range c.Fixed {
			segs[i] = CurveSegment{Kind: s.Kind, Points: append([]Point(nil), s.Points...)}
		}
		return Curve{Segments: segs}
	}
	if length == 0 {
		return LineCurve(templatePoint(c.Points[0]), templatePoint(c.Points[len(c.Points)-1]))
	}
	bow := c.Dir * Bow(c, length, maxBow)
	pts := make([]Point, len(c.Points))
	for i, tp := range c.Points {
		pts[i] = templatePoint(tp)
		if tp.Bend {
			pts[i].Y += bow
		}
	}
	return Curve{Segments: []CurveSegment{{Kind: c.Kind, Points: pts}}}
}

func templatePoint(tp TemplatePoint) Point { return Point{tp.X, tp.Y} }

func lastPoint(segs []CurveSegment) Point {
	last := segs[len(segs)-1].Points
	return last[len(last)-1]
}
