package diagram

import (
	"math"
	"strings"
	"testing"
)

func near(a, b Point, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestCurveEndpoints(t *testing.T) {
	c := Curve{Segments: []CurveSegment{
		{Kind: CurveQuadratic, Points: []Point{{0, 0}, {50, 100}, {100, 0}}},
		{Kind: CurveCubic, Points: []Point{{100, 0}, {120, 10}, {140, 10}, {160, 0}}},
	}}
	if !near(c.Start(), Point{0, 0}, 1e-9) || !near(c.End(), Point{160, 0}, 1e-9) {
		t.Errorf("Start/End = %+v %+v", c.Start(), c.End())
	}
	if !near(c.At(0), c.Start(), 1e-9) || !near(c.At(1), c.End(), 1e-9) {
		t.Error("At(0)/At(1) should be the endpoints")
	}
	// quadratic apex is half way to the control point
	if mid := c.At(0.25); !near(mid, Point{50, 50}, 1e-9) {
		t.Errorf("At(0.25) = %+v, want (50,50)", mid)
	}
}

func TestCurveFlatten(t *testing.T) {
	c := Curve{Segments: []CurveSegment{
		{Kind: CurveLine, Points: []Point{{0, 0}, {10, 0}}},
		{Kind: CurveCubic, Points: []Point{{10, 0}, {20, 10}, {30, 10}, {40, 0}}},
	}}
	lines := c.Flatten(8)
	if len(lines) != 2 {
		t.Fatalf("Flatten returned %d polylines", len(lines))
	}
	if len(lines[0]) != 2 {
		t.Errorf("line segment flattened to %d points, want 2", len(lines[0]))
	}
	if len(lines[1]) != 9 {
		t.Errorf("cubic flattened to %d points, want 9", len(lines[1]))
	}
	if l := LineCurve(Point{0, 0}, Point{3, 4}).Length(); math.Abs(l-5) > 1e-9 {
		t.Errorf("Length = %v, want 5", l)
	}
}

func TestCurveTranslateAndFlat(t *testing.T) {
	c := LineCurve(Point{1, 2}, Point{3, 4})
	if !c.IsFlat() {
		t.Error("LineCurve should be flat")
	}
	moved := c.Translate(Point{10, 10})
	if !near(moved.Start(), Point{11, 12}, 1e-9) {
		t.Errorf("Translate start = %+v", moved.Start())
	}
	if !near(c.Start(), Point{1, 2}, 1e-9) {
		t.Error("Translate modified the original curve")
	}
}

func TestCurvePathData(t *testing.T) {
	c := Curve{Segments: []CurveSegment{
		{Kind: CurveQuadratic, Points: []Point{{0, 0}, {5.5, 10.25}, {11, 0}}},
	}}
	got := c.PathData()
	if got != "M0,0 Q5.5,10.25 11,0" {
		t.Errorf("PathData = %q", got)
	}
	two := Curve{Segments: []CurveSegment{
		{Kind: CurveLine, Points: []Point{{0, 0}, {1, 1}}},
		{Kind: CurveCubic, Points: []Point{{1, 1}, {2, 2}, {3, 3}, {4, 4}}},
	}}
	if d := two.PathData(); !strings.Contains(d, " L1,1") || !strings.Contains(d, "M1,1 C2,2 3,3 4,4") {
		t.Errorf("PathData = %q", d)
	}
}

func TestCurveBounds(t *testing.T) {
	c := Curve{Segments: []CurveSegment{{Kind: CurveQuadratic, Points: []Point{{0, 5}, {10, -20}, {20, 5}}}}}
	x0, y0, x1, y1 := c.Bounds()
	if x0 != 0 || y0 != -20 || x1 != 20 || y1 != 5 {
		t.Errorf("Bounds = %v %v %v %v", x0, y0, x1, y1)
	}
}
