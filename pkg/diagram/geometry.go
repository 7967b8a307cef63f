// Geometric primitives shared by the scale builder, the path synthesizer
// and the renderers.

package diagram

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Rect represents an axis-aligned rectangle.
type Rect struct {
	X, Y float64 // Center
	W, H float64 // Full width and height
}

// RectFromCorner builds a Rect from its top-left corner.
func RectFromCorner(x, y, w, h float64) Rect {
	return Rect{X: x + w/2, Y: y + h/2, W: w, H: h}
}

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{r.X - r.W/2, r.Y - r.H/2} }

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return math.Abs(p.X-r.X) <= r.W/2 && math.Abs(p.Y-r.Y) <= r.H/2
}

// RectOverlap returns the overlap area between two rectangles.
// Returns 0 if they don't overlap.
func RectOverlap(a, b Rect) float64 {
	amin, bmin := a.Min(), b.Min()
	overlapX := math.Min(amin.X+a.W, bmin.X+b.W) - math.Max(amin.X, bmin.X)
	overlapY := math.Min(amin.Y+a.H, bmin.Y+b.H) - math.Max(amin.Y, bmin.Y)

	if overlapX <= 0 || overlapY <= 0 {
		return 0
	}
	return overlapX * overlapY
}

// LabelPlacer manages tooltip placement with collision avoidance.
type LabelPlacer struct {
	obstacles []Rect
}

// NewLabelPlacer creates a LabelPlacer with initial obstacles (markers).
func NewLabelPlacer(obstacles []Rect) *LabelPlacer {
	obs := make([]Rect, len(obstacles))
	copy(obs, obstacles)
	return &LabelPlacer{obstacles: obs}
}

// PlaceLabel finds a position for a w×h label near anchor and returns its
// top-left corner. The preferred spot starts gap to the right of and gap
// above the anchor; the label is then tried in the other quadrants and
// finally the least-overlapping candidate is kept.
func (lp *LabelPlacer) PlaceLabel(anchor Point, w, h, gap float64) Point {
	corners := []Point{
		{anchor.X + gap, anchor.Y - gap},         // preferred: up and right
		{anchor.X + gap, anchor.Y - gap - h},     // higher
		{anchor.X + gap, anchor.Y + gap},         // down and right
		{anchor.X - gap - w, anchor.Y - gap},     // up and left
		{anchor.X - gap - w, anchor.Y + gap},     // down and left
		{anchor.X - w/2, anchor.Y - gap*2 - h},   // above
		{anchor.X - w/2, anchor.Y + gap*2},       // below
		{anchor.X + gap*2, anchor.Y - gap - 2*h}, // far up and right
	}

	best := corners[0]
	bestOverlap := math.MaxFloat64
	for _, c := range corners {
		r := RectFromCorner(c.X, c.Y, w, h)
		total := 0.0
		for _, obs := range lp.obstacles {
			total += RectOverlap(r, obs)
		}
		if total == 0 {
			lp.obstacles = append(lp.obstacles, r)
			return c
		}
		if total < bestOverlap {
			bestOverlap = total
			best = c
		}
	}

	lp.obstacles = append(lp.obstacles, RectFromCorner(best.X, best.Y, w, h))
	return best
}
