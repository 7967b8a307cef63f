package diagram

import (
	"math"

	"github.com/ha1tch/chanmap/pkg/legend"
)

// SceneID is the id of the root element of every rendered diagram.
const SceneID = "variant-mapping"

// NodeKind selects how a node is drawn.
type NodeKind int

const (
	KindGroup NodeKind = iota
	KindRect
	KindPath
	KindCircle
	KindSymbol
	KindArc
	KindText
)

// Style holds the presentation attributes of a node. Zero values mean
// "not set" except Opacity, where 0 means opaque.
type Style struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
	FontSize    float64
	FontWeight  string
	Anchor      string // text-anchor: "", "middle", "end"
}

// ActionKind is what a click on a node does.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSwatch
	ActionSlice
	ActionFilterType
	ActionFilterPhenotype
	ActionShowAll
	ActionMarker
)

// Action is the click target of a node: a swatch key and index, a wheel
// slice, a filter value or a marker position.
type Action struct {
	Kind  ActionKind
	Key   string
	Index int
}

// Node is one element of the scene graph. Coordinates are local to the
// parent group after Translate.
type Node struct {
	ID    string
	Class string
	Kind  NodeKind

	// Rect: top-left X,Y and W,H with corner radius RX.
	// Circle, Symbol, Arc: centre X,Y. Text: anchor X, baseline Y.
	X, Y, W, H float64
	R, RX      float64

	Curve  Curve      // KindPath
	Symbol Symbol     // KindSymbol
	Size   float64    // KindSymbol area
	Arc    legend.Arc // KindArc
	Text   string     // KindText

	Style     Style
	Translate Point
	Children  []*Node

	Draggable bool
	Action    Action
}

// Scene is an immutable snapshot of the diagram.
type Scene struct {
	ID      string
	Width   int
	Height  int
	Root    *Node
	Version int
	// Settled is false while an animation is running.
	Settled bool
	// Skipped collects per-marker projection errors.
	Skipped []error
	// Unavailable holds the reason the diagram could not be drawn; the
	// legend is still present.
	Unavailable string
}

func group(id, class string, at Point, children ...*Node) *Node {
	return &Node{ID: id, Class: class, Kind: KindGroup, Translate: at, Children: children}
}

func text(class string, x, y float64, s string, st Style) *Node {
	return &Node{Class: class, Kind: KindText, X: x, Y: y, Text: s, Style: st}
}

// Add appends children to a group.
func (n *Node) Add(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Bounds returns the node's extent relative to its origin (the parent
// origin plus Translate). Groups take the union of their children.
func (n *Node) Bounds() (Rect, bool) {
	switch n.Kind {
	case KindRect:
		return RectFromCorner(n.X, n.Y, n.W, n.H), true
	case KindCircle:
		return Rect{X: n.X, Y: n.Y, W: 2 * n.R, H: 2 * n.R}, true
	case KindSymbol:
		d := 2 * Radius(n.Size) * 1.3
		return Rect{X: n.X, Y: n.Y, W: d, H: d}, true
	case KindArc:
		d := 2 * n.Arc.Outer
		return Rect{X: n.X, Y: n.Y, W: d, H: d}, true
	case KindText:
		size := n.Style.FontSize
		if size == 0 {
			size = 12
		}
		w := TextWidth(n.Text, size)
		x := n.X
		switch n.Style.Anchor {
		case "middle":
			x -= w / 2
		case "end":
			x -= w
		}
		return RectFromCorner(x, n.Y-size, w, size*1.25), true
	case KindPath:
		x0, y0, x1, y1 := n.Curve.Bounds()
		return RectFromCorner(x0, y0, x1-x0, y1-y0), true
	}
	var out Rect
	found := false
	for _, c := range n.Children {
		r, ok := c.Bounds()
		if !ok {
			continue
		}
		r.X += c.Translate.X
		r.Y += c.Translate.Y
		if !found {
			out, found = r, true
			continue
		}
		out = union(out, r)
	}
	return out, found
}

func union(a, b Rect) Rect {
	amin, bmin := a.Min(), b.Min()
	x0 := min(amin.X, bmin.X)
	y0 := min(amin.Y, bmin.Y)
	x1 := max(amin.X+a.W, bmin.X+b.W)
	y1 := max(amin.Y+a.H, bmin.Y+b.H)
	return RectFromCorner(x0, y0, x1-x0, y1-y0)
}

// TextWidth estimates the rendered width of s at a font size.
func TextWidth(s string, size float64) float64 {
	return float64(len([]rune(s))) * size * 0.6
}

func (n *Node) clone() *Node {
	c := *n
	if n.Curve.Segments != nil {
		c.Curve = n.Curve.Translate(Point{})
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.clone()
		}
	}
	return &c
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	c := *s
	if s.Root != nil {
		c.Root = s.Root.clone()
	}
	c.Skipped = append([]error(nil), s.Skipped...)
	return &c
}

// Walk visits every node depth first in paint order with its absolute
// origin. Returning false from fn skips the node's children.
func (s *Scene) Walk(fn func(n *Node, origin Point) bool) {
	if s.Root != nil {
		walk(s.Root, Point{}, fn)
	}
}

func walk(n *Node, parent Point, fn func(*Node, Point) bool) {
	origin := parent.Add(n.Translate)
	if !fn(n, origin) {
		return
	}
	for _, c := range n.Children {
		walk(c, origin, fn)
	}
}

// Find returns the node with the given id.
func (s *Scene) Find(id string) *Node {
	var found *Node
	s.Walk(func(n *Node, _ Point) bool {
		if found == nil && n.ID == id {
			found = n
		}
		return found == nil
	})
	return found
}

// Count returns how many nodes carry class.
func (s *Scene) Count(class string) int {
	count := 0
	s.Walk(func(n *Node, _ Point) bool {
		if n.Class == class {
			count++
		}
		return true
	})
	return count
}

// Hit is the result of a hit test: the node and its absolute origin.
type Hit struct {
	Node   *Node
	Origin Point
}

// HitTest returns the top-most node at p that has an action or can be
// dragged. Later nodes paint over earlier ones.
func (s *Scene) HitTest(p Point) (Hit, bool) {
	var best Hit
	found := false
	s.Walk(func(n *Node, origin Point) bool {
		if n.Action.Kind == ActionNone && !n.Draggable {
			return true
		}
		r, ok := n.Bounds()
		if !ok {
			return true
		}
		r.X += origin.X
		r.Y += origin.Y
		if !r.Contains(p) {
			return true
		}
		if n.Kind == KindArc && !arcContains(n.Arc, p.Sub(origin.Add(Point{n.X, n.Y}))) {
			return true
		}
		best, found = Hit{Node: n, Origin: origin}, true
		return true
	})
	return best, found
}

// arcContains reports whether d, relative to the wheel centre, falls
// inside the slice.
func arcContains(a legend.Arc, d Point) bool {
	r := math.Hypot(d.X, d.Y)
	if r < a.Inner || r > a.Outer {
		return false
	}
	angle := math.Atan2(d.X, -d.Y)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle >= a.Start && angle < a.End
}
