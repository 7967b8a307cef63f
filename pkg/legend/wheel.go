package legend

import (
	"errors"
	"math"
	"time"
)

// ErrWheelClosed is returned when a slice is picked while the wheel is
// not showing.
var ErrWheelClosed = errors.New("colour wheel is closed")

// WheelPalette is the fixed set of colours offered by the wheel.
var WheelPalette = []string{
	"#001A8F", "#400D6E", "#8D1291", "#1569B7", "#3CB9B3", "#33FF96",
	"#8DFF5C", "#FF8585", "#DF7861", "#FFB370", "#85C88A", "#EBD671",
}

// Wheel geometry and timing.
const (
	InnerRadius  = 7.0
	OuterRadius  = 12.0
	OpenDuration = 800 * time.Millisecond
	PickDuration = 200 * time.Millisecond
)

// Arc is one annular slice. Angles are in radians measured clockwise from
// twelve o'clock.
type Arc struct {
	Index      int
	Colour     string
	Start, End float64
	Inner      float64
	Outer      float64
}

// Point returns the coordinates of angle a at radius r around the wheel
// centre.
func (Arc) Point(a, r float64) (x, y float64) {
	return r * math.Sin(a), -r * math.Cos(a)
}

type tween struct {
	from, to []Arc
	start    time.Time
	dur      time.Duration
}

// ColorWheel is a popup palette anchored next to a legend swatch.
type ColorWheel struct {
	open    bool
	target  string
	swatch  int
	anchorX float64
	anchorY float64
	tw      *tween
}

// NewColorWheel returns a closed wheel.
func NewColorWheel() *ColorWheel {
	return &ColorWheel{swatch: -1}
}

// AnchorFor returns the legend-local centre of swatch i. Segment swatches
// are stacked 40px apart, phenotype dots 20px apart in the second column.
func AnchorFor(i int) (x, y float64) {
	if i < len(SegmentKeys) {
		return 20, 30 + 40*float64(i)
	}
	return 280, 30 + 20*float64(i-len(SegmentKeys))
}

// Open shows the wheel at swatch index for targetKey. Opening while open
// re-anchors it and replays the opening animation.
func (w *ColorWheel) Open(targetKey string, index int, now time.Time) {
	w.open = true
	w.target = targetKey
	w.swatch = index
	w.anchorX, w.anchorY = AnchorFor(index)
	w.tw = &tween{from: collapsedArcs(), to: fullArcs(), start: now, dur: OpenDuration}
}

// Pick binds the target key to slice i and replays a short animation. The
// wheel stays open.
func (w *ColorWheel) Pick(i int, colours *Colours, now time.Time) (string, error) {
	if !w.open {
		return "", ErrWheelClosed
	}
	if i < 0 || i >= len(WheelPalette) {
		return "", errors.New("colour wheel slice out of range")
	}
	if err := colours.Set(w.target, WheelPalette[i]); err != nil {
		return "", err
	}
	w.tw = &tween{from: collapsedArcs(), to: fullArcs(), start: now, dur: PickDuration}
	return w.target, nil
}

// Close hides the wheel. It leaves colours untouched.
func (w *ColorWheel) Close() {
	w.open = false
	w.target = ""
	w.swatch = -1
	w.tw = nil
}

// IsOpen reports whether the wheel is showing.
func (w *ColorWheel) IsOpen() bool { return w.open }

// Target returns the colour key the wheel edits.
func (w *ColorWheel) Target() string { return w.target }

// Swatch returns the swatch index the wheel is anchored to, or -1.
func (w *ColorWheel) Swatch() int { return w.swatch }

// Anchor returns the legend-local centre of the wheel.
func (w *ColorWheel) Anchor() (x, y float64) { return w.anchorX, w.anchorY }

// Animating reports whether a transition is still running at now.
func (w *ColorWheel) Animating(now time.Time) bool {
	return w.open && w.tw != nil && now.Sub(w.tw.start) < w.tw.dur
}

// Settle jumps to the end of any running transition.
func (w *ColorWheel) Settle() {
	w.tw = nil
}

// Frame returns the slices as drawn at now. A closed wheel has none.
func (w *ColorWheel) Frame(now time.Time) []Arc {
	if !w.open {
		return nil
	}
	if w.tw == nil {
		return fullArcs()
	}
	elapsed := now.Sub(w.tw.start)
	if elapsed >= w.tw.dur {
		w.tw = nil
		return fullArcs()
	}
	t := 0.0
	if elapsed > 0 {
		t = float64(elapsed) / float64(w.tw.dur)
	}
	t = easeCubicInOut(t)
	out := make([]Arc, len(w.tw.to))
	for i := range out {
		a, b := w.tw.from[i], w.tw.to[i]
		out[i] = Arc{
			Index:  b.Index,
			Colour: b.Colour,
			Start:  lerp(a.Start, b.Start, t),
			End:    lerp(a.End, b.End, t),
			Inner:  lerp(a.Inner, b.Inner, t),
			Outer:  lerp(a.Outer, b.Outer, t),
		}
	}
	return out
}

// Clone returns an independent copy.
func (w *ColorWheel) Clone() *ColorWheel {
	out := *w
	if w.tw != nil {
		tw := *w.tw
		out.tw = &tw
	}
	return &out
}

func fullArcs() []Arc {
	n := len(WheelPalette)
	step := 2 * math.Pi / float64(n)
	arcs := make([]Arc, n)
	for i, c := range WheelPalette {
		arcs[i] = Arc{Index: i, Colour: c, Start: float64(i) * step, End: float64(i+1) * step, Inner: InnerRadius, Outer: OuterRadius}
	}
	return arcs
}

// collapsedArcs is the wheel before it sweeps open: every slice folded at
// twelve o'clock with no width.
func collapsedArcs() []Arc {
	arcs := fullArcs()
	for i := range arcs {
		arcs[i].Start, arcs[i].End = 0, 0
		arcs[i].Outer = InnerRadius
	}
	return arcs
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
