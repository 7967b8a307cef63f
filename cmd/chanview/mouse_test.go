package main

import (
	"math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/chanmap/pkg/diagram"
	"github.com/ha1tch/chanmap/pkg/legend"
)

// newMouseViewer returns a viewer whose canvas shows the scene at one
// raster pixel per scene unit, with a clock the test controls.
func newMouseViewer(t *testing.T) (*Viewer, *time.Time) {
	t.Helper()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ed := newTestViewer(t, diagram.WithClock(func() time.Time { return now }))
	opts := ed.r.Options()
	ed.canvasW = opts.Width
	ed.vp = viewport{x0: 0, y0: 1, k: 1, w: opts.Width, h: opts.Height}
	return ed, &now
}

// countRenders counts the scenes the renderer builds from now on.
func countRenders(ed *Viewer) *int {
	n := 0
	ed.r.OnRender = func(*diagram.Scene) { n++ }
	return &n
}

// centreOf returns the canvas centre of the first node matching fn.
func centreOf(t *testing.T, sc *diagram.Scene, fn func(*diagram.Node) bool) diagram.Point {
	t.Helper()
	var (
		p     diagram.Point
		found bool
	)
	sc.Walk(func(n *diagram.Node, origin diagram.Point) bool {
		if found || !fn(n) {
			return !found
		}
		b, ok := n.Bounds()
		if !ok {
			return true
		}
		p, found = diagram.Point{X: origin.X + b.X, Y: origin.Y + b.Y}, true
		return false
	})
	if !found {
		t.Fatal("no matching node in scene")
	}
	return p
}

func byID(id string) func(*diagram.Node) bool {
	return func(n *diagram.Node) bool { return n.ID == id }
}

func byClass(class string) func(*diagram.Node) bool {
	return func(n *diagram.Node) bool { return n.Class == class }
}

func mouse(x, y int, buttons tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, buttons, tcell.ModNone)
}

// press sends a button press at the cell showing p, then held motion
// over each of the other points, then the release at the last one.
func press(ed *Viewer, p diagram.Point, held ...diagram.Point) {
	x, y := ed.vp.toCell(p)
	ed.handleMouse(mouse(x, y, tcell.Button1))
	for _, h := range held {
		x, y = ed.vp.toCell(h)
		ed.handleMouse(mouse(x, y, tcell.Button1))
	}
	ed.handleMouse(mouse(x, y, tcell.ButtonNone))
}

func TestMouseClickSwatchOnce(t *testing.T) {
	ed, now := newMouseViewer(t)
	renders := countRenders(ed)

	swatch := centreOf(t, ed.r.Scene(), byID("swatch:"+legend.KeyS1S3))
	press(ed, swatch, swatch, swatch.Add(diagram.Point{X: 1}), swatch)

	if *renders != 1 {
		t.Errorf("press and hold dispatched %d events, want 1", *renders)
	}
	if ed.r.Scene().Find(diagram.WheelID) == nil {
		t.Fatal("wheel not open after clicking the swatch")
	}

	*now = now.Add(legend.OpenDuration)
	ed.dispatch(diagram.Tick{})
	*renders = 0

	// slice 3 spans 90..120 degrees clockwise from twelve o'clock
	a := 105 * math.Pi / 180
	mid := (legend.InnerRadius + legend.OuterRadius) / 2
	slice := swatch.Add(diagram.Point{X: mid * math.Sin(a), Y: -mid * math.Cos(a)})
	press(ed, slice, slice, slice)

	if *renders != 1 {
		t.Errorf("slice click dispatched %d events, want 1", *renders)
	}
	if got, _ := ed.r.Colours().Get(legend.KeyS1S3); got != "#1569b7" {
		t.Errorf("S1S3 colour = %s, want #1569b7", got)
	}
}

func TestMouseHeldPressDoesNotReachOtherTargets(t *testing.T) {
	ed, _ := newMouseViewer(t)
	ed.dispatch(diagram.AddMutation{Label: "L1092P", Type: "missense", Phenotype: "DS"})
	sc := ed.r.Scene()

	typeLabel := centreOf(t, sc, byClass("type-label"))
	phenoLabel := centreOf(t, sc, byClass("phenotype-label"))

	tests := []struct {
		name string
		from diagram.Point
		over []diagram.Point
		want legend.FilterKind
	}{
		{"type then held over phenotype", typeLabel, []diagram.Point{phenoLabel}, legend.FilterType},
		{"phenotype then held over type", phenoLabel, []diagram.Point{typeLabel, phenoLabel}, legend.FilterPhenotype},
	}
	for _, tt := range tests {
		ed.dispatch(diagram.ShowAll{})
		renders := countRenders(ed)
		press(ed, tt.from, tt.over...)
		if *renders != 1 {
			t.Errorf("%s: dispatched %d events, want 1", tt.name, *renders)
		}
		if got := ed.r.Filter().Kind; got != tt.want {
			t.Errorf("%s: filter kind = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMouseDragLabel(t *testing.T) {
	ed, _ := newMouseViewer(t)
	ed.dispatch(diagram.AddMutation{Label: "L1092P", Type: "missense", Phenotype: "DS"})

	const id = "label:1092"
	before := centreOf(t, ed.r.Scene(), byID(id))
	renders := countRenders(ed)

	x, y := ed.vp.toCell(before)
	ed.handleMouse(mouse(x, y, tcell.Button1))
	if !ed.dragging {
		t.Fatal("press on the label did not start a drag")
	}
	ed.handleMouse(mouse(x+10, y+2, tcell.Button1))
	ed.handleMouse(mouse(x+20, y+5, tcell.Button1))
	ed.handleMouse(mouse(x+20, y+5, tcell.ButtonNone))

	if ed.dragging {
		t.Error("release did not end the drag")
	}
	if *renders != 4 {
		t.Errorf("drag dispatched %d events, want 4", *renders)
	}

	// one cell is one scene unit across and two down
	after := centreOf(t, ed.r.Scene(), byID(id))
	if d := after.Sub(before); math.Abs(d.X-20) > 1e-9 || math.Abs(d.Y-10) > 1e-9 {
		t.Errorf("label moved by %v, want (20,10)", d)
	}

	ed.handleMouse(mouse(x, y, tcell.ButtonNone))
	if ed.dragging {
		t.Error("motion without a button started a drag")
	}
}
