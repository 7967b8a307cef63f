package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/chanmap/internal/config"
	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/diagram"
	"github.com/ha1tch/chanmap/pkg/legend"
)

func TestViewportRoundTrip(t *testing.T) {
	vp := viewport{x0: 0, y0: 1, k: 0.2, w: 258, h: 91}

	p, ok := vp.toScene(10, 6)
	if !ok {
		t.Fatal("cell (10,6) should be on the raster")
	}
	if p.X != 52.5 || p.Y != 55 {
		t.Errorf("toScene(10,6) = %v, want (52.5,55)", p)
	}
	if cx, cy := vp.toCell(p); cx != 10 || cy != 6 {
		t.Errorf("toCell(%v) = (%d,%d), want (10,6)", p, cx, cy)
	}

	if _, ok := vp.toScene(300, 6); ok {
		t.Error("cell right of the raster reported inside")
	}
	if _, ok := vp.toScene(10, 0); ok {
		t.Error("header row reported inside")
	}
	if got := vp.rows(); got != 46 {
		t.Errorf("rows() = %d, want 46", got)
	}
	if _, ok := (viewport{}).toScene(0, 0); ok {
		t.Error("empty viewport reported inside")
	}
}

func TestParseMutationInput(t *testing.T) {
	tests := []struct {
		input   string
		want    diagram.AddMutation
		wantErr bool
	}{
		{"L1092P missense DS", diagram.AddMutation{Label: "L1092P", Type: "missense", Phenotype: "DS"}, false},
		{"R1648H  nonsense  early onset epilepsy", diagram.AddMutation{Label: "R1648H", Type: "nonsense", Phenotype: "early onset epilepsy"}, false},
		{"L1092P missense", diagram.AddMutation{}, true},
		{"", diagram.AddMutation{}, true},
	}
	for _, tt := range tests {
		got, err := parseMutationInput(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMutationInput(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMutationInput(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer string", 10, "a longe..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, ""},
		{"Nav1.1 → SCN1A", 8, "Nav1...."},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}

// newTestViewer returns a viewer drawing on a simulated 160x40 screen.
func newTestViewer(t *testing.T, options ...diagram.RendererOption) *Viewer {
	t.Helper()
	cfg := config.Default()
	ed, err := newViewer(cfg, filepath.Join(t.TempDir(), config.FileName), options...)
	if err != nil {
		t.Fatalf("newViewer: %v", err)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(160, 40)
	ed.screen = screen
	return ed
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func typeText(ed *Viewer, s string) {
	for _, r := range s {
		ed.handleKey(key(r))
	}
	ed.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
}

func TestViewerKeys(t *testing.T) {
	ed := newTestViewer(t)

	ed.handleKey(key('l'))
	if ed.r.Enabled(legend.ToggleLegend) {
		t.Error("l did not hide the legend")
	}
	ed.handleKey(key('b'))
	if ed.r.Enabled(legend.ToggleLabels) {
		t.Error("b did not hide the labels")
	}

	ed.handleKey(key('+'))
	if got := ed.r.MutationSize(); got != 80 {
		t.Errorf("size after + = %d, want 80", got)
	}
	ed.handleKey(key('-'))
	ed.handleKey(key('-'))
	if got := ed.r.MutationSize(); got != diagram.MinMutationSize {
		t.Errorf("size after - - = %d, want %d", got, diagram.MinMutationSize)
	}

	x, y := ed.r.LegendPosition()
	ed.handleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	ed.handleKey(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	if gx, gy := ed.r.LegendPosition(); gx != x-10 || gy != y-10 {
		t.Errorf("legend at (%d,%d), want (%d,%d)", gx, gy, x-10, y-10)
	}

	ed.handleKey(key('v'))
	if got := ed.r.Variant(); got != channel.SCN2A {
		t.Errorf("v selected %s, want scn2a", got)
	}
	ed.handleKey(key('V'))
	ed.handleKey(key('V'))
	if got := ed.r.Variant(); got != channel.KCNQ5 {
		t.Errorf("V V selected %s, want kcnq5", got)
	}

	if !ed.handleKey(key('q')) {
		t.Error("q did not quit")
	}
}

func TestViewerAddAndDelete(t *testing.T) {
	ed := newTestViewer(t)

	ed.handleKey(key('a'))
	if ed.mode != ModeInput {
		t.Fatal("a did not open the prompt")
	}
	typeText(ed, "L1092P missense DS")
	if ed.mode != ModeView {
		t.Error("Enter did not close the prompt")
	}
	if ms := ed.r.Mutations(); len(ms) != 1 || ms[0].Position != 1092 {
		t.Fatalf("mutations = %v, want L1092P", ms)
	}

	ed.handleKey(key('a'))
	typeText(ed, "A5000V missense DS")
	if ed.messageType != MsgError || ed.message != diagram.MsgOutOfRange {
		t.Errorf("message = %q (%v), want out of range error", ed.message, ed.messageType)
	}

	ed.handleKey(key('x'))
	if ed.messageType != MsgWarning {
		t.Errorf("delete without selection: message type %v, want warning", ed.messageType)
	}

	ed.handleKey(key('j'))
	if ed.selected != 1092 {
		t.Fatalf("selected = %d, want 1092", ed.selected)
	}
	ed.handleKey(key('x'))
	if len(ed.r.Mutations()) != 0 {
		t.Error("x did not delete the selected mutation")
	}
	if ed.selected != 0 {
		t.Error("selection not cleared after delete")
	}
}

func TestViewerDraw(t *testing.T) {
	ed := newTestViewer(t)
	ed.handleKey(key('a'))
	typeText(ed, "L1092P missense DS")

	ed.draw()
	ed.screen.Show()

	if ed.canvasW != 160-ed.sidebarWidth || ed.canvasH != 37 {
		t.Errorf("canvas = %dx%d, want %dx37", ed.canvasW, ed.canvasH, 160-ed.sidebarWidth)
	}
	if ed.vp.k <= 0 || ed.vp.w > ed.canvasW || ed.vp.rows() > ed.canvasH {
		t.Errorf("viewport %+v does not fit the canvas", ed.vp)
	}

	sim := ed.screen.(tcell.SimulationScreen)
	cells, w, _ := sim.GetContents()
	row := func(y int) string {
		var s []rune
		for _, c := range cells[y*w : (y+1)*w] {
			if len(c.Runes) > 0 {
				s = append(s, c.Runes[0])
			}
		}
		return string(s)
	}
	if got := row(0); !strings.Contains(got, "Nav1.1 (SCN1A)") {
		t.Errorf("header = %q", got)
	}
	if got := row(1); !strings.Contains(got, "Mutations (1)") {
		t.Errorf("sidebar heading row = %q", got)
	}
	if got := row(sidebarListTop); !strings.Contains(got, "L1092P") {
		t.Errorf("sidebar row = %q", got)
	}
}
