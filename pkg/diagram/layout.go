package diagram

import (
	"fmt"
	"strings"
	"time"

	"github.com/ha1tch/chanmap/internal/logging"
	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/legend"
)

// Ids of the fixed scene groups.
const (
	BoundsID  = "bounds"
	MarkersID = "markers"
	LabelsID  = "labels"
	LegendID  = "legend"
	WheelID   = "wheel"
)

// Tooltip geometry.
const (
	tooltipHeight   = 17
	tooltipGap      = 8
	tooltipFontSize = 13
	legendWrapWidth = 110
)

var (
	styleLoop     = Style{Stroke: "#000000", Fill: "none"}
	styleHeader   = Style{FontSize: 18, FontWeight: "bold", Anchor: "middle"}
	styleSubtitle = Style{FontSize: 14, Anchor: "middle", Fill: "#555555"}
	styleDomain   = Style{FontSize: 16, FontWeight: "bold", Anchor: "middle"}
	styleLegend   = Style{FontSize: 12}
	styleHeading  = Style{FontSize: 12, FontWeight: "bold"}
)

// layout is everything needed to build one scene.
type layout struct {
	state   *State
	scales  *ScaleSet
	err     error
	opts    Options
	shapes  ShapeTable
	now     time.Time
	version int
}

func (l *layout) build() *Scene {
	opts := l.opts
	st := l.state
	sc := &Scene{
		ID:      SceneID,
		Width:   opts.Width,
		Height:  opts.Height,
		Version: l.version,
		Settled: !st.Wheel.Animating(l.now),
	}
	root := group(SceneID, "diagram", Point{})
	sc.Root = root

	root.Add(
		text("title", float64(opts.Width)/2, 28, st.Variant.Title(), styleHeader),
		text("protein", float64(opts.Width)/2, 50, fmt.Sprintf("%s (%s)", st.Variant.Protein(), st.Variant.Gene()), styleSubtitle),
	)

	bounds := group(BoundsID, "bounds", Point{opts.MarginLeft, opts.MarginTop})
	root.Add(bounds)

	if l.scales == nil {
		reason := "unknown error"
		if l.err != nil {
			reason = l.err.Error()
		}
		sc.Unavailable = reason
		bounds.Add(text("unavailable", opts.BoundedWidth()/2, 100, "diagram unavailable: "+reason,
			Style{FontSize: 14, Anchor: "middle", Fill: "#b00020"}))
	} else {
		l.channel(bounds)
		l.markers(sc, bounds)
	}

	if st.Legend.Enabled(legend.ToggleLegend) {
		root.Add(l.legend())
	}

	raise(root, st.Dragging())
	return sc
}

// channel draws the membrane, segments, loops and domain labels.
func (l *layout) channel(bounds *Node) {
	ss := l.scales
	topo := ss.Topology
	st := l.state

	first, _ := ss.DomainOffset(topo.Domains[0])
	last, _ := ss.DomainOffset(topo.Domains[len(topo.Domains)-1])
	bounds.Add(&Node{
		Class: "membrane", Kind: KindRect,
		X: first - 20, Y: topo.MembraneTop(),
		W: last - first + topo.SegmentX[5] + topo.SegmentWidth + 40, H: topo.SegmentHeight,
		Style: Style{Fill: "#f3efe6"},
	})

	for _, d := range topo.Domains {
		offset, _ := ss.DomainOffset(d)
		g := group("domain:"+d, "domain", Point{offset, 0})
		for _, seg := range ss.Segments {
			if seg.Domain != d {
				continue
			}
			fill, _ := st.Colours.Get(SegmentColourKey(seg.Index))
			g.Add(&Node{
				ID: fmt.Sprintf("segment:%s:S%d", d, seg.Index+1), Class: "segment", Kind: KindRect,
				X: topo.SegmentX[seg.Index], Y: topo.SegmentTop, W: topo.SegmentWidth, H: topo.SegmentHeight,
				Style: Style{Fill: fill, Stroke: "#000000", StrokeWidth: 1},
			})
		}
		for _, lp := range ss.Loops {
			if lp.Domain != d {
				continue
			}
			curve, err := CurveFor(lp.Index, lp.Range, topo.Family)
			if err != nil {
				logging.Errorf("%s loop %d: %v", st.Variant, lp.Index, err)
			}
			style := styleLoop
			style.StrokeWidth = l.opts.LoopStroke
			g.Add(&Node{ID: fmt.Sprintf("loop:%d", lp.Index), Class: "loop", Kind: KindPath, Curve: curve, Style: style})
		}
		id := domainLabelID(d)
		lbl := text("domain-label", topo.DomainLabelPos.X, topo.DomainLabelPos.Y, d, styleDomain)
		lbl.ID = id
		lbl.Draggable = true
		lbl.Translate = st.Offsets[id]
		l.outline(lbl, id)
		g.Add(lbl)
		bounds.Add(g)
	}
}

// markers projects the visible mutations and places their tooltips.
func (l *layout) markers(sc *Scene, bounds *Node) {
	st := l.state
	markers := group(MarkersID, "markers", Point{})
	bounds.Add(markers)

	var placed []Marker
	for _, m := range st.Visible() {
		mk, err := Project(m, l.scales, l.shapes, st.Colours, st.MutationSize)
		if err != nil {
			logging.Warnf("skipping marker %q: %v", m.Label, err)
			sc.Skipped = append(sc.Skipped, fmt.Errorf("%s: %w", m.Label, err))
			continue
		}
		placed = append(placed, mk)
		markers.Add(&Node{
			ID: markerID(m.Position), Class: "marker", Kind: KindGroup,
			Translate: mk.At,
			Action:    Action{Kind: ActionMarker, Key: m.Label, Index: m.Position},
			Children: []*Node{{
				Class: "marker-symbol", Kind: KindSymbol, Symbol: mk.Symbol, Size: mk.Size,
				Style: Style{Fill: mk.Fill, Stroke: "#000000", StrokeWidth: 1},
			}},
		})
	}

	if !st.Legend.Enabled(legend.ToggleLabels) || len(placed) == 0 {
		return
	}
	obstacles := make([]Rect, len(placed))
	for i, mk := range placed {
		d := 2 * Radius(mk.Size)
		obstacles[i] = Rect{X: mk.At.X, Y: mk.At.Y, W: d, H: d}
	}
	placer := NewLabelPlacer(obstacles)
	labels := group(LabelsID, "labels", Point{})
	for _, mk := range placed {
		label := mk.Mutation.Label
		w := float64(8 * (len([]rune(label)) + 1))
		corner := placer.PlaceLabel(mk.At, w, tooltipHeight, tooltipGap)
		id := labelID(mk.Mutation.Position)
		tip := group(id, "tooltip", corner.Add(st.Offsets[id]),
			&Node{Class: "tooltip-box", Kind: KindRect, W: w, H: tooltipHeight, RX: 4,
				Style: Style{Fill: "#ffffff", Opacity: 0.75}},
			text("tooltip-text", 7, 12, label, Style{FontSize: tooltipFontSize}),
		)
		tip.Draggable = true
		l.outline(tip, id)
		labels.Add(tip)
	}
	bounds.Add(labels)
}

// outline gives a dragged node a stroke of 2 while it is held and 1 after
// it has been released.
func (l *layout) outline(n *Node, id string) {
	width := 0.0
	switch {
	case l.state.Dragging() == id:
		width = 2
	case l.state.Released[id]:
		width = 1
	default:
		return
	}
	target := n
	if n.Kind == KindGroup && len(n.Children) > 0 {
		target = n.Children[0]
	}
	target.Style.Stroke = "#000000"
	target.Style.StrokeWidth = width
}

// legend builds the legend group at the legend position.
func (l *layout) legend() *Node {
	st := l.state
	filter := st.Legend.Filter()
	g := group(LegendID, "legend", Point{float64(st.LegendX), float64(st.LegendY)})
	g.Draggable = true

	for i, key := range legend.SegmentKeys {
		fill, _ := st.Colours.Get(key)
		cx, cy := legend.AnchorFor(i)
		g.Add(&Node{
			ID: "swatch:" + key, Class: "swatch", Kind: KindCircle, X: cx, Y: cy, R: 6,
			Style:  Style{Fill: fill, Stroke: "#000000", StrokeWidth: 0.5},
			Action: Action{Kind: ActionSwatch, Key: key, Index: i},
		})
		for j, line := range wrapText(legend.SegmentLabels[i], legendWrapWidth, styleLegend.FontSize) {
			g.Add(text("swatch-label", 35, cy+4+float64(j)*14, line, styleLegend))
		}
	}

	g.Add(text("legend-heading", 165, 10, "Types", styleHeading))
	for i, mt := range st.Mutations.Types() {
		y := 30 + 22*float64(i)
		action := Action{Kind: ActionFilterType, Key: string(mt), Index: i}
		g.Add(&Node{
			Class: "type-symbol", Kind: KindSymbol, X: 170, Y: y,
			Symbol: l.shapes.Lookup(mt), Size: 60,
			Style:  Style{Fill: "none", Stroke: "#000000", StrokeWidth: 1},
			Action: action,
		})
		style := styleLegend
		if filter.Kind == legend.FilterType && strings.EqualFold(filter.Value, string(mt)) {
			style.FontWeight = "bold"
		}
		lbl := text("type-label", 185, y+5, mt.Display(), style)
		lbl.Action = action
		g.Add(lbl)
	}

	g.Add(text("legend-heading", 270, 10, "Phenotypes", styleHeading))
	for i, p := range st.Mutations.Phenotypes() {
		key := channel.PhenotypeKey(p)
		fill, _ := st.Colours.Get(key)
		cx, cy := legend.AnchorFor(i + len(legend.SegmentKeys))
		g.Add(&Node{
			ID: "swatch:" + key, Class: "swatch", Kind: KindCircle, X: cx, Y: cy, R: 6,
			Style:  Style{Fill: fill, Stroke: "#000000", StrokeWidth: 0.5},
			Action: Action{Kind: ActionSwatch, Key: key, Index: i + len(legend.SegmentKeys)},
		})
		style := styleLegend
		if filter.Kind == legend.FilterPhenotype && filter.Value == p {
			style.FontWeight = "bold"
		}
		lbl := text("phenotype-label", 295, cy+2, p, style)
		lbl.Action = Action{Kind: ActionFilterPhenotype, Key: p, Index: i}
		g.Add(lbl)
	}

	show := text("show-all", 220, -10, "Show All", Style{FontSize: 12, FontWeight: "bold", Fill: "#1569b7"})
	show.Action = Action{Kind: ActionShowAll}
	g.Add(show)

	if st.Wheel.IsOpen() {
		ax, ay := st.Wheel.Anchor()
		wheel := group(WheelID, "wheel", Point{ax, ay})
		for _, a := range st.Wheel.Frame(l.now) {
			wheel.Add(&Node{
				Class: "wheel-slice", Kind: KindArc, Arc: a,
				Style:  Style{Fill: a.Colour, Stroke: "#ffffff", StrokeWidth: 0.5},
				Action: Action{Kind: ActionSlice, Key: st.Wheel.Target(), Index: a.Index},
			})
		}
		g.Add(wheel)
	}
	return g
}

// raise moves the node with id to the end of its parent's children so it
// paints over its siblings.
func raise(n *Node, id string) bool {
	if id == "" {
		return false
	}
	for i, c := range n.Children {
		if c.ID == id {
			n.Children = append(append(n.Children[:i:i], n.Children[i+1:]...), c)
			return true
		}
		if raise(c, id) {
			return true
		}
	}
	return false
}

// wrapText breaks s into lines no wider than width at the given font size.
func wrapText(s string, width, size float64) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if cur != "" && TextWidth(next, size) > width {
			lines = append(lines, cur)
			cur = word
			continue
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
