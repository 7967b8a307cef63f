package diagram

import (
	"errors"
	"time"

	"github.com/ha1tch/chanmap/internal/logging"
	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/legend"
)

// Renderer owns the diagram state and turns events into scenes. Every
// event is applied completely before the scene is rebuilt from a snapshot.
// A Renderer is not safe for concurrent use; host loops serialise events.
type Renderer struct {
	// OnRender is called with every new scene.
	OnRender func(*Scene)

	table  *channel.SegmentTable
	opts   Options
	shapes ShapeTable
	now    func() time.Time

	state    *State
	scales   *ScaleSet
	scaleErr error
	scene    *Scene
	version  int

	lastImport channel.ImportReport
}

// RendererOption customises a Renderer.
type RendererOption func(*Renderer)

// WithClock replaces time.Now, for tests and frame-exact exports.
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) { r.now = now }
}

// WithShapes replaces the default type to symbol table.
func WithShapes(t ShapeTable) RendererOption {
	return func(r *Renderer) { r.shapes = t }
}

// WithVariant selects the initial variant.
func WithVariant(v channel.Variant) RendererOption {
	return func(r *Renderer) { r.state.Variant = v }
}

// NewRenderer builds the first scene for the default variant.
func NewRenderer(table *channel.SegmentTable, opts Options, options ...RendererOption) *Renderer {
	r := &Renderer{
		table:  table,
		opts:   opts.withDefaults(),
		shapes: DefaultShapeTable(),
		now:    time.Now,
		state:  NewState(channel.DefaultVariant),
	}
	for _, o := range options {
		o(r)
	}
	r.rebuildScales()
	r.render()
	return r
}

// Dispatch applies ev and returns the rebuilt scene. When the event is
// rejected the current scene is returned with the error.
func (r *Renderer) Dispatch(ev Event) (*Scene, error) {
	if err := ev.apply(r); err != nil {
		logging.Debugf("event %T rejected: %v", ev, err)
		return r.scene, err
	}
	return r.render(), nil
}

// Click hit-tests p (canvas coordinates) and dispatches the event of the
// node under it. It reports the hit even when the node has no click event.
func (r *Renderer) Click(p Point) (*Scene, Hit, error) {
	hit, ok := r.scene.HitTest(p)
	if !ok {
		return r.scene, Hit{}, nil
	}
	ev, ok := EventFor(hit.Node.Action)
	if !ok {
		return r.scene, hit, nil
	}
	sc, err := r.Dispatch(ev)
	return sc, hit, err
}

// Scene returns the current scene.
func (r *Renderer) Scene() *Scene { return r.scene }

// Final returns the scene with every animation finished, for export. It
// does not change the state.
func (r *Renderer) Final() *Scene {
	st := r.state.Clone()
	st.Wheel.Settle()
	st.drag = nil
	l := &layout{state: st, scales: r.scales, err: r.scaleErr, opts: r.opts, shapes: r.shapes, now: r.now(), version: r.version}
	return l.build()
}

// SetTable swaps the segment table and rebuilds the scales.
func (r *Renderer) SetTable(t *channel.SegmentTable) *Scene {
	r.table = t
	r.rebuildScales()
	return r.render()
}

// Variant returns the selected variant.
func (r *Renderer) Variant() channel.Variant { return r.state.Variant }

// Mutations returns the entered mutations in entry order.
func (r *Renderer) Mutations() []channel.Mutation { return r.state.Mutations.All() }

// Colours returns a copy of the colour assignment.
func (r *Renderer) Colours() *legend.Colours { return r.state.Colours.Clone() }

// Filter returns the active marker filter.
func (r *Renderer) Filter() legend.Filter { return r.state.Legend.Filter() }

// Enabled reports whether a display toggle is on.
func (r *Renderer) Enabled(t legend.Toggle) bool { return r.state.Legend.Enabled(t) }

// MutationSize returns the marker area.
func (r *Renderer) MutationSize() int { return r.state.MutationSize }

// LegendPosition returns the legend offset.
func (r *Renderer) LegendPosition() (x, y int) { return r.state.LegendX, r.state.LegendY }

// Scales returns the scales of the current variant, or nil with the
// reason they could not be built.
func (r *Renderer) Scales() (*ScaleSet, error) { return r.scales, r.scaleErr }

// Options returns the layout options.
func (r *Renderer) Options() Options { return r.opts }

// LastImport returns the report of the most recent ImportMutations.
func (r *Renderer) LastImport() channel.ImportReport { return r.lastImport }

// Animating reports whether another frame is needed.
func (r *Renderer) Animating() bool { return r.state.Wheel.Animating(r.now()) }

func (r *Renderer) rebuildScales() {
	r.scales, r.scaleErr = nil, nil
	if r.table == nil {
		r.scaleErr = errors.New("no segment table loaded")
		logging.Errorf("%s: %v", r.state.Variant, r.scaleErr)
		return
	}
	records, err := r.table.Records(r.state.Variant)
	if err == nil {
		r.scales, err = BuildScales(records, r.state.Variant, r.opts)
	}
	if err != nil {
		r.scaleErr = err
		logging.Errorf("%s: %v", r.state.Variant, err)
	}
}

func (r *Renderer) render() *Scene {
	r.version++
	l := &layout{state: r.state.Clone(), scales: r.scales, err: r.scaleErr, opts: r.opts, shapes: r.shapes, now: r.now(), version: r.version}
	r.scene = l.build()
	logging.Debugf("scene %d: %s, %d mutations, settled=%v", r.version, r.state.Variant, r.state.Mutations.Len(), r.scene.Settled)
	if r.OnRender != nil {
		r.OnRender(r.scene)
	}
	return r.scene
}

// UserMessage returns the text shown to users for an entry error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, channel.ErrOutOfRange):
		return MsgOutOfRange
	case errors.Is(err, channel.ErrDuplicatePosition):
		return MsgDuplicate
	}
	return err.Error()
}
