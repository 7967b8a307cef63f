package diagram

import (
	"fmt"
	"strconv"

	"github.com/ha1tch/chanmap/internal/logging"
	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/legend"
)

// Event is a user action applied by Renderer.Dispatch. An event that fails
// leaves the state untouched.
type Event interface {
	apply(r *Renderer) error
}

// Messages shown to users for rejected entries.
const (
	MsgOutOfRange = "Mutation sequence out of range. Please enter a different sequence."
	MsgDuplicate  = "Mutation sequence with that location has already been entered. Please delete it from the table or enter a different sequence."
)

// SelectVariant switches the channel and clears the mutations.
type SelectVariant struct{ Variant channel.Variant }

func (e SelectVariant) apply(r *Renderer) error {
	r.state.Variant = e.Variant
	r.state.Mutations.Clear()
	r.state.Legend.ShowAll()
	r.state.Wheel.Close()
	r.state.Offsets = make(map[string]Point)
	r.state.Released = make(map[string]bool)
	r.state.drag = nil
	r.rebuildScales()
	return nil
}

// AddMutation enters one mutation from the form.
type AddMutation struct {
	Label     string
	Type      string
	Phenotype string
}

func (e AddMutation) apply(r *Renderer) error {
	if r.scales == nil {
		return fmt.Errorf("add mutation: %w", r.scaleErr)
	}
	m, err := channel.NewMutation(e.Label, e.Type, e.Phenotype)
	if err != nil {
		return err
	}
	_, last := r.scales.Span()
	if err := channel.CheckRange(m.Position, last); err != nil {
		return err
	}
	if err := r.state.Mutations.Add(m); err != nil {
		return err
	}
	r.state.Colours.EnsurePhenotype(m.ColourKey())
	logging.Debugf("added %s at %d (%s, %s)", m.Label, m.Position, m.Type, m.Phenotype)
	return nil
}

// ImportMutations merges a batch of records. Existing positions win and
// rows that fail to parse are reported, not applied.
type ImportMutations struct{ Records []channel.ImportRecord }

func (e ImportMutations) apply(r *Renderer) error {
	set := r.state.Mutations.Clone()
	rep := set.Merge(e.Records)
	r.state.Mutations = set
	for _, m := range rep.Added {
		r.state.Colours.EnsurePhenotype(m.ColourKey())
	}
	r.lastImport = rep
	logging.Infof("import: %d added, %d skipped, %d rejected", len(rep.Added), len(rep.Skipped), len(rep.Rejected))
	for _, re := range rep.Rejected {
		logging.Warnf("import: %v", re)
	}
	return nil
}

// DeleteMutation removes the mutation at Position.
type DeleteMutation struct{ Position int }

func (e DeleteMutation) apply(r *Renderer) error {
	if !r.state.Mutations.Delete(e.Position) {
		return fmt.Errorf("no mutation at position %d", e.Position)
	}
	id := labelID(e.Position)
	delete(r.state.Offsets, id)
	delete(r.state.Released, id)
	return nil
}

// ToggleVisibility flips the legend or the marker labels.
type ToggleVisibility struct{ Toggle legend.Toggle }

func (e ToggleVisibility) apply(r *Renderer) error {
	r.state.Legend.Toggle(e.Toggle)
	return nil
}

// FilterByType shows only markers of one type.
type FilterByType struct{ Type string }

func (e FilterByType) apply(r *Renderer) error {
	r.state.Legend.SelectType(e.Type)
	return nil
}

// FilterByPhenotype shows only markers of one phenotype.
type FilterByPhenotype struct{ Phenotype string }

func (e FilterByPhenotype) apply(r *Renderer) error {
	r.state.Legend.SelectPhenotype(e.Phenotype)
	return nil
}

// ShowAll clears the marker filter.
type ShowAll struct{}

func (ShowAll) apply(r *Renderer) error {
	r.state.Legend.ShowAll()
	return nil
}

// ClickSwatch opens the colour wheel for a legend swatch.
type ClickSwatch struct {
	Key   string
	Index int
}

func (e ClickSwatch) apply(r *Renderer) error {
	if _, ok := r.state.Colours.Get(e.Key); !ok {
		return &UnassignedColourError{Key: e.Key}
	}
	r.state.Wheel.Open(e.Key, e.Index, r.now())
	return nil
}

// ClickSlice picks a wheel colour for the swatch the wheel is open on.
type ClickSlice struct{ Index int }

func (e ClickSlice) apply(r *Renderer) error {
	key, err := r.state.Wheel.Pick(e.Index, r.state.Colours, r.now())
	if err != nil {
		return err
	}
	logging.Debugf("colour %s set from wheel slice %d", key, e.Index)
	return nil
}

// CloseWheel hides the colour wheel.
type CloseWheel struct{}

func (CloseWheel) apply(r *Renderer) error {
	r.state.Wheel.Close()
	return nil
}

// SetColour binds a palette key directly, as the settings file does.
type SetColour struct {
	Key string
	Hex string
}

func (e SetColour) apply(r *Renderer) error {
	return r.state.Colours.Set(e.Key, e.Hex)
}

// SetMutationSize changes the marker area; it is clamped to 70..200.
type SetMutationSize struct{ Size int }

func (e SetMutationSize) apply(r *Renderer) error {
	r.state.MutationSize = ClampMutationSize(e.Size)
	return nil
}

// SetLegendPosition moves the legend; it is clamped to the layout.
type SetLegendPosition struct{ X, Y int }

func (e SetLegendPosition) apply(r *Renderer) error {
	r.state.LegendX, r.state.LegendY = r.opts.ClampLegend(e.X, e.Y)
	return nil
}

// DragStart grabs a draggable node at At (canvas coordinates).
type DragStart struct {
	ID string
	At Point
}

func (e DragStart) apply(r *Renderer) error {
	n := r.scene.Find(e.ID)
	if n == nil || !n.Draggable {
		return fmt.Errorf("%q is not draggable", e.ID)
	}
	base := r.state.Offsets[e.ID]
	if e.ID == LegendID {
		base = Point{float64(r.state.LegendX), float64(r.state.LegendY)}
	}
	r.state.drag = &drag{id: e.ID, start: e.At, base: base}
	return nil
}

// DragMove moves the grabbed node so it follows the pointer.
type DragMove struct{ At Point }

func (e DragMove) apply(r *Renderer) error {
	d := r.state.drag
	if d == nil {
		return nil
	}
	pos := d.base.Add(e.At.Sub(d.start))
	if d.id == LegendID {
		r.state.LegendX, r.state.LegendY = r.opts.ClampLegend(int(pos.X+0.5), int(pos.Y+0.5))
		return nil
	}
	r.state.Offsets[d.id] = pos
	return nil
}

// DragEnd releases the grabbed node.
type DragEnd struct{}

func (DragEnd) apply(r *Renderer) error {
	if r.state.drag == nil {
		return nil
	}
	r.state.Released[r.state.drag.id] = true
	r.state.drag = nil
	return nil
}

// Tick redraws an animation frame.
type Tick struct{}

func (Tick) apply(*Renderer) error { return nil }

// EventFor converts the action of a hit node into the event a click on it
// triggers.
func EventFor(a Action) (Event, bool) {
	switch a.Kind {
	case ActionSwatch:
		return ClickSwatch{Key: a.Key, Index: a.Index}, true
	case ActionSlice:
		return ClickSlice{Index: a.Index}, true
	case ActionFilterType:
		return FilterByType{Type: a.Key}, true
	case ActionFilterPhenotype:
		return FilterByPhenotype{Phenotype: a.Key}, true
	case ActionShowAll:
		return ShowAll{}, true
	}
	return nil, false
}

func labelID(pos int) string  { return "label:" + strconv.Itoa(pos) }
func markerID(pos int) string { return "marker:" + strconv.Itoa(pos) }
func domainLabelID(d string) string {
	return "domain-label:" + d
}
