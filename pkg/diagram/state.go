package diagram

import (
	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/legend"
)

// State is everything the user can change. The renderer owns it and only
// events modify it.
type State struct {
	Variant      channel.Variant
	Mutations    *channel.MutationSet
	Colours      *legend.Colours
	Legend       *legend.Controller
	Wheel        *legend.ColorWheel
	MutationSize int
	LegendX      int
	LegendY      int
	// Offsets holds the drag displacement of draggable nodes by id.
	Offsets map[string]Point
	// Released lists nodes that have been dragged at least once; they keep
	// a thin outline.
	Released map[string]bool

	drag *drag
}

type drag struct {
	id    string
	start Point
	base  Point
}

// NewState returns the initial state for variant.
func NewState(variant channel.Variant) *State {
	return &State{
		Variant:      variant,
		Mutations:    channel.NewMutationSet(),
		Colours:      legend.NewColours(),
		Legend:       legend.NewController(),
		Wheel:        legend.NewColorWheel(),
		MutationSize: DefaultMutationSize,
		LegendX:      DefaultLegendX,
		LegendY:      DefaultLegendY,
		Offsets:      make(map[string]Point),
		Released:     make(map[string]bool),
	}
}

// Clone returns a deep copy for building a scene.
func (s *State) Clone() *State {
	c := *s
	c.Mutations = s.Mutations.Clone()
	c.Colours = s.Colours.Clone()
	c.Legend = s.Legend.Clone()
	c.Wheel = s.Wheel.Clone()
	c.Offsets = make(map[string]Point, len(s.Offsets))
	for k, v := range s.Offsets {
		c.Offsets[k] = v
	}
	c.Released = make(map[string]bool, len(s.Released))
	for k, v := range s.Released {
		c.Released[k] = v
	}
	if s.drag != nil {
		d := *s.drag
		c.drag = &d
	}
	return &c
}

// Dragging returns the id of the node being dragged, or "".
func (s *State) Dragging() string {
	if s.drag == nil {
		return ""
	}
	return s.drag.id
}

// Visible returns the mutations that pass the active filter.
func (s *State) Visible() []channel.Mutation {
	return s.Legend.Visible(s.Mutations.All())
}
