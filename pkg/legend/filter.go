package legend

import (
	"strings"

	"github.com/ha1tch/chanmap/pkg/channel"
)

// Toggle names an on/off display control.
type Toggle string

const (
	ToggleLegend Toggle = "legend"
	ToggleLabels Toggle = "labels"
)

// FilterKind selects how markers are filtered.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterType
	FilterPhenotype
)

// Filter is the active marker filter. Only one is active at a time.
type Filter struct {
	Kind  FilterKind
	Value string
}

// Match reports whether m passes the filter. Type matching ignores case.
func (f Filter) Match(m channel.Mutation) bool {
	switch f.Kind {
	case FilterType:
		return strings.EqualFold(string(m.Type), f.Value)
	case FilterPhenotype:
		return m.Phenotype == f.Value
	}
	return true
}

func (f Filter) String() string {
	switch f.Kind {
	case FilterType:
		return "type=" + f.Value
	case FilterPhenotype:
		return "phenotype=" + f.Value
	}
	return "all"
}

// Controller holds the display toggles and the marker filter.
type Controller struct {
	toggles map[Toggle]bool
	filter  Filter
}

// NewController returns a controller with the legend and labels shown and
// every marker visible.
func NewController() *Controller {
	return &Controller{toggles: map[Toggle]bool{ToggleLegend: true, ToggleLabels: true}}
}

// Toggle flips t and returns its new state.
func (c *Controller) Toggle(t Toggle) bool {
	c.toggles[t] = !c.toggles[t]
	return c.toggles[t]
}

// Set forces t on or off.
func (c *Controller) Set(t Toggle, on bool) { c.toggles[t] = on }

// Enabled reports whether t is on.
func (c *Controller) Enabled(t Toggle) bool { return c.toggles[t] }

// SelectType shows only markers of type mt, replacing any other filter.
func (c *Controller) SelectType(mt string) {
	c.filter = Filter{Kind: FilterType, Value: mt}
}

// SelectPhenotype shows only markers with phenotype p, replacing any other
// filter.
func (c *Controller) SelectPhenotype(p string) {
	c.filter = Filter{Kind: FilterPhenotype, Value: p}
}

// ShowAll clears the filter.
func (c *Controller) ShowAll() { c.filter = Filter{} }

// Filter returns the active filter.
func (c *Controller) Filter() Filter { return c.filter }

// Visible returns the mutations passing the filter, in order. A filter
// that matches nothing yields an empty list.
func (c *Controller) Visible(all []channel.Mutation) []channel.Mutation {
	out := make([]channel.Mutation, 0, len(all))
	for _, m := range all {
		if c.filter.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

// Clone returns an independent copy.
func (c *Controller) Clone() *Controller {
	out := &Controller{toggles: make(map[Toggle]bool, len(c.toggles)), filter: c.filter}
	for k, v := range c.toggles {
		out.toggles[k] = v
	}
	return out
}
