// Package legend holds the interactive legend state: the colour assignment
// for segments and phenotypes, the colour wheel used to change it, and the
// marker filter.
package legend

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Fixed palette keys for the structural segments.
const (
	KeyS1S3 = "S1S3Colour"
	KeyS4   = "S4Colour"
	KeyS5S6 = "S5S6Colour"
)

// SegmentKeys lists the segment swatches in legend order.
var SegmentKeys = []string{KeyS1S3, KeyS4, KeyS5S6}

// SegmentLabels are the legend captions of SegmentKeys.
var SegmentLabels = []string{
	"Voltage-Sensing Segment (S1-S3)",
	"Positively Charged Voltage-Sensing (S4)",
	"Pore-Forming Region (S5 and S6)",
}

var segmentDefaults = map[string]string{
	KeyS1S3: "#85C88A",
	KeyS4:   "#EBD671",
	KeyS5S6: "#39AEA9",
}

// Spectral is the 11-step diverging scheme phenotype colours are drawn from.
var Spectral = []string{
	"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b", "#ffffbf",
	"#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
}

// Colours is the ordered colour assignment. Keys are never removed.
type Colours struct {
	keys     []string
	values   map[string]string
	nextSlot int
}

// NewColours returns the default segment colours and no phenotypes.
func NewColours() *Colours {
	c := &Colours{values: make(map[string]string)}
	for _, k := range SegmentKeys {
		c.keys = append(c.keys, k)
		c.values[k] = normalize(segmentDefaults[k])
	}
	return c
}

// Get returns the colour bound to key.
func (c *Colours) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Set binds key to a colour given as a hex string.
func (c *Colours) Set(key, hex string) error {
	col, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("colour for %s: %w", key, err)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = col.Hex()
	return nil
}

// Keys returns every key in assignment order.
func (c *Colours) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Len returns the number of assigned keys.
func (c *Colours) Len() int { return len(c.keys) }

// EnsurePhenotype assigns the next Spectral slot to key unless it already
// has a colour. It reports whether a colour was assigned.
func (c *Colours) EnsurePhenotype(key string) bool {
	if _, ok := c.values[key]; ok {
		return false
	}
	c.keys = append(c.keys, key)
	c.values[key] = Spectral[c.nextSlot%len(Spectral)]
	c.nextSlot++
	return true
}

// Clone returns an independent copy.
func (c *Colours) Clone() *Colours {
	out := &Colours{
		keys:     c.Keys(),
		values:   make(map[string]string, len(c.values)),
		nextSlot: c.nextSlot,
	}
	for k, v := range c.values {
		out.values[k] = v
	}
	return out
}

func normalize(hex string) string {
	col, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return col.Hex()
}

// RGBA converts a hex colour for raster output. Unparseable input yields
// opaque black.
func RGBA(hex string) color.RGBA {
	col, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{0, 0, 0, 255}
	}
	r, g, b := col.RGB255()
	return color.RGBA{r, g, b, 255}
}

// Contrast picks black or white text for a background colour.
func Contrast(hex string) string {
	col, err := colorful.Hex(hex)
	if err != nil {
		return "#000000"
	}
	l, _, _ := col.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#ffffff"
}

// Blend mixes two hex colours in Lab space; t=0 gives a, t=1 gives b.
func Blend(a, b string, t float64) string {
	ca, errA := colorful.Hex(a)
	cb, errB := colorful.Hex(b)
	if errA != nil || errB != nil {
		return a
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}
