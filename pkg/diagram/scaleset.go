package diagram

import (
	"fmt"
	"math"

	"github.com/ha1tch/chanmap/pkg/channel"
)

// Anchor is one (position, x, y) break of the coordinate scales.
type Anchor struct {
	Position float64
	X, Y     float64
	Loop     int
}

// LoopPlacement is a loop record resolved against the topology.
type LoopPlacement struct {
	Index  int // global loop index
	Spec   LoopSpec
	Domain string
	Offset float64 // domain band offset
	Range  channel.Range
}

// SegmentPlacement is a transmembrane segment resolved against the topology.
type SegmentPlacement struct {
	Index  int // 0..5 for S1..S6
	Domain string
	Offset float64
	Range  channel.Range
}

// ScaleSet maps residue positions to diagram coordinates for one variant.
// Coordinates are relative to the bounds group (inside the margins).
type ScaleSet struct {
	Variant  channel.Variant
	Topology *Topology
	Loops    []LoopPlacement
	Segments []SegmentPlacement

	anchors []Anchor
	x, y    *PiecewiseScale
	bands   map[string]float64
	first   int
	last    int
}

// potassiumOffset shifts the single potassium domain right of the margin.
const potassiumOffset = 250

// BuildScales constructs the scales for variant from its validated segment
// records. It is a pure function of its inputs.
func BuildScales(records []channel.SegmentRecord, variant channel.Variant, opts Options) (*ScaleSet, error) {
	if err := channel.ValidateRecords(variant, records); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	topo := TopologyFor(variant.Family())

	bands := make(map[string]float64, len(topo.Domains))
	if topo.Family == channel.Potassium {
		bands[topo.Domains[0]] = potassiumOffset
	} else {
		band := NewBandScale(topo.Domains, 30, opts.BoundedWidth()-60, 0.2)
		for _, d := range topo.Domains {
			bands[d], _ = band.Offset(d)
		}
	}

	ss := &ScaleSet{
		Variant:  variant,
		Topology: topo,
		bands:    bands,
		first:    records[0].Range.Start,
		last:     channel.LastResidue(records),
	}

	for _, rec := range records {
		offset, ok := bands[rec.DomainLabel]
		if !ok {
			return nil, &channel.DataIntegrityError{Variant: variant, Reason: fmt.Sprintf("unknown domain %q", rec.DomainLabel)}
		}
		if !rec.IsLoop() {
			ss.Segments = append(ss.Segments, SegmentPlacement{
				Index: rec.SegmentIndex(), Domain: rec.DomainLabel, Offset: offset, Range: rec.Range,
			})
			continue
		}
		spec, _, ok := topo.LoopAt(len(ss.Loops))
		if !ok {
			return nil, &channel.DataIntegrityError{Variant: variant, Reason: "more loops than the topology defines"}
		}
		lp := LoopPlacement{Index: len(ss.Loops), Spec: spec, Domain: rec.DomainLabel, Offset: offset, Range: rec.Range}
		ss.Loops = append(ss.Loops, lp)
		ss.anchors = append(ss.anchors, loopAnchors(lp, topo.MaxBowLength)...)
	}
	if len(ss.Loops) != topo.LoopCount() {
		return nil, &channel.DataIntegrityError{Variant: variant,
			Reason: fmt.Sprintf("expected %d loops, found %d", topo.LoopCount(), len(ss.Loops))}
	}

	breaks := make([]float64, len(ss.anchors))
	xs := make([]float64, len(ss.anchors))
	ys := make([]float64, len(ss.anchors))
	for i, a := range ss.anchors {
		breaks[i], xs[i], ys[i] = a.Position, a.X, a.Y
	}
	var err error
	if ss.x, err = NewPiecewiseScale(breaks, xs, Linear); err != nil {
		return nil, &channel.DataIntegrityError{Variant: variant, Reason: err.Error()}
	}
	if ss.y, err = NewPiecewiseScale(breaks, ys, Logarithmic); err != nil {
		return nil, &channel.DataIntegrityError{Variant: variant, Reason: err.Error()}
	}
	return ss, nil
}

// loopAnchors places the five anchors of a loop at its start, quarter,
// midpoint, three-quarter and end residues.
func loopAnchors(lp LoopPlacement, maxBow float64) []Anchor {
	start := float64(lp.Range.Start)
	length := float64(lp.Range.Len())
	scale := 1.0
	if length > maxBow {
		scale = maxBow / length
	}
	out := make([]Anchor, 5)
	for k := 0; k < 5; k++ {
		pos := start + length*float64(k)/4
		span := math.Min(pos-start, start+length-pos) * scale
		ya := lp.Spec.Y[k]
		out[k] = Anchor{
			Position: pos,
			X:        lp.Offset + lp.Spec.X[k],
			Y:        ya.Base + ya.Gain*span,
			Loop:     lp.Index,
		}
	}
	return out
}

// X maps a residue position to a horizontal coordinate.
func (s *ScaleSet) X(pos int) float64 { return s.x.Map(float64(pos)) }

// Y maps a residue position to a vertical coordinate.
func (s *ScaleSet) Y(pos int) float64 { return s.y.Map(float64(pos)) }

// Point maps a residue position to both coordinates.
func (s *ScaleSet) Point(pos int) Point { return Point{s.X(pos), s.Y(pos)} }

// Anchors returns a copy of the anchor list in residue order.
func (s *ScaleSet) Anchors() []Anchor {
	out := make([]Anchor, len(s.anchors))
	copy(out, s.anchors)
	return out
}

// DomainOffset returns the x offset of a domain band.
func (s *ScaleSet) DomainOffset(label string) (float64, bool) {
	v, ok := s.bands[label]
	return v, ok
}

// Span returns the first and last residue covered by the table.
func (s *ScaleSet) Span() (first, last int) { return s.first, s.last }

// Contains reports whether pos lies within the variant's residues.
func (s *ScaleSet) Contains(pos int) bool { return pos >= s.first && pos <= s.last }

// RegionAt names the region holding pos ("S4 (Domain II)"), or "".
func (s *ScaleSet) RegionAt(pos int) string {
	for _, seg := range s.Segments {
		if seg.Range.Contains(pos) {
			return fmt.Sprintf("S%d (Domain %s)", seg.Index+1, seg.Domain)
		}
	}
	for _, lp := range s.Loops {
		if lp.Range.Contains(pos) {
			return fmt.Sprintf("%s (Domain %s)", lp.Spec.Region, lp.Domain)
		}
	}
	return ""
}
