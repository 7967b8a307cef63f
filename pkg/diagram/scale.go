package diagram

import (
	"fmt"
	"math"
	"sort"
)

// Interpolation selects how a piecewise scale interpolates inside an interval.
type Interpolation int

const (
	Linear Interpolation = iota
	// Logarithmic interpolates in ln(domain) space within each interval.
	Logarithmic
)

// PiecewiseScale maps a domain value to a range value through an ordered
// list of (break, value) anchors. Inputs outside the first and last break
// saturate at the boundary values.
type PiecewiseScale struct {
	breaks []float64
	values []float64
	interp Interpolation
}

// NewPiecewiseScale validates and copies the anchors. Breaks must be
// non-decreasing; logarithmic scales need strictly positive breaks.
func NewPiecewiseScale(breaks, values []float64, interp Interpolation) (*PiecewiseScale, error) {
	if len(breaks) != len(values) {
		return nil, fmt.Errorf("scale has %d breaks but %d values", len(breaks), len(values))
	}
	if len(breaks) < 2 {
		return nil, fmt.Errorf("scale needs at least two anchors, got %d", len(breaks))
	}
	for i, b := range breaks {
		if math.IsNaN(b) || math.IsInf(b, 0) || math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			return nil, fmt.Errorf("anchor %d is not finite", i)
		}
		if i > 0 && b < breaks[i-1] {
			return nil, fmt.Errorf("break %d (%g) is below break %d (%g)", i, b, i-1, breaks[i-1])
		}
		if interp == Logarithmic && b <= 0 {
			return nil, fmt.Errorf("logarithmic break %d must be positive, got %g", i, b)
		}
	}
	s := &PiecewiseScale{
		breaks: append([]float64(nil), breaks...),
		values: append([]float64(nil), values...),
		interp: interp,
	}
	return s, nil
}

// Map returns the scaled value for v.
func (s *PiecewiseScale) Map(v float64) float64 {
	n := len(s.breaks)
	if v <= s.breaks[0] {
		return s.values[0]
	}
	if v >= s.breaks[n-1] {
		return s.values[n-1]
	}
	// First break strictly greater than v; v lies in [breaks[i-1], breaks[i]).
	i := sort.Search(n, func(k int) bool { return s.breaks[k] > v })
	b0, b1 := s.breaks[i-1], s.breaks[i]
	r0, r1 := s.values[i-1], s.values[i]
	if b1 == b0 {
		return r0
	}
	var t float64
	if s.interp == Logarithmic {
		t = (math.Log(v) - math.Log(b0)) / (math.Log(b1) - math.Log(b0))
	} else {
		t = (v - b0) / (b1 - b0)
	}
	return r0 + t*(r1-r0)
}

// Domain returns the first and last break.
func (s *PiecewiseScale) Domain() (lo, hi float64) {
	return s.breaks[0], s.breaks[len(s.breaks)-1]
}

// Len returns the number of anchors.
func (s *PiecewiseScale) Len() int { return len(s.breaks) }

// BandScale is a categorical scale that splits a continuous range into
// equal bands separated by padding, centred in the range.
type BandScale struct {
	labels    []string
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale lays out len(labels) bands in [lo, hi]. padding is used for
// both the inner gaps and the outer margins, as a fraction of the step.
func NewBandScale(labels []string, lo, hi, padding float64) *BandScale {
	n := float64(len(labels))
	bs := &BandScale{labels: append([]string(nil), labels...)}
	if n == 0 {
		return bs
	}
	denom := math.Max(1, n-padding+padding*2)
	bs.step = (hi - lo) / denom
	bs.start = lo + (hi-lo-bs.step*(n-padding))*0.5
	bs.bandwidth = bs.step * (1 - padding)
	return bs
}

// Offset returns the left edge of the band for label.
func (b *BandScale) Offset(label string) (float64, bool) {
	for i, l := range b.labels {
		if l == label {
			return b.start + b.step*float64(i), true
		}
	}
	return 0, false
}

// Bandwidth returns the width of each band.
func (b *BandScale) Bandwidth() float64 { return b.bandwidth }
