package diagram

import (
	"errors"
	"math"
	"testing"

	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/channelfile"
)

func TestPiecewiseScaleLinear(t *testing.T) {
	s, err := NewPiecewiseScale([]float64{10, 20, 40}, []float64{0, 100, 300}, Linear)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct{ in, want float64 }{
		{0, 0}, {10, 0}, {15, 50}, {20, 100}, {30, 200}, {40, 300}, {99, 300},
	}
	for _, tt := range tests {
		if got := s.Map(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPiecewiseScaleLogarithmic(t *testing.T) {
	s, err := NewPiecewiseScale([]float64{1, 100}, []float64{0, 10}, Logarithmic)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Map(10); math.Abs(got-5) > 1e-9 {
		t.Errorf("Map(10) = %v, want 5 (half way in log space)", got)
	}
	if _, err := NewPiecewiseScale([]float64{0, 1}, []float64{0, 1}, Logarithmic); err == nil {
		t.Error("expected error for non-positive log break")
	}
}

func TestPiecewiseScaleValidation(t *testing.T) {
	if _, err := NewPiecewiseScale([]float64{1}, []float64{1}, Linear); err == nil {
		t.Error("single anchor accepted")
	}
	if _, err := NewPiecewiseScale([]float64{1, 2}, []float64{1}, Linear); err == nil {
		t.Error("length mismatch accepted")
	}
	if _, err := NewPiecewiseScale([]float64{5, 2}, []float64{1, 2}, Linear); err == nil {
		t.Error("decreasing breaks accepted")
	}
	s, err := NewPiecewiseScale([]float64{1, 1, 2}, []float64{3, 4, 5}, Linear)
	if err != nil {
		t.Fatalf("repeated break rejected: %v", err)
	}
	if got := s.Map(1.5); math.Abs(got-4.5) > 1e-9 {
		t.Errorf("Map(1.5) = %v", got)
	}
}

func TestBandScale(t *testing.T) {
	b := NewBandScale(channel.DomainLabels, 30, 838, 0.2)
	want := []float64{68.48, 260.86, 453.24, 645.62}
	for i, d := range channel.DomainLabels {
		got, ok := b.Offset(d)
		if !ok || math.Abs(got-want[i]) > 0.01 {
			t.Errorf("Offset(%s) = %.2f, want %.2f", d, got, want[i])
		}
	}
	if bw := b.Bandwidth(); math.Abs(bw-153.9) > 0.01 {
		t.Errorf("Bandwidth = %.2f", bw)
	}
	if _, ok := b.Offset("V"); ok {
		t.Error("unknown band reported an offset")
	}
}

func loadRecords(t *testing.T, v channel.Variant) []channel.SegmentRecord {
	t.Helper()
	table, err := channelfile.DefaultSegmentTable()
	if err != nil {
		t.Fatal(err)
	}
	recs, err := table.Records(v)
	if err != nil {
		t.Fatal(err)
	}
	return recs
}

func TestBuildScalesEveryVariant(t *testing.T) {
	for _, v := range channel.Variants() {
		t.Run(string(v), func(t *testing.T) {
			recs := loadRecords(t, v)
			ss, err := BuildScales(recs, v, DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			anchors := ss.Anchors()
			if want := 5 * ss.Topology.LoopCount(); len(anchors) != want {
				t.Fatalf("%d anchors, want %d", len(anchors), want)
			}
			for i := 1; i < len(anchors); i++ {
				if anchors[i].Position < anchors[i-1].Position {
					t.Fatalf("anchor %d position %v below previous %v", i, anchors[i].Position, anchors[i-1].Position)
				}
			}
			first, last := ss.Span()
			if first != 1 || last != channel.LastResidue(recs) {
				t.Errorf("Span = %d..%d", first, last)
			}
		})
	}
}

// Anchors must sit on the loop curves so markers land on the drawn loops.
func TestAnchorsLieOnLoopCurves(t *testing.T) {
	for _, v := range []channel.Variant{channel.SCN1A, channel.SCN5A, channel.KCNQ1, channel.KCNQ2} {
		recs := loadRecords(t, v)
		ss, err := BuildScales(recs, v, DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		anchors := ss.Anchors()
		for _, lp := range ss.Loops {
			curve, err := CurveFor(lp.Index, lp.Range, v.Family())
			if err != nil {
				t.Fatal(err)
			}
			for k := 0; k < 5; k++ {
				a := anchors[lp.Index*5+k]
				want := curve.At(float64(k) / 4).Add(Point{lp.Offset, 0})
				if !near(Point{a.X, a.Y}, want, 0.1) {
					t.Errorf("%s loop %d (%s) anchor %d = (%.2f,%.2f), curve (%.2f,%.2f)",
						v, lp.Index, lp.Spec.Kind, k, a.X, a.Y, want.X, want.Y)
				}
			}
		}
	}
}

func TestBuildScalesIdempotent(t *testing.T) {
	recs := loadRecords(t, channel.SCN2A)
	a, err := BuildScales(recs, channel.SCN2A, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := BuildScales(recs, channel.SCN2A, DefaultOptions())
	for _, pos := range []int{1, 77, 500, 1092, 1500, 2005} {
		if a.Point(pos) != b.Point(pos) {
			t.Errorf("position %d maps differently between builds", pos)
		}
	}
}

func TestBuildScalesRejectsBrokenRecords(t *testing.T) {
	recs := loadRecords(t, channel.SCN1A)
	broken := append([]channel.SegmentRecord(nil), recs...)
	broken[5].Range = channel.Range{Start: 10, End: 20} // overlaps earlier records

	_, err := BuildScales(broken, channel.SCN1A, DefaultOptions())
	var die *channel.DataIntegrityError
	if !errors.As(err, &die) {
		t.Fatalf("expected DataIntegrityError, got %v", err)
	}
	if die.Row != 6 {
		t.Errorf("Row = %d, want 6", die.Row)
	}
	if _, err := BuildScales(recs[:10], channel.SCN1A, DefaultOptions()); !errors.As(err, &die) {
		t.Errorf("truncated records: %v", err)
	}
}

func TestScaleSetGeometry(t *testing.T) {
	recs := loadRecords(t, channel.SCN1A)
	ss, err := BuildScales(recs, channel.SCN1A, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	topo := ss.Topology

	// a residue in the middle of DI S4 sits inside the membrane
	p := ss.Point(230)
	if p.Y < topo.MembraneTop() || p.Y > topo.MembraneBottom() {
		t.Errorf("S4 residue at y=%.1f, outside membrane %.0f..%.0f", p.Y, topo.MembraneTop(), topo.MembraneBottom())
	}
	// the II-III linker hangs below the membrane
	if p := ss.Point(1092); p.Y <= topo.MembraneBottom() {
		t.Errorf("linker residue at y=%.1f, expected below %.0f", p.Y, topo.MembraneBottom())
	}
	// extracellular loops rise above it
	if p := ss.Point(300); p.Y >= topo.MembraneTop() {
		t.Errorf("extracellular residue at y=%.1f", p.Y)
	}
	if got := ss.RegionAt(230); got != "S4 (Domain I)" {
		t.Errorf("RegionAt(230) = %q", got)
	}
	if got := ss.RegionAt(1092); got != "Cytoplasmic (Domain III)" {
		t.Errorf("RegionAt(1092) = %q", got)
	}
	if ss.X(1) >= ss.X(2009) {
		t.Error("x should grow along the sequence")
	}
	if off, ok := ss.DomainOffset("III"); !ok || math.Abs(off-453.24) > 0.01 {
		t.Errorf("DomainOffset(III) = %.2f", off)
	}
}

func TestPotassiumOffset(t *testing.T) {
	recs := loadRecords(t, channel.KCNQ2)
	ss, err := BuildScales(recs, channel.KCNQ2, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if off, _ := ss.DomainOffset("I"); off != 250 {
		t.Errorf("potassium offset = %v, want 250", off)
	}
	if len(ss.Loops) != 9 || len(ss.Segments) != 6 {
		t.Errorf("%d loops, %d segments", len(ss.Loops), len(ss.Segments))
	}
}

func TestScaleSetClampsOutsideAnchors(t *testing.T) {
	for _, v := range []channel.Variant{channel.SCN1A, channel.KCNQ2} {
		t.Run(string(v), func(t *testing.T) {
			ss, err := BuildScales(loadRecords(t, v), v, DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			anchors := ss.Anchors()
			lo := int(math.Floor(anchors[0].Position))
			hi := int(math.Ceil(anchors[len(anchors)-1].Position))

			tests := []struct {
				pos, edge int
			}{
				{hi + 1, hi},
				{hi + 500, hi},
				{5000, hi},
				{lo - 1, lo},
				{-100, lo},
			}
			for _, tt := range tests {
				if got, want := ss.Point(tt.pos), ss.Point(tt.edge); got != want {
					t.Errorf("Point(%d) = %v, want %v as at %d", tt.pos, got, want, tt.edge)
				}
			}
		})
	}
}
