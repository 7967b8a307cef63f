package diagram

import (
	"math"
	"testing"
)

func TestRectOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want float64
	}{
		{"disjoint", Rect{X: 0, Y: 0, W: 10, H: 10}, Rect{X: 20, Y: 0, W: 10, H: 10}, 0},
		{"touching", Rect{X: 0, Y: 0, W: 10, H: 10}, Rect{X: 10, Y: 0, W: 10, H: 10}, 0},
		{"half", Rect{X: 0, Y: 0, W: 10, H: 10}, Rect{X: 5, Y: 0, W: 10, H: 10}, 50},
		{"contained", Rect{X: 0, Y: 0, W: 10, H: 10}, Rect{X: 0, Y: 0, W: 4, H: 4}, 16},
		{"contained off centre", Rect{X: 0, Y: 0, W: 10, H: 10}, Rect{X: 2, Y: -1, W: 4, H: 2}, 8},
		{"wide over narrow", Rect{X: 0, Y: 0, W: 20, H: 2}, Rect{X: 3, Y: 0, W: 2, H: 20}, 4},
		{"corner", Rect{X: 0, Y: 0, W: 10, H: 10}, Rect{X: 8, Y: 8, W: 10, H: 10}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectOverlap(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RectOverlap = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestRectFromCorner(t *testing.T) {
	r := RectFromCorner(10, 20, 40, 10)
	if r.X != 30 || r.Y != 25 {
		t.Errorf("centre = (%v,%v), want (30,25)", r.X, r.Y)
	}
	if m := r.Min(); m.X != 10 || m.Y != 20 {
		t.Errorf("Min = %+v", m)
	}
	if !r.Contains(Point{10, 20}) || r.Contains(Point{51, 20}) {
		t.Error("Contains edge handling is wrong")
	}
}

func TestLabelPlacerPreferredSpot(t *testing.T) {
	placer := NewLabelPlacer(nil)
	got := placer.PlaceLabel(Point{100, 100}, 48, 17, 8)
	if got.X != 108 || got.Y != 92 {
		t.Errorf("first label at (%.1f,%.1f), want (108,92)", got.X, got.Y)
	}
}

func TestLabelPlacerAvoidsMarkers(t *testing.T) {
	markers := []Rect{
		{X: 100, Y: 100, W: 10, H: 10},
		{X: 120, Y: 90, W: 10, H: 10}, // sits on the preferred spot
	}
	placer := NewLabelPlacer(markers)
	pos := placer.PlaceLabel(Point{100, 100}, 40, 17, 8)
	label := RectFromCorner(pos.X, pos.Y, 40, 17)
	for i, m := range markers {
		if RectOverlap(label, m) > 0 {
			t.Errorf("label at (%.1f,%.1f) overlaps marker %d", pos.X, pos.Y, i)
		}
	}
}

func TestLabelPlacerSeparatesLabels(t *testing.T) {
	placer := NewLabelPlacer(nil)
	a := placer.PlaceLabel(Point{100, 100}, 40, 17, 8)
	b := placer.PlaceLabel(Point{102, 101}, 40, 17, 8)
	if RectOverlap(RectFromCorner(a.X, a.Y, 40, 17), RectFromCorner(b.X, b.Y, 40, 17)) > 0 {
		t.Errorf("labels for neighbouring markers overlap: %+v %+v", a, b)
	}
}

func TestLabelPlacerRanksByTrueOverlap(t *testing.T) {
	// Every candidate lies inside the obstacle, so all overlap equally and
	// the preferred spot is kept.
	placer := NewLabelPlacer([]Rect{{X: 100, Y: 100, W: 1000, H: 1000}})
	got := placer.PlaceLabel(Point{100, 100}, 40, 17, 8)
	if got.X != 108 || got.Y != 92 {
		t.Errorf("label at (%.1f,%.1f), want (108,92)", got.X, got.Y)
	}
}
