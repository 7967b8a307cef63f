package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/ha1tch/chanmap/pkg/channel"
)

// Symbol identifies a marker shape.
type Symbol int

const (
	SymbolCircle Symbol = iota
	SymbolCross
	SymbolDiamond
	SymbolSquare
	SymbolStar
	SymbolTriangle
	SymbolWye
)

var symbolNames = []string{"circle", "cross", "diamond", "square", "star", "triangle", "wye"}

func (s Symbol) String() string {
	if int(s) < len(symbolNames) && s >= 0 {
		return symbolNames[s]
	}
	return "unknown"
}

// ShapeTable assigns a symbol to each mutation type.
type ShapeTable map[channel.MutationType]Symbol

// DefaultShapeTable pairs the mutation types with the symbols in ordinal
// order: missense circle, silent cross, and so on.
func DefaultShapeTable() ShapeTable {
	t := make(ShapeTable)
	for i, mt := range channel.MutationTypes() {
		t[mt] = Symbol(i % len(symbolNames))
	}
	return t
}

// Lookup returns the symbol for a type, falling back to a circle.
func (t ShapeTable) Lookup(mt channel.MutationType) Symbol {
	if s, ok := t[mt]; ok {
		return s
	}
	return SymbolCircle
}

// Radius is the circle radius of a circle symbol with the given area.
func Radius(size float64) float64 {
	return math.Sqrt(size / math.Pi)
}

const (
	sqrt3   = 1.7320508075688772
	tan30   = 0.5773502691896257
	starKa  = 0.8908130915292852
	wyeC    = -0.5
	wyeS    = sqrt3 / 2
	wyeK    = 0.28867513459481287 // 1/sqrt(12)
	wyeArea = (wyeK/2 + 1) * 3
)

// Outline returns the polygon of a symbol centred on the origin with the
// given area in square pixels. Circles are approximated by 32 points.
func (s Symbol) Outline(size float64) []Point {
	switch s {
	case SymbolCross:
		r := math.Sqrt(size/5) / 2
		return []Point{
			{-3 * r, -r}, {-r, -r}, {-r, -3 * r}, {r, -3 * r}, {r, -r}, {3 * r, -r},
			{3 * r, r}, {r, r}, {r, 3 * r}, {-r, 3 * r}, {-r, r}, {-3 * r, r},
		}
	case SymbolDiamond:
		y := math.Sqrt(size / (2 * tan30))
		x := y * tan30
		return []Point{{0, -y}, {x, 0}, {0, y}, {-x, 0}}
	case SymbolSquare:
		w := math.Sqrt(size)
		h := w / 2
		return []Point{{-h, -h}, {h, -h}, {h, h}, {-h, h}}
	case SymbolStar:
		kr := math.Sin(math.Pi/10) / math.Sin(7*math.Pi/10)
		kx := math.Sin(2*math.Pi/10) * kr
		ky := -math.Cos(2*math.Pi/10) * kr
		r := math.Sqrt(size * starKa)
		x, y := kx*r, ky*r
		pts := []Point{{0, -r}, {x, y}}
		for i := 1; i < 5; i++ {
			a := 2 * math.Pi * float64(i) / 5
			c, sn := math.Cos(a), math.Sin(a)
			pts = append(pts, Point{sn * r, -c * r}, Point{c*x - sn*y, sn*x + c*y})
		}
		return pts
	case SymbolTriangle:
		y := -math.Sqrt(size / (sqrt3 * 3))
		return []Point{{0, y * 2}, {-sqrt3 * y, -y}, {sqrt3 * y, -y}}
	case SymbolWye:
		r := math.Sqrt(size / wyeArea)
		x0, y0 := r/2, r*wyeK
		x1, y1 := x0, r*wyeK+r
		x2, y2 := -x1, y1
		return []Point{
			{x0, y0}, {x1, y1}, {x2, y2},
			{wyeC*x0 - wyeS*y0, wyeS*x0 + wyeC*y0},
			{wyeC*x1 - wyeS*y1, wyeS*x1 + wyeC*y1},
			{wyeC*x2 - wyeS*y2, wyeS*x2 + wyeC*y2},
			{wyeC*x0 + wyeS*y0, wyeC*y0 - wyeS*x0},
			{wyeC*x1 + wyeS*y1, wyeC*y1 - wyeS*x1},
			{wyeC*x2 + wyeS*y2, wyeC*y2 - wyeS*x2},
		}
	}
	r := Radius(size)
	pts := make([]Point, 32)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(len(pts))
		pts[i] = Point{r * math.Cos(a), r * math.Sin(a)}
	}
	return pts
}

// PathData returns SVG path data for the symbol centred on the origin.
func (s Symbol) PathData(size float64) string {
	if s == SymbolCircle {
		r := num(Radius(size))
		return fmt.Sprintf("M%s,0A%s,%s,0,1,1,-%s,0A%s,%s,0,1,1,%s,0Z", r, r, r, r, r, r, r)
	}
	return polygonPath(s.Outline(size))
}

func polygonPath(pts []Point) string {
	var sb strings.Builder
	for i, p := range pts {
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteByte('L')
		}
		sb.WriteString(pt(p))
	}
	sb.WriteByte('Z')
	return sb.String()
}
