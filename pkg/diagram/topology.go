// Topology tables for the two channel cartoons. Every loop of a domain has
// a curve template (drawn by the path synthesizer) and five anchors (used by
// the scale builder); both are expressed in domain-local coordinates.

package diagram

import "github.com/ha1tch/chanmap/pkg/channel"

// LoopKind names the structural position of a loop.
type LoopKind int

const (
	LoopLeadingCytoplasmic LoopKind = iota
	LoopExtracellular
	LoopCytoplasmic
	LoopPore
	LoopTrailingExtracellular
	LoopTail // C-terminal tail, fixed shape
)

func (k LoopKind) String() string {
	switch k {
	case LoopLeadingCytoplasmic:
		return "leading cytoplasmic"
	case LoopExtracellular:
		return "extracellular"
	case LoopCytoplasmic:
		return "cytoplasmic"
	case LoopPore:
		return "pore-forming"
	case LoopTrailingExtracellular:
		return "trailing extracellular"
	case LoopTail:
		return "C-terminal tail"
	}
	return "unknown"
}

// TemplatePoint is a control point of a curve template. Bend points are
// pushed away from the membrane by the loop's bow.
type TemplatePoint struct {
	X, Y float64
	Bend bool
}

// CurveTemplate describes a loop curve. Length-scaled templates move their
// bend points by Dir × (Baseline + Gain × len); fixed templates ignore len.
type CurveTemplate struct {
	Kind     CurveKind
	Points   []TemplatePoint
	Dir      float64 // +1 bows into the cytoplasm (down), -1 out of the cell (up)
	Baseline float64
	Gain     float64
	Fixed    []CurveSegment
}

// YAnchor is a vertical anchor value: Base + Gain × span, where span is the
// residue distance from the anchor to the nearer end of the loop.
type YAnchor struct {
	Base, Gain float64
}

// LoopSpec is one row of a topology table.
type LoopSpec struct {
	Kind   LoopKind
	Region string
	Curve  CurveTemplate
	X      [5]float64
	Y      [5]YAnchor
}

// Topology is the fixed layout of one channel family.
type Topology struct {
	Family         channel.Family
	Domains        []string
	Loops          []LoopSpec // loops of one domain, in residue order
	Tail           LoopSpec   // after the last domain
	SegmentX       [6]float64 // left edge of S1..S6, domain-local
	SegmentWidth   float64
	SegmentHeight  float64
	SegmentTop     float64
	DomainLabelPos Point
	// MaxBowLength caps the loop length that feeds the bow.
	MaxBowLength float64
}

// LoopCount is the number of loops across all domains, tail included.
func (t *Topology) LoopCount() int {
	return len(t.Loops)*len(t.Domains) + 1
}

// LoopAt returns the spec and domain index of a global loop index.
func (t *Topology) LoopAt(loopIndex int) (LoopSpec, int, bool) {
	if loopIndex < 0 || loopIndex >= t.LoopCount() {
		return LoopSpec{}, 0, false
	}
	if loopIndex == t.LoopCount()-1 {
		return t.Tail, len(t.Domains) - 1, true
	}
	return t.Loops[loopIndex%len(t.Loops)], loopIndex / len(t.Loops), true
}

// MembraneTop and MembraneBottom bound the segment rectangles.
func (t *Topology) MembraneTop() float64    { return t.SegmentTop }
func (t *Topology) MembraneBottom() float64 { return t.SegmentTop + t.SegmentHeight }

// SegmentColourKey returns the palette key for segment index 0..5.
func SegmentColourKey(i int) string {
	switch {
	case i == 3:
		return "S4Colour"
	case i >= 4:
		return "S5S6Colour"
	}
	return "S1S3Colour"
}

// TopologyFor returns the table for a family.
func TopologyFor(f channel.Family) *Topology {
	if f == channel.Potassium {
		return potassiumTopology
	}
	return sodiumTopology
}

func quad(dir, baseline, gain float64, p0, c, p1 Point) CurveTemplate {
	return CurveTemplate{
		Kind: CurveQuadratic,
		Points: []TemplatePoint{
			{X: p0.X, Y: p0.Y},
			{X: c.X, Y: c.Y, Bend: true},
			{X: p1.X, Y: p1.Y},
		},
		Dir: dir, Baseline: baseline, Gain: gain,
	}
}

// trailing builds the cubic extracellular loop that climbs out of the pore
// and lands on S6; only its second control point bends.
func trailing(baseline float64, p0, c1, c2, p1 Point) CurveTemplate {
	return CurveTemplate{
		Kind: CurveCubic,
		Points: []TemplatePoint{
			{X: p0.X, Y: p0.Y},
			{X: c1.X, Y: c1.Y},
			{X: c2.X, Y: c2.Y, Bend: true},
			{X: p1.X, Y: p1.Y},
		},
		Dir: -1, Baseline: baseline, Gain: 1,
	}
}

func tail(a, b [4]Point) CurveTemplate {
	return CurveTemplate{
		Kind: CurveCubic,
		Fixed: []CurveSegment{
			{Kind: CurveCubic, Points: a[:]},
			{Kind: CurveCubic, Points: b[:]},
		},
	}
}

var (
	sodiumCytoY = [5]YAnchor{{116.5, 0}, {126.06, 1.5}, {129.25, 1}, {126.06, 1.5}, {116.5, 0}}
	sodiumExtraY = [5]YAnchor{{22, 0}, {13.75, -1.5}, {11, -1}, {13.75, -1.5}, {22, 0}}
)

var sodiumTopology = &Topology{
	Family:  channel.Sodium,
	Domains: channel.DomainLabels,
	Loops: []LoopSpec{
		{
			Kind: LoopLeadingCytoplasmic, Region: channel.RegionCytoplasmic,
			Curve: quad(1, 25.5, 1, Point{-54, 116.5}, Point{-25, 116.5}, Point{9, 116.5}),
			X:     [5]float64{-54, -39.19, -23.75, -7.69, 9},
			Y:     sodiumCytoY,
		},
		{
			Kind: LoopExtracellular, Region: channel.RegionExtracellular,
			Curve: quad(-1, 22, 1, Point{8, 22}, Point{16, 22}, Point{29, 22}),
			X:     [5]float64{8, 12.31, 17.25, 22.81, 29},
			Y:     sodiumExtraY,
		},
		{
			Kind: LoopCytoplasmic, Region: channel.RegionCytoplasmic,
			Curve: quad(1, 25.5, 1, Point{29, 116.5}, Point{40, 116.5}, Point{51, 116.5}),
			X:     [5]float64{29, 34.5, 40, 45.5, 51},
			Y:     sodiumCytoY,
		},
		{
			Kind: LoopExtracellular, Region: channel.RegionExtracellular,
			Curve: quad(-1, 22, 1, Point{50, 22}, Point{58, 22}, Point{71, 22}),
			X:     [5]float64{50, 54.31, 59.25, 64.81, 71},
			Y:     sodiumExtraY,
		},
		{
			Kind: LoopCytoplasmic, Region: channel.RegionCytoplasmic,
			Curve: quad(1, 25.5, 1, Point{71, 116.5}, Point{82, 116.5}, Point{93, 116.5}),
			X:     [5]float64{71, 76.5, 82, 87.5, 93},
			Y:     sodiumCytoY,
		},
		{
			Kind: LoopExtracellular, Region: channel.RegionExtracellular,
			Curve: quad(-1, 22, 1, Point{92, 22}, Point{100, 22}, Point{113, 22}),
			X:     [5]float64{92, 96.31, 101.25, 106.81, 113},
			Y:     sodiumExtraY,
		},
		{
			Kind: LoopPore, Region: channel.RegionPore,
			Curve: quad(1, 34, 1, Point{112.85, 22}, Point{119, 16}, Point{125, 10}),
			X:     [5]float64{112.85, 115.92, 118.96, 121.99, 125},
			Y:     [5]YAnchor{{22, 0}, {31.75, 1.5}, {33, 1}, {25.75, 1.5}, {10, 0}},
		},
		{
			Kind: LoopTrailingExtracellular, Region: channel.RegionExtracellular,
			Curve: trailing(24, Point{124.8, 11}, Point{125, 0}, Point{137, 22}, Point{140, 22}),
			X:     [5]float64{124.8, 126.84, 131.35, 136.39, 140},
			Y:     [5]YAnchor{{11, 0}, {4.7, -0.5625}, {3.38, -0.75}, {8.61, -1.6875}, {22, 0}},
		},
	},
	Tail: LoopSpec{
		Kind: LoopTail, Region: channel.RegionCytoplasmic,
		Curve: tail(
			[4]Point{{137, 117.5}, {157, 118}, {140, 280}, {200, 122}},
			[4]Point{{200, 122.7}, {200, 122.7}, {205, 110}, {225, 150}},
		),
		X: [5]float64{137, 153.5, 200, 205, 225},
		Y: [5]YAnchor{{117.5, 0}, {179.19, 0}, {122.7, 0}, {121.35, 0}, {150, 0}},
	},
	SegmentX:       [6]float64{0, 21.25, 42.5, 63.75, 85, 130},
	SegmentWidth:   17,
	SegmentHeight:  95,
	SegmentTop:     22,
	DomainLabelPos: Point{50, 200},
	MaxBowLength:   360,
}

var (
	potassiumCytoY  = [5]YAnchor{{147, 0}, {166.88, 1.5}, {173.5, 1}, {166.88, 1.5}, {147, 0}}
	potassiumExtraY = [5]YAnchor{{22, 0}, {-5, -1.5}, {-14, -1}, {-5, -1.5}, {22, 0}}
)

var potassiumTopology = &Topology{
	Family:  channel.Potassium,
	Domains: channel.DomainLabels[:1],
	Loops: []LoopSpec{
		{
			Kind: LoopLeadingCytoplasmic, Region: channel.RegionCytoplasmic,
			Curve: quad(1, 107.5, 1, Point{-57, 145}, Point{-30, 145.5}, Point{12, 146}),
			X:     [5]float64{-57, -42.56, -26.25, -8.06, 12},
			Y:     [5]YAnchor{{145, 0}, {185.56, 1.5}, {199.25, 1}, {186.06, 1.5}, {146, 0}},
		},
		{
			Kind: LoopExtracellular, Region: channel.RegionExtracellular,
			Curve: quad(-1, 72, 1, Point{15, 22}, Point{40, 22}, Point{60, 22}),
			X:     [5]float64{15, 27.19, 38.75, 49.69, 60},
			Y:     potassiumExtraY,
		},
		{
			Kind: LoopCytoplasmic, Region: channel.RegionCytoplasmic,
			Curve: quad(1, 53, 1, Point{60, 147}, Point{90, 147}, Point{112, 147}),
			X:     [5]float64{60, 74.5, 88, 100.5, 112},
			Y:     potassiumCytoY,
		},
		{
			Kind: LoopExtracellular, Region: channel.RegionExtracellular,
			Curve: quad(-1, 72, 1, Point{115, 22}, Point{140, 22}, Point{160, 22}),
			X:     [5]float64{115, 127.19, 138.75, 149.69, 160},
			Y:     potassiumExtraY,
		},
		{
			Kind: LoopCytoplasmic, Region: channel.RegionCytoplasmic,
			Curve: quad(1, 53, 1, Point{160, 147}, Point{190, 147}, Point{212, 147}),
			X:     [5]float64{160, 174.5, 188, 200.5, 212},
			Y:     potassiumCytoY,
		},
		{
			Kind: LoopExtracellular, Region: channel.RegionExtracellular,
			Curve: quad(-1, 72, 1, Point{215, 22}, Point{240, 22}, Point{260, 22}),
			X:     [5]float64{215, 227.19, 238.75, 249.69, 260},
			Y:     potassiumExtraY,
		},
		{
			Kind: LoopPore, Region: channel.RegionPore,
			Curve: quad(1, 98, 1, Point{260, 22}, Point{275, 22}, Point{290, 22}),
			X:     [5]float64{260, 267.5, 275, 282.5, 290},
			Y:     [5]YAnchor{{22, 0}, {58.75, 1.5}, {71, 1}, {58.75, 1.5}, {22, 0}},
		},
		{
			Kind: LoopTrailingExtracellular, Region: channel.RegionExtracellular,
			Curve: trailing(42, Point{290, 22}, Point{295, 0}, Point{315, 22}, Point{337, 22}),
			X:     [5]float64{290, 296.36, 307.12, 321.08, 337},
			Y:     [5]YAnchor{{22, 0}, {6.81, -0.5625}, {-2, -0.75}, {1.19, -1.6875}, {22, 0}},
		},
	},
	Tail: LoopSpec{
		Kind: LoopTail, Region: channel.RegionCytoplasmic,
		Curve: tail(
			[4]Point{{337, 147}, {357, 180}, {330, 250}, {400, 122}},
			[4]Point{{400, 122.7}, {400, 122.7}, {405, 110}, {425, 150}},
		),
		X: [5]float64{337, 349.75, 400, 405, 425},
		Y: [5]YAnchor{{147, 0}, {194.88, 0}, {122.7, 0}, {121.35, 0}, {150, 0}},
	},
	SegmentX:       [6]float64{0, 49.5, 99, 148.5, 198, 323},
	SegmentWidth:   25,
	SegmentHeight:  125,
	SegmentTop:     22,
	DomainLabelPos: Point{150, 250},
	MaxBowLength:   360,
}
