package diagram

// Options controls the canvas geometry and the user-adjustable controls.
type Options struct {
	// ViewportWidth selects the wide or narrow layout; below 1300 the
	// narrow layout is used.
	ViewportWidth int
	Width         int
	Height        int
	MarginTop     float64
	MarginRight   float64
	MarginBottom  float64
	MarginLeft    float64
	// FontSize is the base legend font size.
	FontSize float64
	// LoopStroke is the stroke width of loop paths.
	LoopStroke float64
}

// Control ranges exposed to users.
const (
	MinMutationSize     = 70
	MaxMutationSize     = 200
	DefaultMutationSize = 70
	MinLegendCoord      = 10
	MaxLegendY          = 320
	DefaultLegendX      = 530
	DefaultLegendY      = 300
	NarrowBreakpoint    = 1300
)

// DefaultOptions returns the wide layout.
func DefaultOptions() Options {
	return optionsFor(1440)
}

// OptionsForViewport returns the layout for a viewport width.
func OptionsForViewport(viewport int) Options {
	return optionsFor(viewport)
}

func optionsFor(viewport int) Options {
	o := Options{
		ViewportWidth: viewport,
		Width:         1290,
		Height:        455,
		MarginTop:     70,
		MarginRight:   196,
		MarginBottom:  10,
		MarginLeft:    196,
		FontSize:      12,
		LoopStroke:    2.2,
	}
	if o.Narrow() {
		o.Width = 920
		o.MarginRight = 10
		o.MarginLeft = 10
	}
	return o
}

// Narrow reports whether the narrow layout applies.
func (o Options) Narrow() bool {
	return o.ViewportWidth > 0 && o.ViewportWidth < NarrowBreakpoint
}

// withDefaults fills zero fields from the layout matching the viewport.
func (o Options) withDefaults() Options {
	d := optionsFor(o.ViewportWidth)
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.MarginTop == 0 {
		o.MarginTop = d.MarginTop
	}
	if o.MarginRight == 0 {
		o.MarginRight = d.MarginRight
	}
	if o.MarginBottom == 0 {
		o.MarginBottom = d.MarginBottom
	}
	if o.MarginLeft == 0 {
		o.MarginLeft = d.MarginLeft
	}
	if o.FontSize == 0 {
		o.FontSize = d.FontSize
	}
	if o.LoopStroke == 0 {
		o.LoopStroke = d.LoopStroke
	}
	return o
}

// BoundedWidth is the canvas width inside the left and right margins.
func (o Options) BoundedWidth() float64 {
	return float64(o.Width) - o.MarginLeft - o.MarginRight
}

// BoundedHeight is the canvas height inside the top and bottom margins.
func (o Options) BoundedHeight() float64 {
	return float64(o.Height) - o.MarginTop - o.MarginBottom
}

// MaxLegendX is the largest legend x position for the layout.
func (o Options) MaxLegendX() int {
	if o.Narrow() {
		return 600
	}
	return 900
}

// ClampMutationSize keeps a marker size inside the slider range.
func ClampMutationSize(size int) int {
	return clampInt(size, MinMutationSize, MaxMutationSize)
}

// ClampLegend keeps a legend position inside the slider ranges.
func (o Options) ClampLegend(x, y int) (int, int) {
	return clampInt(x, MinLegendCoord, o.MaxLegendX()), clampInt(y, MinLegendCoord, MaxLegendY)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
