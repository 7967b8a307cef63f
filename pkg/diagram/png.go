// Native PNG rendering of diagram scenes.
// Mirrors the SVG output using Go's image packages.

package diagram

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ha1tch/chanmap/pkg/legend"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	// Scale multiplies the scene size; exports use 5.
	Scale int
}

// DefaultPNGOptions returns 1:1 rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{Scale: 1}
}

// ExportScale is the scale used for exported images.
const ExportScale = 5

var colorWhite = color.RGBA{255, 255, 255, 255}

// renderContext holds the target image, the rasterizer and a cache of
// font faces.
type renderContext struct {
	img   *image.RGBA
	k     float64 // pixels per scene unit
	fonts map[fontKey]font.Face
	z     *vector.Rasterizer
}

type fontKey struct {
	size float64
	bold bool
}

var (
	regularFont *opentype.Font
	boldFont    *opentype.Font
)

func init() {
	var err error
	if regularFont, err = opentype.Parse(goregular.TTF); err != nil {
		panic(err) // embedded font
	}
	if boldFont, err = opentype.Parse(gobold.TTF); err != nil {
		panic(err)
	}
}

func (ctx *renderContext) face(size float64, bold bool) font.Face {
	key := fontKey{size * ctx.k, bold}
	if f, ok := ctx.fonts[key]; ok {
		return f
	}
	fnt := regularFont
	if bold {
		fnt = boldFont
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingNone, // supersampled instead
	})
	if err != nil {
		panic(err)
	}
	ctx.fonts[key] = f
	return f
}

// RenderImage rasterizes a scene.
func RenderImage(sc *Scene, opts PNGOptions) *image.RGBA {
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}
	// Supersample small outputs; large exports are already fine-grained.
	super := 4 / scale
	if super < 1 {
		super = 1
	}
	w, h := sc.Width*scale, sc.Height*scale

	large := renderInternal(sc, float64(scale*super))
	if super == 1 {
		return large
	}
	final := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final
}

// RenderFit rasterizes a scene into the largest image no bigger than w×h
// that keeps its aspect ratio. It also returns the pixels per scene unit.
func RenderFit(sc *Scene, w, h int) (*image.RGBA, float64) {
	if w < 1 || h < 1 || sc.Width < 1 || sc.Height < 1 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0)), 0
	}
	k := math.Min(float64(w)/float64(sc.Width), float64(h)/float64(sc.Height))
	fw := max(1, int(float64(sc.Width)*k))
	fh := max(1, int(float64(sc.Height)*k))

	large := renderInternal(sc, 2*k)
	final := image.NewRGBA(image.Rect(0, 0, fw, fh))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, k
}

// WritePNG renders a scene to PNG.
func WritePNG(w io.Writer, sc *Scene, opts PNGOptions) error {
	return png.Encode(w, RenderImage(sc, opts))
}

func renderInternal(sc *Scene, k float64) *image.RGBA {
	w := int(math.Round(float64(sc.Width) * k))
	h := int(math.Round(float64(sc.Height) * k))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	ctx := &renderContext{img: img, k: k, fonts: make(map[fontKey]font.Face), z: vector.NewRasterizer(1, 1)}
	if sc.Root != nil {
		ctx.node(sc.Root, Point{})
	}
	return img
}

func (ctx *renderContext) node(n *Node, parent Point) {
	origin := parent.Add(n.Translate)
	st := n.Style

	switch n.Kind {
	case KindGroup:
		for _, c := range n.Children {
			ctx.node(c, origin)
		}
	case KindRect:
		pts := roundedRect(n.X, n.Y, n.W, n.H, n.RX)
		ctx.fillPolygon(offset(pts, origin), st)
		ctx.strokePolyline(offset(pts, origin), true, st)
	case KindCircle:
		pts := circle(n.X, n.Y, n.R, 32)
		ctx.fillPolygon(offset(pts, origin), st)
		ctx.strokePolyline(offset(pts, origin), true, st)
	case KindSymbol:
		pts := offset(n.Symbol.Outline(n.Size), origin.Add(Point{n.X, n.Y}))
		ctx.fillPolygon(pts, st)
		ctx.strokePolyline(pts, true, st)
	case KindArc:
		pts := offset(arcOutline(n.Arc, 12), origin.Add(Point{n.X, n.Y}))
		ctx.fillPolygon(pts, st)
		ctx.strokePolyline(pts, true, st)
	case KindPath:
		for _, line := range n.Curve.Flatten(24) {
			ctx.strokePolyline(offset(line, origin), false, st)
		}
	case KindText:
		ctx.text(n, origin)
	}
}

func offset(pts []Point, d Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = p.Add(d)
	}
	return out
}

func paint(hex string, opacity float64) (color.Color, bool) {
	if hex == "" || hex == "none" {
		return nil, false
	}
	c := legend.RGBA(hex)
	if opacity > 0 && opacity < 1 {
		return color.NRGBA{c.R, c.G, c.B, uint8(math.Round(opacity * 255))}, true
	}
	return c, true
}

// fillPolygon fills pts in scene units.
func (ctx *renderContext) fillPolygon(pts []Point, st Style) {
	c, ok := paint(st.Fill, st.Opacity)
	if !ok || len(pts) < 3 {
		return
	}
	ctx.flush(c, pts)
}

// strokePolyline strokes pts by filling one quad per segment plus round
// joints. Every piece is wound the same way so overlaps do not cancel.
func (ctx *renderContext) strokePolyline(pts []Point, closed bool, st Style) {
	c, ok := paint(st.Stroke, st.Opacity)
	if !ok || st.StrokeWidth <= 0 || len(pts) < 2 {
		return
	}
	half := st.StrokeWidth / 2
	if half*ctx.k < 0.5 {
		half = 0.5 / ctx.k
	}
	if closed {
		pts = append(pts, pts[0])
	}
	var polys [][]Point
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		l := math.Hypot(d.X, d.Y)
		if l == 0 {
			continue
		}
		nx, ny := -d.Y/l*half, d.X/l*half
		polys = append(polys, []Point{
			{a.X + nx, a.Y + ny}, {b.X + nx, b.Y + ny},
			{b.X - nx, b.Y - ny}, {a.X - nx, a.Y - ny},
		})
	}
	for _, p := range pts {
		polys = append(polys, circle(p.X, p.Y, half, 8))
	}
	ctx.flush(c, polys...)
}

// flush rasterizes polygons (scene units) in colour c. Only their pixel
// bounding box is accumulated.
func (ctx *renderContext) flush(c color.Color, polys ...[]Point) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range polys {
		for _, p := range poly {
			minX, minY = math.Min(minX, p.X), math.Min(minY, p.Y)
			maxX, maxY = math.Max(maxX, p.X), math.Max(maxY, p.Y)
		}
	}
	box := image.Rect(
		int(math.Floor(minX*ctx.k))-1, int(math.Floor(minY*ctx.k))-1,
		int(math.Ceil(maxX*ctx.k))+1, int(math.Ceil(maxY*ctx.k))+1,
	).Intersect(ctx.img.Bounds())
	if box.Empty() {
		return
	}
	ctx.z.Reset(box.Dx(), box.Dy())
	for _, poly := range polys {
		ctx.addPolygon(poly, box.Min)
	}
	ctx.z.Draw(ctx.img, box, image.NewUniform(c), image.Point{})
}

// addPolygon adds pts to the rasterizer relative to origin, always with
// the same winding.
func (ctx *renderContext) addPolygon(pts []Point, origin image.Point) {
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	ox, oy := float32(origin.X), float32(origin.Y)
	k := float32(ctx.k)
	at := func(i int) (float32, float32) {
		if area < 0 {
			i = len(pts) - 1 - i
		}
		return float32(pts[i].X)*k - ox, float32(pts[i].Y)*k - oy
	}
	ctx.z.MoveTo(at(0))
	for i := 1; i < len(pts); i++ {
		ctx.z.LineTo(at(i))
	}
	ctx.z.ClosePath()
}

func (ctx *renderContext) text(n *Node, origin Point) {
	c, ok := paint(n.Style.Fill, 0)
	if !ok {
		c = color.Black
	}
	size := n.Style.FontSize
	if size == 0 {
		size = 12
	}
	face := ctx.face(size, n.Style.FontWeight == "bold")
	width := font.MeasureString(face, n.Text)

	x := fixed.Int26_6(math.Round((origin.X + n.X) * ctx.k * 64))
	switch n.Style.Anchor {
	case "middle":
		x -= width / 2
	case "end":
		x -= width
	}
	y := fixed.Int26_6(math.Round((origin.Y + n.Y) * ctx.k * 64))

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(n.Text)
}

func circle(cx, cy, r float64, steps int) []Point {
	pts := make([]Point, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(steps)
		pts[i] = Point{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return pts
}

// roundedRect outlines a rectangle with corner radius rx.
func roundedRect(x, y, w, h, rx float64) []Point {
	if rx <= 0 {
		return []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	}
	rx = math.Min(rx, math.Min(w, h)/2)
	corners := []struct {
		c     Point
		start float64
	}{
		{Point{x + w - rx, y + rx}, -math.Pi / 2},
		{Point{x + w - rx, y + h - rx}, 0},
		{Point{x + rx, y + h - rx}, math.Pi / 2},
		{Point{x + rx, y + rx}, math.Pi},
	}
	var pts []Point
	for _, cr := range corners {
		for i := 0; i <= 4; i++ {
			a := cr.start + float64(i)/4*math.Pi/2
			pts = append(pts, Point{cr.c.X + rx*math.Cos(a), cr.c.Y + rx*math.Sin(a)})
		}
	}
	return pts
}
