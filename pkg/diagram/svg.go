package diagram

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/ha1tch/chanmap/pkg/legend"
)

// SVG renders a scene as a standalone SVG document.
func SVG(sc *Scene) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" id="%s" width="%d" height="%d" viewBox="0 0 %d %d">
<style>
  text { font-family: sans-serif; }
  .loop { fill: none; stroke-linecap: round; }
  .domain-label, .tooltip, .legend { cursor: move; }
  .swatch, .wheel-slice, .type-label, .type-symbol, .phenotype-label, .show-all { cursor: pointer; }
</style>
`, sc.ID, sc.Width, sc.Height, sc.Width, sc.Height))

	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>
`, sc.Width, sc.Height))

	// The root node carries the document id already.
	if sc.Root != nil {
		for _, c := range sc.Root.Children {
			writeNode(&sb, c, 0)
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVG writes SVG(sc) to w.
func WriteSVG(w io.Writer, sc *Scene) error {
	_, err := io.WriteString(w, SVG(sc))
	return err
}

func writeNode(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	attrs := nodeAttrs(n)

	switch n.Kind {
	case KindGroup:
		sb.WriteString(fmt.Sprintf("%s<g%s%s>\n", indent, attrs, translateAttr(n.Translate)))
		for _, c := range n.Children {
			writeNode(sb, c, depth+1)
		}
		sb.WriteString(indent + "</g>\n")
	case KindRect:
		rx := ""
		if n.RX > 0 {
			rx = fmt.Sprintf(` rx="%s"`, num(n.RX))
		}
		sb.WriteString(fmt.Sprintf(`%s<rect x="%s" y="%s" width="%s" height="%s"%s%s%s/>
`, indent, num(n.X), num(n.Y), num(n.W), num(n.H), rx, attrs, translateAttr(n.Translate)))
	case KindCircle:
		sb.WriteString(fmt.Sprintf(`%s<circle cx="%s" cy="%s" r="%s"%s%s/>
`, indent, num(n.X), num(n.Y), num(n.R), attrs, translateAttr(n.Translate)))
	case KindPath:
		sb.WriteString(fmt.Sprintf(`%s<path d="%s"%s%s/>
`, indent, n.Curve.PathData(), attrs, translateAttr(n.Translate)))
	case KindSymbol:
		sb.WriteString(fmt.Sprintf(`%s<path d="%s"%s%s/>
`, indent, n.Symbol.PathData(n.Size), attrs, translateAttr(n.Translate.Add(Point{n.X, n.Y}))))
	case KindArc:
		sb.WriteString(fmt.Sprintf(`%s<path d="%s"%s%s/>
`, indent, arcPath(n.Arc), attrs, translateAttr(n.Translate.Add(Point{n.X, n.Y}))))
	case KindText:
		sb.WriteString(fmt.Sprintf(`%s<text x="%s" y="%s"%s%s>%s</text>
`, indent, num(n.X), num(n.Y), attrs, translateAttr(n.Translate), html.EscapeString(n.Text)))
	}
}

func nodeAttrs(n *Node) string {
	var sb strings.Builder
	if n.ID != "" {
		sb.WriteString(fmt.Sprintf(` id="%s"`, html.EscapeString(n.ID)))
	}
	if n.Class != "" {
		sb.WriteString(fmt.Sprintf(` class="%s"`, n.Class))
	}
	st := n.Style
	if st.Fill != "" {
		sb.WriteString(fmt.Sprintf(` fill="%s"`, st.Fill))
	}
	if st.Stroke != "" {
		sb.WriteString(fmt.Sprintf(` stroke="%s"`, st.Stroke))
	}
	if st.StrokeWidth > 0 {
		sb.WriteString(fmt.Sprintf(` stroke-width="%s"`, num(st.StrokeWidth)))
	}
	if st.Opacity > 0 && st.Opacity < 1 {
		sb.WriteString(fmt.Sprintf(` opacity="%s"`, num(st.Opacity)))
	}
	if st.FontSize > 0 {
		sb.WriteString(fmt.Sprintf(` font-size="%spx"`, num(st.FontSize)))
	}
	if st.FontWeight != "" {
		sb.WriteString(fmt.Sprintf(` font-weight="%s"`, st.FontWeight))
	}
	if st.Anchor != "" {
		sb.WriteString(fmt.Sprintf(` text-anchor="%s"`, st.Anchor))
	}
	return sb.String()
}

func translateAttr(p Point) string {
	if p.X == 0 && p.Y == 0 {
		return ""
	}
	return fmt.Sprintf(` transform="translate(%s,%s)"`, num(p.X), num(p.Y))
}

// arcPath returns the path of an annular slice centred on the origin.
func arcPath(a legend.Arc) string {
	x0, y0 := a.Point(a.Start, a.Outer)
	x1, y1 := a.Point(a.End, a.Outer)
	x2, y2 := a.Point(a.End, a.Inner)
	x3, y3 := a.Point(a.Start, a.Inner)
	large := 0
	if a.End-a.Start > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M%s,%sA%s,%s,0,%d,1,%s,%sL%s,%sA%s,%s,0,%d,0,%s,%sZ",
		num(x0), num(y0), num(a.Outer), num(a.Outer), large, num(x1), num(y1),
		num(x2), num(y2), num(a.Inner), num(a.Inner), large, num(x3), num(y3))
}

// arcOutline approximates an annular slice by a polygon.
func arcOutline(a legend.Arc, steps int) []Point {
	pts := make([]Point, 0, 2*(steps+1))
	for i := 0; i <= steps; i++ {
		t := a.Start + (a.End-a.Start)*float64(i)/float64(steps)
		x, y := a.Point(t, a.Outer)
		pts = append(pts, Point{x, y})
	}
	for i := steps; i >= 0; i-- {
		t := a.Start + (a.End-a.Start)*float64(i)/float64(steps)
		x, y := a.Point(t, a.Inner)
		pts = append(pts, Point{x, y})
	}
	return pts
}
