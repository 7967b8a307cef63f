package main

import (
	"github.com/ha1tch/chanmap/pkg/diagram"
)

// viewport maps terminal cells onto scene coordinates. Each cell shows two
// raster pixels stacked vertically.
type viewport struct {
	x0, y0 int     // top-left cell of the raster
	k      float64 // raster pixels per scene unit
	w, h   int     // raster size in pixels
}

// toScene returns the scene point under the centre of a cell and whether
// the cell lies on the raster.
func (vp viewport) toScene(cx, cy int) (diagram.Point, bool) {
	if vp.k <= 0 {
		return diagram.Point{}, false
	}
	px := float64(cx-vp.x0) + 0.5
	py := float64(2*(cy-vp.y0)) + 1
	inside := px >= 0 && py >= 0 && px < float64(vp.w) && py < float64(vp.h)
	return diagram.Point{X: px / vp.k, Y: py / vp.k}, inside
}

// toCell returns the cell showing a scene point.
func (vp viewport) toCell(p diagram.Point) (int, int) {
	return vp.x0 + int(p.X*vp.k), vp.y0 + int(p.Y*vp.k/2)
}

// rows is the number of cell rows the raster covers.
func (vp viewport) rows() int { return (vp.h + 1) / 2 }
