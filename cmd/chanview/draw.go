package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/chanmap/pkg/diagram"
	"github.com/ha1tch/chanmap/pkg/legend"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleTitle      = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleMenuSel    = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgWarning = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// sidebarListTop is the first row of the mutation list.
const sidebarListTop = 3

// Text classes drawn as characters over the raster.
var overlayClasses = map[string]bool{
	"domain-label":    true,
	"tooltip-text":    true,
	"legend-heading":  true,
	"type-label":      true,
	"phenotype-label": true,
	"show-all":        true,
	"unavailable":     true,
}

func (ed *Viewer) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawHeader(w)
	ed.drawCanvas(w-ed.sidebarWidth, h-3)
	ed.drawSidebar(w, h)
	ed.drawStatusBar(w, h)

	if ed.mode == ModeInput {
		ed.drawInputBox(w, h)
	}
}

func (ed *Viewer) drawHeader(w int) {
	v := ed.r.Variant()
	title := fmt.Sprintf("%s  %s (%s)", v.Title(), v.Protein(), v.Gene())
	ed.drawString(max(0, (w-len(title))/2), 0, truncate(title, w), styleTitle)
}

// drawCanvas paints the scene with half-block cells below the header.
func (ed *Viewer) drawCanvas(cols, rows int) {
	ed.canvasW = max(0, cols)
	ed.canvasH = max(0, rows)
	sc := ed.r.Scene()

	key := [3]int{sc.Version, ed.canvasW, ed.canvasH}
	if ed.img == nil || key != ed.imgKey {
		img, k := diagram.RenderFit(sc, ed.canvasW, 2*ed.canvasH)
		ed.img, ed.imgKey = img, key
		b := img.Bounds()
		ed.vp = viewport{x0: 0, y0: 1, k: k, w: b.Dx(), h: b.Dy()}
	}

	img := ed.img
	for cy := 0; cy < ed.vp.rows(); cy++ {
		for cx := 0; cx < ed.vp.w; cx++ {
			top := img.RGBAAt(cx, 2*cy)
			bottom := colorWhite
			if 2*cy+1 < ed.vp.h {
				bottom = img.RGBAAt(cx, 2*cy+1)
			}
			style := tcell.StyleDefault.Foreground(cellColor(top)).Background(cellColor(bottom))
			ed.screen.SetContent(ed.vp.x0+cx, ed.vp.y0+cy, '▀', nil, style)
		}
	}
	ed.drawOverlayText(sc)
}

var colorWhite = color.RGBA{255, 255, 255, 255}

func cellColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// drawOverlayText writes the scene's text nodes as characters over the
// raster.
func (ed *Viewer) drawOverlayText(sc *diagram.Scene) {
	sc.Walk(func(n *diagram.Node, origin diagram.Point) bool {
		if n.Kind != diagram.KindText || !overlayClasses[n.Class] {
			return true
		}
		size := n.Style.FontSize
		if size == 0 {
			size = 12
		}
		// Centre of the glyphs, a third of the size above the baseline.
		cx, cy := ed.vp.toCell(diagram.Point{X: origin.X + n.X, Y: origin.Y + n.Y - size/3})
		s := n.Text
		switch n.Style.Anchor {
		case "middle":
			cx -= len([]rune(s)) / 2
		case "end":
			cx -= len([]rune(s))
		}
		if cy < ed.vp.y0 || cy >= ed.vp.y0+ed.vp.rows() {
			return true
		}

		fg := tcell.ColorBlack
		if n.Style.Fill != "" {
			fg = cellColor(legend.RGBA(n.Style.Fill))
		}
		for i, r := range s {
			x := cx + i
			if x < 0 || x >= ed.vp.w {
				continue
			}
			bg := ed.img.RGBAAt(x, 2*(cy-ed.vp.y0))
			style := tcell.StyleDefault.Foreground(fg).Background(cellColor(bg))
			if n.Style.FontWeight == "bold" {
				style = style.Bold(true)
			}
			ed.screen.SetContent(x, cy, r, nil, style)
		}
		return true
	})
}

func (ed *Viewer) drawSidebar(w, h int) {
	x := w - ed.sidebarWidth + 2
	width := ed.sidebarWidth - 4
	for y := 1; y < h-2; y++ {
		ed.screen.SetContent(w-ed.sidebarWidth, y, '│', nil, styleBorder)
	}

	ms := ed.r.Mutations()
	ed.drawString(x, 1, truncate(fmt.Sprintf("Mutations (%d)", len(ms)), width), styleSidebarH)
	if f := ed.r.Filter(); f.Kind != legend.FilterAll {
		ed.drawString(x, 2, truncate("Filter: "+f.String(), width), styleSidebar)
	}

	last := h - 3
	ed.sidebarScroll = max(0, min(ed.sidebarScroll, len(ms)-(last-sidebarListTop)))
	y := sidebarListTop
	for _, m := range ms[ed.sidebarScroll:] {
		if y >= last {
			ed.drawString(x, y, "  ...", styleSidebar)
			break
		}
		style := styleSidebar
		if m.Position == ed.selected {
			style = styleMenuSel
		}
		line := fmt.Sprintf("%-9s %-10s %s", m.Label, m.Type, m.Phenotype)
		ed.drawString(x, y, truncate(line, width), style)
		y++
	}
}

func (ed *Viewer) drawStatusBar(w, h int) {
	y := h - 1

	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[No file]"
	if ed.filename != "" {
		fileInfo = filepath.Base(ed.filename)
	}
	if ed.watchCancel != nil {
		fileInfo += " (watching)"
	}
	ed.drawString(1, y, fileInfo, styleStatus)

	modeStr := ed.modeString()
	ed.drawString(w/2-len(modeStr)/2, y, modeStr, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		case MsgWarning:
			style = styleMsgWarning
		}
		elapsed := time.Now().UnixMilli() - ed.messageFlash.Load()
		if shouldFlashForType(ed.messageType) && shouldBeInverted(elapsed) {
			style = style.Reverse(true)
		}
		msg := truncate(ed.message, max(0, w/2-2))
		ed.drawString(w-len([]rune(msg))-2, y, msg, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	ed.drawString(1, y, truncate(ed.helpString(), w-2), styleHelp)
}

// shouldBeInverted reports whether a flashing message is drawn inverted:
// normal, inverted, normal, inverted in 125ms phases, then normal.
func shouldBeInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

// shouldFlashForType reports whether messages of a type flash.
func shouldFlashForType(t MessageType) bool {
	return t != MsgInfo
}

func (ed *Viewer) drawInputBox(w, h int) {
	boxW := min(60, w-2)
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	ed.drawBox(boxX, boxY, boxW, boxH, styleInput)
	ed.drawString(boxX+2, boxY+1, ed.inputPrompt, styleInput)
	input := ed.inputBuffer + "_"
	room := boxW - 4 - len(ed.inputPrompt)
	if r := []rune(input); room > 0 && len(r) > room {
		input = string(r[len(r)-room:])
	}
	ed.drawString(boxX+2+len(ed.inputPrompt), boxY+1, input, styleInput)
}

func (ed *Viewer) drawBox(x, y, w, h int, style tcell.Style) {
	ed.screen.SetContent(x, y, '┌', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y, '┐', nil, styleBorder)
	ed.screen.SetContent(x, y+h-1, '└', nil, styleBorder)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, styleBorder)

	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, styleBorder)
		ed.screen.SetContent(i, y+h-1, '─', nil, styleBorder)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, styleBorder)
		ed.screen.SetContent(x+w-1, i, '│', nil, styleBorder)
	}

	for row := y + 1; row < y+h-1; row++ {
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, row, ' ', nil, style)
		}
	}
}

func (ed *Viewer) drawString(x, y int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		ed.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func (ed *Viewer) modeString() string {
	if ed.dragging {
		return "MOVE"
	}
	if ed.mode == ModeInput {
		return "INPUT"
	}
	return strings.ToUpper(string(ed.r.Variant()))
}

func (ed *Viewer) helpString() string {
	if ed.mode == ModeInput {
		return "Type text  Enter:Confirm  Esc:Cancel"
	}
	return "v/V:Variant  a:Add  x:Delete  i:Import  l:Legend  b:Labels  +/-:Size  Arrows:Legend  s:Show All  e:Export  f:Format  w:Watch  q:Quit"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 {
		return ""
	}
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
