// Command chanview is an interactive terminal viewer for ion channel
// variant maps.
package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/chanmap/internal/config"
	"github.com/ha1tch/chanmap/internal/logging"
	"github.com/ha1tch/chanmap/internal/session"
	"github.com/ha1tch/chanmap/pkg/channel"
	"github.com/ha1tch/chanmap/pkg/diagram"
	"github.com/ha1tch/chanmap/pkg/legend"
)

var version = "0.1.0"

// Mode is the input mode of the viewer.
type Mode int

const (
	ModeView Mode = iota
	ModeInput
)

// MessageType selects the status line style.
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
	MsgWarning
)

// Interrupt payloads posted from background goroutines.
type (
	reloadRequest struct{}
	watchFailed   struct{ err error }
)

// Viewer holds the terminal state around one diagram renderer.
type Viewer struct {
	screen  tcell.Screen
	cfg     *config.Config
	cfgPath string
	r       *diagram.Renderer

	// Raster cache, rebuilt when the scene or the canvas size changes.
	img     *image.RGBA
	imgKey  [3]int
	vp      viewport
	canvasW int
	canvasH int

	mode        Mode
	inputPrompt string
	inputBuffer string
	inputAction func(string)

	message      string
	messageType  MessageType
	messageFlash atomic.Int64 // Unix milliseconds when message was shown
	animating    atomic.Bool

	selected      int // position of the selected mutation, 0 for none
	sidebarWidth  int
	sidebarScroll int
	dragging      bool
	leftMouseDown bool

	filename    string // mutations file
	watchCancel context.CancelFunc
}

func main() {
	var (
		configPath string
		logLevel   string
		logFile    string
		variant    string
		watch      bool
	)
	cmd := &cobra.Command{
		Use:           "chanview [mutations-file]",
		Short:         "chanview - interactive ion channel variant maps",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if variant != "" {
				cfg.Variant = variant
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			closeLog, err := setupLogging(cfg.LogLevel, logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			ed, err := newViewer(cfg, configPath)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				ed.filename = args[0]
				if _, err := session.ImportFile(ed.r, ed.filename); err != nil {
					return err
				}
			}
			if watch && ed.filename == "" {
				return fmt.Errorf("--watch needs a mutations file")
			}
			return ed.start(watch)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "settings file (default $HOME/"+config.FileName+")")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (discarded by default)")
	cmd.Flags().StringVar(&variant, "variant", "", "variant to show first")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the mutations file when it changes")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setupLogging keeps log lines off the terminal the viewer draws on.
func setupLogging(level, path string) (func(), error) {
	if err := logging.SetLevel(level); err != nil {
		return nil, err
	}
	if path == "" {
		logging.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	logging.SetOutput(f)
	return func() { f.Close() }, nil
}

func newViewer(cfg *config.Config, cfgPath string, options ...diagram.RendererOption) (*Viewer, error) {
	r, err := session.NewRenderer(cfg, options...)
	if err != nil {
		return nil, err
	}
	return &Viewer{
		cfg:          cfg,
		cfgPath:      cfgPath,
		r:            r,
		sidebarWidth: 32,
	}, nil
}

func (ed *Viewer) start(watch bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialize screen: %w", err)
	}
	screen.EnableMouse()
	screen.Clear()
	ed.screen = screen
	defer screen.Fini()

	if watch {
		ed.toggleWatch()
	}
	if ed.filename != "" {
		ed.showMessage(session.Summary(ed.r.LastImport()), MsgInfo)
	}
	ed.run()
	if ed.watchCancel != nil {
		ed.watchCancel()
	}
	return nil
}

func (ed *Viewer) run() {
	// Post refresh events while the wheel animates or a message flashes.
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			needsRefresh := ed.animating.Load()
			if start := ed.messageFlash.Load(); start > 0 {
				elapsed := time.Now().UnixMilli() - start
				if elapsed >= 0 && elapsed < 700 {
					needsRefresh = true
				}
			}
			if needsRefresh {
				ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			ed.handleInterrupt(ev.Data())
		case nil:
			return
		}
	}
}

func (ed *Viewer) handleInterrupt(data interface{}) {
	switch d := data.(type) {
	case reloadRequest:
		ed.reload()
	case watchFailed:
		ed.watchCancel = nil
		ed.showMessage("Watch stopped: "+d.err.Error(), MsgError)
	default:
		if ed.r.Animating() {
			ed.dispatch(diagram.Tick{})
		}
	}
}

// dispatch applies ev and reports a rejection on the status line.
func (ed *Viewer) dispatch(ev diagram.Event) bool {
	_, err := ed.r.Dispatch(ev)
	ed.animating.Store(ed.r.Animating())
	if err != nil {
		ed.showMessage(diagram.UserMessage(err), MsgError)
		return false
	}
	return true
}

func (ed *Viewer) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlash.Store(time.Now().UnixMilli())
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

func (ed *Viewer) handleKey(ev *tcell.EventKey) bool {
	if ed.mode == ModeInput {
		return ed.handleInputKey(ev)
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		ed.dispatch(diagram.CloseWheel{})
	case tcell.KeyUp:
		ed.moveLegend(0, -10)
	case tcell.KeyDown:
		ed.moveLegend(0, 10)
	case tcell.KeyLeft:
		ed.moveLegend(-10, 0)
	case tcell.KeyRight:
		ed.moveLegend(10, 0)
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.deleteSelected()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'v':
			ed.cycleVariant(1)
		case 'V':
			ed.cycleVariant(-1)
		case 'l':
			ed.dispatch(diagram.ToggleVisibility{Toggle: legend.ToggleLegend})
		case 'b':
			ed.dispatch(diagram.ToggleVisibility{Toggle: legend.ToggleLabels})
		case '+', '=':
			ed.dispatch(diagram.SetMutationSize{Size: ed.r.MutationSize() + 10})
		case '-', '_':
			ed.dispatch(diagram.SetMutationSize{Size: ed.r.MutationSize() - 10})
		case 's':
			ed.dispatch(diagram.ShowAll{})
		case 'a':
			ed.promptInput("Mutation (label type phenotype): ", ed.addMutation)
		case 'i':
			ed.promptInput("Import file: ", ed.importFile)
		case 'x':
			ed.deleteSelected()
		case 'e':
			ed.export()
		case 'f':
			ed.toggleExportFormat()
		case 'w':
			ed.toggleWatch()
		case 'j':
			ed.selectNext(1)
		case 'k':
			ed.selectNext(-1)
		}
	}
	return false
}

func (ed *Viewer) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		ed.mode = ModeView
		ed.inputBuffer = ""
	case tcell.KeyEnter:
		ed.mode = ModeView
		input := strings.TrimSpace(ed.inputBuffer)
		ed.inputBuffer = ""
		if input != "" && ed.inputAction != nil {
			ed.inputAction(input)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
	return false
}

func (ed *Viewer) promptInput(prompt string, action func(string)) {
	ed.mode = ModeInput
	ed.inputPrompt = prompt
	ed.inputBuffer = ""
	ed.inputAction = action
}

func (ed *Viewer) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0
	// Clicks act on the press edge only; held-button motion is a drag.
	clicked := pressed && !ed.leftMouseDown
	ed.leftMouseDown = pressed

	if ed.dragging {
		p, _ := ed.vp.toScene(x, y)
		if pressed {
			ed.dispatch(diagram.DragMove{At: p})
			return
		}
		ed.dispatch(diagram.DragEnd{})
		ed.dragging = false
		return
	}

	if x >= ed.canvasW {
		ed.handleSidebarMouse(y, buttons, clicked)
		return
	}
	if !clicked || ed.mode != ModeView {
		return
	}

	p, ok := ed.vp.toScene(x, y)
	if !ok {
		return
	}
	hit, found := ed.r.Scene().HitTest(p)
	if !found {
		ed.dispatch(diagram.CloseWheel{})
		return
	}
	n := hit.Node
	switch {
	case n.Action.Kind == diagram.ActionMarker:
		ed.selectMutation(n.Action.Index)
	case n.Action.Kind != diagram.ActionNone:
		_, _, err := ed.r.Click(p)
		ed.animating.Store(ed.r.Animating())
		if err != nil {
			ed.showMessage(diagram.UserMessage(err), MsgError)
		}
	case n.Draggable:
		if ed.dispatch(diagram.DragStart{ID: n.ID, At: p}) {
			ed.dragging = true
		}
	}
}

func (ed *Viewer) handleSidebarMouse(y int, buttons tcell.ButtonMask, clicked bool) {
	switch {
	case buttons&tcell.WheelUp != 0:
		ed.sidebarScroll = max(0, ed.sidebarScroll-3)
	case buttons&tcell.WheelDown != 0:
		ed.sidebarScroll += 3
	case clicked:
		ms := ed.r.Mutations()
		i := y - sidebarListTop + ed.sidebarScroll
		if i >= 0 && i < len(ms) {
			ed.selectMutation(ms[i].Position)
		}
	}
}

func (ed *Viewer) selectMutation(pos int) {
	ed.selected = pos
	for _, m := range ed.r.Mutations() {
		if m.Position != pos {
			continue
		}
		msg := fmt.Sprintf("%s: %s, %s", m.Label, m.Type.Display(), m.Phenotype)
		if ss, err := ed.r.Scales(); err == nil {
			if region := ss.RegionAt(pos); region != "" {
				msg += " in " + region
			}
		}
		ed.showMessage(msg, MsgInfo)
		return
	}
}

// selectNext moves the selection through the mutation list.
func (ed *Viewer) selectNext(step int) {
	ms := ed.r.Mutations()
	if len(ms) == 0 {
		return
	}
	i := -1
	for j, m := range ms {
		if m.Position == ed.selected {
			i = j
		}
	}
	i = (i + step + len(ms)) % len(ms)
	ed.selectMutation(ms[i].Position)
}

func (ed *Viewer) deleteSelected() {
	if ed.selected == 0 {
		ed.showMessage("No mutation selected", MsgWarning)
		return
	}
	if ed.dispatch(diagram.DeleteMutation{Position: ed.selected}) {
		ed.showMessage(fmt.Sprintf("Deleted mutation at %d", ed.selected), MsgSuccess)
		ed.selected = 0
	}
}

func (ed *Viewer) addMutation(input string) {
	ev, err := parseMutationInput(input)
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	if ed.dispatch(ev) {
		ed.showMessage("Added "+ev.Label, MsgSuccess)
	}
}

// parseMutationInput splits "label type phenotype..." into an entry. The
// phenotype may contain spaces.
func parseMutationInput(input string) (diagram.AddMutation, error) {
	fields := strings.Fields(input)
	if len(fields) < 3 {
		return diagram.AddMutation{}, fmt.Errorf("expected: label type phenotype")
	}
	return diagram.AddMutation{
		Label:     fields[0],
		Type:      fields[1],
		Phenotype: strings.Join(fields[2:], " "),
	}, nil
}

func (ed *Viewer) importFile(path string) {
	rep, err := session.ImportFile(ed.r, path)
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	if ed.filename == "" {
		ed.filename = path
	}
	ed.showMessage(session.Summary(rep), MsgSuccess)
}

func (ed *Viewer) reload() {
	rep, err := session.ImportFile(ed.r, ed.filename)
	if err != nil {
		ed.showMessage("Reload failed: "+err.Error(), MsgError)
		return
	}
	ed.showMessage("Reloaded: "+session.Summary(rep), MsgInfo)
}

func (ed *Viewer) cycleVariant(step int) {
	vs := channel.Variants()
	i := 0
	for j, v := range vs {
		if v == ed.r.Variant() {
			i = j
		}
	}
	v := vs[(i+step+len(vs))%len(vs)]
	if ed.dispatch(diagram.SelectVariant{Variant: v}) {
		ed.selected = 0
		ed.sidebarScroll = 0
		ed.cfg.Variant = string(v)
		ed.showMessage(v.Title(), MsgInfo)
	}
}

func (ed *Viewer) moveLegend(dx, dy int) {
	x, y := ed.r.LegendPosition()
	ed.dispatch(diagram.SetLegendPosition{X: x + dx, Y: y + dy})
}

// export writes the settled diagram next to the last export and remembers
// the directory.
func (ed *Viewer) export() {
	dir := ed.cfg.LastDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, session.ExportName(ed.r.Variant(), ed.cfg.ExportFormat))
	if err := session.ExportFile(path, ed.r.Final(), ed.cfg.ExportFormat, ed.cfg.PNGScale); err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	if abs, err := filepath.Abs(dir); err == nil {
		ed.cfg.LastDir = abs
	}
	ed.saveConfig()
	ed.showMessage("Exported "+path, MsgSuccess)
}

func (ed *Viewer) toggleExportFormat() {
	if ed.cfg.ExportFormat == "png" {
		ed.cfg.ExportFormat = "svg"
	} else {
		ed.cfg.ExportFormat = "png"
	}
	ed.saveConfig()
	ed.showMessage("Export format: "+strings.ToUpper(ed.cfg.ExportFormat), MsgInfo)
}

func (ed *Viewer) saveConfig() {
	if err := config.Save(ed.cfg, ed.cfgPath); err != nil {
		logging.Warnf("save settings: %v", err)
	}
}

func (ed *Viewer) toggleWatch() {
	if ed.watchCancel != nil {
		ed.watchCancel()
		ed.watchCancel = nil
		ed.showMessage("Watch off", MsgInfo)
		return
	}
	if ed.filename == "" {
		ed.showMessage("No mutations file to watch", MsgWarning)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	ed.watchCancel = cancel
	path, screen := ed.filename, ed.screen
	go func() {
		err := session.Watch(ctx, path, session.DefaultDebounce, func() {
			screen.PostEvent(tcell.NewEventInterrupt(reloadRequest{}))
		})
		if err != nil && ctx.Err() == nil {
			screen.PostEvent(tcell.NewEventInterrupt(watchFailed{err}))
		}
	}()
	ed.showMessage("Watching "+filepath.Base(path), MsgInfo)
}
