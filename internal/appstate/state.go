package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/sketchpad/internal/canvas"
	"github.com/example/sketchpad/internal/clipboard"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/notify"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/shape"
	"github.com/example/sketchpad/internal/theme"
)

const messageDuration = 2 * time.Second

// Surface is the drawing canvas hosted by the window.
type Surface interface {
	canvas.Actions
	Scene() render.Scene
}

// AppState holds the window configuration and the state of its controls.
type AppState struct {
	Canvas   Surface
	Output   string
	Theme    *theme.Theme
	ColorIdx int
	WidthIdx int
	Fill     bool
	// Size is the drawing area in pixels, excluding the toolbar and bars.
	Size image.Point
	// Export controls how Ctrl+S and Ctrl+C render the drawing.
	Export export.Options

	notifier   *notify.Notifier
	canvasOpts []canvas.Option
	onClose    func()
	closeOnce  sync.Once

	width, height int
	message       string
	messageUntil  time.Time
	clicks        clickTracker
	dragging      bool
	hover         hoverState
	quit          bool
	tools         []*CacheButton

	now       func() time.Time
	copyImage func(image.Image) error
	repaint   func()
}

type hoverState struct {
	tool, palette, width, shortcut int
	fill                           bool
}

func noHover() hoverState { return hoverState{tool: -1, palette: -1, width: -1, shortcut: -1} }

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithCanvas hosts an existing canvas. Its notices only reach the window when
// the canvas was built with canvas.WithNoticeHandler(state.Notice).
func WithCanvas(c Surface) Option { return func(a *AppState) { a.Canvas = c } }

// WithCanvasOptions configures the canvas New creates.
func WithCanvasOptions(opts ...canvas.Option) Option {
	return func(a *AppState) { a.canvasOpts = append(a.canvasOpts, opts...) }
}

// WithOutput sets the file Ctrl+S writes. The extension picks the format.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option {
	return func(a *AppState) {
		if t != nil {
			a.Theme = t
		}
	}
}

// WithColorIndex sets the initial palette index for drawing tools.
func WithColorIndex(idx int) Option { return func(a *AppState) { a.ColorIdx = idx } }

// WithWidthIndex sets the initial stroke width index for drawing tools.
func WithWidthIndex(idx int) Option { return func(a *AppState) { a.WidthIdx = idx } }

// WithFill makes rectangles and circles filled with the stroke colour.
func WithFill(fill bool) Option { return func(a *AppState) { a.Fill = fill } }

// WithSize sets the drawing area size.
func WithSize(w, h int) Option { return func(a *AppState) { a.Size = image.Pt(w, h) } }

// WithExportOptions sets the render options used when saving or copying.
func WithExportOptions(o export.Options) Option { return func(a *AppState) { a.Export = o } }

// WithNotifier routes save, copy and notice events to desktop notifications.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Output:    "sketch.png",
		Theme:     theme.Default(),
		ColorIdx:  defaultColorIndex,
		WidthIdx:  defaultWidthIndex,
		Size:      image.Pt(1280, 800),
		Export:    export.Options{Render: render.DefaultOptions()},
		hover:     noHover(),
		now:       time.Now,
		copyImage: clipboard.WriteImage,
	}
	for _, o := range opts {
		o(a)
	}
	a.ColorIdx = clampColorIndex(a.ColorIdx)
	a.WidthIdx = clampWidthIndex(a.WidthIdx)
	if a.Export.Width <= 0 || a.Export.Height <= 0 {
		a.Export.Width, a.Export.Height = a.Size.X, a.Size.Y
	}
	if a.Canvas == nil {
		ro := a.Export.Render
		ro.Selection = a.Theme.Selection
		base := []canvas.Option{
			canvas.WithBackground(a.Theme.CanvasBackground),
			canvas.WithRenderOptions(ro),
			canvas.WithNoticeHandler(a.Notice),
		}
		a.Canvas = canvas.New(append(base, a.canvasOpts...)...)
	}
	a.width = a.Size.X + toolbarWidth
	a.height = max(a.Size.Y+tabHeight+bottomHeight, minWindowHeight())
	return a
}

// Brush returns the toolbar state passed to the canvas on pointer down.
func (a *AppState) Brush() canvas.Brush {
	col := paletteColorAt(a.ColorIdx)
	b := canvas.Brush{Color: col, Width: float64(widthAt(a.WidthIdx))}
	if a.Fill {
		f := col
		b.Fill = &f
	}
	return b
}

// Notice shows a canvas notice in the window and forwards it to the
// notifier. Quiet notices are dropped.
func (a *AppState) Notice(n canvas.Notice) {
	if n.Quiet() {
		return
	}
	a.showMessage(n.String())
	a.notifier.Notice(n.String())
}

func (a *AppState) showMessage(msg string) {
	a.message = msg
	a.messageUntil = a.now().Add(messageDuration)
	log.Print(msg)
	if fn := a.repaint; fn != nil {
		time.AfterFunc(messageDuration, fn)
	}
}

func (a *AppState) messageVisible() bool {
	return a.message != "" && a.now().Before(a.messageUntil)
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// trigger runs a named action from the keyboard, the toolbar or the
// shortcut bar.
func (a *AppState) trigger(name string) {
	switch {
	case name == "undo":
		a.Canvas.Undo()
	case name == "redo":
		a.Canvas.Redo()
	case name == "clear":
		a.Canvas.Clear()
	case name == "save":
		a.save()
	case name == "copy":
		a.copy()
	case name == "quit":
		a.quit = true
	case name == "fill":
		a.Fill = !a.Fill
	case name == "done":
		if i, ok := a.Canvas.Editing(); ok {
			a.Canvas.CommitTextEdit(i)
		}
	case strings.HasPrefix(name, "tool:"):
		if t, err := canvas.ParseTool(strings.TrimPrefix(name, "tool:")); err == nil {
			a.Canvas.SetTool(t)
		}
	case strings.HasPrefix(name, "width:"):
		if idx, err := strconv.Atoi(strings.TrimPrefix(name, "width:")); err == nil {
			a.WidthIdx = clampWidthIndex(idx)
		}
	case name == "color:next":
		a.ColorIdx = (a.ColorIdx + 1) % paletteLen()
	case name == "color:prev":
		a.ColorIdx = (a.ColorIdx + paletteLen() - 1) % paletteLen()
	default:
		log.Printf("unknown action %q", name)
	}
}

func (a *AppState) save() {
	if a.Output == "" {
		a.showMessage("no output file set")
		return
	}
	if err := export.SaveFile(a.Output, a.Canvas, a.Export); err != nil {
		log.Printf("save: %v", err)
		a.showMessage("save failed")
		return
	}
	a.showMessage(fmt.Sprintf("saved %s", a.Output))
	a.notifier.Save(a.Output)
}

func (a *AppState) copy() {
	img, err := export.Raster(a.Canvas, a.Export.Width, a.Export.Height, a.Export.Render)
	if err != nil {
		log.Printf("copy: %v", err)
		return
	}
	if err := a.copyImage(img); err != nil {
		log.Printf("copy: %v", err)
		a.showMessage("copy failed")
		return
	}
	a.showMessage("drawing copied to clipboard")
	a.notifier.Copy("drawing", img)
}

// surfacePoint converts a window position to a drawing surface position.
func surfacePoint(x, y float32) shape.Point {
	return shape.Pt(float64(x)-float64(toolbarWidth), float64(y)-float64(tabHeight))
}

func (a *AppState) canvasRect() image.Rectangle {
	return image.Rect(toolbarWidth, tabHeight, a.width, a.height-bottomHeight)
}

// handleKey applies a key event and reports whether the window needs a
// repaint.
func (a *AppState) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if i, ok := a.Canvas.Editing(); ok {
		switch e.Code {
		case key.CodeReturnEnter, key.CodeEscape:
			a.Canvas.CommitTextEdit(i)
			return true
		case key.CodeDeleteBackspace:
			if e.Modifiers&key.ModControl == 0 {
				a.Canvas.EditText(i, dropLastRune(a.Canvas.EditingText()))
				return true
			}
		}
		if e.Modifiers&(key.ModControl|key.ModMeta) == 0 {
			if e.Rune > 0 && unicode.IsPrint(e.Rune) {
				a.Canvas.EditText(i, a.Canvas.EditingText()+string(e.Rune))
				return true
			}
			return false
		}
		a.Canvas.CommitTextEdit(i)
	}
	if name, ok := actionForKey(e); ok {
		a.trigger(name)
		return true
	}
	return false
}

// handleMouse applies a mouse event and reports whether the window needs a
// repaint.
func (a *AppState) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	if a.dragging {
		switch {
		case e.Direction == mouse.DirRelease && e.Button == mouse.ButtonLeft:
			a.Canvas.PointerUp()
			a.dragging = false
		case e.Direction == mouse.DirNone:
			a.Canvas.PointerMove(surfacePoint(e.X, e.Y))
		}
		return true
	}
	press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
	if press && a.messageVisible() {
		a.messageUntil = time.Time{}
		return true
	}
	prev := a.hover
	a.hover = noHover()
	if press && !p.In(a.canvasRect()) {
		a.clicks.reset()
	}

	switch {
	case p.X >= toolbarWidth && p.Y >= a.height-bottomHeight:
		for i, sc := range a.shortcuts() {
			if p.In(sc.Rect()) {
				a.hover.shortcut = i
				if press {
					sc.Activate()
					return true
				}
				break
			}
		}
	case p.X < toolbarWidth && p.Y >= tabHeight:
		l := layoutToolbar()
		for i, r := range l.tools {
			if p.In(r) {
				a.hover.tool = i
				if press {
					a.toolButtons()[i].Activate()
					return true
				}
			}
		}
		for i, r := range l.palette {
			if p.In(r) {
				a.hover.palette = i
				if press {
					a.ColorIdx = i
					return true
				}
			}
		}
		for i, r := range l.widths {
			if p.In(r) {
				a.hover.width = i
				if press {
					a.WidthIdx = i
					return true
				}
			}
		}
		if p.In(l.fill) {
			a.hover.fill = true
			if press {
				a.trigger("fill")
				return true
			}
		}
	case p.In(a.canvasRect()):
		if !press {
			break
		}
		pos := surfacePoint(e.X, e.Y)
		if a.clicks.click(p, a.now()) && a.Canvas.DoubleClick(pos) {
			return true
		}
		a.Canvas.PointerDown(pos, a.Canvas.Tool(), a.Brush())
		a.dragging = true
		return true
	}
	return a.hover != prev
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window on s until it is closed or quit.
func (a *AppState) Main(s screen.Screen) {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: a.width, Height: a.height, Title: "Sketchpad"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	a.repaint = func() { w.Send(paint.Event{}) }
	defer func() { a.repaint = nil }()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	stop := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stop()
				return
			}
		case size.Event:
			a.width = e.WidthPx
			a.height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			queueLatest(paintCh, a.frameState())
		case mouse.Event:
			if a.handleMouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if a.handleKey(e) {
				w.Send(paint.Event{})
			}
		}
		if a.quit {
			stop()
			return
		}
	}
}

// queueLatest replaces a value the receiver has not picked up yet. ch must
// have a buffer of one and the caller must be its only sender.
func queueLatest[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
