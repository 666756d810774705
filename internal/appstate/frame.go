package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/sketchpad/internal/canvas"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/theme"
)

const (
	tabHeight    = 24
	bottomHeight = 24
	toolbarWidth = 64
	// frameDropThreshold limits how many in-flight frames a new paint may
	// cancel before one is allowed to finish.
	frameDropThreshold = 3
)

var toolLabels = map[canvas.Tool]string{
	canvas.ToolSelect:    "V:Select",
	canvas.ToolHand:      "H:Hand",
	canvas.ToolPen:       "P:Pen",
	canvas.ToolRectangle: "R:Rect",
	canvas.ToolCircle:    "O:Circle",
	canvas.ToolText:      "T:Text",
}

type toolbarLayout struct {
	tools   []image.Rectangle
	palette []image.Rectangle
	widths  []image.Rectangle
	fill    image.Rectangle
}

func layoutToolbar() toolbarLayout {
	var l toolbarLayout
	y := tabHeight
	for range canvas.Tools() {
		l.tools = append(l.tools, image.Rect(0, y, toolbarWidth, y+24))
		y += 24
	}

	y += 4
	x := 4
	for i, n := 0, paletteLen(); i < n; i++ {
		l.palette = append(l.palette, image.Rect(x, y, x+16, y+16))
		x += 18
		if x+16 > toolbarWidth && i < n-1 {
			x = 4
			y += 18
		}
	}
	y += 22

	for i, n := 0, widthsLen(); i < n; i++ {
		l.widths = append(l.widths, image.Rect(0, y, toolbarWidth, y+16))
		y += 16
	}
	y += 4
	l.fill = image.Rect(0, y, toolbarWidth, y+20)
	return l
}

// minWindowHeight keeps every toolbar control inside the window.
func minWindowHeight() int {
	return layoutToolbar().fill.Max.Y + 4
}

func (a *AppState) toolButtons() []*CacheButton {
	if a.tools != nil {
		return a.tools
	}
	l := layoutToolbar()
	for i, t := range canvas.Tools() {
		tb := &ToolButton{label: toolLabels[t], tool: t, theme: a.Theme,
			onSelect: func(t canvas.Tool) { a.Canvas.SetTool(t) }}
		tb.SetRect(l.tools[i])
		a.tools = append(a.tools, &CacheButton{Button: tb})
	}
	return a.tools
}

func (a *AppState) shortcuts() []*Shortcut {
	var labels [][2]string
	if _, editing := a.Canvas.Editing(); editing {
		labels = [][2]string{{"Enter:done", "done"}, {"Esc:done", "done"}}
	} else {
		labels = [][2]string{
			{"^Z:undo", "undo"},
			{"^Y:redo", "redo"},
			{"^Del:clear", "clear"},
			{"^S:save", "save"},
			{"^C:copy", "copy"},
			{"F:fill", "fill"},
			{"Q:quit", "quit"},
		}
	}
	x := toolbarWidth + 4
	y := a.height - bottomHeight + 16
	meas := &font.Drawer{Face: basicfont.Face7x13}
	out := make([]*Shortcut, 0, len(labels))
	for _, l := range labels {
		sc := &Shortcut{label: l[0], action: l[1], theme: a.Theme, trigger: a.trigger}
		w := meas.MeasureString(sc.label).Ceil()
		sc.SetRect(image.Rect(x-2, y-14, x+w+2, y+4))
		out = append(out, sc)
		x = sc.rect.Max.X + 8
	}
	return out
}

type paintState struct {
	width, height int
	theme         *theme.Theme
	canvas        *image.RGBA
	tools         []*CacheButton
	shortcuts     []*Shortcut
	tool          canvas.Tool
	colorIdx      int
	widthIdx      int
	fill          bool
	status        canvas.Snapshot
	hover         hoverState
	message       string
}

// frameState renders the canvas and captures everything the paint goroutine
// needs, so frames never touch the live canvas.
func (a *AppState) frameState() paintState {
	cr := a.canvasRect()
	img := image.NewRGBA(image.Rect(0, 0, max(cr.Dx(), 0), max(cr.Dy(), 0)))
	if !img.Bounds().Empty() {
		a.Canvas.Render(img)
	}
	st := paintState{
		width:     a.width,
		height:    a.height,
		theme:     a.Theme,
		canvas:    img,
		tools:     a.toolButtons(),
		shortcuts: a.shortcuts(),
		tool:      a.Canvas.Tool(),
		colorIdx:  a.ColorIdx,
		widthIdx:  a.WidthIdx,
		fill:      a.Fill,
		status:    a.Canvas.Status(),
		hover:     a.hover,
	}
	if a.messageVisible() {
		st.message = a.message
	}
	return st
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	composeFrame(b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// composeFrame draws the window contents into dst.
func composeFrame(dst *image.RGBA, st paintState) {
	th := st.theme
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	if st.canvas != nil {
		draw.Draw(dst, st.canvas.Bounds().Add(image.Pt(toolbarWidth, tabHeight)), st.canvas, image.Point{}, draw.Src)
	}
	drawTitle(dst, st)
	drawToolbar(dst, st)
	drawShortcuts(dst, st)
	if st.message != "" {
		drawMessage(dst, st.width, st.height, st.message, th)
	}
}

func drawTitle(dst *image.RGBA, st paintState) {
	th := st.theme
	draw.Draw(dst, image.Rect(0, 0, st.width, tabHeight), &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13, Dot: fixed.P(4, 16)}
	d.DrawString("Sketchpad")
	d.Dot = fixed.P(toolbarWidth+16, 16)
	d.DrawString(statusLine(st.status))
}

func statusLine(s canvas.Snapshot) string {
	line := fmt.Sprintf("%s  shapes:%d  undo:%d  redo:%d", s.Tool, s.Shapes, s.UndoDepth, s.RedoDepth)
	if s.Offset.X != 0 || s.Offset.Y != 0 {
		line += fmt.Sprintf("  offset:%.0f,%.0f", s.Offset.X, s.Offset.Y)
	}
	if s.Editing >= 0 {
		line += "  typing"
	}
	return line
}

func drawToolbar(dst *image.RGBA, st paintState) {
	th := st.theme
	draw.Draw(dst, image.Rect(0, tabHeight, toolbarWidth, st.height),
		&image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	l := layoutToolbar()

	for i, cb := range st.tools {
		state := StateDefault
		if cb.Button.(*ToolButton).tool == st.tool {
			state = StatePressed
		} else if i == st.hover.tool {
			state = StateHover
		}
		cb.Draw(dst, state)
	}

	for i, rect := range l.palette {
		draw.Draw(dst, rect, &image.Uniform{paletteColorAt(i)}, image.Point{}, draw.Src)
		if i == st.hover.palette {
			draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
		if i == st.colorIdx {
			drawRect(dst, rect.Inset(-1), th.ButtonBorder, 1)
			drawRect(dst, rect, color.White, 1)
		}
	}

	col := paletteColorAt(st.colorIdx)
	for i, rect := range l.widths {
		state := StateDefault
		if i == st.widthIdx {
			state = StatePressed
		} else if i == st.hover.width {
			state = StateHover
		}
		draw.Draw(dst, rect, &image.Uniform{buttonColor(th, state)}, image.Point{}, draw.Src)
		w := widthAt(i)
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
			Dot: fixed.P(4, rect.Min.Y+12)}
		d.DrawString(WidthLabel(w))
		lineY := rect.Min.Y + 8
		drawLine(dst, 24, lineY, toolbarWidth-6, lineY, col, w)
	}

	state := StateDefault
	if st.fill {
		state = StatePressed
	} else if st.hover.fill {
		state = StateHover
	}
	draw.Draw(dst, l.fill, &image.Uniform{buttonColor(th, state)}, image.Point{}, draw.Src)
	swatch := image.Rect(l.fill.Max.X-18, l.fill.Min.Y+4, l.fill.Max.X-6, l.fill.Max.Y-4)
	if st.fill {
		draw.Draw(dst, swatch, &image.Uniform{col}, image.Point{}, draw.Src)
	}
	drawRect(dst, swatch, col, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(4, l.fill.Min.Y+14)}
	d.DrawString("Fill")
}

func drawShortcuts(dst *image.RGBA, st paintState) {
	rect := image.Rect(toolbarWidth, st.height-bottomHeight, st.width, st.height)
	draw.Draw(dst, rect, &image.Uniform{st.theme.ToolbarBackground}, image.Point{}, draw.Src)
	for i, sc := range st.shortcuts {
		state := StateDefault
		if i == st.hover.shortcut {
			state = StateHover
		}
		sc.Draw(dst, state)
	}
}

func messageFace() font.Face {
	face, err := render.FaceForSize(18)
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

func drawMessage(dst *image.RGBA, width, height int, msg string, th *theme.Theme) {
	face := messageFace()
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.MessageText), Face: face}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{th.MessageBackground}, image.Point{}, draw.Over)
	drawRect(dst, rect, th.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
