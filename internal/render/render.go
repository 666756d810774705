// Package render rasterizes canvas scenes with gg.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"

	"github.com/example/sketchpad/internal/shape"
)

// Scene is one frame of canvas content. Selected and Editing are shape
// indices, negative for none.
type Scene struct {
	Shapes     []shape.Shape
	Selected   int
	Editing    int
	Offset     shape.Point
	Background color.Color
}

// NewScene returns a scene with nothing selected on a white background.
func NewScene(shapes []shape.Shape) Scene {
	return Scene{Shapes: shapes, Selected: -1, Editing: -1, Background: color.White}
}

// Options controls decorations drawn on top of the shapes.
type Options struct {
	Selection        color.RGBA
	SelectionWidth   float64
	SelectionDash    float64
	SelectionPadding float64
	// Shadow, when set, casts a drop shadow under the shape layer.
	Shadow *ShadowOptions
}

// DefaultOptions draws a 2px blue outline dashed 5/5, padded 5px from the
// shape bounds.
func DefaultOptions() Options {
	return Options{
		Selection:        color.RGBA{0x00, 0x88, 0xff, 0xff},
		SelectionWidth:   2,
		SelectionDash:    5,
		SelectionPadding: 5,
	}
}

// Draw clears dst to the scene background, draws every shape in list order
// shifted by the scene offset, then outlines the selected shape.
func Draw(dst *image.RGBA, scene Scene, opts Options) {
	if dst == nil {
		return
	}
	b := dst.Bounds()
	if scene.Background != nil {
		draw.Draw(dst, b, image.NewUniform(scene.Background), image.Point{}, draw.Src)
	} else {
		draw.Draw(dst, b, image.Transparent, image.Point{}, draw.Src)
	}

	if opts.Shadow != nil {
		layer := image.NewRGBA(b)
		drawShapes(gg.NewContextForRGBA(layer), scene)
		if mask := CastShadow(layer, *opts.Shadow); mask != nil {
			draw.DrawMask(dst, b, image.Black, image.Point{}, mask, b.Min, draw.Over)
		}
		draw.Draw(dst, b, layer, b.Min, draw.Over)
	} else {
		drawShapes(gg.NewContextForRGBA(dst), scene)
	}

	dc := gg.NewContextForRGBA(dst)
	dc.Translate(scene.Offset.X, scene.Offset.Y)
	if scene.Editing >= 0 && scene.Editing < len(scene.Shapes) {
		if t, ok := scene.Shapes[scene.Editing].(shape.Text); ok {
			drawCaret(dc, t)
		}
	}
	if scene.Selected >= 0 && scene.Selected < len(scene.Shapes) {
		drawSelection(dc, scene.Shapes[scene.Selected].Bounds(), opts)
	}
}

// Image renders the scene into a new w x h image.
func Image(scene Scene, w, h int, opts Options) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	Draw(img, scene, opts)
	return img
}

func drawShapes(dc *gg.Context, scene Scene) {
	dc.Translate(scene.Offset.X, scene.Offset.Y)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	for _, s := range scene.Shapes {
		DrawShape(dc, s)
	}
}

// DrawShape draws a single shape in the context's current transform.
func DrawShape(dc *gg.Context, s shape.Shape) {
	switch v := s.(type) {
	case shape.Path:
		drawPath(dc, v)
	case shape.Rectangle:
		dc.DrawRectangle(v.Origin.X, v.Origin.Y, v.Width, v.Height)
		fillAndStroke(dc, v.Fill, v.Stroke, v.StrokeWidth)
	case shape.Circle:
		c := v.Center()
		dc.DrawCircle(c.X, c.Y, v.Radius)
		fillAndStroke(dc, v.Fill, v.Stroke, v.StrokeWidth)
	case shape.Text:
		if v.Content == "" {
			return
		}
		dc.SetFontFace(faceOrFallback(v.FontSize))
		dc.SetColor(v.Color)
		dc.DrawString(v.Content, v.Anchor.X, v.Anchor.Y)
	}
}

func drawPath(dc *gg.Context, p shape.Path) {
	if len(p.Points) == 0 {
		return
	}
	dc.SetColor(p.Stroke)
	if len(p.Points) == 1 {
		// a single click leaves a dot the size of the brush
		r := p.Width / 2
		if r < 0.5 {
			r = 0.5
		}
		dc.DrawCircle(p.Points[0].X, p.Points[0].Y, r)
		dc.Fill()
		return
	}
	dc.SetLineWidth(p.Width)
	dc.MoveTo(p.Points[0].X, p.Points[0].Y)
	for _, pt := range p.Points[1:] {
		dc.LineTo(pt.X, pt.Y)
	}
	dc.Stroke()
}

func fillAndStroke(dc *gg.Context, fill *color.RGBA, stroke color.RGBA, width float64) {
	if fill != nil {
		dc.SetColor(*fill)
		dc.FillPreserve()
	}
	if width <= 0 {
		dc.ClearPath()
		return
	}
	dc.SetColor(stroke)
	dc.SetLineWidth(width)
	dc.Stroke()
}

func drawSelection(dc *gg.Context, bounds shape.Rect, opts Options) {
	r := bounds.Inset(-opts.SelectionPadding)
	dc.SetColor(opts.Selection)
	dc.SetLineWidth(opts.SelectionWidth)
	if opts.SelectionDash > 0 {
		dc.SetDash(opts.SelectionDash, opts.SelectionDash)
	}
	dc.DrawRectangle(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	dc.Stroke()
	dc.SetDash()
}

func drawCaret(dc *gg.Context, t shape.Text) {
	w, _, _ := MeasureText(t.Content, t.FontSize)
	x := t.Anchor.X + float64(w) + 1
	dc.SetColor(t.Color)
	dc.SetLineWidth(1)
	dc.DrawLine(x, t.Anchor.Y-t.FontSize, x, t.Anchor.Y+2)
	dc.Stroke()
}
