package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/shape"
)

// WritePDF draws the scene as vector shapes on a single w x h point page.
// Canvas pixels map to PDF points one to one.
func WritePDF(w io.Writer, scene render.Scene, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid size %dx%d", ErrExportFailed, width, height)
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(width), Ht: float64(height)},
	})
	pdf.SetCreator("sketchpad", true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	if scene.Background != nil {
		setFill(pdf, color.RGBAModel.Convert(scene.Background).(color.RGBA))
		pdf.Rect(0, 0, float64(width), float64(height), "F")
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	off := scene.Offset
	for _, s := range scene.Shapes {
		pdfShape(pdf, s.Translate(off), tr)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: pdf: %v", ErrExportFailed, err)
	}
	return nil
}

func pdfShape(pdf *gofpdf.Fpdf, s shape.Shape, tr func(string) string) {
	switch v := s.(type) {
	case shape.Path:
		if len(v.Points) == 0 {
			return
		}
		setDraw(pdf, v.Stroke)
		if len(v.Points) == 1 {
			setFill(pdf, v.Stroke)
			pdf.Circle(v.Points[0].X, v.Points[0].Y, v.Width/2, "F")
			break
		}
		pdf.SetLineWidth(v.Width)
		pdf.MoveTo(v.Points[0].X, v.Points[0].Y)
		for _, p := range v.Points[1:] {
			pdf.LineTo(p.X, p.Y)
		}
		pdf.DrawPath("D")
	case shape.Rectangle:
		style := prepare(pdf, v.Stroke, v.StrokeWidth, v.Fill)
		if style != "" {
			pdf.Rect(v.Origin.X, v.Origin.Y, v.Width, v.Height, style)
		}
	case shape.Circle:
		style := prepare(pdf, v.Stroke, v.StrokeWidth, v.Fill)
		if style != "" {
			c := v.Center()
			pdf.Circle(c.X, c.Y, v.Radius, style)
		}
	case shape.Text:
		if v.Content == "" {
			return
		}
		pdf.SetFont("Helvetica", "", v.FontSize)
		pdf.SetTextColor(int(v.Color.R), int(v.Color.G), int(v.Color.B))
		pdf.SetAlpha(float64(v.Color.A)/255, "Normal")
		pdf.Text(v.Anchor.X, v.Anchor.Y, tr(v.Content))
	}
	pdf.SetAlpha(1, "Normal")
}

// prepare sets colours for a closed shape and returns the gofpdf style
// string, empty when nothing would be drawn.
func prepare(pdf *gofpdf.Fpdf, stroke color.RGBA, width float64, fill *color.RGBA) string {
	style := ""
	if fill != nil {
		setFill(pdf, *fill)
		style += "F"
	}
	if width > 0 {
		setDraw(pdf, stroke)
		pdf.SetLineWidth(width)
		style += "D"
	}
	return style
}

func setDraw(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func setFill(pdf *gofpdf.Fpdf, c color.RGBA) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	pdf.SetAlpha(float64(c.A)/255, "Normal")
}
