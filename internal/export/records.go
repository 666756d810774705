package export

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"

	"github.com/google/uuid"

	"github.com/example/sketchpad/internal/shape"
	"github.com/example/sketchpad/internal/theme"
)

// Record is the serialized form of one shape. Type selects which of the
// remaining fields are meaningful.
type Record struct {
	Type        shape.Kind `json:"type"`
	ID          string     `json:"id"`
	Points      []XY       `json:"points,omitempty"`
	X           float64    `json:"x,omitempty"`
	Y           float64    `json:"y,omitempty"`
	Width       float64    `json:"width,omitempty"`
	Height      float64    `json:"height,omitempty"`
	Radius      float64    `json:"radius,omitempty"`
	Color       string     `json:"color,omitempty"`
	Fill        string     `json:"fill,omitempty"`
	StrokeWidth float64    `json:"strokeWidth,omitempty"`
	Text        string     `json:"text,omitempty"`
	FontSize    float64    `json:"fontSize,omitempty"`
}

// XY is a serialized point.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToRecords converts shapes to records in list order.
func ToRecords(shapes []shape.Shape) []Record {
	out := make([]Record, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, toRecord(s))
	}
	return out
}

func toRecord(s shape.Shape) Record {
	r := Record{Type: s.Kind(), ID: s.Identity()}
	switch v := s.(type) {
	case shape.Path:
		r.Points = make([]XY, len(v.Points))
		for i, p := range v.Points {
			r.Points[i] = XY{p.X, p.Y}
		}
		r.Color = theme.FormatHex(v.Stroke)
		r.StrokeWidth = v.Width
	case shape.Rectangle:
		r.X, r.Y = v.Origin.X, v.Origin.Y
		r.Width, r.Height = v.Width, v.Height
		r.Color = theme.FormatHex(v.Stroke)
		r.StrokeWidth = v.StrokeWidth
		r.Fill = formatFill(v.Fill)
	case shape.Circle:
		r.X, r.Y = v.Origin.X, v.Origin.Y
		r.Radius = v.Radius
		r.Color = theme.FormatHex(v.Stroke)
		r.StrokeWidth = v.StrokeWidth
		r.Fill = formatFill(v.Fill)
	case shape.Text:
		r.X, r.Y = v.Anchor.X, v.Anchor.Y
		r.Text = v.Content
		r.FontSize = v.FontSize
		r.Color = theme.FormatHex(v.Color)
	}
	return r
}

func formatFill(c *color.RGBA) string {
	if c == nil {
		return ""
	}
	return theme.FormatHex(*c)
}

// FromRecords converts records back to shapes. Records without an ID get a
// fresh one.
func FromRecords(recs []Record) ([]shape.Shape, error) {
	out := make([]shape.Shape, 0, len(recs))
	for i, r := range recs {
		s, err := fromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func fromRecord(r Record) (shape.Shape, error) {
	id := r.ID
	if id == "" {
		id = uuid.NewString()
	}
	stroke, err := parseColor(r.Color)
	if err != nil {
		return nil, err
	}
	var fill *color.RGBA
	if r.Fill != "" {
		c, err := theme.ParseHex(r.Fill)
		if err != nil {
			return nil, fmt.Errorf("fill: %w", err)
		}
		fill = &c
	}
	origin := shape.Pt(r.X, r.Y)

	switch r.Type {
	case shape.KindPath:
		if len(r.Points) == 0 {
			return nil, fmt.Errorf("path %s has no points", id)
		}
		pts := make([]shape.Point, len(r.Points))
		for i, p := range r.Points {
			pts[i] = shape.Pt(p.X, p.Y)
		}
		return shape.Path{ID: id, Points: pts, Stroke: stroke, Width: r.StrokeWidth}, nil
	case shape.KindRectangle:
		o, w, h := shape.NormalizedRect(origin, origin.Add(shape.Pt(r.Width, r.Height)))
		return shape.Rectangle{ID: id, Origin: o, Width: w, Height: h, Stroke: stroke, StrokeWidth: r.StrokeWidth, Fill: fill}, nil
	case shape.KindCircle:
		if r.Radius < 0 {
			return nil, fmt.Errorf("circle %s has negative radius", id)
		}
		return shape.Circle{ID: id, Origin: origin, Radius: r.Radius, Stroke: stroke, StrokeWidth: r.StrokeWidth, Fill: fill}, nil
	case shape.KindText:
		return shape.Text{ID: id, Anchor: origin, Content: r.Text, FontSize: r.FontSize, Color: stroke}, nil
	}
	return nil, fmt.Errorf("unknown shape type %q", r.Type)
}

func parseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{A: 255}, nil
	}
	c, err := theme.ParseHex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color: %w", err)
	}
	return c, nil
}

// EncodeShapes writes shapes as an indented JSON array of records.
func EncodeShapes(w io.Writer, shapes []shape.Shape) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToRecords(shapes)); err != nil {
		return fmt.Errorf("encode shapes: %w", err)
	}
	return nil
}

// DecodeShapes reads a JSON array of records.
func DecodeShapes(r io.Reader) ([]shape.Shape, error) {
	var recs []Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode shapes: %w", err)
	}
	return FromRecords(recs)
}
