package shape

import (
	"image/color"
	"math"
	"unicode/utf8"
)

// Kind names a shape variant. The value doubles as the record tag used by
// exported snapshots.
type Kind string

const (
	KindPath      Kind = "path"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindText      Kind = "text"
)

// PathHitThreshold is the distance from a path vertex that still counts as a
// hit. Paths are tested against their vertices only, not the stroked segments.
const PathHitThreshold = 10.0

// Shape is one drawable element on the canvas. The set of implementations is
// closed: Path, Rectangle, Circle and Text.
type Shape interface {
	Kind() Kind
	// Identity returns the stable identifier assigned at creation.
	Identity() string
	Bounds() Rect
	// Contains reports whether p hits the shape. Paths use PathHitThreshold.
	Contains(p Point) bool
	// Translate returns a copy moved by d.
	Translate(d Point) Shape
	// Clone returns a deep copy that shares no mutable state.
	Clone() Shape

	sealed()
}

// Path is a freehand stroke.
type Path struct {
	ID     string
	Points []Point
	Stroke color.RGBA
	Width  float64
}

func (Path) Kind() Kind { return KindPath }

func (p Path) Identity() string { return p.ID }

func (p Path) Bounds() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	r := Rect{Min: p.Points[0], Max: p.Points[0]}
	for _, pt := range p.Points[1:] {
		r = r.Extend(pt)
	}
	return r
}

func (p Path) Contains(pt Point) bool {
	return p.ContainsWithin(pt, PathHitThreshold)
}

// ContainsWithin reports whether pt lies within threshold of any vertex.
func (p Path) ContainsWithin(pt Point, threshold float64) bool {
	for _, v := range p.Points {
		if v.Dist(pt) <= threshold {
			return true
		}
	}
	return false
}

func (p Path) Translate(d Point) Shape {
	out := p
	out.Points = make([]Point, len(p.Points))
	for i, v := range p.Points {
		out.Points[i] = v.Add(d)
	}
	return out
}

func (p Path) Clone() Shape {
	out := p
	out.Points = append([]Point(nil), p.Points...)
	return out
}

func (Path) sealed() {}

// Rectangle is an axis aligned box. Width and Height are kept non-negative by
// the canvas while drawing.
type Rectangle struct {
	ID          string
	Origin      Point
	Width       float64
	Height      float64
	Stroke      color.RGBA
	StrokeWidth float64
	Fill        *color.RGBA
}

func (Rectangle) Kind() Kind { return KindRectangle }

func (r Rectangle) Identity() string { return r.ID }

func (r Rectangle) Bounds() Rect {
	return RectFromCorners(r.Origin, Point{r.Origin.X + r.Width, r.Origin.Y + r.Height})
}

func (r Rectangle) Contains(p Point) bool {
	return p.X >= r.Origin.X && p.X <= r.Origin.X+r.Width &&
		p.Y >= r.Origin.Y && p.Y <= r.Origin.Y+r.Height
}

func (r Rectangle) Translate(d Point) Shape {
	out := r.Clone().(Rectangle)
	out.Origin = out.Origin.Add(d)
	return out
}

func (r Rectangle) Clone() Shape {
	out := r
	out.Fill = cloneColor(r.Fill)
	return out
}

func (Rectangle) sealed() {}

// Circle is described by the top-left corner of its bounding square.
type Circle struct {
	ID          string
	Origin      Point
	Radius      float64
	Stroke      color.RGBA
	StrokeWidth float64
	Fill        *color.RGBA
}

func (Circle) Kind() Kind { return KindCircle }

func (c Circle) Identity() string { return c.ID }

// Center returns Origin offset by the radius on both axes.
func (c Circle) Center() Point {
	return Point{c.Origin.X + c.Radius, c.Origin.Y + c.Radius}
}

func (c Circle) Bounds() Rect {
	return Rect{Min: c.Origin, Max: Point{c.Origin.X + 2*c.Radius, c.Origin.Y + 2*c.Radius}}
}

func (c Circle) Contains(p Point) bool {
	d := p.Sub(c.Center())
	return d.X*d.X+d.Y*d.Y <= c.Radius*c.Radius
}

func (c Circle) Translate(d Point) Shape {
	out := c.Clone().(Circle)
	out.Origin = out.Origin.Add(d)
	return out
}

func (c Circle) Clone() Shape {
	out := c
	out.Fill = cloneColor(c.Fill)
	return out
}

func (Circle) sealed() {}

// Text is a single line of text anchored at its baseline-left corner.
type Text struct {
	ID       string
	Anchor   Point
	Content  string
	FontSize float64
	Color    color.RGBA
}

func (Text) Kind() Kind { return KindText }

func (t Text) Identity() string { return t.ID }

// EstimatedWidth approximates the rendered width as half the font size per
// character.
func (t Text) EstimatedWidth() float64 {
	return float64(utf8.RuneCountInString(t.Content)) * t.FontSize / 2
}

func (t Text) Bounds() Rect {
	return Rect{
		Min: Point{t.Anchor.X, t.Anchor.Y - t.FontSize},
		Max: Point{t.Anchor.X + t.EstimatedWidth(), t.Anchor.Y},
	}
}

func (t Text) Contains(p Point) bool {
	b := t.Bounds()
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

func (t Text) Translate(d Point) Shape {
	out := t
	out.Anchor = out.Anchor.Add(d)
	return out
}

func (t Text) Clone() Shape { return t }

func (Text) sealed() {}

func cloneColor(c *color.RGBA) *color.RGBA {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

// CloneAll deep copies a shape list. A nil list stays nil.
func CloneAll(shapes []Shape) []Shape {
	if shapes == nil {
		return nil
	}
	out := make([]Shape, len(shapes))
	for i, s := range shapes {
		out[i] = s.Clone()
	}
	return out
}

// HitTest returns the index of the topmost shape containing p.
func HitTest(shapes []Shape, p Point, pathThreshold float64) (int, bool) {
	for i := len(shapes) - 1; i >= 0; i-- {
		if path, ok := shapes[i].(Path); ok {
			if path.ContainsWithin(p, pathThreshold) {
				return i, true
			}
			continue
		}
		if shapes[i].Contains(p) {
			return i, true
		}
	}
	return -1, false
}

// NormalizedRect returns the origin and non-negative size of the box spanned
// by the two corners.
func NormalizedRect(a, b Point) (origin Point, width, height float64) {
	origin = Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)}
	return origin, math.Abs(a.X - b.X), math.Abs(a.Y - b.Y)
}
