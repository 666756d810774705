package shape

import "math"

// Point is a position in canvas-local coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis aligned rectangle with Min <= Max on both axes.
type Rect struct {
	Min, Max Point
}

// RectFromCorners orders the two corners into a Rect.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		Min: Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

func (r Rect) Dx() float64 { return r.Max.X - r.Min.X }

func (r Rect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Extend grows r to include p.
func (r Rect) Extend(p Point) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Max: Point{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// Inset shrinks r by n on every side. Negative values grow it.
func (r Rect) Inset(n float64) Rect {
	return Rect{
		Min: Point{r.Min.X + n, r.Min.Y + n},
		Max: Point{r.Max.X - n, r.Max.Y - n},
	}
}

// Union returns the smallest Rect containing both r and s.
func (r Rect) Union(s Rect) Rect {
	return r.Extend(s.Min).Extend(s.Max)
}

// BoundsOf returns the union of the bounds of all shapes. The second result is
// false for an empty list.
func BoundsOf(shapes []Shape) (Rect, bool) {
	if len(shapes) == 0 {
		return Rect{}, false
	}
	r := shapes[0].Bounds()
	for _, s := range shapes[1:] {
		r = r.Union(s.Bounds())
	}
	return r, true
}
