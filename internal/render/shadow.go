package render

import (
	"image"
)

// ShadowOptions configures the drop shadow cast by the shape layer.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions returns a soft shadow that reads well under strokes a
// few pixels wide.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  6,
		Offset:  image.Pt(4, 4),
		Opacity: 0.35,
	}
}

// CastShadow returns the blurred silhouette of layer moved by opts.Offset and
// scaled by opts.Opacity. The mask has the same bounds as layer; anything
// pushed outside them is dropped. It returns nil when there is nothing to cast.
func CastShadow(layer *image.RGBA, opts ShadowOptions) *image.Alpha {
	if layer == nil || layer.Bounds().Empty() || opts.Opacity <= 0 {
		return nil
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	b := layer.Bounds()
	mask := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := layer.Pix[layer.PixOffset(x, y)+3]
			if a == 0 {
				continue
			}
			q := image.Pt(x, y).Add(opts.Offset)
			if !q.In(b) {
				continue
			}
			mask.Pix[mask.PixOffset(q.X, q.Y)] = a
		}
	}

	w, h := b.Dx(), b.Dy()
	if radius > 0 {
		line := make([]int, max(w, h))
		for y := 0; y < h; y++ {
			boxBlur(mask.Pix[y*mask.Stride:], 1, w, radius, line)
		}
		for x := 0; x < w; x++ {
			boxBlur(mask.Pix[x:], mask.Stride, h, radius, line)
		}
	}
	if opacity < 1 {
		for i, a := range mask.Pix {
			mask.Pix[i] = uint8(float64(a)*opacity + 0.5)
		}
	}
	return mask
}

// boxBlur averages n samples spaced step apart over a window of 2*radius+1,
// clamped at the ends. scratch must hold at least n values.
func boxBlur(pix []uint8, step, n, radius int, scratch []int) {
	prefix := scratch[:0]
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(pix[i*step])
		prefix = append(prefix, sum)
	}
	for i := 0; i < n; i++ {
		lo := max(i-radius, 0)
		hi := min(i+radius, n-1)
		total := prefix[hi]
		if lo > 0 {
			total -= prefix[lo-1]
		}
		pix[i*step] = uint8(total / (hi - lo + 1))
	}
}
