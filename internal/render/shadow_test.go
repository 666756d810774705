package render

import (
	"image"
	"image/color"
	"testing"
)

func TestCastShadowOffsetsSilhouette(t *testing.T) {
	layer := image.NewRGBA(image.Rect(0, 0, 20, 20))
	subject := image.Pt(5, 5)
	layer.Set(subject.X, subject.Y, color.RGBA{R: 255, A: 255})

	opts := ShadowOptions{Radius: 0, Offset: image.Pt(8, 6), Opacity: 0.5}
	mask := CastShadow(layer, opts)
	if mask == nil {
		t.Fatal("expected a mask")
	}
	if !mask.Bounds().Eq(layer.Bounds()) {
		t.Fatalf("bounds %v, want %v", mask.Bounds(), layer.Bounds())
	}
	at := subject.Add(opts.Offset)
	if got := mask.AlphaAt(at.X, at.Y).A; got != 128 {
		t.Fatalf("alpha at %v = %d, want 128", at, got)
	}
	if got := mask.AlphaAt(subject.X, subject.Y).A; got != 0 {
		t.Fatalf("shadow left at the subject: %d", got)
	}
}

func TestCastShadowNothingWhenOpacityZero(t *testing.T) {
	layer := image.NewRGBA(image.Rect(0, 0, 4, 4))
	layer.Set(1, 1, color.Black)
	if mask := CastShadow(layer, ShadowOptions{Radius: 3, Offset: image.Pt(1, 1)}); mask != nil {
		t.Fatalf("expected nil mask")
	}
	if mask := CastShadow(nil, DefaultShadowOptions()); mask != nil {
		t.Fatalf("expected nil mask for nil layer")
	}
}

func TestCastShadowBlurSpreads(t *testing.T) {
	layer := image.NewRGBA(image.Rect(0, 0, 12, 12))
	layer.Set(2, 2, color.RGBA{A: 255})
	opts := ShadowOptions{Radius: 2, Offset: image.Pt(3, 0), Opacity: 1}

	mask := CastShadow(layer, opts)
	base := image.Pt(5, 2)
	if mask.AlphaAt(base.X, base.Y).A == 0 {
		t.Fatal("expected alpha at the shadow location")
	}
	if mask.AlphaAt(base.X+1, base.Y+1).A == 0 {
		t.Fatal("expected blur to reach the diagonal neighbour")
	}
	if mask.AlphaAt(base.X+3, base.Y).A != 0 {
		t.Fatal("blur reached beyond its radius")
	}
}

func TestBoxBlurKeepsFlatSignal(t *testing.T) {
	pix := []uint8{9, 9, 9, 9, 9}
	boxBlur(pix, 1, len(pix), 2, make([]int, len(pix)))
	for i, v := range pix {
		if v != 9 {
			t.Fatalf("pix[%d] = %d, want 9", i, v)
		}
	}
}
