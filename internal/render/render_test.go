package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/sketchpad/internal/shape"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func TestDrawClearsToBackground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(3, 3, color.RGBA{R: 9, A: 255})
	Draw(img, NewScene(nil), DefaultOptions())
	if got := img.RGBAAt(3, 3); got != white {
		t.Fatalf("pixel = %v, want white", got)
	}
}

func TestDrawAppliesOffset(t *testing.T) {
	fill := black
	scene := NewScene([]shape.Shape{
		shape.Rectangle{Origin: shape.Pt(0, 0), Width: 10, Height: 10, Fill: &fill},
	})
	scene.Offset = shape.Pt(20, 20)
	img := Image(scene, 40, 40, DefaultOptions())
	if got := img.RGBAAt(5, 5); got != white {
		t.Fatalf("unshifted area = %v, want white", got)
	}
	if got := img.RGBAAt(25, 25); got != black {
		t.Fatalf("shifted fill = %v, want black", got)
	}
}

func TestDrawOrderIsZOrder(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	scene := NewScene([]shape.Shape{
		shape.Rectangle{Origin: shape.Pt(0, 0), Width: 20, Height: 20, Fill: &black},
		shape.Circle{Origin: shape.Pt(0, 0), Radius: 10, Fill: &red},
	})
	img := Image(scene, 20, 20, DefaultOptions())
	if got := img.RGBAAt(10, 10); got != red {
		t.Fatalf("centre = %v, want the later circle on top", got)
	}
	if got := img.RGBAAt(1, 1); got != black {
		t.Fatalf("corner = %v, want the rectangle", got)
	}
}

func TestSelectionOutline(t *testing.T) {
	scene := NewScene([]shape.Shape{
		shape.Rectangle{Origin: shape.Pt(20, 20), Width: 40, Height: 40, Stroke: black, StrokeWidth: 2},
	})
	scene.Selected = 0
	img := Image(scene, 100, 100, DefaultOptions())
	// the top edge starts with a dash at the padded corner (15,15)
	got := img.RGBAAt(17, 15)
	if got.B < 200 || got.R > 60 {
		t.Fatalf("outline pixel = %v, want selection blue", got)
	}
	if got := img.RGBAAt(40, 40); got != white {
		t.Fatalf("interior = %v, want white", got)
	}
}

func TestShadowDarkensBelowShapes(t *testing.T) {
	scene := NewScene([]shape.Shape{
		shape.Rectangle{Origin: shape.Pt(10, 10), Width: 10, Height: 10, Fill: &black},
	})
	opts := DefaultOptions()
	opts.Shadow = &ShadowOptions{Radius: 0, Offset: image.Pt(5, 5), Opacity: 1}
	img := Image(scene, 40, 40, opts)
	if got := img.RGBAAt(22, 22); got != black {
		t.Fatalf("shadow pixel = %v, want black", got)
	}
	if got := img.RGBAAt(35, 35); got != white {
		t.Fatalf("background = %v, want white", got)
	}
}

func TestTextDraws(t *testing.T) {
	scene := NewScene([]shape.Shape{
		shape.Text{Anchor: shape.Pt(2, 30), Content: "Wg", FontSize: 24, Color: black},
	})
	img := Image(scene, 60, 40, DefaultOptions())
	dark := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			if img.RGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Fatalf("text left no ink")
	}
}

func TestFaceForSizeCaches(t *testing.T) {
	a, err := FaceForSize(18)
	if err != nil {
		t.Fatalf("FaceForSize: %v", err)
	}
	b, _ := FaceForSize(18.01)
	if a != b {
		t.Errorf("expected cached face for nearby size")
	}
	w, h, base := MeasureText("hello", 18)
	if w <= 0 || h <= 0 || base <= 0 || base > h {
		t.Errorf("MeasureText = %d,%d,%d", w, h, base)
	}
}
