//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"reflect"
	"sync"
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/example/sketchpad/internal/shape"
)

type memBackend struct {
	data map[format][]byte
}

func (m *memBackend) write(f format, d []byte) error {
	if m.data == nil {
		m.data = map[format][]byte{}
	}
	m.data[f] = d
	return nil
}

func (m *memBackend) read(f format) ([]byte, error) { return m.data[f], nil }

func useBackend(t *testing.T, b backend) {
	t.Helper()
	initOnce = sync.Once{}
	initOnce.Do(func() {})
	initErr = nil
	active = b
	t.Cleanup(func() {
		initOnce = sync.Once{}
		initErr = nil
		active = nil
	})
}

func TestEnsureInitWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	initOnce = sync.Once{}
	initErr = nil
	t.Cleanup(func() { initOnce = sync.Once{} })

	err := WriteShapes(nil)
	if !errors.Is(err, errNoDisplay) {
		t.Fatalf("expected errNoDisplay, got %v", err)
	}
}

func TestImageRoundTripThroughBackend(t *testing.T) {
	mem := &memBackend{}
	useBackend(t, mem)

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	if err := WriteImage(img); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	got, err := ReadImage()
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v", got.Bounds())
	}
	if r, _, _, _ := got.At(1, 1).RGBA(); r != 0xffff {
		t.Fatalf("pixel lost: %v", got.At(1, 1))
	}
}

func TestShapesRoundTripThroughBackend(t *testing.T) {
	mem := &memBackend{}
	useBackend(t, mem)

	in := []shape.Shape{
		shape.Rectangle{ID: "r", Origin: shape.Pt(1, 2), Width: 29, Height: 38, Stroke: color.RGBA{R: 255, A: 255}, StrokeWidth: 2},
		shape.Text{ID: "t", Anchor: shape.Pt(5, 6), Content: "  two  spaces", FontSize: 16, Color: color.RGBA{A: 255}},
	}
	if err := WriteShapes(in); err != nil {
		t.Fatalf("WriteShapes: %v", err)
	}
	if len(mem.data[formatImage]) != 0 {
		t.Fatalf("shape records leaked into the image slot")
	}
	got, err := ReadShapes()
	if err != nil {
		t.Fatalf("ReadShapes: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("ReadShapes = %#v, want %#v", got, in)
	}
}

func TestReadShapesTrimsNull(t *testing.T) {
	mem := &memBackend{}
	useBackend(t, mem)
	mem.write(formatShapes, []byte("[]\x00"))
	got, err := ReadShapes()
	if err != nil || len(got) != 0 {
		t.Fatalf("ReadShapes = %v, %v", got, err)
	}
	mem.write(formatShapes, []byte("\x00"))
	if _, err := ReadShapes(); err == nil {
		t.Fatalf("expected error for empty clipboard")
	}
	mem.write(formatShapes, []byte("not json"))
	if _, err := ReadShapes(); err == nil {
		t.Fatalf("expected error for text that is not shape records")
	}
	if _, err := ReadImage(); err == nil {
		t.Fatalf("expected error for missing image")
	}
}

func testAtoms() atomSet {
	return atomSet{clipboard: 100, targets: 101, utf8: 102, textPlain: 103, png: 104, shapes: 105, property: 106}
}

func TestShapeOfferAdvertisesRecordTarget(t *testing.T) {
	a := testAtoms()
	data := []byte(`[{"kind":"rect"}]`)
	o := a.offer(formatShapes, data)

	r, ok := o.answer(a, a.targets)
	if !ok || r.typ != xproto.AtomAtom || r.bits != 32 {
		t.Fatalf("TARGETS answer = %+v, %v", r, ok)
	}
	if r.units() != 5 {
		t.Fatalf("TARGETS lists %d atoms, want 5", r.units())
	}
	var listed []xproto.Atom
	for i := 0; i < len(r.payload); i += 4 {
		listed = append(listed, xproto.Atom(xgb.Get32(r.payload[i:])))
	}
	want := []xproto.Atom{a.targets, xproto.AtomString, a.utf8, a.textPlain, a.shapes}
	if !reflect.DeepEqual(listed, want) {
		t.Fatalf("TARGETS = %v, want %v", listed, want)
	}

	for _, target := range []xproto.Atom{a.shapes, a.utf8, xproto.AtomString, a.textPlain} {
		r, ok := o.answer(a, target)
		if !ok || r.bits != 8 || !bytes.Equal(r.payload, data) {
			t.Fatalf("answer(%d) = %+v, %v", target, r, ok)
		}
	}
	if r, _ := o.answer(a, a.textPlain); r.typ != a.utf8 {
		t.Fatalf("text/plain answered as %d, want UTF8_STRING", r.typ)
	}
	if _, ok := o.answer(a, a.png); ok {
		t.Fatalf("png answered for a shape offer")
	}
	if got, ok := o.lookup(a, formatShapes); !ok || !bytes.Equal(got, data) {
		t.Fatalf("lookup = %q, %v", got, ok)
	}
}

func TestImageOfferReplacesNothingElse(t *testing.T) {
	a := testAtoms()
	o := a.offer(formatImage, []byte{0x89, 'P', 'N', 'G'})
	if _, ok := o.lookup(a, formatShapes); ok {
		t.Fatalf("image offer answered a shape lookup")
	}
	if _, ok := o.answer(a, a.utf8); ok {
		t.Fatalf("image offer answered UTF8_STRING")
	}
	if r, ok := o.answer(a, a.png); !ok || r.typ != a.png || r.units() != 4 {
		t.Fatalf("png answer = %+v, %v", r, ok)
	}
	if _, ok := offerSet(nil).answer(a, a.png); ok {
		t.Fatalf("cleared offers still answer")
	}
}
