package render

import (
	"fmt"
	"log"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultFontSize is used for non-positive sizes.
const DefaultFontSize = 16.0

var (
	fontOnce sync.Once
	regular  *opentype.Font
	fontErr  error

	faces sync.Map // map[float64]font.Face
)

func loadFont() {
	regular, fontErr = opentype.Parse(goregular.TTF)
	if fontErr != nil {
		log.Printf("render: parse goregular: %v", fontErr)
	}
}

// FaceForSize returns a Go Regular face for size, cached by size rounded to a
// tenth of a point.
func FaceForSize(size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	size = math.Round(size*10) / 10
	if f, ok := faces.Load(size); ok {
		return f.(font.Face), nil
	}
	fontOnce.Do(loadFont)
	if regular == nil {
		return nil, fmt.Errorf("text font not initialised: %w", fontErr)
	}
	face, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("face %.1fpt: %w", size, err)
	}
	actual, _ := faces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// faceOrFallback never fails; it drops to the fixed 7x13 face.
func faceOrFallback(size float64) font.Face {
	f, err := FaceForSize(size)
	if err != nil {
		return basicfont.Face7x13
	}
	return f
}

// MeasureText returns the width and height of text at size, and the baseline
// offset from the top of that box.
func MeasureText(text string, size float64) (width, height, baseline int) {
	face := faceOrFallback(size)
	d := &font.Drawer{Face: face}
	width = d.MeasureString(text).Ceil()
	m := face.Metrics()
	baseline = m.Ascent.Ceil()
	height = baseline + m.Descent.Ceil()
	return
}
