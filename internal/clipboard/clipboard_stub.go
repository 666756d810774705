//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

// Package clipboard publishes rendered drawings and shape records to the
// system clipboard.
package clipboard

import (
	"errors"
	"image"

	"github.com/example/sketchpad/internal/shape"
)

// ShapesMIME is the clipboard target that carries shape records.
const ShapesMIME = "application/x-sketchpad+json"

var errUnsupported = errors.New("clipboard is not supported on this platform")

func WriteImage(image.Image) error { return errUnsupported }

func ReadImage() (image.Image, error) { return nil, errUnsupported }

func WriteShapes([]shape.Shape) error { return errUnsupported }

func ReadShapes() ([]shape.Shape, error) { return nil, errUnsupported }
