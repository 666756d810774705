// Package export turns canvas content into files and payloads: JSON shape
// records, PNG and PDF images, and the bundle handed to collaborators.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/shape"
)

// ErrExportFailed reports that an image could not be produced.
var ErrExportFailed = errors.New("export failed")

// Source is anything that can describe its current frame, such as a canvas.
type Source interface {
	Scene() render.Scene
}

// Raster renders src into a new w x h image. Selection and text carets are
// not part of exported images.
func Raster(src Source, w, h int, opts render.Options) (*image.RGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: no canvas", ErrExportFailed)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrExportFailed, w, h)
	}
	return render.Image(exportScene(src.Scene()), w, h, opts), nil
}

func exportScene(s render.Scene) render.Scene {
	s.Selected = -1
	s.Editing = -1
	return s
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return fmt.Errorf("%w: no image", ErrExportFailed)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return nil
}

// Format is an output file type.
type Format string

const (
	FormatPNG    Format = "png"
	FormatPDF    Format = "pdf"
	FormatJSON   Format = "json"
	FormatBundle Format = "bundle"
)

// FormatFromPath picks a format from the file extension. Files ending in
// .bundle.json are bundles.
func FormatFromPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".bundle.json") {
		return FormatBundle, nil
	}
	switch filepath.Ext(lower) {
	case ".png":
		return FormatPNG, nil
	case ".pdf":
		return FormatPDF, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported output %q: use .png, .pdf, .json or .bundle.json", path)
}

// Options control file output.
type Options struct {
	Width, Height int
	Render        render.Options
	// Query is stored in bundles alongside the image.
	Query string
}

// Write renders src in format f to w.
func Write(w io.Writer, f Format, src Source, opts Options) error {
	if src == nil {
		return fmt.Errorf("%w: no canvas", ErrExportFailed)
	}
	switch f {
	case FormatPNG:
		img, err := Raster(src, opts.Width, opts.Height, opts.Render)
		if err != nil {
			return err
		}
		return WritePNG(w, img)
	case FormatPDF:
		return WritePDF(w, exportScene(src.Scene()), opts.Width, opts.Height)
	case FormatJSON:
		return EncodeShapes(w, src.Scene().Shapes)
	case FormatBundle:
		b, err := NewBundle(src, opts)
		if err != nil {
			return err
		}
		return b.Write(w)
	}
	return fmt.Errorf("unknown format %q", f)
}

// SaveFile writes src to path in the format implied by its extension.
func SaveFile(path string, src Source, opts Options) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(out, f, src, opts); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// LoadFile reads shapes back from a JSON records file or a bundle.
func LoadFile(path string) ([]shape.Shape, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if f != FormatJSON && f != FormatBundle {
		return nil, fmt.Errorf("cannot load shapes from %s file %s", f, path)
	}
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	if f == FormatJSON {
		return DecodeShapes(in)
	}
	b, err := ReadBundle(in)
	if err != nil {
		return nil, err
	}
	return FromRecords(b.Shapes)
}
