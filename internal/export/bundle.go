package export

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Bundle is the payload handed to a collaborator: the rendered image as a
// PNG data URL plus the shape records it was drawn from.
type Bundle struct {
	Image     string    `json:"image"`
	Shapes    []Record  `json:"shapes"`
	Query     string    `json:"query,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const pngDataURLPrefix = "data:image/png;base64,"

// now is replaced in tests.
var now = time.Now

// NewBundle renders src and packs it with its shapes.
func NewBundle(src Source, opts Options) (*Bundle, error) {
	img, err := Raster(src, opts.Width, opts.Height, opts.Render)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		return nil, err
	}
	return &Bundle{
		Image:     pngDataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Shapes:    ToRecords(src.Scene().Shapes),
		Query:     opts.Query,
		Timestamp: now().UTC(),
	}, nil
}

// PNG decodes the image data URL.
func (b *Bundle) PNG() ([]byte, error) {
	if len(b.Image) < len(pngDataURLPrefix) || b.Image[:len(pngDataURLPrefix)] != pngDataURLPrefix {
		return nil, fmt.Errorf("bundle image is not a png data url")
	}
	return base64.StdEncoding.DecodeString(b.Image[len(pngDataURLPrefix):])
}

// Write encodes the bundle as JSON.
func (b *Bundle) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	return nil
}

// ReadBundle decodes a bundle written by Write.
func ReadBundle(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	return &b, nil
}
