package main

import (
	"flag"
	"fmt"
	"math"

	"github.com/example/sketchpad/internal/canvas"
	"github.com/example/sketchpad/internal/clipboard"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/shape"
)

// renderCmd converts saved shapes into an image, PDF or bundle without
// opening a window.
type renderCmd struct {
	input         string
	output        string
	fromClipboard bool
	toClipboard   bool
	width         int
	height        int
	shadow        bool
	query         string
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	cfg := configOrDefault(r)
	fs.StringVar(&c.input, "input", "", "shapes file (.json or .bundle.json)")
	fs.StringVar(&c.output, "output", "", "output file (.png, .pdf, .json or .bundle.json)")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "read shape records from the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the rendered image to the clipboard")
	fs.IntVar(&c.width, "width", cfg.CanvasWidth, "image width in pixels (0 fits the drawing)")
	fs.IntVar(&c.height, "height", cfg.CanvasHeight, "image height in pixels (0 fits the drawing)")
	fs.BoolVar(&c.shadow, "shadow", cfg.Shadow, "draw a drop shadow under shapes")
	fs.StringVar(&c.query, "query", "", "text stored in bundles alongside the image")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.input == "" && !c.fromClipboard {
		return nil, fmt.Errorf("an -input file or -from-clipboard is required")
	}
	if c.input != "" && c.fromClipboard {
		return nil, fmt.Errorf("-input and -from-clipboard cannot be combined")
	}
	if c.output == "" && !c.toClipboard {
		return nil, fmt.Errorf("an -output file or -to-clipboard is required")
	}
	if c.output != "" {
		if _, err := export.FormatFromPath(c.output); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *renderCmd) readShapes() ([]shape.Shape, error) {
	if !c.fromClipboard {
		return export.LoadFile(c.input)
	}
	shapes, err := clipboard.ReadShapes()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	return shapes, nil
}

// fitMargin is the padding kept around a drawing when sizing to fit.
const fitMargin = 10

// fit replaces a zero or negative size with one that covers every shape.
func (c *renderCmd) fit(shapes []shape.Shape) {
	if c.width > 0 && c.height > 0 {
		return
	}
	b, _ := shape.BoundsOf(shapes)
	if c.width <= 0 {
		c.width = max(int(math.Ceil(b.Max.X))+fitMargin, 1)
	}
	if c.height <= 0 {
		c.height = max(int(math.Ceil(b.Max.Y))+fitMargin, 1)
	}
}

func (c *renderCmd) Run() error {
	shapes, err := c.readShapes()
	if err != nil {
		return err
	}
	c.fit(shapes)
	board := canvas.New(append(c.canvasOptions(c.shadow), canvas.WithShapes(shapes))...)
	opts := export.Options{Width: c.width, Height: c.height, Render: c.renderOptions(c.shadow), Query: c.query}

	if c.output != "" {
		if err := export.SaveFile(c.output, board, opts); err != nil {
			return fmt.Errorf("render %s: %w", c.output, err)
		}
		fmt.Fprintf(c.stdout, "wrote %s\n", c.output)
		c.notifySave(c.output)
	}
	if c.toClipboard {
		img, err := export.Raster(board, c.width, c.height, opts.Render)
		if err != nil {
			return err
		}
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
		c.notifyCopy("drawing", img)
	}
	return nil
}
