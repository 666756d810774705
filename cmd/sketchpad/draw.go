package main

import (
	"flag"
	"fmt"
	"math"
	"path/filepath"

	"github.com/example/sketchpad/internal/appstate"
	"github.com/example/sketchpad/internal/canvas"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/shape"
)

// drawCmd opens the drawing window.
type drawCmd struct {
	output    string
	load      string
	toolName  string
	colorSpec string
	width     float64
	fill      bool
	shadow    bool
	canvasW   int
	canvasH   int

	tool     canvas.Tool
	colorIdx int
	widthIdx int
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func defaultOutput(r *root) string {
	if r != nil && r.config != nil && r.config.SaveDir != "" {
		return filepath.Join(r.config.SaveDir, "sketch.png")
	}
	return "sketch.png"
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	cfg := configOrDefault(r)
	fs.StringVar(&d.output, "output", defaultOutput(r), "file written by Ctrl+S (.png, .pdf, .json or .bundle.json)")
	fs.StringVar(&d.load, "load", "", "open shapes from a .json or .bundle.json file")
	fs.StringVar(&d.toolName, "tool", cfg.DefaultTool, "initial tool (select, hand, pen, rectangle, circle, text)")
	fs.StringVar(&d.colorSpec, "color", cfg.DefaultColor, "stroke color name or hex value")
	fs.Float64Var(&d.width, "width", cfg.DefaultWidth, "stroke width in pixels")
	fs.BoolVar(&d.fill, "fill", false, "fill rectangles and circles with the stroke color")
	fs.BoolVar(&d.shadow, "shadow", cfg.Shadow, "draw a drop shadow under shapes")
	fs.IntVar(&d.canvasW, "canvas-width", cfg.CanvasWidth, "drawing area width in pixels")
	fs.IntVar(&d.canvasH, "canvas-height", cfg.CanvasHeight, "drawing area height in pixels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: d}
	}
	if d.canvasW <= 0 || d.canvasH <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", d.canvasW, d.canvasH)
	}
	if d.width <= 0 {
		return nil, fmt.Errorf("width must be positive, got %v", d.width)
	}
	var err error
	if d.tool, err = canvas.ParseTool(d.toolName); err != nil {
		return nil, err
	}
	col, err := appstate.ParseColor(d.colorSpec)
	if err != nil {
		return nil, err
	}
	d.colorIdx = appstate.EnsurePaletteColor(col, "")
	d.widthIdx = appstate.EnsureWidth(int(math.Round(d.width)))
	return d, nil
}

func (d *drawCmd) Run() error {
	var shapes []shape.Shape
	if d.load != "" {
		var err error
		shapes, err = export.LoadFile(d.load)
		if err != nil {
			return fmt.Errorf("load %s: %w", d.load, err)
		}
	}
	canvasOpts := append(d.canvasOptions(d.shadow), canvas.WithTool(d.tool), canvas.WithShapes(shapes))
	st := appstate.New(
		appstate.WithTheme(d.activeTheme),
		appstate.WithOutput(d.output),
		appstate.WithSize(d.canvasW, d.canvasH),
		appstate.WithColorIndex(d.colorIdx),
		appstate.WithWidthIndex(d.widthIdx),
		appstate.WithFill(d.fill),
		appstate.WithExportOptions(export.Options{Width: d.canvasW, Height: d.canvasH, Render: d.renderOptions(d.shadow)}),
		appstate.WithNotifier(d.notifier),
		appstate.WithCanvasOptions(canvasOpts...),
	)
	st.Run()
	return nil
}
