package theme

import (
	"image/color"
)

// Theme defines the colours of the window chrome and the drawing surface.
type Theme struct {
	Name string

	// General
	Background color.RGBA // window background behind the canvas
	Foreground color.RGBA // status and shortcut text

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Canvas
	CanvasBackground  color.RGBA
	Selection         color.RGBA
	MessageBackground color.RGBA
	MessageText       color.RGBA
}

// Default returns the built in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CanvasBackground:      color.RGBA{255, 255, 255, 255},
		Selection:             color.RGBA{0x00, 0x88, 0xff, 255},
		MessageBackground:     color.RGBA{0, 0, 0, 200},
		MessageText:           color.RGBA{255, 255, 255, 255},
	}
}
