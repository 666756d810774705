package appstate

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/colornames"

	"github.com/example/sketchpad/internal/theme"
)

// PaletteColor is a palette entry with its display name.
type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var (
	paletteMu sync.RWMutex
	palette   = []color.RGBA{
		{0x00, 0x00, 0x00, 0xff},
		{0x6e, 0x6e, 0x6e, 0xff},
		{0xb9, 0x80, 0xff, 0xff},
		{0x9c, 0x27, 0xb0, 0xff},
		{0x29, 0x62, 0xff, 0xff},
		{0x21, 0x96, 0xf3, 0xff},
		{0xff, 0x98, 0x00, 0xff},
		{0xff, 0x57, 0x22, 0xff},
		{0x4c, 0xaf, 0x50, 0xff},
		{0x8b, 0xc3, 0x4a, 0xff},
		{0xff, 0x8a, 0x80, 0xff},
		{0xf4, 0x43, 0x36, 0xff},
	}
	paletteNames = []string{
		"black", "gray", "lavender", "purple",
		"indigo", "blue", "orange", "deep-orange",
		"green", "lime", "salmon", "red",
	}
)

const (
	defaultColorIndex = 0
	defaultWidthIndex = 0
)

var (
	widthsMu    sync.RWMutex
	widths      = []int{2, 4, 6, 8}
	widthLabels = map[int]string{2: "S", 4: "M", 6: "L", 8: "XL"}
)

// DefaultColorIndex returns the default palette index used for drawing tools.
func DefaultColorIndex() int { return defaultColorIndex }

// DefaultWidthIndex returns the default stroke width index used for drawing tools.
func DefaultWidthIndex() int { return defaultWidthIndex }

// Palette returns a copy of the available drawing colors.
func Palette() []color.RGBA {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]color.RGBA, len(palette))
	copy(out, palette)
	return out
}

// PaletteColors returns palette entries annotated with their display names.
func PaletteColors() []PaletteColor {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]PaletteColor, len(palette))
	for i := range palette {
		out[i] = PaletteColor{Name: paletteNames[i], Color: palette[i]}
	}
	return out
}

// EnsurePaletteColor makes sure col is present in the palette and returns its index.
func EnsurePaletteColor(col color.RGBA, name string) int {
	paletteMu.Lock()
	defer paletteMu.Unlock()
	for idx, existing := range palette {
		if existing == col {
			if name != "" && paletteNames[idx] == "" {
				paletteNames[idx] = name
			}
			return idx
		}
	}
	if name == "" {
		name = theme.FormatHex(col)
	}
	palette = append(palette, col)
	paletteNames = append(paletteNames, name)
	return len(palette) - 1
}

// WidthOptions returns a copy of the available stroke widths.
func WidthOptions() []int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	out := make([]int, len(widths))
	copy(out, widths)
	return out
}

// WidthLabel returns the toolbar label for a stroke width.
func WidthLabel(width int) string {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	if l, ok := widthLabels[width]; ok {
		return l
	}
	return fmt.Sprintf("%d", width)
}

// EnsureWidth makes sure width is included in the options and returns its index.
func EnsureWidth(width int) int {
	if width < 1 {
		width = 1
	}
	widthsMu.Lock()
	defer widthsMu.Unlock()
	for idx, existing := range widths {
		if existing == width {
			return idx
		}
	}
	widths = append(widths, width)
	sort.Ints(widths)
	for idx, existing := range widths {
		if existing == width {
			return idx
		}
	}
	return 0
}

// ParseColor accepts a palette name, an X11 color name or a #rgb, #rrggbb or
// #rrggbbaa hex value.
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	for _, entry := range PaletteColors() {
		if entry.Name == spec {
			return entry.Color, nil
		}
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") {
		c, err := theme.ParseHex(spec)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func paletteLen() int {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return len(palette)
}

func paletteColorAt(idx int) color.RGBA {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	if len(palette) == 0 {
		return color.RGBA{}
	}
	return palette[clamp(idx, len(palette))]
}

func clampColorIndex(idx int) int {
	return clamp(idx, paletteLen())
}

func widthsLen() int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	return len(widths)
}

func widthAt(idx int) int {
	widthsMu.RLock()
	defer widthsMu.RUnlock()
	if len(widths) == 0 {
		return 0
	}
	return widths[clamp(idx, len(widths))]
}

func clampWidthIndex(idx int) int {
	return clamp(idx, widthsLen())
}

func clamp(idx, n int) int {
	if n == 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
