package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/sketchpad/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Copy   bool
	Notice bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string

	HistoryLimit int
	HitThreshold float64
	TextScale    float64
	CanvasWidth  int
	CanvasHeight int
	Shadow       bool

	DefaultTool  string
	DefaultColor string
	DefaultWidth float64

	Notify Notify
	Themes map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:        "", // empty allows fallback to env and the default theme
		HistoryLimit: 20,
		HitThreshold: 10,
		TextScale:    8,
		CanvasWidth:  1280,
		CanvasHeight: 800,
		DefaultTool:  "pen",
		DefaultColor: "#000000",
		DefaultWidth: 2,
		Notify: Notify{
			Save:   false,
			Copy:   false,
			Notice: true,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "history_limit = %d\n", c.HistoryLimit)
	fmt.Fprintf(&sb, "hit_threshold = %g\n", c.HitThreshold)
	fmt.Fprintf(&sb, "text_scale = %g\n", c.TextScale)
	fmt.Fprintf(&sb, "canvas_width = %d\n", c.CanvasWidth)
	fmt.Fprintf(&sb, "canvas_height = %d\n", c.CanvasHeight)
	fmt.Fprintf(&sb, "shadow = %v\n", c.Shadow)
	fmt.Fprintf(&sb, "default_tool = %s\n", c.DefaultTool)
	fmt.Fprintf(&sb, "default_color = %s\n", c.DefaultColor)
	fmt.Fprintf(&sb, "default_width = %g\n", c.DefaultWidth)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "notice = %v\n", c.Notify.Notice)
	sb.WriteString("\n")

	// sorted for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, theme.FormatHex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ResolveTheme picks the theme named by name, falling back to themes defined
// in the config, then the theme loader. An empty name yields the default.
func (c *Config) ResolveTheme(name string, loader *theme.Loader) (*theme.Theme, error) {
	if t, ok := c.Themes[name]; ok {
		return t, nil
	}
	if loader == nil {
		loader = theme.NewLoader()
	}
	t, err := loader.Load(name)
	if err != nil {
		return theme.Default(), err
	}
	return t, nil
}
