package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/sketches
history_limit = 50
hit_threshold = 12.5
text_scale = 6
canvas_width = 640
canvas_height = 480
shadow = true
default_tool = square
default_color = "#2962FF"
default_width = 4

[notify]
save = true
copy = false
notice = false

[theme.my_custom_theme]
Background = #111111
Selection = #FF0000
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/sketches" {
		t.Errorf("Expected save_dir '/tmp/sketches', got '%s'", cfg.SaveDir)
	}
	if cfg.HistoryLimit != 50 || cfg.HitThreshold != 12.5 || cfg.TextScale != 6 {
		t.Errorf("canvas settings = %d %v %v", cfg.HistoryLimit, cfg.HitThreshold, cfg.TextScale)
	}
	if cfg.CanvasWidth != 640 || cfg.CanvasHeight != 480 || !cfg.Shadow {
		t.Errorf("surface settings = %dx%d shadow=%v", cfg.CanvasWidth, cfg.CanvasHeight, cfg.Shadow)
	}
	if cfg.DefaultTool != "square" || cfg.DefaultColor != "#2962FF" || cfg.DefaultWidth != 4 {
		t.Errorf("brush defaults = %q %q %v", cfg.DefaultTool, cfg.DefaultColor, cfg.DefaultWidth)
	}
	if !cfg.Notify.Save || cfg.Notify.Copy || cfg.Notify.Notice {
		t.Errorf("notify = %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
	if th.Selection.R != 0xff || th.Selection.B != 0 {
		t.Errorf("Unexpected Selection color: %+v", th.Selection)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"history_limit = many",
		"history_limit = 0",
		"text_scale = -1",
		"[notify]\nsave = maybe",
		"[theme.x]\nSelection = blue",
	}
	for _, in := range tests {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HistoryLimit != 20 || cfg.HitThreshold != 10 || cfg.TextScale != 8 {
		t.Errorf("defaults = %+v", cfg)
	}
	if !cfg.Notify.Notice {
		t.Errorf("notices should be on by default")
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/sketches
history_limit = 5
hit_threshold = 3
default_width = 6

[notify]
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
MessageBackground = #10203040
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.HistoryLimit != cfg2.HistoryLimit || cfg.HitThreshold != cfg2.HitThreshold || cfg.DefaultWidth != cfg2.DefaultWidth {
		t.Errorf("canvas settings mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderSearchPath(t *testing.T) {
	home := t.TempDir()
	l := &Loader{Version: "v1.0.0", Home: home}
	if p := l.GetConfigPath(); p != "" {
		t.Fatalf("unexpected config path %q", p)
	}
	cfg, err := l.Load()
	if err != nil || cfg.HistoryLimit != 20 {
		t.Fatalf("Load without file = %+v, %v", cfg, err)
	}

	dir := filepath.Join(home, ".config", "sketchpad")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	fallback := filepath.Join(dir, "sketchpad.rc")
	if err := os.WriteFile(fallback, []byte("history_limit = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if p := l.GetConfigPath(); p != fallback {
		t.Fatalf("path = %q, want %q", p, fallback)
	}
	primary := l.DefaultSavePath()
	if err := os.WriteFile(primary, []byte("history_limit = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = l.Load()
	if err != nil || cfg.HistoryLimit != 9 {
		t.Fatalf("Load = %+v, %v", cfg, err)
	}

	override := filepath.Join(t.TempDir(), "override.rc")
	if err := os.WriteFile(override, []byte("history_limit = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l.OverridePath = override
	if p := l.GetConfigPath(); p != override {
		t.Fatalf("override ignored, got %q", p)
	}
}

func TestResolveTheme(t *testing.T) {
	cfg, err := Parse(strings.NewReader("[theme.mine]\nSelection = #00ff00\n"))
	if err != nil {
		t.Fatal(err)
	}
	th, err := cfg.ResolveTheme("mine", nil)
	if err != nil || th.Name != "mine" {
		t.Fatalf("ResolveTheme(mine) = %+v, %v", th, err)
	}
	th, err = cfg.ResolveTheme("dark", nil)
	if err != nil || th.Name != "Dark" {
		t.Fatalf("ResolveTheme(dark) = %+v, %v", th, err)
	}
	if _, err := cfg.ResolveTheme("nope", nil); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}
