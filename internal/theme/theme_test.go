package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#0088ff", color.RGBA{0x00, 0x88, 0xff, 0xff}},
		{"#f00", color.RGBA{0xff, 0, 0, 0xff}},
		{"#11223344", color.RGBA{0x11, 0x22, 0x33, 0x44}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Fatalf("ParseHex(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if back, _ := ParseHex(FormatHex(got)); back != got {
			t.Errorf("FormatHex(%v) = %q does not parse back", got, FormatHex(got))
		}
	}
	for _, bad := range []string{"0088ff", "#12345", "#zzzzzz"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) should fail", bad)
		}
	}
}

func TestParseThemeFile(t *testing.T) {
	src := `
# comment
Name: Custom
canvasbackground: #101010
Selection: #ff0000
Unknown: #ffffff
`
	th, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Custom" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.CanvasBackground != (color.RGBA{0x10, 0x10, 0x10, 0xff}) {
		t.Errorf("CanvasBackground = %v", th.CanvasBackground)
	}
	if th.Selection != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("Selection = %v", th.Selection)
	}
	if th.Foreground != Default().Foreground {
		t.Errorf("missing keys should keep defaults")
	}
	if _, err := Parse(strings.NewReader("Selection: blue")); err == nil {
		t.Errorf("expected error for a non-hex colour")
	}
}

func TestLoaderEmbeddedAndFiles(t *testing.T) {
	dir := t.TempDir()
	l := &Loader{ConfigDir: dir}

	dark, err := l.Load("dark")
	if err != nil {
		t.Fatalf("Load(dark): %v", err)
	}
	if dark.Name != "Dark" {
		t.Errorf("Name = %q", dark.Name)
	}

	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mine, err := l.Load("mine")
	if err != nil || mine.Name != "Mine" {
		t.Fatalf("Load(mine) = %v, %v", mine, err)
	}

	if _, err := l.Load("missing"); err == nil {
		t.Errorf("expected not found error")
	}
	if th, err := l.Load(""); err != nil || th.Name != "Default" {
		t.Errorf("empty name should give the default theme")
	}
}

func TestNamesListsEmbedded(t *testing.T) {
	names := Names()
	if len(names) != 2 || names[0] != "dark" || names[1] != "light" {
		t.Fatalf("Names = %v", names)
	}
	if len(Default().Fields()) != 12 {
		t.Errorf("Fields = %d, want 12", len(Default().Fields()))
	}
}
