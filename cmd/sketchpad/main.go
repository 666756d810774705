package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/example/sketchpad/internal/canvas"
	"github.com/example/sketchpad/internal/config"
	"github.com/example/sketchpad/internal/notify"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs           *flag.FlagSet
	program      string
	notifier     *notify.Notifier
	config       *config.Config
	saveAlerts   bool
	copyAlerts   bool
	noticeAlerts bool
	themeName    string
	activeTheme  *theme.Theme
	stdout       io.Writer
	stderr       io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("sketchpad", flag.ExitOnError),
		program:  "sketchpad",
		notifier: notify.New(prefs, nil),
		config:   cfg,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a drawing")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.noticeAlerts, "notify-notice", cfg.Notify.Notice, "show canvas notices such as \"nothing to undo\" as desktop notifications")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Names(), ", ")+" or a .theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
		r.notifier.Enable(notify.EventNotice, r.noticeAlerts)
	}

	themeName := r.themeName
	if themeName == "" {
		themeName = os.Getenv("SKETCHPAD_THEME")
	}
	if themeName == "" {
		themeName = r.config.Theme
	}
	t, err := r.config.ResolveTheme(themeName, theme.NewLoader())
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", themeName, err)
	}
	r.activeTheme = t

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "session":
		cmd, err = parseSessionCmd(subArgs, r)
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "widths":
		cmd, err = parseWidthsCmd(subArgs, r)
	case "tools":
		cmd, err = parseToolsCmd(subArgs, r)
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// renderOptions returns the drawing options for the active theme.
func (r *root) renderOptions(shadow bool) render.Options {
	o := render.DefaultOptions()
	if r.activeTheme != nil {
		o.Selection = r.activeTheme.Selection
	}
	if shadow {
		so := render.DefaultShadowOptions()
		o.Shadow = &so
	}
	return o
}

// canvasOptions applies the configured canvas settings.
func (r *root) canvasOptions(shadow bool) []canvas.Option {
	opts := []canvas.Option{canvas.WithRenderOptions(r.renderOptions(shadow))}
	if r.activeTheme != nil {
		opts = append(opts, canvas.WithBackground(r.activeTheme.CanvasBackground))
	}
	if cfg := r.config; cfg != nil {
		opts = append(opts,
			canvas.WithHistoryLimit(cfg.HistoryLimit),
			canvas.WithHitThreshold(cfg.HitThreshold),
			canvas.WithTextScale(cfg.TextScale),
		)
	}
	return opts
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail, img)
}

func (r *root) notifyNotice(msg string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Notice(msg)
}

func configOrDefault(r *root) *config.Config {
	if r == nil || r.config == nil {
		return config.New()
	}
	return r.config
}
