package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/example/sketchpad/internal/appstate"
	"github.com/example/sketchpad/internal/canvas"
	"github.com/example/sketchpad/internal/theme"
)

// listCmd prints one of the fixed option lists.
type listCmd struct {
	name     string
	template string
	run      func(c *listCmd) error
	*root
	fs *flag.FlagSet
}

func parseListCmd(name string, args []string, r *root, run func(c *listCmd) error) (*listCmd, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cmd := &listCmd{name: name, template: name + ".txt", run: run, root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *listCmd) Run() error { return c.run(c) }

func (c *listCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *listCmd) Template() string {
	return c.template
}

func parseColorsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("colors", args, r, func(c *listCmd) error {
		palette := appstate.PaletteColors()
		fmt.Fprintln(c.stdout, "available palette colors (* marks the default color):")
		defaultIdx := appstate.DefaultColorIndex()
		for idx, entry := range palette {
			marker := " "
			if idx == defaultIdx {
				marker = "*"
			}
			block := fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", entry.Color.R, entry.Color.G, entry.Color.B)
			fmt.Fprintf(c.stdout, "%s %2d: %-12s %s %s\n", marker, idx, entry.Name, theme.FormatHex(entry.Color), block)
		}
		return nil
	})
}

func parseWidthsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("widths", args, r, func(c *listCmd) error {
		fmt.Fprintln(c.stdout, "available stroke widths (* marks the default width):")
		defaultIdx := appstate.DefaultWidthIndex()
		for idx, width := range appstate.WidthOptions() {
			marker := " "
			if idx == defaultIdx {
				marker = "*"
			}
			fmt.Fprintf(c.stdout, "%s %-2s %3dpx\n", marker, appstate.WidthLabel(width), width)
		}
		return nil
	})
}

func parseToolsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("tools", args, r, func(c *listCmd) error {
		for _, t := range canvas.Tools() {
			fmt.Fprintln(c.stdout, t)
		}
		return nil
	})
}

func parseThemesCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("themes", args, r, func(c *listCmd) error {
		active := ""
		if c.activeTheme != nil {
			active = c.activeTheme.Name
		}
		for _, name := range theme.Names() {
			marker := " "
			if name == active {
				marker = "*"
			}
			fmt.Fprintf(c.stdout, "%s %s\n", marker, name)
		}
		var custom []string
		for name := range configOrDefault(c.root).Themes {
			custom = append(custom, name)
		}
		sort.Strings(custom)
		for _, name := range custom {
			marker := " "
			if name == active {
				marker = "*"
			}
			fmt.Fprintf(c.stdout, "%s %s (config)\n", marker, name)
		}
		return nil
	})
}
