package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/example/sketchpad/internal/appstate"
	"github.com/example/sketchpad/internal/canvas"
	"github.com/example/sketchpad/internal/clipboard"
	"github.com/example/sketchpad/internal/export"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/shape"
)

// board is the canvas surface a session drives.
type board interface {
	canvas.Actions
	Scene() render.Scene
}

type commandList []string

func (c *commandList) String() string { return strings.Join(*c, "; ") }

func (c *commandList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

// sessionCmd drives a canvas from text commands, one per line.
type sessionCmd struct {
	execs       commandList
	script      string
	quiet       bool
	load        string
	shadow      bool
	width       int
	height      int
	toolName    string
	colorSpec   string
	strokeWidth float64

	in io.Reader
	*root
	fs *flag.FlagSet
}

func (c *sessionCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseSessionCmd(args []string, r *root) (*sessionCmd, error) {
	fs := flag.NewFlagSet("session", flag.ExitOnError)
	c := &sessionCmd{root: r, fs: fs, in: os.Stdin}
	fs.Usage = usageFunc(c)
	cfg := configOrDefault(r)
	fs.Var(&c.execs, "e", "execute a command (may be specified multiple times)")
	fs.StringVar(&c.script, "script", "", "read commands from a file instead of stdin")
	fs.BoolVar(&c.quiet, "q", false, "do not print the prompt")
	fs.StringVar(&c.load, "load", "", "start from shapes in a .json or .bundle.json file")
	fs.BoolVar(&c.shadow, "shadow", cfg.Shadow, "draw a drop shadow in saved images")
	fs.IntVar(&c.width, "canvas-width", cfg.CanvasWidth, "width of saved and copied images")
	fs.IntVar(&c.height, "canvas-height", cfg.CanvasHeight, "height of saved and copied images")
	fs.StringVar(&c.toolName, "tool", cfg.DefaultTool, "initial tool")
	fs.StringVar(&c.colorSpec, "color", cfg.DefaultColor, "initial stroke color")
	fs.Float64Var(&c.strokeWidth, "width", cfg.DefaultWidth, "initial stroke width")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if len(c.execs) > 0 && c.script != "" {
		return nil, fmt.Errorf("-e and -script cannot be combined")
	}
	return c, nil
}

func (c *sessionCmd) Run() error {
	tool, err := canvas.ParseTool(c.toolName)
	if err != nil {
		return err
	}
	brush := canvas.DefaultBrush()
	if brush.Color, err = appstate.ParseColor(c.colorSpec); err != nil {
		return err
	}
	if c.strokeWidth > 0 {
		brush.Width = c.strokeWidth
	}
	var shapes []shape.Shape
	if c.load != "" {
		if shapes, err = export.LoadFile(c.load); err != nil {
			return fmt.Errorf("load %s: %w", c.load, err)
		}
	}

	exp := export.Options{Width: c.width, Height: c.height, Render: c.renderOptions(c.shadow)}
	opts := append(c.canvasOptions(c.shadow), canvas.WithTool(tool), canvas.WithShapes(shapes))
	s := newSession(c.root, c.stdout, exp, opts...)
	s.brush = brush

	if len(c.execs) > 0 {
		for _, line := range c.execs {
			done, err := s.exec(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	in := c.in
	prompt := !c.quiet
	if c.script != "" {
		f, err := os.Open(c.script)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
		prompt = false
	}
	return s.repl(in, c.stderr, prompt)
}

type session struct {
	board  board
	brush  canvas.Brush
	export export.Options
	out    io.Writer
	r      *root
}

func newSession(r *root, out io.Writer, exp export.Options, opts ...canvas.Option) *session {
	s := &session{brush: canvas.DefaultBrush(), export: exp, out: out, r: r}
	s.board = canvas.New(append(opts, canvas.WithNoticeHandler(s.notice))...)
	return s
}

func (s *session) notice(n canvas.Notice) {
	fmt.Fprintf(s.out, "notice: %s\n", n)
	if !n.Quiet() {
		s.r.notifyNotice(n.String())
	}
}

// repl runs commands from in until it is exhausted or a command ends the
// session. Command errors are reported and do not stop the loop.
func (s *session) repl(in io.Reader, errOut io.Writer, prompt bool) error {
	if prompt {
		fmt.Fprintln(s.out, "Enter commands (type 'help' for a list, 'exit' to quit)")
	}
	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(s.out, "> ")
		}
		if !scanner.Scan() {
			break
		}
		done, err := s.exec(scanner.Text())
		if err != nil {
			fmt.Fprintln(errOut, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

var errNotEditing = errors.New("no text is being edited")

const sessionHelp = `commands:
  tool <name>             select, hand, pen, rectangle, circle or text
  color <spec>            stroke color name or hex value
  width <px>              stroke width
  fill <on|off|color>     fill rectangles and circles
  down <x> <y>            pointer down at a surface position
  move <x> <y>            pointer move
  up | cancel             end the gesture
  drag <x0> <y0> <x1> <y1>
  dbl <x> <y>             double click, edits text under the select tool
  type <text>             append to the text being edited
  backspace               delete the last character being edited
  edit <index> <text>     replace the content of a text shape
  commit                  finish the text edit
  undo | redo | clear
  hit <x> <y>             report the topmost shape at a canvas position
  select <index|none>
  list | status
  load <file> | save <file>
  copy                    copy the drawing to the clipboard as an image
  copy-shapes | paste-shapes
  exit`

// exec runs a single command line. It reports true when the session should
// end.
func (s *session) exec(line string) (bool, error) {
	// raw keeps the spacing of typed text, minus the one separating space
	_, raw, _ := strings.Cut(strings.TrimLeft(line, " \t"), " ")
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)
	b := s.board

	switch strings.ToLower(name) {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintln(s.out, sessionHelp)
	case "tool":
		t, err := canvas.ParseTool(rest)
		if err != nil {
			return false, err
		}
		b.SetTool(t)
	case "color":
		c, err := appstate.ParseColor(rest)
		if err != nil {
			return false, err
		}
		s.brush.Color = c
	case "width":
		w, err := strconv.ParseFloat(rest, 64)
		if err != nil || w <= 0 {
			return false, fmt.Errorf("width must be a positive number, got %q", rest)
		}
		s.brush.Width = w
	case "fill":
		switch strings.ToLower(rest) {
		case "off", "none", "":
			s.brush.Fill = nil
		case "on":
			f := s.brush.Color
			s.brush.Fill = &f
		default:
			c, err := appstate.ParseColor(rest)
			if err != nil {
				return false, err
			}
			s.brush.Fill = &c
		}
	case "down":
		p, err := parsePoints(args, 1)
		if err != nil {
			return false, err
		}
		b.PointerDown(p[0], b.Tool(), s.brush)
	case "move":
		p, err := parsePoints(args, 1)
		if err != nil {
			return false, err
		}
		b.PointerMove(p[0])
	case "up":
		b.PointerUp()
	case "cancel":
		b.PointerCancel()
	case "drag":
		p, err := parsePoints(args, 2)
		if err != nil {
			return false, err
		}
		b.PointerDown(p[0], b.Tool(), s.brush)
		b.PointerMove(p[1])
		b.PointerUp()
	case "dbl":
		p, err := parsePoints(args, 1)
		if err != nil {
			return false, err
		}
		if b.DoubleClick(p[0]) {
			i, _ := b.Editing()
			fmt.Fprintf(s.out, "editing %d\n", i)
			return false, nil
		}
		b.PointerDown(p[0], b.Tool(), s.brush)
		b.PointerUp()
	case "type":
		i, ok := b.Editing()
		if !ok {
			return false, errNotEditing
		}
		b.EditText(i, b.EditingText()+raw)
	case "backspace":
		i, ok := b.Editing()
		if !ok {
			return false, errNotEditing
		}
		text := b.EditingText()
		_, size := utf8.DecodeLastRuneInString(text)
		b.EditText(i, text[:len(text)-size])
	case "edit":
		idxStr, text, _ := strings.Cut(strings.TrimLeft(raw, " "), " ")
		i, err := strconv.Atoi(idxStr)
		if err != nil {
			return false, fmt.Errorf("edit requires a shape index, got %q", idxStr)
		}
		b.EditText(i, text)
	case "commit":
		if i, ok := b.Editing(); ok {
			b.CommitTextEdit(i)
		}
	case "undo":
		b.Undo()
	case "redo":
		b.Redo()
	case "clear":
		b.Clear()
	case "hit":
		p, err := parsePoints(args, 1)
		if err != nil {
			return false, err
		}
		if i, ok := b.HitTest(p[0]); ok {
			fmt.Fprintf(s.out, "hit %d\n", i)
		} else {
			fmt.Fprintln(s.out, "hit none")
		}
	case "select":
		if strings.EqualFold(rest, "none") {
			b.Select(-1)
			break
		}
		i, err := strconv.Atoi(rest)
		if err != nil {
			return false, fmt.Errorf("select requires an index or none, got %q", rest)
		}
		b.Select(i)
	case "list":
		for i, sh := range b.Shapes() {
			r := sh.Bounds()
			fmt.Fprintf(s.out, "%d %s %s %.0f,%.0f %.0fx%.0f\n", i, sh.Kind(), sh.Identity(), r.Min.X, r.Min.Y, r.Dx(), r.Dy())
		}
	case "status":
		st := b.Status()
		fmt.Fprintf(s.out, "tool=%s shapes=%d selected=%d editing=%d offset=%.0f,%.0f undo=%d redo=%d\n",
			st.Tool, st.Shapes, st.Selected, st.Editing, st.Offset.X, st.Offset.Y, st.UndoDepth, st.RedoDepth)
	case "load":
		shapes, err := export.LoadFile(rest)
		if err != nil {
			return false, err
		}
		b.Load(shapes)
	case "save":
		if rest == "" {
			return false, fmt.Errorf("save requires a file name")
		}
		if err := export.SaveFile(rest, b, s.export); err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "saved %s\n", rest)
		s.r.notifySave(rest)
	case "copy":
		img, err := export.Raster(b, s.export.Width, s.export.Height, s.export.Render)
		if err != nil {
			return false, err
		}
		if err := clipboard.WriteImage(img); err != nil {
			return false, fmt.Errorf("copy: %w", err)
		}
		fmt.Fprintln(s.out, "copied drawing")
		s.r.notifyCopy("drawing", img)
	case "copy-shapes":
		if err := clipboard.WriteShapes(b.Shapes()); err != nil {
			return false, fmt.Errorf("copy shapes: %w", err)
		}
		fmt.Fprintln(s.out, "copied shapes")
		s.r.notifyCopy("shapes", nil)
	case "paste-shapes":
		shapes, err := clipboard.ReadShapes()
		if err != nil {
			return false, fmt.Errorf("paste shapes: %w", err)
		}
		b.Load(shapes)
	default:
		return false, fmt.Errorf("unknown command %q, try help", name)
	}
	return false, nil
}

// parsePoints reads n x,y pairs.
func parsePoints(args []string, n int) ([]shape.Point, error) {
	if len(args) != 2*n {
		return nil, fmt.Errorf("expected %d coordinates, got %d", 2*n, len(args))
	}
	out := make([]shape.Point, n)
	for i := range out {
		x, err := strconv.ParseFloat(args[2*i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", args[2*i])
		}
		y, err := strconv.ParseFloat(args[2*i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", args[2*i+1])
		}
		out[i] = shape.Pt(x, y)
	}
	return out, nil
}
