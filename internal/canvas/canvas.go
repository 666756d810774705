// Package canvas holds the interactive shape model behind the drawing surface:
// the ordered shape list, the active tool and gesture, selection, the pan
// offset and bounded undo/redo.
//
// Pointer positions handed to the canvas are surface coordinates. The canvas
// subtracts the pan offset itself, except for the hand tool which works on
// raw positions. HitTest takes canvas-local points.
//
// A Canvas is not safe for concurrent use; it belongs to one event loop.
package canvas

import (
	"image"
	"image/color"
	"strings"

	"github.com/google/uuid"

	"github.com/example/sketchpad/internal/history"
	"github.com/example/sketchpad/internal/render"
	"github.com/example/sketchpad/internal/shape"
)

// DefaultTextScale multiplies the brush width to get a new text's font size.
const DefaultTextScale = 8.0

type gesture int

const (
	gestureNone gesture = iota
	gestureDrag
	gesturePan
	gestureDraw
)

// Canvas is the shape model. Create it with New.
type Canvas struct {
	shapes   []shape.Shape
	selected int
	editing  int
	offset   shape.Point
	tool     Tool
	history  *history.History

	gesture gesture
	anchor  shape.Point
	last    shape.Point
	moved   bool

	hitThreshold float64
	textScale    float64
	background   color.Color
	renderOpts   render.Options
	notify       func(Notice)
	newID        func() string
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithHistoryLimit bounds the undo and redo stacks. Values <= 0 use the
// default of 20.
func WithHistoryLimit(n int) Option {
	return func(c *Canvas) { c.history = history.New(n) }
}

// WithHitThreshold sets how close to a path vertex a point must be to hit it.
func WithHitThreshold(d float64) Option {
	return func(c *Canvas) {
		if d > 0 {
			c.hitThreshold = d
		}
	}
}

// WithTextScale sets the brush width multiplier for new text.
func WithTextScale(s float64) Option {
	return func(c *Canvas) {
		if s > 0 {
			c.textScale = s
		}
	}
}

// WithNoticeHandler receives user-facing notices.
func WithNoticeHandler(fn func(Notice)) Option {
	return func(c *Canvas) { c.notify = fn }
}

// WithTool sets the initial tool.
func WithTool(t Tool) Option {
	return func(c *Canvas) { c.tool = t }
}

// WithShapes seeds the canvas without recording history.
func WithShapes(shapes []shape.Shape) Option {
	return func(c *Canvas) { c.shapes = shape.CloneAll(shapes) }
}

// WithBackground sets the colour Render clears to.
func WithBackground(bg color.Color) Option {
	return func(c *Canvas) { c.background = bg }
}

// WithRenderOptions sets the selection styling and shadow used by Render.
func WithRenderOptions(o render.Options) Option {
	return func(c *Canvas) { c.renderOpts = o }
}

// WithIDGenerator replaces the uuid based shape ID source.
func WithIDGenerator(fn func() string) Option {
	return func(c *Canvas) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New creates an empty canvas with the select tool active.
func New(opts ...Option) *Canvas {
	c := &Canvas{
		selected:     -1,
		editing:      -1,
		history:      history.New(history.DefaultLimit),
		hitThreshold: shape.PathHitThreshold,
		textScale:    DefaultTextScale,
		background:   color.White,
		renderOpts:   render.DefaultOptions(),
		newID:        uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Canvas) emit(n Notice) {
	if c.notify != nil {
		c.notify(n)
	}
}

// commit records the current list before a mutation.
func (c *Canvas) commit() {
	c.history.Push(c.shapes)
}

func (c *Canvas) valid(i int) bool { return i >= 0 && i < len(c.shapes) }

func (c *Canvas) local(pos shape.Point) shape.Point { return pos.Sub(c.offset) }

// SetTool changes the active tool. Shapes are untouched.
func (c *Canvas) SetTool(t Tool) { c.tool = t }

// Tool returns the active tool.
func (c *Canvas) Tool() Tool { return c.tool }

// PointerDown starts a gesture for tool at the surface position pos.
// An open text edit is committed first.
func (c *Canvas) PointerDown(pos shape.Point, tool Tool, brush Brush) {
	if c.editing >= 0 {
		c.CommitTextEdit(c.editing)
	}
	c.tool = tool
	c.gesture = gestureNone
	c.moved = false
	p := c.local(pos)

	switch tool {
	case ToolSelect:
		idx, ok := c.HitTest(p)
		if !ok {
			c.selected = -1
			c.emit(NoticeNoHit)
			return
		}
		c.selected = idx
		c.gesture = gestureDrag
		c.last = p
	case ToolHand:
		c.gesture = gesturePan
		c.anchor = pos
	case ToolPen:
		c.commit()
		c.shapes = append(c.shapes, shape.Path{
			ID:     c.newID(),
			Points: []shape.Point{p},
			Stroke: brush.Color,
			Width:  brush.Width,
		})
		c.startDraw(p)
	case ToolRectangle:
		c.commit()
		c.shapes = append(c.shapes, shape.Rectangle{
			ID:          c.newID(),
			Origin:      p,
			Stroke:      brush.Color,
			StrokeWidth: brush.Width,
			Fill:        fillOf(brush),
		})
		c.startDraw(p)
	case ToolCircle:
		c.commit()
		c.shapes = append(c.shapes, shape.Circle{
			ID:          c.newID(),
			Origin:      p,
			Stroke:      brush.Color,
			StrokeWidth: brush.Width,
			Fill:        fillOf(brush),
		})
		c.startDraw(p)
	case ToolText:
		c.commit()
		c.shapes = append(c.shapes, shape.Text{
			ID:       c.newID(),
			Anchor:   p,
			FontSize: c.fontSize(brush.Width),
			Color:    brush.Color,
		})
		c.editing = len(c.shapes) - 1
	}
}

func fillOf(b Brush) *color.RGBA {
	if b.Fill == nil {
		return nil
	}
	f := *b.Fill
	return &f
}

func (c *Canvas) fontSize(width float64) float64 {
	if width <= 0 {
		width = DefaultBrush().Width
	}
	return width * c.textScale
}

func (c *Canvas) startDraw(p shape.Point) {
	c.gesture = gestureDraw
	c.anchor = p
	c.last = p
}

// DoubleClick enters text-edit mode when the select tool is active and pos
// hits a text shape. It reports whether editing started; callers fall back to
// PointerDown otherwise.
func (c *Canvas) DoubleClick(pos shape.Point) bool {
	if c.tool != ToolSelect {
		return false
	}
	idx, ok := c.HitTest(c.local(pos))
	if !ok {
		return false
	}
	if _, isText := c.shapes[idx].(shape.Text); !isText {
		return false
	}
	if c.editing >= 0 && c.editing != idx {
		id := c.shapes[idx].Identity()
		c.CommitTextEdit(c.editing)
		// committing may have removed an earlier empty text
		if idx = c.indexOf(id); idx < 0 {
			return false
		}
	}
	c.gesture = gestureNone
	c.selected = idx
	c.editing = idx
	return true
}

// PointerMove continues the active gesture.
func (c *Canvas) PointerMove(pos shape.Point) {
	switch c.gesture {
	case gestureDrag:
		if !c.valid(c.selected) {
			return
		}
		p := c.local(pos)
		d := p.Sub(c.last)
		if d == (shape.Point{}) {
			return
		}
		if !c.moved {
			c.commit()
			c.moved = true
		}
		c.shapes[c.selected] = c.shapes[c.selected].Translate(d)
		c.last = p
	case gesturePan:
		c.offset = c.offset.Add(pos.Sub(c.anchor))
		c.anchor = pos
	case gestureDraw:
		c.grow(c.local(pos))
	}
}

// grow updates the shape being drawn, always the last one.
func (c *Canvas) grow(p shape.Point) {
	last := len(c.shapes) - 1
	if last < 0 {
		return
	}
	switch s := c.shapes[last].(type) {
	case shape.Path:
		s.Points = append(s.Points, p)
		c.shapes[last] = s
	case shape.Rectangle:
		s.Origin, s.Width, s.Height = shape.NormalizedRect(c.anchor, p)
		c.shapes[last] = s
	case shape.Circle:
		r := c.anchor.Dist(p)
		s.Radius = r
		s.Origin = shape.Pt(c.anchor.X-r, c.anchor.Y-r)
		c.shapes[last] = s
	}
	c.last = p
}

// PointerUp ends the active gesture.
func (c *Canvas) PointerUp() {
	c.gesture = gestureNone
	c.moved = false
}

// PointerCancel is treated like PointerUp.
func (c *Canvas) PointerCancel() { c.PointerUp() }

// Undo restores the previous snapshot. It reports false and emits
// NoticeNothingToUndo when there is none.
func (c *Canvas) Undo() bool {
	prev, ok := c.history.Undo(c.shapes)
	if !ok {
		c.emit(NoticeNothingToUndo)
		return false
	}
	c.restore(prev)
	return true
}

// Redo reapplies the most recently undone snapshot.
func (c *Canvas) Redo() bool {
	next, ok := c.history.Redo(c.shapes)
	if !ok {
		c.emit(NoticeNothingToRedo)
		return false
	}
	c.restore(next)
	return true
}

// restore swaps in a snapshot and keeps the selection on the same shape when
// it still exists. Text that was still empty when the snapshot was taken is
// dropped, since nothing is editing it anymore.
func (c *Canvas) restore(shapes []shape.Shape) {
	var selID string
	if c.valid(c.selected) {
		selID = c.shapes[c.selected].Identity()
	}
	c.shapes = dropEmptyText(shapes)
	c.selected = -1
	if selID != "" {
		c.selected = c.indexOf(selID)
	}
	c.editing = -1
	c.gesture = gestureNone
	c.moved = false
}

func dropEmptyText(shapes []shape.Shape) []shape.Shape {
	out := make([]shape.Shape, 0, len(shapes))
	for _, s := range shapes {
		if t, ok := s.(shape.Text); ok && strings.TrimSpace(t.Content) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (c *Canvas) indexOf(id string) int {
	for i, s := range c.shapes {
		if s.Identity() == id {
			return i
		}
	}
	return -1
}

// Clear removes every shape and resets the pan offset. Clearing an empty
// canvas emits NoticeAlreadyEmpty and records nothing.
func (c *Canvas) Clear() bool {
	if c.Len() == 0 {
		c.emit(NoticeAlreadyEmpty)
		return false
	}
	c.commit()
	c.shapes = []shape.Shape{}
	c.selected = -1
	c.editing = -1
	c.offset = shape.Point{}
	c.gesture = gestureNone
	c.emit(NoticeCleared)
	return true
}

// HitTest returns the topmost shape containing the canvas-local point p.
func (c *Canvas) HitTest(p shape.Point) (int, bool) {
	return shape.HitTest(c.shapes, p, c.hitThreshold)
}

// Select sets the selection. Negative indices clear it and other invalid
// indices are ignored.
func (c *Canvas) Select(i int) {
	switch {
	case i < 0:
		c.selected = -1
	case c.valid(i):
		c.selected = i
	}
}

// EditText replaces the content of the text shape at i.
func (c *Canvas) EditText(i int, content string) {
	if !c.valid(i) {
		return
	}
	t, ok := c.shapes[i].(shape.Text)
	if !ok {
		return
	}
	t.Content = content
	c.shapes[i] = t
}

// CommitTextEdit ends editing of the text shape at i. Text that is empty or
// only whitespace is removed without a further snapshot, so a single undo
// still returns to the list before the text was placed.
func (c *Canvas) CommitTextEdit(i int) {
	if c.editing == i {
		c.editing = -1
	}
	if !c.valid(i) {
		return
	}
	t, ok := c.shapes[i].(shape.Text)
	if !ok || strings.TrimSpace(t.Content) != "" {
		return
	}
	c.remove(i)
}

func (c *Canvas) remove(i int) {
	c.shapes = append(c.shapes[:i], c.shapes[i+1:]...)
	switch {
	case c.selected == i:
		c.selected = -1
	case c.selected > i:
		c.selected--
	}
	switch {
	case c.editing == i:
		c.editing = -1
	case c.editing > i:
		c.editing--
	}
}

// Editing returns the index of the text shape being edited.
func (c *Canvas) Editing() (int, bool) {
	return c.editing, c.editing >= 0
}

// EditingText returns the content of the text shape being edited.
func (c *Canvas) EditingText() string {
	if !c.valid(c.editing) {
		return ""
	}
	if t, ok := c.shapes[c.editing].(shape.Text); ok {
		return t.Content
	}
	return ""
}

// Load replaces the shape list as one undoable commit.
func (c *Canvas) Load(shapes []shape.Shape) {
	c.commit()
	c.shapes = shape.CloneAll(shapes)
	if c.shapes == nil {
		c.shapes = []shape.Shape{}
	}
	c.selected = -1
	c.editing = -1
	c.gesture = gestureNone
}

// Shapes returns a deep copy of the shape list.
func (c *Canvas) Shapes() []shape.Shape { return shape.CloneAll(c.shapes) }

// Len returns the number of shapes.
func (c *Canvas) Len() int { return len(c.shapes) }

// Selected returns the selected index.
func (c *Canvas) Selected() (int, bool) { return c.selected, c.selected >= 0 }

// Offset returns the pan offset.
func (c *Canvas) Offset() shape.Point { return c.offset }

// UndoDepth returns the number of undoable commits.
func (c *Canvas) UndoDepth() int { return c.history.UndoLen() }

// RedoDepth returns the number of redoable commits.
func (c *Canvas) RedoDepth() int { return c.history.RedoLen() }

// Scene captures what Render would draw.
func (c *Canvas) Scene() render.Scene {
	sc := render.NewScene(c.Shapes())
	sc.Selected, sc.Editing = c.selected, c.editing
	sc.Offset, sc.Background = c.offset, c.background
	return sc
}

// Render clears dst and draws the shapes, translated by the pan offset, with
// a dashed outline around the selection.
func (c *Canvas) Render(dst *image.RGBA) {
	if dst == nil {
		return
	}
	render.Draw(dst, render.Scene{
		Shapes:     c.shapes,
		Selected:   c.selected,
		Editing:    c.editing,
		Offset:     c.offset,
		Background: c.background,
	}, c.renderOpts)
}

// Snapshot reports the state a host shows in its status line.
type Snapshot struct {
	Tool      Tool
	Shapes    int
	Selected  int
	Editing   int
	Offset    shape.Point
	UndoDepth int
	RedoDepth int
}

// Status returns the current Snapshot.
func (c *Canvas) Status() Snapshot {
	return Snapshot{
		Tool:      c.tool,
		Shapes:    c.Len(),
		Selected:  c.selected,
		Editing:   c.editing,
		Offset:    c.offset,
		UndoDepth: c.UndoDepth(),
		RedoDepth: c.RedoDepth(),
	}
}
