package canvas

import (
	"image"

	"github.com/example/sketchpad/internal/shape"
)

// Actions is the surface hosts drive the canvas through.
type Actions interface {
	SetTool(Tool)
	Tool() Tool

	PointerDown(pos shape.Point, tool Tool, brush Brush)
	PointerMove(pos shape.Point)
	PointerUp()
	PointerCancel()
	DoubleClick(pos shape.Point) bool

	Undo() bool
	Redo() bool
	Clear() bool

	HitTest(p shape.Point) (int, bool)
	Select(i int)
	Selected() (int, bool)

	EditText(i int, content string)
	CommitTextEdit(i int)
	Editing() (int, bool)
	EditingText() string

	Load(shapes []shape.Shape)
	Shapes() []shape.Shape
	Offset() shape.Point
	Status() Snapshot

	Render(dst *image.RGBA)
}

var _ Actions = (*Canvas)(nil)
