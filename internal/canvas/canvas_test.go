package canvas

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/example/sketchpad/internal/shape"
)

type recorder struct {
	notices []Notice
}

func (r *recorder) handle(n Notice) { r.notices = append(r.notices, n) }

func (r *recorder) last() Notice {
	if len(r.notices) == 0 {
		return 0
	}
	return r.notices[len(r.notices)-1]
}

func newTestCanvas(t *testing.T, opts ...Option) (*Canvas, *recorder) {
	t.Helper()
	rec := &recorder{}
	n := 0
	base := []Option{
		WithNoticeHandler(rec.handle),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("s%d", n)
		}),
	}
	return New(append(base, opts...)...), rec
}

var red = color.RGBA{R: 255, A: 255}

func brush() Brush { return Brush{Color: red, Width: 4} }

func drag(c *Canvas, tool Tool, from shape.Point, to ...shape.Point) {
	c.PointerDown(from, tool, brush())
	for _, p := range to {
		c.PointerMove(p)
	}
	c.PointerUp()
}

func TestPenGestureIsOneCommit(t *testing.T) {
	c, _ := newTestCanvas(t)
	drag(c, ToolPen, shape.Pt(0, 0), shape.Pt(1, 1), shape.Pt(2, 2), shape.Pt(3, 3))

	shapes := c.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("len = %d, want 1", len(shapes))
	}
	p, ok := shapes[0].(shape.Path)
	if !ok {
		t.Fatalf("got %T, want Path", shapes[0])
	}
	if len(p.Points) != 4 {
		t.Fatalf("points = %v, want 4", p.Points)
	}
	if p.Stroke != red || p.Width != 4 || p.ID != "s1" {
		t.Errorf("unexpected path attributes %+v", p)
	}
	if c.UndoDepth() != 1 {
		t.Fatalf("UndoDepth = %d, want 1", c.UndoDepth())
	}
	if !c.Undo() || c.Len() != 0 {
		t.Fatalf("undo should return to the empty canvas")
	}
	if !c.Redo() || c.Len() != 1 {
		t.Fatalf("redo should restore the path")
	}
}

func TestRectangleDrawsNormalized(t *testing.T) {
	c, _ := newTestCanvas(t)
	drag(c, ToolRectangle, shape.Pt(100, 80), shape.Pt(40, 120))
	r := c.Shapes()[0].(shape.Rectangle)
	if r.Origin != shape.Pt(40, 80) || r.Width != 60 || r.Height != 40 {
		t.Fatalf("rect = %+v", r)
	}
	if r.Width < 0 || r.Height < 0 {
		t.Fatalf("negative size")
	}
}

func TestCircleRadiusFromAnchor(t *testing.T) {
	c, _ := newTestCanvas(t)
	drag(c, ToolCircle, shape.Pt(50, 50), shape.Pt(80, 90))
	ci := c.Shapes()[0].(shape.Circle)
	if ci.Radius != 50 {
		t.Fatalf("radius = %v, want 50", ci.Radius)
	}
	if ci.Origin != shape.Pt(0, 0) {
		t.Fatalf("origin = %v, want (0,0)", ci.Origin)
	}
}

func TestFillIsCopiedFromBrush(t *testing.T) {
	c, _ := newTestCanvas(t)
	fill := color.RGBA{G: 200, A: 255}
	c.PointerDown(shape.Pt(0, 0), ToolRectangle, Brush{Color: red, Width: 2, Fill: &fill})
	c.PointerUp()
	fill.G = 1
	r := c.Shapes()[0].(shape.Rectangle)
	if r.Fill == nil || r.Fill.G != 200 {
		t.Fatalf("fill = %v", r.Fill)
	}
}

func TestHitTestRectangle(t *testing.T) {
	c, rec := newTestCanvas(t, WithShapes([]shape.Shape{
		shape.Rectangle{ID: "r", Origin: shape.Pt(10, 10), Width: 50, Height: 20},
	}))
	if idx, ok := c.HitTest(shape.Pt(20, 15)); !ok || idx != 0 {
		t.Fatalf("HitTest = %d,%v", idx, ok)
	}
	if _, ok := c.HitTest(shape.Pt(0, 0)); ok {
		t.Fatalf("expected miss")
	}
	c.PointerDown(shape.Pt(0, 0), ToolSelect, brush())
	if _, ok := c.Selected(); ok {
		t.Errorf("miss should clear the selection")
	}
	if rec.last() != NoticeNoHit {
		t.Errorf("notice = %v, want no hit", rec.last())
	}
}

func TestSelectDragMovesAndIsUndoable(t *testing.T) {
	c, _ := newTestCanvas(t, WithShapes([]shape.Shape{
		shape.Rectangle{ID: "r", Origin: shape.Pt(10, 10), Width: 50, Height: 20},
	}))
	drag(c, ToolSelect, shape.Pt(20, 15), shape.Pt(25, 15), shape.Pt(30, 20))

	if idx, ok := c.Selected(); !ok || idx != 0 {
		t.Fatalf("selected = %d,%v", idx, ok)
	}
	r := c.Shapes()[0].(shape.Rectangle)
	if r.Origin != shape.Pt(20, 15) {
		t.Fatalf("origin = %v, want (20,15)", r.Origin)
	}
	if c.UndoDepth() != 1 {
		t.Fatalf("drag should record one snapshot, got %d", c.UndoDepth())
	}
	c.Undo()
	if got := c.Shapes()[0].(shape.Rectangle).Origin; got != shape.Pt(10, 10) {
		t.Fatalf("undo origin = %v", got)
	}
	if idx, ok := c.Selected(); !ok || idx != 0 {
		t.Errorf("selection should follow the shape across undo")
	}
}

func TestClickWithoutMoveRecordsNothing(t *testing.T) {
	c, _ := newTestCanvas(t, WithShapes([]shape.Shape{
		shape.Rectangle{ID: "r", Origin: shape.Pt(0, 0), Width: 10, Height: 10},
	}))
	drag(c, ToolSelect, shape.Pt(5, 5), shape.Pt(5, 5))
	if c.UndoDepth() != 0 {
		t.Fatalf("UndoDepth = %d, want 0", c.UndoDepth())
	}
}

func TestHandPansAndPenUsesLocalCoordinates(t *testing.T) {
	c, _ := newTestCanvas(t)
	drag(c, ToolHand, shape.Pt(10, 10), shape.Pt(20, 30), shape.Pt(40, 50))
	if got := c.Offset(); got != shape.Pt(30, 40) {
		t.Fatalf("offset = %v, want (30,40)", got)
	}
	if c.UndoDepth() != 0 {
		t.Errorf("panning must not record history")
	}
	c.PointerDown(shape.Pt(100, 100), ToolPen, brush())
	c.PointerUp()
	p := c.Shapes()[0].(shape.Path)
	if p.Points[0] != shape.Pt(70, 60) {
		t.Fatalf("point = %v, want (70,60)", p.Points[0])
	}
}

func TestClear(t *testing.T) {
	c, rec := newTestCanvas(t)
	if c.Clear() {
		t.Fatalf("clearing an empty canvas should be a no-op")
	}
	if rec.last() != NoticeAlreadyEmpty {
		t.Fatalf("notice = %v", rec.last())
	}
	if c.UndoDepth() != 0 {
		t.Fatalf("no-op clear recorded history")
	}

	drag(c, ToolHand, shape.Pt(0, 0), shape.Pt(5, 5))
	drag(c, ToolPen, shape.Pt(0, 0), shape.Pt(1, 1))
	drag(c, ToolSelect, shape.Pt(5, 5))
	c.Undo()
	c.Redo()
	drag(c, ToolPen, shape.Pt(50, 50))
	c.Undo()
	if c.RedoDepth() == 0 {
		t.Fatalf("expected a redo entry before clear")
	}

	if !c.Clear() {
		t.Fatalf("clear failed")
	}
	if c.Len() != 0 || c.Offset() != (shape.Point{}) || c.RedoDepth() != 0 {
		t.Fatalf("clear left state: len=%d offset=%v redo=%d", c.Len(), c.Offset(), c.RedoDepth())
	}
	if _, ok := c.Selected(); ok {
		t.Errorf("clear should drop the selection")
	}
	if rec.last() != NoticeCleared {
		t.Errorf("notice = %v", rec.last())
	}
	if !c.Undo() || c.Len() != 1 {
		t.Fatalf("clear should be undoable")
	}
}

func TestUndoRedoEmptyNotices(t *testing.T) {
	c, rec := newTestCanvas(t)
	if c.Undo() {
		t.Fatalf("undo on fresh canvas")
	}
	if rec.last() != NoticeNothingToUndo {
		t.Fatalf("notice = %v", rec.last())
	}
	if c.Redo() {
		t.Fatalf("redo on fresh canvas")
	}
	if rec.last() != NoticeNothingToRedo {
		t.Fatalf("notice = %v", rec.last())
	}
}

func TestHistoryBound(t *testing.T) {
	c, _ := newTestCanvas(t)
	for i := 0; i < 25; i++ {
		drag(c, ToolPen, shape.Pt(float64(i), 0))
	}
	if c.UndoDepth() != 20 {
		t.Fatalf("UndoDepth = %d, want 20", c.UndoDepth())
	}
	undone := 0
	for c.Undo() {
		undone++
	}
	if undone != 20 || c.Len() != 5 {
		t.Fatalf("undid %d leaving %d shapes, want 20 and 5", undone, c.Len())
	}
	if c.RedoDepth() != 20 {
		t.Fatalf("RedoDepth = %d, want 20", c.RedoDepth())
	}

	small, _ := newTestCanvas(t, WithHistoryLimit(2))
	for i := 0; i < 4; i++ {
		drag(small, ToolPen, shape.Pt(0, 0))
	}
	if small.UndoDepth() != 2 {
		t.Fatalf("UndoDepth = %d, want 2", small.UndoDepth())
	}
}

func TestNewCommitClearsRedo(t *testing.T) {
	c, _ := newTestCanvas(t)
	drag(c, ToolPen, shape.Pt(0, 0))
	c.Undo()
	if c.RedoDepth() != 1 {
		t.Fatalf("RedoDepth = %d", c.RedoDepth())
	}
	drag(c, ToolRectangle, shape.Pt(0, 0), shape.Pt(4, 4))
	if c.RedoDepth() != 0 {
		t.Fatalf("commit should clear redo")
	}
}

func TestSelectionClearedWhenShapeUndone(t *testing.T) {
	c, _ := newTestCanvas(t)
	drag(c, ToolRectangle, shape.Pt(0, 0), shape.Pt(10, 10))
	drag(c, ToolSelect, shape.Pt(5, 5))
	if _, ok := c.Selected(); !ok {
		t.Fatalf("expected selection")
	}
	c.Undo()
	if _, ok := c.Selected(); ok {
		t.Fatalf("selection points at a removed shape")
	}
}

func TestTextPlacementAndEditing(t *testing.T) {
	c, _ := newTestCanvas(t)
	c.PointerDown(shape.Pt(10, 40), ToolText, Brush{Color: red, Width: 2})
	c.PointerUp()
	idx, ok := c.Editing()
	if !ok || idx != 0 {
		t.Fatalf("editing = %d,%v", idx, ok)
	}
	txt := c.Shapes()[0].(shape.Text)
	if txt.FontSize != 16 || txt.Anchor != shape.Pt(10, 40) {
		t.Fatalf("text = %+v", txt)
	}

	c.EditText(idx, "hello")
	if c.EditingText() != "hello" {
		t.Fatalf("EditingText = %q", c.EditingText())
	}
	c.CommitTextEdit(idx)
	if _, ok := c.Editing(); ok {
		t.Fatalf("commit should end editing")
	}
	if c.Len() != 1 || c.Shapes()[0].(shape.Text).Content != "hello" {
		t.Fatalf("text not kept: %+v", c.Shapes())
	}
	if c.UndoDepth() != 1 {
		t.Fatalf("editing should not record history, depth %d", c.UndoDepth())
	}
}

func TestEmptyTextIsRemovedOnCommit(t *testing.T) {
	c, _ := newTestCanvas(t)
	drag(c, ToolRectangle, shape.Pt(0, 0), shape.Pt(5, 5))
	c.PointerDown(shape.Pt(40, 40), ToolText, brush())
	c.EditText(1, "   ")
	c.Select(1)
	c.CommitTextEdit(1)
	if c.Len() != 1 {
		t.Fatalf("whitespace text should be removed, len %d", c.Len())
	}
	if _, ok := c.Selected(); ok {
		t.Errorf("selection should be cleared with the removed text")
	}
	if c.UndoDepth() != 2 {
		t.Errorf("removal should not push a snapshot, depth %d", c.UndoDepth())
	}
}

func TestUndoRedoDropsUneditedEmptyText(t *testing.T) {
	c, _ := newTestCanvas(t)
	c.PointerDown(shape.Pt(10, 40), ToolText, brush())
	c.PointerUp()
	if !c.Undo() || c.Len() != 0 {
		t.Fatalf("undo of text placement left %d shapes", c.Len())
	}
	if !c.Redo() {
		t.Fatalf("expected redo")
	}
	if _, editing := c.Editing(); c.Len() != 0 || editing {
		t.Fatalf("redo restored an empty text: len=%d editing=%v", c.Len(), editing)
	}

	drag(c, ToolRectangle, shape.Pt(0, 0), shape.Pt(5, 5))
	c.PointerDown(shape.Pt(40, 40), ToolText, brush())
	c.Clear()
	if !c.Undo() || c.Len() != 1 {
		t.Fatalf("undo of clear = %d shapes, want the rectangle only", c.Len())
	}
	if _, ok := c.Shapes()[0].(shape.Rectangle); !ok {
		t.Fatalf("kept %T", c.Shapes()[0])
	}
}

func TestPointerDownCommitsOpenEdit(t *testing.T) {
	c, _ := newTestCanvas(t)
	c.PointerDown(shape.Pt(40, 40), ToolText, brush())
	c.PointerDown(shape.Pt(0, 0), ToolPen, brush())
	c.PointerUp()
	if c.Len() != 1 {
		t.Fatalf("empty text should be discarded when another gesture starts, len %d", c.Len())
	}
	if _, ok := c.Shapes()[0].(shape.Path); !ok {
		t.Fatalf("remaining shape is %T", c.Shapes()[0])
	}
}

func TestDoubleClickEditsText(t *testing.T) {
	c, _ := newTestCanvas(t, WithShapes([]shape.Shape{
		shape.Rectangle{ID: "r", Origin: shape.Pt(0, 0), Width: 200, Height: 200},
		shape.Text{ID: "t", Anchor: shape.Pt(10, 40), Content: "hello", FontSize: 16},
	}))
	if !c.DoubleClick(shape.Pt(20, 30)) {
		t.Fatalf("double click on text should start editing")
	}
	if idx, ok := c.Editing(); !ok || idx != 1 {
		t.Fatalf("editing = %d,%v", idx, ok)
	}
	c.CommitTextEdit(1)
	if c.DoubleClick(shape.Pt(150, 150)) {
		t.Fatalf("double click on a rectangle should not edit")
	}
	c.SetTool(ToolPen)
	if c.DoubleClick(shape.Pt(20, 30)) {
		t.Fatalf("double click only edits with the select tool")
	}
}

func TestOutOfRangeIndicesAreIgnored(t *testing.T) {
	c, _ := newTestCanvas(t)
	c.EditText(3, "x")
	c.CommitTextEdit(-1)
	c.Select(7)
	if _, ok := c.Selected(); ok {
		t.Fatalf("invalid select should be ignored")
	}
	c.PointerMove(shape.Pt(1, 1))
	c.PointerCancel()
	if c.Len() != 0 || c.UndoDepth() != 0 {
		t.Fatalf("state changed")
	}
}

func TestShapesReturnsCopy(t *testing.T) {
	c, _ := newTestCanvas(t)
	drag(c, ToolPen, shape.Pt(1, 1), shape.Pt(2, 2))
	s := c.Shapes()
	s[0].(shape.Path).Points[0] = shape.Pt(99, 99)
	if got := c.Shapes()[0].(shape.Path).Points[0]; got != shape.Pt(1, 1) {
		t.Fatalf("Shapes leaked internal state: %v", got)
	}
}

func TestLoadIsUndoable(t *testing.T) {
	c, _ := newTestCanvas(t)
	drag(c, ToolPen, shape.Pt(1, 1))
	c.Load([]shape.Shape{
		shape.Circle{ID: "a", Radius: 3},
		shape.Circle{ID: "b", Radius: 4},
	})
	if c.Len() != 2 {
		t.Fatalf("len = %d", c.Len())
	}
	c.Undo()
	if c.Len() != 1 {
		t.Fatalf("undo after load left %d shapes", c.Len())
	}
}

func TestPointerDownSetsTool(t *testing.T) {
	c, _ := newTestCanvas(t)
	c.PointerDown(shape.Pt(0, 0), ToolCircle, brush())
	if c.Tool() != ToolCircle {
		t.Fatalf("tool = %v", c.Tool())
	}
	st := c.Status()
	if st.Tool != ToolCircle || st.Shapes != 1 || st.UndoDepth != 1 {
		t.Fatalf("status = %+v", st)
	}
}

func TestParseTool(t *testing.T) {
	tests := []struct {
		in   string
		want Tool
	}{
		{"select", ToolSelect},
		{"Hand", ToolHand},
		{"pen", ToolPen},
		{"square", ToolRectangle},
		{"rectangle", ToolRectangle},
		{" circle ", ToolCircle},
		{"text", ToolText},
	}
	for _, tt := range tests {
		got, err := ParseTool(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseTool(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseTool("laser"); err == nil {
		t.Errorf("expected error for unknown tool")
	}
	for _, tool := range Tools() {
		if got, _ := ParseTool(tool.String()); got != tool {
			t.Errorf("%v does not parse back", tool)
		}
	}
}

func TestRenderOutlinesSelection(t *testing.T) {
	c, _ := newTestCanvas(t, WithShapes([]shape.Shape{
		shape.Rectangle{ID: "r", Origin: shape.Pt(20, 20), Width: 40, Height: 40, StrokeWidth: 1},
	}))
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	c.Render(img)
	if blue := countBlue(img); blue != 0 {
		t.Fatalf("unselected render has %d outline pixels", blue)
	}
	c.Select(0)
	c.Render(img)
	if countBlue(img) == 0 {
		t.Fatalf("expected selection outline pixels")
	}
	if got := img.RGBAAt(40, 40); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("interior pixel = %v, want white", got)
	}
}

func countBlue(img *image.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.B > 150 && c.R < 100 {
				n++
			}
		}
	}
	return n
}
