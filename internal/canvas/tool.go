package canvas

import (
	"fmt"
	"image/color"
	"strings"
)

// Tool selects how pointer gestures are interpreted.
type Tool int

const (
	ToolSelect Tool = iota
	ToolHand
	ToolPen
	ToolRectangle
	ToolCircle
	ToolText
)

var toolNames = [...]string{"select", "hand", "pen", "rectangle", "circle", "text"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	out := make([]Tool, len(toolNames))
	for i := range out {
		out[i] = Tool(i)
	}
	return out
}

// ParseTool resolves a tool name. "square" is accepted for the rectangle tool
// and "move" for select.
func ParseTool(s string) (Tool, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "square", "rect":
		return ToolRectangle, nil
	case "move":
		return ToolSelect, nil
	}
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", s)
}

// Brush is the toolbar state consumed on every pointer down.
type Brush struct {
	Color color.RGBA
	Width float64
	// Fill, when set, fills rectangles and circles.
	Fill *color.RGBA
}

// DefaultBrush draws black 2px strokes without fill.
func DefaultBrush() Brush {
	return Brush{Color: color.RGBA{0, 0, 0, 255}, Width: 2}
}
