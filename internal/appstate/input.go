package appstate

import (
	"image"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
)

const (
	doubleClickInterval = 400 * time.Millisecond
	doubleClickSlop     = 4
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// keyboardAction maps a keyboard shortcut to the action name.
var keyboardAction = map[KeyShortcut]string{
	{Rune: 'z', Modifiers: key.ModControl}:                 "undo",
	{Rune: 'y', Modifiers: key.ModControl}:                 "redo",
	{Rune: 'z', Modifiers: key.ModControl | key.ModShift}:  "redo",
	{Rune: 's', Modifiers: key.ModControl}:                 "save",
	{Rune: 'c', Modifiers: key.ModControl}:                 "copy",
	{Code: key.CodeDeleteForward, Modifiers: key.ModControl}: "clear",
	{Code: key.CodeDeleteBackspace, Modifiers: key.ModControl}: "clear",
	{Rune: 'q'}: "quit",
	{Rune: 'f'}: "fill",
	{Rune: 'v'}: "tool:select",
	{Rune: 'h'}: "tool:hand",
	{Rune: 'p'}: "tool:pen",
	{Rune: 'r'}: "tool:rectangle",
	{Rune: 'o'}: "tool:circle",
	{Rune: 't'}: "tool:text",
	{Rune: '1'}: "width:0",
	{Rune: '2'}: "width:1",
	{Rune: '3'}: "width:2",
	{Rune: '4'}: "width:3",
	{Rune: '['}: "color:prev",
	{Rune: ']'}: "color:next",
}

const shortcutModifiers = key.ModControl | key.ModShift | key.ModAlt | key.ModMeta

// shortcutFor normalises a key event. Printable keys without Control or
// Meta match on the lower case rune alone; letter keys held with Control
// match on the letter derived from the key code.
func shortcutFor(e key.Event) KeyShortcut {
	mods := e.Modifiers & shortcutModifiers
	if mods&(key.ModControl|key.ModMeta) == 0 && e.Rune > 0 && unicode.IsPrint(e.Rune) {
		return KeyShortcut{Rune: unicode.ToLower(e.Rune)}
	}
	if e.Code >= key.CodeA && e.Code <= key.CodeZ {
		return KeyShortcut{Rune: 'a' + rune(e.Code-key.CodeA), Modifiers: mods}
	}
	return KeyShortcut{Code: e.Code, Modifiers: mods}
}

// actionForKey returns the action bound to e.
func actionForKey(e key.Event) (string, bool) {
	name, ok := keyboardAction[shortcutFor(e)]
	return name, ok
}

// clickTracker recognises two presses close in time and space.
type clickTracker struct {
	at    time.Time
	pos   image.Point
	armed bool
}

// click records a press and reports whether it completes a double click.
func (c *clickTracker) click(p image.Point, now time.Time) bool {
	d := p.Sub(c.pos)
	double := c.armed &&
		now.Sub(c.at) <= doubleClickInterval &&
		abs(d.X) <= doubleClickSlop && abs(d.Y) <= doubleClickSlop
	if double {
		c.armed = false
		return true
	}
	c.at, c.pos, c.armed = now, p, true
	return false
}

func (c *clickTracker) reset() { c.armed = false }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func dropLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
