package canvas

// Notice is a user-facing message for an operation that completed without
// changing anything, or that the user should be told about.
type Notice int

const (
	NoticeNothingToUndo Notice = iota + 1
	NoticeNothingToRedo
	NoticeAlreadyEmpty
	NoticeNoHit
	NoticeCleared
)

func (n Notice) String() string {
	switch n {
	case NoticeNothingToUndo:
		return "nothing to undo"
	case NoticeNothingToRedo:
		return "nothing to redo"
	case NoticeAlreadyEmpty:
		return "canvas is already empty"
	case NoticeNoHit:
		return "no shape at pointer"
	case NoticeCleared:
		return "canvas cleared"
	default:
		return "unknown notice"
	}
}

// Quiet reports whether hosts may skip showing the notice. Missed hits happen
// on every click on empty canvas.
func (n Notice) Quiet() bool { return n == NoticeNoHit }
