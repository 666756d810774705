package platform

import "time"

// DefaultAppName identifies the application to notification daemons.
const DefaultAppName = "Sketchpad"

// Urgency ranks a notification for daemons that support it.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// AppName defaults to DefaultAppName.
	AppName string
	Urgency Urgency
	// Timeout of zero lets the platform decide.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}
