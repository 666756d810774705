package platform

import "testing"

func TestAppNameDefault(t *testing.T) {
	if got := (Options{}).appName(); got != DefaultAppName {
		t.Errorf("appName = %q, want %q", got, DefaultAppName)
	}
	if got := (Options{AppName: "Board"}).appName(); got != "Board" {
		t.Errorf("appName = %q", got)
	}
}
