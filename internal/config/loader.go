package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // build version, "dev" enables the working directory rc file
	OverridePath string // set at compile time if needed
	// Home replaces the user home directory when set.
	Home string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (l *Loader) home() string {
	if l.Home != "" {
		return l.Home
	}
	home, _ := os.UserHomeDir()
	return home
}

// DefaultSavePath is where `config save` writes.
func (l *Loader) DefaultSavePath() string {
	return filepath.Join(l.home(), ".config", "sketchpad", "config.rc")
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".sketchpadrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	dir := filepath.Join(l.home(), ".config", "sketchpad")
	for _, name := range []string{"config.rc", "sketchpad.rc"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
