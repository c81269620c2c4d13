package xdg

import (
	"os"
	"path/filepath"
)

// Dirs resolves the XDG base directories used by the grader for a single application name.
type Dirs struct {
	app        string
	configHome string
	cacheHome  string
}

// New resolves XDG_CONFIG_HOME and XDG_CACHE_HOME with the defaults from the XDG Base
// Directory Specification.
func New(app string) *Dirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = os.TempDir()
		}
	}

	d := &Dirs{app: app}

	d.configHome = os.Getenv("XDG_CONFIG_HOME")
	if d.configHome == "" {
		d.configHome = filepath.Join(homeDir, ".config")
	}

	d.cacheHome = os.Getenv("XDG_CACHE_HOME")
	if d.cacheHome == "" {
		d.cacheHome = filepath.Join(homeDir, ".cache")
	}

	return d
}

// ConfigDir returns the application config directory, e.g. ~/.config/grader.
func (d *Dirs) ConfigDir() string {
	return filepath.Join(d.configHome, d.app)
}

// CacheDir returns the application cache directory joined with the given elements.
func (d *Dirs) CacheDir(elem ...string) string {
	return filepath.Join(append([]string{d.cacheHome, d.app}, elem...)...)
}

// EnsureDir creates path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
