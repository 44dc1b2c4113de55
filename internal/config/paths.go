package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultDataDir is $XDG_DATA_HOME/mytasks, falling back to
// ~/.local/share/mytasks.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mytasks")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mytasks"
	}
	return filepath.Join(home, ".local", "share", "mytasks")
}

func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mytasks", "config.toml")
}

// expandPath expands ~ and environment variables in paths.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, expanded[1:])
	}
	return expanded
}
