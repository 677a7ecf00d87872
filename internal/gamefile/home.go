package gamefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the directory the game file lives in. LegacyHomeEnv is
// honoured when HomeEnv is unset.
const (
	HomeEnv       = "TTT_HOME"
	LegacyHomeEnv = "MEGATECH_TTT_HOME"
)

var ErrNoHome = errors.New("home directory could not be detected")

// FindHome returns $TTT_HOME, then $MEGATECH_TTT_HOME, then the user's home
// directory. The result must be an existing directory.
func FindHome() (string, error) {
	dir := os.Getenv(HomeEnv)
	if dir == "" {
		dir = os.Getenv(LegacyHomeEnv)
	}
	if dir == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNoHome, err)
		}
		dir = h
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoHome, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoHome, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrNoHome, abs)
	}
	return abs, nil
}

// DefaultPath is the game file inside home.
func DefaultPath(home string) string { return filepath.Join(home, DefaultGameName) }
