package gamefile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrLocked is returned when another process holds the lockfile.
var ErrLocked = errors.New("lockfile unavailable")

// Lockfile is an exclusive-create lock living next to the file it guards as
// ".~lock<name>".
type Lockfile struct {
	path string
	f    *os.File
}

// NewLockfile returns the (unheld) lock for target.
func NewLockfile(target string) (*Lockfile, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(abs)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("lock %q: path does not name a file", target)
	}
	return &Lockfile{path: filepath.Join(filepath.Dir(abs), ".~lock"+name)}, nil
}

func (l *Lockfile) Path() string { return l.path }

// TryLock attempts to take the lock without waiting.
func (l *Lockfile) TryLock() bool {
	if l.f != nil {
		return false
	}
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return false
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(l.path)
		return false
	}
	l.f = f
	return true
}

// Lock is TryLock that reports failure as ErrLocked.
func (l *Lockfile) Lock() error {
	if !l.TryLock() {
		return fmt.Errorf("%w: %s", ErrLocked, l.path)
	}
	return nil
}

// Unlock releases the lock. It is a no-op when the lock is not held.
func (l *Lockfile) Unlock() error {
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	if rmErr := os.Remove(l.path); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}
