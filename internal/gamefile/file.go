package gamefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/domain"
)

// DefaultGameName is the file name used inside the home directory.
const DefaultGameName = ".ttt"

// ErrNotRegular is returned when the game path exists but is not a file.
var ErrNotRegular = errors.New("game data file is not a regular file")

// File is an open, locked game file. The game is written back on Close.
type File struct {
	path string
	lock *Lockfile
	game domain.Game
	// Existed reports whether the file was present when opened.
	Existed bool
}

// Open locks path and reads the game stored there. A missing file yields an
// empty single player game.
func Open(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	lock, err := NewLockfile(abs)
	if err != nil {
		return nil, err
	}
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	f := &File{path: abs, lock: lock}
	if err := f.read(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return f, nil
}

func (f *File) read() error {
	info, err := os.Stat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.game = domain.New(domain.SinglePlayer)
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", f.path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegular, f.path)
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.path, err)
	}
	st, err := Decode(data)
	if err != nil {
		return err
	}
	f.game = domain.FromState(st)
	f.Existed = true
	return nil
}

func (f *File) Path() string { return f.path }

// Game returns a copy of the stored game.
func (f *File) Game() domain.Game { return f.game }

func (f *File) SetGame(g domain.Game) { f.game = g }

// Close writes the game and releases the lock.
func (f *File) Close() error {
	werr := os.WriteFile(f.path, Encode(f.game.State()), 0o644)
	uerr := f.lock.Unlock()
	if werr != nil {
		return fmt.Errorf("write %s: %w", f.path, werr)
	}
	return uerr
}

// Discard releases the lock without writing.
func (f *File) Discard() error { return f.lock.Unlock() }

// Remove validates and deletes the game file at path while holding its lock.
// A file that does not decode is left alone.
func Remove(path string) (bool, error) {
	f, err := Open(path)
	if err != nil {
		return false, err
	}
	defer f.Discard()
	if !f.Existed {
		return false, nil
	}
	if err := os.Remove(f.path); err != nil {
		return false, err
	}
	return true, nil
}
