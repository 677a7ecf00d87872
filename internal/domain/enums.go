package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return " "
	case X:
		return "X"
	case O:
		return "O"
	default:
		return fmt.Sprintf("Cell(%d)", uint8(c))
	}
}

// Mode selects between a game against the CPU and a game between two people.
type Mode uint8

const (
	SinglePlayer Mode = iota
	Multiplayer
)

// ErrInvalidMode is returned by ParseMode for unknown names.
var ErrInvalidMode = errors.New("invalid game mode")

func (m Mode) String() string {
	switch m {
	case SinglePlayer:
		return "single"
	case Multiplayer:
		return "multiplayer"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode accepts "single" or "multiplayer", ignoring case.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SinglePlayer.String():
		return SinglePlayer, nil
	case Multiplayer.String():
		return Multiplayer, nil
	}
	return SinglePlayer, fmt.Errorf("%w: %q", ErrInvalidMode, name)
}

// Phase is whose turn it is, or how the game ended.
type Phase uint8

const (
	TurnX Phase = iota
	TurnO
	WinX
	WinO
	Draw
)

func (p Phase) String() string {
	switch p {
	case TurnX:
		return "turn_x"
	case TurnO:
		return "turn_o"
	case WinX:
		return "win_x"
	case WinO:
		return "win_o"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Terminal reports whether no further moves may be played.
func (p Phase) Terminal() bool { return p == WinX || p == WinO || p == Draw }

// Location addresses a cell by column and row. Either coordinate outside
// 0..2 means "no location".
type Location struct {
	Column int
	Row    int
}

// NoLocation is returned by searches that found nothing.
var NoLocation = Location{Column: 3, Row: 3}

func (l Location) Valid() bool { return inRange(l.Column) && inRange(l.Row) }

func (l Location) String() string { return fmt.Sprintf("(%d,%d)", l.Column, l.Row) }
