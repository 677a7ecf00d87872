package domain

import (
	"errors"
	"fmt"
	"math/bits"
)

// Errors returned by State operations.
var (
	ErrInvalidState    = errors.New("invalid state")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Field layout of the packed state word.
const (
	modeMask   uint32 = 0x80000000
	phaseMask  uint32 = 0x70000000
	unusedMask uint32 = 0x0ffc0000
	boardMask  uint32 = 0x0003ffff

	modeShift  = 31
	phaseShift = 28

	cellBits uint32 = 0x03

	// Bits that are set in a cell holding X, and in a cell holding O.
	xBits uint32 = 0x00015555
	oBits uint32 = 0x0002aaaa
)

var (
	rowShift = [3]uint{0, 6, 12}
	colShift = [3]uint{0, 2, 4}

	rowMask = [3]uint32{0x0000003f, 0x00000fc0, 0x0003f000}
	colMask = [3]uint32{0x000030c3, 0x0000c30c, 0x00030c30}

	leftDiagonalMask  uint32 = 0x00030303
	rightDiagonalMask uint32 = 0x00003330
)

// State is the packed 32-bit encoding of a game: mode, phase and a 3x3 board.
// The zero value is an empty single player board with X to move.
type State struct {
	word uint32
}

// FromWord validates a raw word and returns the State it encodes.
func FromWord(w uint32) (State, error) {
	if Phase((w&phaseMask)>>phaseShift) > Draw {
		return State{}, fmt.Errorf("%w: phase %d", ErrInvalidState, (w&phaseMask)>>phaseShift)
	}
	if w&unusedMask != 0 {
		return State{}, fmt.Errorf("%w: unused bits set (%#08x)", ErrInvalidState, w&unusedMask)
	}
	for b := w & boardMask; b != 0; b >>= 2 {
		if b&cellBits == cellBits {
			return State{}, fmt.Errorf("%w: board contains an invalid cell", ErrInvalidState)
		}
	}
	return State{word: w}, nil
}

// Word returns the raw packed representation.
func (s State) Word() uint32 { return s.word }

func (s State) Mode() Mode { return Mode(s.word >> modeShift) }

// SetMode replaces the mode bit. Only SinglePlayer and Multiplayer are accepted.
func (s *State) SetMode(m Mode) error {
	if m != SinglePlayer && m != Multiplayer {
		return fmt.Errorf("%w: mode %d", ErrInvalidState, uint8(m))
	}
	s.word = (s.word &^ modeMask) | uint32(m)<<modeShift
	return nil
}

func (s State) Phase() Phase { return Phase((s.word & phaseMask) >> phaseShift) }

// SetPhase replaces the phase field.
func (s *State) SetPhase(p Phase) error {
	if p > Draw {
		return fmt.Errorf("%w: phase %d", ErrInvalidState, uint8(p))
	}
	s.word = (s.word &^ phaseMask) | uint32(p)<<phaseShift
	return nil
}

// Board returns the 18 board bits.
func (s State) Board() uint32 { return s.word & boardMask }

func (s State) IsBoardEmpty() bool { return s.FilledCells() == 0 }

func (s State) IsBoardFull() bool { return s.FilledCells() >= 9 }

// FilledCells counts set board bits. A marked cell has exactly one of its two
// bits set, so this equals the number of marked cells.
func (s State) FilledCells() int { return bits.OnesCount32(s.Board()) }

func (s State) CountX() int { return bits.OnesCount32(s.word & xBits) }

func (s State) CountO() int { return bits.OnesCount32(s.word & oBits) }

// IsRow reports whether every cell of the row holds mark m.
func (s State) IsRow(row int, m Cell) (bool, error) {
	if !inRange(row) {
		return false, fmt.Errorf("%w: row %d", ErrIndexOutOfRange, row)
	}
	return s.lineIs(rowMask[row], m), nil
}

// IsColumn reports whether every cell of the column holds mark m.
func (s State) IsColumn(column int, m Cell) (bool, error) {
	if !inRange(column) {
		return false, fmt.Errorf("%w: column %d", ErrIndexOutOfRange, column)
	}
	return s.lineIs(colMask[column], m), nil
}

func (s State) IsRowX(row int) (bool, error)       { return s.IsRow(row, X) }
func (s State) IsRowO(row int) (bool, error)       { return s.IsRow(row, O) }
func (s State) IsColumnX(column int) (bool, error) { return s.IsColumn(column, X) }
func (s State) IsColumnO(column int) (bool, error) { return s.IsColumn(column, O) }

// IsLeftDiagonal checks the top-left to bottom-right diagonal.
func (s State) IsLeftDiagonal(m Cell) bool { return s.lineIs(leftDiagonalMask, m) }

// IsRightDiagonal checks the top-right to bottom-left diagonal.
func (s State) IsRightDiagonal(m Cell) bool { return s.lineIs(rightDiagonalMask, m) }

func (s State) IsLeftDiagonalX() bool  { return s.IsLeftDiagonal(X) }
func (s State) IsLeftDiagonalO() bool  { return s.IsLeftDiagonal(O) }
func (s State) IsRightDiagonalX() bool { return s.IsRightDiagonal(X) }
func (s State) IsRightDiagonalO() bool { return s.IsRightDiagonal(O) }

// HasLine reports whether mark m owns any row, column or diagonal.
func (s State) HasLine(m Cell) bool {
	for i := 0; i < 3; i++ {
		if s.lineIs(rowMask[i], m) || s.lineIs(colMask[i], m) {
			return true
		}
	}
	return s.IsLeftDiagonal(m) || s.IsRightDiagonal(m)
}

func (s State) IsCellEmpty(column, row int) (bool, error) {
	c, err := s.Cell(column, row)
	return c == Empty, err
}

func (s State) IsCellX(column, row int) (bool, error) {
	c, err := s.Cell(column, row)
	return c == X, err
}

// Cell returns the contents of the cell at (column, row).
func (s State) Cell(column, row int) (Cell, error) {
	if err := checkIndices(column, row); err != nil {
		return Empty, err
	}
	return Cell((s.word >> offset(column, row)) & cellBits), nil
}

// SetCell overwrites the cell at (column, row). It does not require the cell
// to be empty; that rule belongs to Game.
func (s *State) SetCell(column, row int, v Cell) error {
	if err := checkIndices(column, row); err != nil {
		return err
	}
	if v > O {
		return fmt.Errorf("%w: cell value %d", ErrInvalidState, uint8(v))
	}
	off := offset(column, row)
	s.word = (s.word &^ (cellBits << off)) | uint32(v)<<off
	return nil
}

func (s State) lineIs(mask uint32, m Cell) bool {
	switch m {
	case X:
		return s.word&mask == mask&xBits
	case O:
		return s.word&mask == mask&oBits
	default:
		return false
	}
}

func offset(column, row int) uint { return rowShift[row] + colShift[column] }

func inRange(i int) bool { return i >= 0 && i <= 2 }

func checkIndices(column, row int) error {
	if !inRange(column) {
		return fmt.Errorf("%w: column %d", ErrIndexOutOfRange, column)
	}
	if !inRange(row) {
		return fmt.Errorf("%w: row %d", ErrIndexOutOfRange, row)
	}
	return nil
}
