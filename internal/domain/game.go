package domain

import "errors"

// Game applies the rules of play to a State.
type Game struct {
	state State
}

// Errors returned by domain operations.
var (
	ErrOccupied = errors.New("cell occupied")
	ErrGameOver = errors.New("game over")
)

// New returns an empty game in the given mode with X to move.
func New(mode Mode) Game {
	var g Game
	// Mode values are constants; anything else is caught by SetMode below.
	_ = g.state.SetMode(mode)
	return g
}

// FromState wraps an already validated state, e.g. one read back from disk.
func FromState(st State) Game {
	return Game{state: st}
}

func (g Game) State() State { return g.state }

func (g Game) Mode() Mode { return g.state.Mode() }

func (g Game) Phase() Phase { return g.state.Phase() }

func (g Game) Moves() int { return g.state.FilledCells() }

func (g Game) Over() bool { return g.state.Phase().Terminal() }

// Turn returns the side to move, or Empty once the game is over.
func (g Game) Turn() Cell {
	switch g.state.Phase() {
	case TurnX:
		return X
	case TurnO:
		return O
	default:
		return Empty
	}
}

// Winner returns X or O for a won game and Empty otherwise.
func (g Game) Winner() Cell {
	switch g.state.Phase() {
	case WinX:
		return X
	case WinO:
		return O
	default:
		return Empty
	}
}

func (g *Game) SetMode(m Mode) error { return g.state.SetMode(m) }

// Clear empties the board and gives the move to X. The mode is kept.
func (g *Game) Clear() {
	mode := g.state.Mode()
	g.state = State{}
	_ = g.state.SetMode(mode)
}

// Play marks the cell at (column, row) for the side to move and advances
// the phase.
func (g *Game) Play(column, row int) error {
	if g.Over() {
		return ErrGameOver
	}
	c, err := g.state.Cell(column, row)
	if err != nil {
		return err
	}
	if c != Empty {
		return ErrOccupied
	}

	side := g.Turn()
	next := g.state
	if err := next.SetCell(column, row, side); err != nil {
		return err
	}

	phase := TurnX
	switch {
	case next.HasLine(side) && side == X:
		phase = WinX
	case next.HasLine(side):
		phase = WinO
	case next.IsBoardFull():
		phase = Draw
	case side == X:
		phase = TurnO
	}
	if err := next.SetPhase(phase); err != nil {
		return err
	}
	g.state = next
	return nil
}
