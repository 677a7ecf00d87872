// Package strategy picks moves for the CPU player.
//
// The CPU always plays O. Select walks a fixed cascade of rules (win, block,
// avoid forks, center, opposite corner, any corner, any edge) and breaks ties
// with the supplied random source.
package strategy

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/domain"
)

// ErrNoValidMove is returned when no rule produced a move. This only happens
// when Select is called on a full board.
var ErrNoValidMove = errors.New("no valid move")

const (
	self     = domain.O
	opponent = domain.X
)

var (
	corners = []domain.Location{{Column: 0, Row: 0}, {Column: 0, Row: 2}, {Column: 2, Row: 2}, {Column: 2, Row: 0}}
	edges   = []domain.Location{{Column: 1, Row: 0}, {Column: 0, Row: 1}, {Column: 1, Row: 2}, {Column: 2, Row: 1}}
	center  = domain.Location{Column: 1, Row: 1}
)

// Strategy owns the random source used to break ties. It is safe to share
// between goroutines.
type Strategy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Strategy seeded from the operating system.
func New() *Strategy {
	return NewWithSeed(osSeed(crand.Reader))
}

// osSeed reads a seed from r, falling back to the clock.
func osSeed(r io.Reader) uint64 {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		log.Warn().Err(err).Msg("random seed unavailable, seeding from the clock")
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// NewWithSeed returns a Strategy with a deterministic random source.
func NewWithSeed(seed uint64) *Strategy {
	return &Strategy{rng: rand.New(rand.NewSource(seed))}
}

// Select returns the cell O should mark next. last is X's most recent move.
func (s *Strategy) Select(st domain.State, last domain.Location) (domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Select(st, last, s.rng)
}

// Select runs the move cascade against st. st is never modified; every
// lookahead works on a copy.
func Select(st domain.State, last domain.Location, rng *rand.Rand) (domain.Location, error) {
	// 1. Win the game.
	if loc := findWin(st); loc.Valid() {
		return loc, nil
	}
	// 2. Block a win.
	if loc := findBlock(st); loc.Valid() {
		return loc, nil
	}
	// 3. Block forks. A fork can first be set up on the third or sixth mark.
	if n := st.FilledCells(); n == 3 || n == 6 {
		if loc := findForkBlock(st, rng); loc.Valid() {
			return loc, nil
		}
	}
	// 4. Play the center.
	if isEmpty(st, center) {
		return center, nil
	}
	// 5. Play the corner opposite the opponent's.
	if loc := findOppositeCorner(st, last); loc.Valid() {
		return loc, nil
	}
	// 6. Play an empty corner.
	if loc := pick(rng, emptyAmong(st, corners)); loc.Valid() {
		return loc, nil
	}
	// 7. Play an empty edge.
	if loc := pick(rng, emptyAmong(st, edges)); loc.Valid() {
		return loc, nil
	}
	return domain.NoLocation, ErrNoValidMove
}

// emptyLocations lists the empty cells in row-major order.
func emptyLocations(st domain.State) []domain.Location {
	res := make([]domain.Location, 0, 9)
	for row := 0; row < 3; row++ {
		for column := 0; column < 3; column++ {
			loc := domain.Location{Column: column, Row: row}
			if isEmpty(st, loc) {
				res = append(res, loc)
			}
		}
	}
	return res
}

func emptyAmong(st domain.State, locs []domain.Location) []domain.Location {
	var res []domain.Location
	for _, loc := range locs {
		if isEmpty(st, loc) {
			res = append(res, loc)
		}
	}
	return res
}

func isEmpty(st domain.State, loc domain.Location) bool {
	ok, err := st.IsCellEmpty(loc.Column, loc.Row)
	return err == nil && ok
}

func pick(rng *rand.Rand, locs []domain.Location) domain.Location {
	if len(locs) == 0 {
		return domain.NoLocation
	}
	return locs[rng.Intn(len(locs))]
}

// completes reports whether marking next for m would give m a line. Both
// diagonals are checked whether or not next lies on them.
func completes(st domain.State, next domain.Location, m domain.Cell) bool {
	if err := st.SetCell(next.Column, next.Row, m); err != nil {
		return false
	}
	col, _ := st.IsColumn(next.Column, m)
	row, _ := st.IsRow(next.Row, m)
	return col || row || st.IsLeftDiagonal(m) || st.IsRightDiagonal(m)
}

func findWin(st domain.State) domain.Location {
	if st.CountO() > 1 {
		for _, loc := range emptyLocations(st) {
			if completes(st, loc, self) {
				return loc
			}
		}
	}
	return domain.NoLocation
}

func findBlock(st domain.State) domain.Location {
	if st.CountX() > 1 {
		for _, loc := range emptyLocations(st) {
			if completes(st, loc, opponent) {
				return loc
			}
		}
	}
	return domain.NoLocation
}

// findAllBlocks lists every cell X could use to win. It only looks once X has
// three marks down, which is the earliest a fork can exist.
func findAllBlocks(st domain.State) []domain.Location {
	var res []domain.Location
	if st.CountX() > 2 {
		for _, loc := range emptyLocations(st) {
			if completes(st, loc, opponent) {
				res = append(res, loc)
			}
		}
	}
	return res
}

// findForkBlock picks, at random, a move after which no reply by X leaves two
// open wins while O has none.
func findForkBlock(st domain.State, rng *rand.Rand) domain.Location {
	var safe []domain.Location
	for _, loc := range emptyLocations(st) {
		next := st
		if err := next.SetCell(loc.Column, loc.Row, self); err != nil {
			continue
		}
		fork := false
		for _, reply := range emptyLocations(next) {
			after := next
			if err := after.SetCell(reply.Column, reply.Row, opponent); err != nil {
				continue
			}
			if len(findAllBlocks(after)) > 1 && !findWin(after).Valid() {
				fork = true
				break
			}
		}
		if !fork {
			safe = append(safe, loc)
		}
	}
	return pick(rng, safe)
}

func findOppositeCorner(st domain.State, last domain.Location) domain.Location {
	if !last.Valid() || last.Column == 1 || last.Row == 1 {
		return domain.NoLocation
	}
	opposite := domain.Location{Column: 2 - last.Column, Row: 2 - last.Row}
	if isEmpty(st, opposite) {
		return opposite
	}
	return domain.NoLocation
}
