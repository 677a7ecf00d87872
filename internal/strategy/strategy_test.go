package strategy

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/domain"
)

type mark struct {
	column, row int
	cell        domain.Cell
}

func board(t *testing.T, marks ...mark) domain.State {
	t.Helper()
	var st domain.State
	require.NoError(t, st.SetMode(domain.SinglePlayer))
	for _, m := range marks {
		require.NoError(t, st.SetCell(m.column, m.row, m.cell))
	}
	return st
}

func loc(column, row int) domain.Location { return domain.Location{Column: column, Row: row} }

func isCorner(l domain.Location) bool { return l.Column != 1 && l.Row != 1 }

func isEdge(l domain.Location) bool { return (l.Column == 1) != (l.Row == 1) }

func TestOpenings(t *testing.T) {
	s := NewWithSeed(1)

	t.Run("corner opening takes the center", func(t *testing.T) {
		st := board(t, mark{0, 0, domain.X})
		got, err := s.Select(st, loc(0, 0))
		require.NoError(t, err)
		require.Equal(t, loc(1, 1), got)
	})

	t.Run("center opening takes a corner", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			st := board(t, mark{1, 1, domain.X})
			got, err := s.Select(st, loc(1, 1))
			require.NoError(t, err)
			require.True(t, isCorner(got), "expected a corner, got %v", got)
		}
	})

	t.Run("edge opening takes the center", func(t *testing.T) {
		st := board(t, mark{1, 0, domain.X})
		got, err := s.Select(st, loc(1, 0))
		require.NoError(t, err)
		require.Equal(t, loc(1, 1), got)
	})
}

func TestWin(t *testing.T) {
	s := NewWithSeed(2)
	cases := []struct {
		name  string
		marks []mark
		last  domain.Location
		want  domain.Location
	}{
		{
			name:  "row",
			marks: []mark{{1, 1, domain.X}, {0, 0, domain.O}, {2, 2, domain.X}, {1, 0, domain.O}, {1, 2, domain.X}},
			last:  loc(1, 2),
			want:  loc(2, 0),
		},
		{
			name:  "column",
			marks: []mark{{1, 1, domain.X}, {0, 2, domain.O}, {2, 1, domain.X}, {0, 1, domain.O}, {2, 0, domain.X}},
			last:  loc(2, 0),
			want:  loc(0, 0),
		},
		{
			name:  "diagonal",
			marks: []mark{{0, 0, domain.X}, {1, 1, domain.O}, {1, 0, domain.X}, {2, 0, domain.O}, {2, 2, domain.X}},
			last:  loc(2, 2),
			want:  loc(0, 2),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Select(board(t, tc.marks...), tc.last)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestBlock(t *testing.T) {
	s := NewWithSeed(3)
	cases := []struct {
		name  string
		marks []mark
		last  domain.Location
		want  domain.Location
	}{
		{
			name:  "row",
			marks: []mark{{0, 0, domain.X}, {1, 1, domain.O}, {1, 0, domain.X}},
			last:  loc(1, 0),
			want:  loc(2, 0),
		},
		{
			name:  "column",
			marks: []mark{{0, 0, domain.X}, {1, 1, domain.O}, {0, 1, domain.X}},
			last:  loc(0, 1),
			want:  loc(0, 2),
		},
		{
			name:  "diagonal",
			marks: []mark{{1, 1, domain.X}, {0, 0, domain.O}, {2, 0, domain.X}},
			last:  loc(2, 0),
			want:  loc(0, 2),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Select(board(t, tc.marks...), tc.last)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestWinBeatsBlock(t *testing.T) {
	// Both sides threaten; O should take its own win.
	st := board(t,
		mark{0, 0, domain.X}, mark{1, 0, domain.X},
		mark{0, 1, domain.O}, mark{1, 1, domain.O},
		mark{2, 2, domain.X},
	)
	got, err := NewWithSeed(4).Select(st, loc(2, 2))
	require.NoError(t, err)
	require.Equal(t, loc(2, 1), got)
}

func TestForkBlock(t *testing.T) {
	s := NewWithSeed(5)
	for i := 0; i < 50; i++ {
		st := board(t, mark{0, 0, domain.X}, mark{1, 1, domain.O}, mark{2, 2, domain.X})
		got, err := s.Select(st, loc(2, 2))
		require.NoError(t, err)
		require.False(t, isCorner(got), "corner %v hands X a fork", got)
		require.True(t, isEdge(got), "expected an edge, got %v", got)
	}
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	s := NewWithSeed(6)
	positions := []domain.State{
		board(t, mark{0, 0, domain.X}),
		board(t, mark{0, 0, domain.X}, mark{1, 1, domain.O}, mark{2, 2, domain.X}),
		board(t, mark{1, 1, domain.X}, mark{0, 0, domain.O}, mark{2, 2, domain.X}, mark{1, 0, domain.O}, mark{1, 2, domain.X}),
	}
	for _, st := range positions {
		before := st.Word()
		_, err := s.Select(st, loc(0, 0))
		require.NoError(t, err)
		require.Equal(t, before, st.Word())
	}
}

func TestFullBoardHasNoMove(t *testing.T) {
	st, err := domain.FromWord(0x40026966)
	require.NoError(t, err)
	got, err := NewWithSeed(7).Select(st, loc(1, 2))
	require.ErrorIs(t, err, ErrNoValidMove)
	require.False(t, got.Valid())
}

func TestSelectAlwaysReturnsEmptyCell(t *testing.T) {
	s := NewWithSeed(8)
	xr := rand.New(rand.NewSource(42))
	for game := 0; game < 200; game++ {
		g := domain.New(domain.SinglePlayer)
		for !g.Over() {
			empties := emptyLocations(g.State())
			x := empties[xr.Intn(len(empties))]
			require.NoError(t, g.Play(x.Column, x.Row))
			if g.Over() {
				break
			}
			before := g.State().Word()
			o, err := s.Select(g.State(), x)
			require.NoError(t, err)
			require.True(t, o.Valid())
			require.Equal(t, before, g.State().Word())
			empty, err := g.State().IsCellEmpty(o.Column, o.Row)
			require.NoError(t, err)
			require.True(t, empty, "selected occupied cell %v on %#x", o, g.State().Board())
			require.NoError(t, g.Play(o.Column, o.Row))
		}
		require.True(t, g.Phase().Terminal())
	}
}

func TestSeededStrategiesAgree(t *testing.T) {
	st := board(t, mark{1, 1, domain.X})
	a, b := NewWithSeed(99), NewWithSeed(99)
	for i := 0; i < 10; i++ {
		la, err := a.Select(st, loc(1, 1))
		require.NoError(t, err)
		lb, err := b.Select(st, loc(1, 1))
		require.NoError(t, err)
		require.Equal(t, la, lb)
	}
}

func TestSeedFallbackIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	seed := osSeed(bytes.NewReader([]byte{1, 0, 0, 0, 0, 0, 0, 0}))
	require.Equal(t, uint64(1), seed)
	require.Empty(t, buf.String())

	osSeed(iotest.ErrReader(errors.New("entropy exhausted")))
	require.Contains(t, buf.String(), "seeding from the clock")
	require.Contains(t, buf.String(), "entropy exhausted")
}
