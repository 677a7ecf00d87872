// Package render prints a game board as text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/domain"
)

// Printer writes boards to a terminal, colouring marks when the terminal
// supports it.
type Printer struct {
	w   io.Writer
	out *termenv.Output
}

func NewPrinter(w io.Writer, opts ...termenv.OutputOption) *Printer {
	return &Printer{w: w, out: termenv.NewOutput(w, opts...)}
}

func (p *Printer) mark(c domain.Cell) string {
	switch c {
	case domain.X:
		return p.out.String("X").Foreground(p.out.Color("1")).Bold().String()
	case domain.O:
		return p.out.String("O").Foreground(p.out.Color("4")).Bold().String()
	default:
		return " "
	}
}

// Board renders st as a grid with column and row headers and a status line:
//
//	    0   1   2
//	0   X |   | O
//	   ---+---+---
//	1     | X |
//	...
func (p *Printer) Board(st domain.State) string {
	var b strings.Builder
	b.WriteString("    0   1   2\n")
	for row := 0; row < 3; row++ {
		if row > 0 {
			b.WriteString("   ---+---+---\n")
		}
		fmt.Fprintf(&b, "%d  ", row)
		for column := 0; column < 3; column++ {
			c, _ := st.Cell(column, row)
			if column > 0 {
				b.WriteString("|")
			}
			fmt.Fprintf(&b, " %s ", p.mark(c))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(Status(st))
	b.WriteString("\n")
	return b.String()
}

// Print writes the rendered board.
func (p *Printer) Print(st domain.State) error {
	_, err := io.WriteString(p.w, p.Board(st))
	return err
}

// Status describes the phase in words.
func Status(st domain.State) string {
	mode := "two players"
	if st.Mode() == domain.SinglePlayer {
		mode = "vs CPU"
	}
	switch st.Phase() {
	case domain.TurnX:
		return fmt.Sprintf("X to move (%s)", mode)
	case domain.TurnO:
		return fmt.Sprintf("O to move (%s)", mode)
	case domain.WinX:
		return "X wins"
	case domain.WinO:
		return "O wins"
	case domain.Draw:
		return "Draw"
	default:
		return st.Phase().String()
	}
}
