// Package cli implements the ttt command: a single game of tic-tac-toe kept
// in a file in the player's home directory.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/domain"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/gamefile"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/render"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/strategy"
)

var errUsage = errors.New("usage")

const usage = `USAGE:
  ttt new single|multiplayer   start a new game
  ttt turn COLUMN ROW          play a move; the computer answers in single player games
  ttt show                     print the board
  ttt delete                   remove the saved game
Valid values are "0", "1", or "2" for both columns and rows.
`

// Command carries the dependencies of one invocation.
type Command struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Strategy *strategy.Strategy
	// Profile forces a colour profile for the board; nil detects it from Stdout.
	Profile *termenv.Profile

	log zerolog.Logger
}

// Run executes args (without the program name) and returns the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	c := &Command{Stdout: stdout, Stderr: stderr}
	return c.Run(args)
}

func (c *Command) Run(args []string) int {
	c.log = zerolog.New(zerolog.ConsoleWriter{Out: c.Stderr, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}).
		Level(zerolog.GlobalLevel())
	if c.Strategy == nil {
		c.Strategy = strategy.New()
	}
	err := c.dispatch(args)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(c.Stderr, err)
		fmt.Fprint(c.Stderr, usage)
		return 1
	default:
		c.log.Error().Err(err).Msg("command failed")
		return 1
	}
}

func (c *Command) dispatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", errUsage)
	}
	switch args[0] {
	case "new":
		if len(args) != 2 {
			return fmt.Errorf("%w: new takes a game mode", errUsage)
		}
		mode, err := domain.ParseMode(args[1])
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		return c.newGame(mode)
	case "turn":
		if len(args) != 3 {
			return fmt.Errorf("%w: turn takes a column and a row", errUsage)
		}
		column, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: the column value could not be read", errUsage)
		}
		row, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("%w: the row value could not be read", errUsage)
		}
		return c.turn(column, row)
	case "show":
		return c.show()
	case "delete":
		return c.remove()
	case "help", "-h", "--help":
		fmt.Fprint(c.Stdout, usage)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func (c *Command) printer() *render.Printer {
	if c.Profile != nil {
		return render.NewPrinter(c.Stdout, termenv.WithProfile(*c.Profile))
	}
	return render.NewPrinter(c.Stdout)
}

func (c *Command) gamePath() (string, error) {
	home, err := gamefile.FindHome()
	if err != nil {
		return "", err
	}
	c.log.Debug().Str("home", home).Msg("home directory found")
	return gamefile.DefaultPath(home), nil
}

func (c *Command) open() (*gamefile.File, error) {
	path, err := c.gamePath()
	if err != nil {
		return nil, err
	}
	return gamefile.Open(path)
}

func (c *Command) newGame(mode domain.Mode) error {
	f, err := c.open()
	if err != nil {
		return err
	}
	g := f.Game()
	if f.Existed {
		c.log.Info().Str("path", f.Path()).Msg("clearing existing game")
		g.Clear()
	} else {
		c.log.Info().Str("path", f.Path()).Msg("creating new game")
	}
	if err := g.SetMode(mode); err != nil {
		_ = f.Discard()
		return err
	}
	f.SetGame(g)
	if err := f.Close(); err != nil {
		return err
	}
	return c.printer().Print(g.State())
}

func (c *Command) turn(column, row int) error {
	f, err := c.open()
	if err != nil {
		return err
	}
	g := f.Game()
	if err := g.Play(column, row); err != nil {
		_ = f.Discard()
		return fmt.Errorf("move %s: %w", domain.Location{Column: column, Row: row}, err)
	}
	if g.Mode() == domain.SinglePlayer && g.Phase() == domain.TurnO {
		loc, err := c.Strategy.Select(g.State(), domain.Location{Column: column, Row: row})
		if err != nil {
			_ = f.Discard()
			return fmt.Errorf("cpu move: %w", err)
		}
		if err := g.Play(loc.Column, loc.Row); err != nil {
			_ = f.Discard()
			return fmt.Errorf("cpu move %s: %w", loc, err)
		}
		c.log.Debug().Stringer("location", loc).Msg("cpu replied")
	}
	f.SetGame(g)
	if err := f.Close(); err != nil {
		return err
	}
	return c.printer().Print(g.State())
}

func (c *Command) show() error {
	f, err := c.open()
	if err != nil {
		return err
	}
	g := f.Game()
	if err := f.Discard(); err != nil {
		return err
	}
	return c.printer().Print(g.State())
}

func (c *Command) remove() error {
	path, err := c.gamePath()
	if err != nil {
		return err
	}
	removed, err := gamefile.Remove(path)
	if err != nil {
		return err
	}
	if !removed {
		c.log.Info().Str("path", path).Msg("no game to delete")
		return nil
	}
	c.log.Info().Str("path", path).Msg("game deleted")
	return nil
}
