package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/cli"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/config"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/gamefile"
)

func main() {
	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.Home != "" {
		_ = os.Setenv(gamefile.HomeEnv, cfg.Home)
	}
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
