package main

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/app"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/config"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/store"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/strategy"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/web"
)

func main() {
	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)

	var st store.Store = store.NewMemoryStore()
	if cfg.DBPath != "" {
		db, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
		}
		defer db.Close()
		st = db
	}

	svc := app.NewServiceWith(app.Options{Store: st, Strategy: strategy.New()})
	log.Info().Str("addr", cfg.Addr()).Bool("sqlite", cfg.DBPath != "").Msg("starting tic-tac-toe server")
	if err := http.ListenAndServe(cfg.Addr(), web.NewServer(svc)); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
