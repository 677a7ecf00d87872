package web

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/app"
)

// NewServer wires routes and returns an http.Handler. Board updates pushed to
// subscribers are rendered with the same fragment the play endpoint returns.
func NewServer(s *app.Service) http.Handler {
	r := chi.NewRouter()
	h := &handlers{svc: s, tpl: loadTemplates()}
	s.SetRenderer(func(gs app.GameState) []byte {
		// SSE data lines cannot carry raw newlines.
		return bytes.ReplaceAll(h.renderBoard(gs, ""), []byte("\n"), nil)
	})
	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Delete("/", h.remove)
		r.Post("/join", h.join)
		r.Post("/play", h.play)
		r.Get("/events", h.events)
	})
	return r
}
