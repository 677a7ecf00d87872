package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/app"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/domain"
)

type handlers struct {
	svc *app.Service
	tpl *templates
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", newBoardData(gs, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	mode := domain.SinglePlayer
	if v := r.Form.Get("mode"); v != "" {
		m, err := domain.ParseMode(v)
		if err != nil {
			http.Error(w, "unknown game mode", http.StatusBadRequest)
			return
		}
		mode = m
	}
	gs, err := h.svc.CreateGame(r.Context(), mode)
	if err != nil {
		log.Error().Err(err).Msg("create game")
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.svc.Resume(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			http.Error(w, "stored game is corrupt", http.StatusUnprocessableEntity)
			return
		}
		http.NotFound(w, r)
		return
	}
	// ensure cookie and auto-claim seat
	pid := ensurePlayerCookie(w, r)
	_, _, _ = h.svc.Join(id, pid)

	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.game, "", newBoardData(*gs, "")))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	_, gs, err := h.svc.Join(id, pid)
	if err != nil || gs == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, ""))
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, app.ErrNotAPlayer):
		return "You are a spectator"
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrIndexOutOfRange):
		return "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	default:
		return "Invalid move"
	}
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	_ = r.ParseForm()
	column, cerr := strconv.Atoi(r.Form.Get("c"))
	row, rerr := strconv.Atoi(r.Form.Get("r"))
	if cerr != nil || rerr != nil {
		// Unparseable input lands outside the board and is reported as such.
		column, row = -1, -1
	}
	gs, err := h.svc.Play(r.Context(), id, pid, column, row)
	var errMsg string
	if err != nil {
		errMsg = errorMessage(err)
		log.Debug().Err(err).Str("game", id).Int("column", column).Int("row", row).Msg("move rejected")
		if g, ok := h.svc.Get(id); ok {
			gs = g
		}
	}
	if gs == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, errMsg))
}

func (h *handlers) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, app.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Error().Err(err).Str("game", id).Msg("delete game")
		http.Error(w, "failed to delete", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, _ := h.svc.Subscribe(ctx, id)
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: board\n")
			_, _ = fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}
