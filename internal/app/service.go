package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/domain"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/store"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/strategy"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotAPlayer  = errors.New("not a player")
)

// CPUPlayer is the seat id of the computer in single player games.
const CPUPlayer = "cpu"

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID       string
	Game     domain.Game
	X        string
	O        string
	LastMove domain.Location
	Created  time.Time
	Updated  time.Time
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Options configures a Service. Zero fields get defaults.
type Options struct {
	Store    store.Store
	Strategy *strategy.Strategy
	Renderer func(GameState) []byte
}

// Service manages games and subscribers.
type Service struct {
	mu     sync.Mutex
	games  map[string]*GameState
	subs   map[string]map[*subscriber]struct{}
	render func(GameState) []byte
	store  store.Store
	cpu    *strategy.Strategy
}

func noRender(GameState) []byte { return nil }

// NewService creates a service backed by an in-memory store.
func NewService() *Service { return NewServiceWith(Options{}) }

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
	return NewServiceWith(Options{Renderer: renderer})
}

// NewServiceWith creates a service from explicit options.
func NewServiceWith(o Options) *Service {
	if o.Renderer == nil {
		o.Renderer = noRender
	}
	if o.Store == nil {
		o.Store = store.NewMemoryStore()
	}
	if o.Strategy == nil {
		o.Strategy = strategy.New()
	}
	return &Service{
		games:  make(map[string]*GameState),
		subs:   make(map[string]map[*subscriber]struct{}),
		render: o.Renderer,
		store:  o.Store,
		cpu:    o.Strategy,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = noRender
		return
	}
	s.render = renderer
}

func newGameState(id string, g domain.Game) *GameState {
	now := time.Now()
	gs := &GameState{ID: id, Game: g, LastMove: domain.NoLocation, Created: now, Updated: now}
	if g.Mode() == domain.SinglePlayer {
		gs.O = CPUPlayer
	}
	return gs
}

// CreateGame creates, persists and registers a new game.
func (s *Service) CreateGame(ctx context.Context, mode domain.Mode) (*GameState, error) {
	id := newGameID()
	gs := newGameState(id, domain.New(mode))
	if err := s.store.Save(ctx, id, gs.Game.State().Word()); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[id] = gs
	log.Info().Str("game", id).Stringer("mode", mode).Msg("game created")
	cp := *gs
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := *gs
	return &cp, true
}

// Resume returns a registered game, loading it from the store if needed.
// Stored words that fail validation are rejected.
func (s *Service) Resume(ctx context.Context, id string) (*GameState, error) {
	if gs, ok := s.Get(id); ok {
		return gs, nil
	}
	w, err := s.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	st, err := domain.FromWord(w)
	if err != nil {
		log.Warn().Str("game", id).Err(err).Msg("refusing corrupt stored game")
		return nil, fmt.Errorf("resume %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		gs = newGameState(id, domain.FromState(st))
		s.games[id] = gs
	}
	cp := *gs
	return &cp, nil
}

// Join assigns a seat to the player if available; returns Empty for spectators.
// The O seat of a single player game belongs to the CPU.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return domain.Empty, nil, ErrNotFound
	}
	side := domain.Empty
	if gs.X == "" || gs.X == playerID {
		gs.X = playerID
		side = domain.X
	} else if gs.O == "" || gs.O == playerID {
		gs.O = playerID
		side = domain.O
	}
	gs.Updated = time.Now()
	cp := *gs
	return side, &cp, nil
}

// Play validates seat and turn, applies a move (and the CPU's reply in single
// player games), persists, and broadcasts.
func (s *Service) Play(ctx context.Context, id, playerID string, column, row int) (*GameState, error) {
	if _, ok := s.Get(id); !ok {
		if _, err := s.Resume(ctx, id); err != nil {
			return nil, err
		}
		// Seats are not stored; a player acting on a reloaded game takes a free one.
		if _, _, err := s.Join(id, playerID); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	var seat domain.Cell
	switch playerID {
	case gs.X:
		seat = domain.X
	case gs.O:
		seat = domain.O
	default:
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if playerID == CPUPlayer {
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if seat != gs.Game.Turn() {
		s.mu.Unlock()
		if gs.Game.Over() {
			return nil, domain.ErrGameOver
		}
		return nil, ErrNotYourTurn
	}

	next := gs.Game
	if err := next.Play(column, row); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	last := domain.Location{Column: column, Row: row}
	if next.Mode() == domain.SinglePlayer && next.Turn() == domain.O {
		reply, err := s.cpu.Select(next.State(), last)
		if err == nil {
			err = next.Play(reply.Column, reply.Row)
		}
		if err != nil {
			s.mu.Unlock()
			log.Error().Str("game", id).Err(err).Msg("cpu could not move")
			return nil, fmt.Errorf("cpu move: %w", err)
		}
		log.Debug().Str("game", id).Stringer("human", last).Stringer("cpu", reply).Msg("cpu replied")
		last = reply
	}

	if err := s.store.Save(ctx, id, next.State().Word()); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	gs.Game = next
	gs.LastMove = last
	gs.Updated = time.Now()
	if gs.Game.Over() {
		log.Info().Str("game", id).Stringer("phase", gs.Game.Phase()).Msg("game finished")
	}

	cp := *gs
	subs := s.copySubsLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	s.broadcast(id, subs, payload)
	return &cp, nil
}

// Delete forgets a game, in memory and in the store, and closes its
// subscribers. Games that exist only in the store are deleted too.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, known := s.games[id]
	s.mu.Unlock()
	if !known {
		_, err := s.store.Load(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	for sub := range s.subs[id] {
		sub.close()
	}
	delete(s.subs, id)
	log.Info().Str("game", id).Msg("game deleted")
	return nil
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

// broadcast fans out; slow subscribers are closed and dropped.
func (s *Service) broadcast(id string, subs map[*subscriber]struct{}, payload []byte) {
	var toDrop []*subscriber
	for sub := range subs {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) == 0 {
		return
	}
	s.mu.Lock()
	for _, sub := range toDrop {
		if set, ok := s.subs[id]; ok {
			delete(set, sub)
		}
	}
	s.mu.Unlock()
	log.Debug().Str("game", id).Int("dropped", len(toDrop)).Msg("dropped slow subscribers")
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
