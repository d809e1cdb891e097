// Package session owns the process-wide game registry: game id to state plus
// chat transcript. Mutating operations are serialized per game id; distinct
// games never contend. Later callers for the same game block on its lock
// rather than failing; that is the conflict policy for this store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/xid"

	"ai-banker/server/agent"
	"ai-banker/server/engine"
	"ai-banker/server/llm"
)

var ErrNotFound = errors.New("game not found")

const (
	SenderPlayer = "player"
	SenderBanker = "banker"
)

// ChatTurn is one append-only transcript entry.
type ChatTurn struct {
	Sender      string             `json:"sender"`
	Message     string             `json:"message"`
	MessageType engine.MessageType `json:"message_type"`
	Round       int                `json:"round"`
	Sentiment   string             `json:"sentiment,omitempty"`
	Psychology  string             `json:"psychology,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
}

// Archiver persists finished games. Implemented by the Postgres store;
// optional.
type Archiver interface {
	ArchiveGame(ctx context.Context, state engine.GameState, history []ChatTurn) error
}

type Store struct {
	games    *cache.Cache
	narrator llm.Narrator
	archiver Archiver
	log      *slog.Logger

	// finished games linger this long before eviction so late history
	// reads still resolve.
	retention time.Duration
}

// entry is the unit of per-game serialization: its mutex guards both state
// and transcript. The lock lives with the entry so eviction drops both.
type entry struct {
	mu      sync.Mutex
	state   engine.GameState
	history []ChatTurn
}

func newEntry(state engine.GameState) *entry {
	return &entry{state: state}
}

func New(narrator llm.Narrator, archiver Archiver, retention time.Duration, log *slog.Logger) *Store {
	if narrator == nil {
		narrator = llm.TemplateNarrator{}
	}
	if retention <= 0 {
		retention = time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		games:     cache.New(cache.NoExpiration, 10*time.Minute),
		narrator:  narrator,
		archiver:  archiver,
		retention: retention,
		log:       log,
	}
}

// Create allocates a fresh game over the canonical deck and seeds the
// transcript with the banker's opening line. No round is consumed.
func (s *Store) Create(ctx context.Context) (engine.GameState, ChatTurn, error) {
	id := xid.New().String()
	state := engine.NewGameState(id)
	welcome := ChatTurn{
		Sender:      SenderBanker,
		Message:     "Welcome to the Banker's table. Pick your case, burn the rest, and we'll talk numbers. The house always wins.",
		MessageType: engine.MsgText,
		Round:       state.Round,
		Timestamp:   time.Now().UTC(),
	}
	e := newEntry(state)
	e.history = append(e.history, welcome)
	s.games.Set(id, e, cache.NoExpiration)
	s.log.Info("game created", "game_id", id, "cards", len(state.RemainingCards))
	return state, welcome, nil
}

// Get returns a copy of the current state. Repeated calls without an Apply
// in between return identical state.
func (s *Store) Get(gameID string) (engine.GameState, error) {
	e, err := s.entry(gameID)
	if err != nil {
		return engine.GameState{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, nil
}

// Apply runs one negotiation turn: the engine decides, the narrator speaks,
// both turns land in the transcript and the new state is persisted. A failed
// turn leaves state and transcript untouched.
func (s *Store) Apply(ctx context.Context, gameID, message string) (engine.BankerResponse, error) {
	e, err := s.entry(gameID)
	if err != nil {
		return engine.BankerResponse{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	prevRound := e.state.Round
	next, resp, err := engine.AdvanceRound(e.state, message)
	if err != nil {
		return engine.BankerResponse{}, fmt.Errorf("advance round: %w", err)
	}

	if resp.MessageType == engine.MsgOffer {
		resp.Message = s.narrate(ctx, next, resp, message)
	}

	now := time.Now().UTC()
	e.history = append(e.history,
		ChatTurn{Sender: SenderPlayer, Message: message, MessageType: engine.MsgText, Round: prevRound, Timestamp: now},
		ChatTurn{
			Sender:      SenderBanker,
			Message:     resp.Message,
			MessageType: resp.MessageType,
			Round:       prevRound,
			Sentiment:   resp.Sentiment,
			Psychology:  resp.Psychology,
			Timestamp:   now,
		},
	)
	e.state = next

	if next.Status.Terminal() {
		s.finish(ctx, gameID, e)
	}
	return resp, nil
}

// Abandon is the explicit terminal transition distinct from completion.
func (s *Store) Abandon(ctx context.Context, gameID string) (engine.GameState, error) {
	return s.mutate(ctx, gameID, engine.Abandon)
}

// Burn reveals a card between rounds.
func (s *Store) Burn(ctx context.Context, gameID string, value int) (engine.GameState, error) {
	return s.mutate(ctx, gameID, func(st engine.GameState) (engine.GameState, error) {
		return engine.BurnCard(st, value)
	})
}

// SelectCase sets the player's held case.
func (s *Store) SelectCase(ctx context.Context, gameID string, value int) (engine.GameState, error) {
	return s.mutate(ctx, gameID, func(st engine.GameState) (engine.GameState, error) {
		return engine.SelectCase(st, value)
	})
}

// ListActive returns the ids of games still accepting moves.
func (s *Store) ListActive() []string {
	ids := []string{}
	for id, item := range s.games.Items() {
		e, ok := item.Object.(*entry)
		if !ok {
			continue
		}
		e.mu.Lock()
		active := e.state.Status == engine.StatusActive
		e.mu.Unlock()
		if active {
			ids = append(ids, id)
		}
	}
	return ids
}

// History returns a copy of the transcript in append order.
func (s *Store) History(gameID string) ([]ChatTurn, error) {
	e, err := s.entry(gameID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ChatTurn(nil), e.history...), nil
}

func (s *Store) mutate(ctx context.Context, gameID string, fn func(engine.GameState) (engine.GameState, error)) (engine.GameState, error) {
	e, err := s.entry(gameID)
	if err != nil {
		return engine.GameState{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	next, err := fn(e.state)
	if err != nil {
		return engine.GameState{}, err
	}
	e.state = next
	if next.Status.Terminal() {
		s.finish(ctx, gameID, e)
	}
	return next, nil
}

// finish archives a terminal game and re-registers it with the retention
// TTL so the registry cannot grow without bound. Caller holds the entry
// lock.
func (s *Store) finish(ctx context.Context, gameID string, e *entry) {
	if s.archiver != nil {
		if err := s.archiver.ArchiveGame(ctx, e.state, e.history); err != nil {
			s.log.Warn("archive failed", "game_id", gameID, "err", err)
		}
	}
	s.games.Set(gameID, e, s.retention)
	s.log.Info("game finished", "game_id", gameID, "status", string(e.state.Status), "rounds", e.state.Round)
}

func (s *Store) entry(gameID string) (*entry, error) {
	item, ok := s.games.Get(gameID)
	if !ok {
		return nil, ErrNotFound
	}
	e, ok := item.(*entry)
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *Store) narrate(ctx context.Context, state engine.GameState, resp engine.BankerResponse, playerMessage string) string {
	nc := agent.BuildNarrationContext(state, resp, playerMessage)
	msg, err := s.narrator.Narrate(ctx, nc)
	if err != nil || msg == "" {
		if err != nil {
			s.log.Warn("narration fallback", "game_id", state.GameID, "err", err)
		}
		return llm.FallbackMessage(nc)
	}
	return msg
}
