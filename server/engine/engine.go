// Package engine holds the offer and game-state logic for the banker: the
// prize deck, expected-value math, the house-edge schedule, and the pure
// round transition. No I/O happens here; the session store owns persistence
// and the narration client owns prose.
package engine

import (
	"fmt"
	"strings"

	"ai-banker/server/psych"
)

// Phrases scanned (lowercased, substring match) before any offer math.
// Rejection wins ties, matching the original table behavior where "no deal"
// beats the embedded "deal".
var (
	acceptPhrases = []string{
		"accept", "take it", "i'll take it", "ill take it",
		"agreed", "deal accepted", "take the deal", "yes",
	}
	rejectPhrases = []string{
		"no deal", "reject", "decline", "no thanks", "not interested", "pass",
	}
)

// NewGameState returns a fresh active game over the canonical deck.
func NewGameState(gameID string) GameState {
	deck := NewDeck()
	return GameState{
		GameID:         gameID,
		Round:          1,
		RemainingCards: deck.Remaining,
		BurntCards:     deck.Burnt,
		OfferHistory:   []int{},
		Status:         StatusActive,
	}
}

// AdvanceRound is the core transition: given the current state and the
// player's latest message it produces the next state and the banker's
// structured decision. It is a pure transform; on error the returned state
// is the input unchanged.
//
// Order of operations: terminal check, deal-intent scan, expected value,
// house edge, offer, sentiment, tactic, round increment.
func AdvanceRound(state GameState, playerMessage string) (GameState, BankerResponse, error) {
	if state.Status.Terminal() {
		return state, BankerResponse{}, ErrTerminalGame
	}

	if resp, ok := resolveDealIntent(state, playerMessage); ok {
		next := clone(state)
		next.Status = StatusCompleted
		resp.GameState = next
		return next, resp, nil
	}

	ev, err := ExpectedValue(state.RemainingCards)
	if err != nil {
		// Deck exhausted: the game resolves to the held case.
		next := clone(state)
		next.Status = StatusCompleted
		resp := BankerResponse{
			MessageType: MsgText,
			Offer:       next.SelectedCase,
			GameState:   next,
		}
		if next.SelectedCase != nil {
			resp.Message = fmt.Sprintf("No cards left to play. Your case holds $%d.", *next.SelectedCase)
		} else {
			resp.Message = "No cards left to play. The table is closed."
		}
		return next, resp, nil
	}

	edge := EdgeForRound(state.Round)
	offer := Offer(ev, edge)
	sentiment := psych.Classify(playerMessage)

	next := clone(state)
	next.ExpectedValue = &ev
	next.HouseEdge = &edge
	next.CurrentOffer = &offer
	next.OfferHistory = append(next.OfferHistory, offer)

	tactic := psych.Select(state.Round, sentiment, next.OfferHistory)
	next.Round++

	resp := BankerResponse{
		MessageType: MsgOffer,
		Offer:       &offer,
		Sentiment:   string(sentiment),
		Psychology:  string(tactic),
		GameState:   next,
	}
	return next, resp, nil
}

// Abandon marks the game abandoned. Terminal states reject further moves.
func Abandon(state GameState) (GameState, error) {
	if state.Status.Terminal() {
		return state, ErrTerminalGame
	}
	next := clone(state)
	next.Status = StatusAbandoned
	return next, nil
}

// BurnCard removes a revealed card from the game between rounds.
func BurnCard(state GameState, value int) (GameState, error) {
	if state.Status.Terminal() {
		return state, ErrTerminalGame
	}
	deck, err := deckOf(state).Burn(value)
	if err != nil {
		return state, err
	}
	return withDeck(state, deck), nil
}

// SelectCase sets the player's held case.
func SelectCase(state GameState, value int) (GameState, error) {
	if state.Status.Terminal() {
		return state, ErrTerminalGame
	}
	deck, err := deckOf(state).SelectCase(value)
	if err != nil {
		return state, err
	}
	return withDeck(state, deck), nil
}

func resolveDealIntent(state GameState, message string) (BankerResponse, bool) {
	if state.CurrentOffer == nil {
		return BankerResponse{}, false
	}
	msg := strings.ToLower(message)
	for _, p := range rejectPhrases {
		if strings.Contains(msg, p) {
			return BankerResponse{
				MessageType: MsgGameOver,
				Message:     "Deal rejected. The table is closed — better luck next time.",
				Offer:       state.CurrentOffer,
			}, true
		}
	}
	for _, p := range acceptPhrases {
		if strings.Contains(msg, p) {
			offer := *state.CurrentOffer
			return BankerResponse{
				MessageType: MsgDealAccepted,
				Message:     fmt.Sprintf("Deal accepted. You walk away with $%d in guaranteed money.", offer),
				Offer:       &offer,
			}, true
		}
	}
	return BankerResponse{}, false
}

func deckOf(state GameState) Deck {
	return Deck{
		Remaining: state.RemainingCards,
		Burnt:     state.BurntCards,
		Selected:  state.SelectedCase,
	}
}

func withDeck(state GameState, deck Deck) GameState {
	next := clone(state)
	next.RemainingCards = deck.Remaining
	next.BurntCards = deck.Burnt
	next.SelectedCase = deck.Selected
	return next
}

// clone deep-copies the slices so a failed or concurrent caller never
// observes partial mutation of shared state.
func clone(state GameState) GameState {
	out := state
	out.RemainingCards = append([]int(nil), state.RemainingCards...)
	out.BurntCards = append([]int(nil), state.BurntCards...)
	out.OfferHistory = append([]int(nil), state.OfferHistory...)
	if state.SelectedCase != nil {
		v := *state.SelectedCase
		out.SelectedCase = &v
	}
	if state.CurrentOffer != nil {
		v := *state.CurrentOffer
		out.CurrentOffer = &v
	}
	if state.ExpectedValue != nil {
		v := *state.ExpectedValue
		out.ExpectedValue = &v
	}
	if state.HouseEdge != nil {
		v := *state.HouseEdge
		out.HouseEdge = &v
	}
	return out
}
