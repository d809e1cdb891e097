package session

import "ai-banker/server/engine"

// Stats summarizes one negotiation: how many offers went out, how they
// moved, and how the player read across the transcript.
type Stats struct {
	GameID         string         `json:"game_id"`
	Status         engine.Status  `json:"status"`
	Round          int            `json:"round"`
	Offers         int            `json:"offers"`
	FirstOffer     int            `json:"first_offer"`
	LastOffer      int            `json:"last_offer"`
	MinOffer       int            `json:"min_offer"`
	MaxOffer       int            `json:"max_offer"`
	Sentiments     map[string]int `json:"sentiments"`
	Tactics        map[string]int `json:"tactics"`
	CardsRemaining int            `json:"cards_remaining"`
	CardsBurnt     int            `json:"cards_burnt"`
}

// Stats derives the summary from the live state and transcript.
func (s *Store) Stats(gameID string) (Stats, error) {
	e, err := s.entry(gameID)
	if err != nil {
		return Stats{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Stats{
		GameID:         e.state.GameID,
		Status:         e.state.Status,
		Round:          e.state.Round,
		Offers:         len(e.state.OfferHistory),
		Sentiments:     map[string]int{},
		Tactics:        map[string]int{},
		CardsRemaining: len(e.state.RemainingCards),
		CardsBurnt:     len(e.state.BurntCards),
	}
	for i, offer := range e.state.OfferHistory {
		if i == 0 {
			st.FirstOffer, st.MinOffer, st.MaxOffer = offer, offer, offer
		}
		if offer < st.MinOffer {
			st.MinOffer = offer
		}
		if offer > st.MaxOffer {
			st.MaxOffer = offer
		}
		st.LastOffer = offer
	}
	for _, turn := range e.history {
		if turn.Sentiment != "" {
			st.Sentiments[turn.Sentiment]++
		}
		if turn.Psychology != "" {
			st.Tactics[turn.Psychology]++
		}
	}
	return st, nil
}
