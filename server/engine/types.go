package engine

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Terminal reports whether no further mutation of the game is permitted.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusAbandoned }

type MessageType string

const (
	MsgOffer        MessageType = "offer"
	MsgText         MessageType = "text"
	MsgDealAccepted MessageType = "deal_accepted"
	MsgGameOver     MessageType = "game_over"
)

// GameState is the full per-game state. The field set doubles as the
// serialization contract for the archival store.
type GameState struct {
	GameID         string   `json:"game_id"`
	Round          int      `json:"round"`
	RemainingCards []int    `json:"remaining_cards"`
	BurntCards     []int    `json:"burnt_cards"`
	SelectedCase   *int     `json:"selected_case"`
	CurrentOffer   *int     `json:"current_offer"`
	ExpectedValue  *int     `json:"expected_value"`
	HouseEdge      *float64 `json:"house_edge"`
	OfferHistory   []int    `json:"offer_history"`
	Status         Status   `json:"status"`
}

// BankerResponse is the engine's structured decision for one turn. It is a
// value object; the session store merges narration text into Message.
type BankerResponse struct {
	MessageType MessageType `json:"message_type"`
	Message     string      `json:"message"`
	Offer       *int        `json:"offer"`
	Sentiment   string      `json:"sentiment,omitempty"`
	Psychology  string      `json:"psychology,omitempty"`
	GameState   GameState   `json:"game_state"`
}
