package engine

import "errors"

var (
	// ErrInvalidCard: deck operation named a value that is not in play.
	ErrInvalidCard = errors.New("card not in remaining cards")
	// ErrAlreadySelected: the held case can only be chosen once per game.
	ErrAlreadySelected = errors.New("case already selected")
	// ErrEmptyDeck is a completion signal, not a user-facing failure: no
	// cards remain, so no further offers are possible.
	ErrEmptyDeck = errors.New("no remaining cards")
	// ErrTerminalGame: mutation attempted on a completed/abandoned game.
	ErrTerminalGame = errors.New("game already finished")
)
