package engine

import "github.com/samber/lo"

// CanonicalDeck is the reference prize ladder: 20 distinct values from $1 to
// $1,000,000 summing to $4,036,581.
var CanonicalDeck = []int{
	1, 5, 25, 50, 500, 1000, 5000, 10000, 20000, 25000,
	50000, 75000, 100000, 200000, 300000, 400000, 500000,
	600000, 750000, 1000000,
}

// Deck tracks which prize values are still in contention. A value lives in
// exactly one place: remaining, burnt, or the single selected case.
type Deck struct {
	Remaining []int `json:"remaining_cards"`
	Burnt     []int `json:"burnt_cards"`
	Selected  *int  `json:"selected_case"`
}

// NewDeck returns the canonical deck with every card in play.
func NewDeck() Deck {
	return Deck{
		Remaining: append([]int(nil), CanonicalDeck...),
		Burnt:     []int{},
	}
}

// Burn reveals a card and removes it from contention. Append order of Burnt
// is the reveal order. The deck is unchanged on error.
func (d Deck) Burn(value int) (Deck, error) {
	if !lo.Contains(d.Remaining, value) {
		return d, ErrInvalidCard
	}
	out := Deck{
		Remaining: lo.Without(d.Remaining, value),
		Burnt:     append(append([]int(nil), d.Burnt...), value),
		Selected:  d.Selected,
	}
	return out, nil
}

// SelectCase sets the player's held case. The value leaves Remaining but is
// never burnt; it is excluded from all offer math until the deck runs out.
func (d Deck) SelectCase(value int) (Deck, error) {
	if d.Selected != nil {
		return d, ErrAlreadySelected
	}
	if !lo.Contains(d.Remaining, value) {
		return d, ErrInvalidCard
	}
	v := value
	out := Deck{
		Remaining: lo.Without(d.Remaining, value),
		Burnt:     append([]int(nil), d.Burnt...),
		Selected:  &v,
	}
	return out, nil
}
