package engine

import (
	"math"

	"github.com/samber/lo"
)

// ExpectedValue returns the arithmetic mean of the remaining cards,
// round-half-up to the nearest integer. ErrEmptyDeck signals that the game
// is over rather than a failure.
func ExpectedValue(remaining []int) (int, error) {
	if len(remaining) == 0 {
		return 0, ErrEmptyDeck
	}
	mean := float64(lo.Sum(remaining)) / float64(len(remaining))
	return roundHalfUp(mean), nil
}

// EdgeForRound is the banker's discount step function. The edge only ever
// relaxes as rounds advance: late-game offers approach true expected value.
func EdgeForRound(round int) float64 {
	switch {
	case round <= 3:
		return 0.20
	case round <= 7:
		return 0.15
	default:
		return 0.10
	}
}

// Offer applies the house edge to the expected value under the single pinned
// rounding rule.
func Offer(expectedValue int, edge float64) int {
	return roundHalfUp(float64(expectedValue) * (1 - edge))
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
