package llm

import (
	"context"
	"fmt"

	"ai-banker/server/agent"
	"ai-banker/server/psych"
)

// TemplateNarrator renders a fixed line per tactic. It is the degraded mode
// when no model is reachable and the baseline the tests pin down.
type TemplateNarrator struct{}

func (TemplateNarrator) Narrate(_ context.Context, nc agent.NarrationContext) (string, error) {
	return FallbackMessage(nc), nil
}

// FallbackMessage is deterministic: same context, same line.
func FallbackMessage(nc agent.NarrationContext) string {
	switch psych.Tactic(nc.Psychology) {
	case psych.Pressure:
		return fmt.Sprintf("$%d on the table, round %d. Every case you open from here can cut that number in half.", nc.Offer, nc.Round)
	case psych.Reassurance:
		return fmt.Sprintf("Take a breath. $%d is real, guaranteed money — nobody walks away poor taking it.", nc.Offer)
	case psych.Challenge:
		return fmt.Sprintf("Big talk. If you're so sure, turn down $%d and show me.", nc.Offer)
	case psych.Flattery:
		return fmt.Sprintf("You're playing this better than most. $%d says I'd rather pay you now than later.", nc.Offer)
	case psych.WithdrawalThreat:
		return fmt.Sprintf("$%d, and I'm of half a mind to pull it. Offers like this don't sit on the table.", nc.Offer)
	default:
		return fmt.Sprintf("My offer is $%d. Take it or leave it.", nc.Offer)
	}
}
