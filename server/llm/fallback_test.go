package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"ai-banker/server/agent"
	"ai-banker/server/psych"
)

func TestFallbackMessageDeterministic(t *testing.T) {
	nc := agent.NarrationContext{Round: 4, Offer: 120500, Psychology: string(psych.Pressure)}
	first := FallbackMessage(nc)
	require.NotEmpty(t, first)
	for i := 0; i < 20; i++ {
		require.Equal(t, first, FallbackMessage(nc))
	}
}

func TestFallbackMessageCoversEveryTactic(t *testing.T) {
	tactics := []psych.Tactic{
		psych.Pressure, psych.Reassurance, psych.Challenge,
		psych.Flattery, psych.WithdrawalThreat,
	}
	seen := map[string]bool{}
	for _, tac := range tactics {
		nc := agent.NarrationContext{Round: 2, Offer: 161463, Psychology: string(tac)}
		msg := FallbackMessage(nc)
		require.NotEmpty(t, msg, "tactic %s", tac)
		require.Contains(t, msg, "161463", "the fixed offer number must appear")
		seen[msg] = true
	}
	require.Len(t, seen, len(tactics), "each tactic gets its own line")

	// unknown tactic still produces a line with the number
	msg := FallbackMessage(agent.NarrationContext{Offer: 500})
	require.Contains(t, msg, "500")
}

func TestTemplateNarratorNeverErrors(t *testing.T) {
	nc := agent.NarrationContext{Round: 1, Offer: 161463, Psychology: string(psych.Flattery)}
	msg, err := TemplateNarrator{}.Narrate(context.Background(), nc)
	require.NoError(t, err)
	require.Equal(t, FallbackMessage(nc), msg)
}
