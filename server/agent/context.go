package agent

import (
	"encoding/json"
	"fmt"

	"ai-banker/server/engine"
)

// NarrationContext is the structured payload handed to the
// language-generation collaborator. The numbers are authoritative; the
// collaborator only supplies prose around them.
type NarrationContext struct {
	Round              int     `json:"round"`
	Offer              int     `json:"offer"`
	ExpectedValue      int     `json:"expected_value"`
	HouseEdge          float64 `json:"house_edge"`
	Sentiment          string  `json:"sentiment"`
	Psychology         string  `json:"psychology"`
	RemainingCardCount int     `json:"remaining_card_count"`
	PlayerMessage      string  `json:"player_message"`
}

// BuildNarrationContext converts the engine's decision into the JSON we send
// the model.
func BuildNarrationContext(state engine.GameState, resp engine.BankerResponse, playerMessage string) NarrationContext {
	nc := NarrationContext{
		Round:              state.Round,
		Sentiment:          resp.Sentiment,
		Psychology:         resp.Psychology,
		RemainingCardCount: len(state.RemainingCards),
		PlayerMessage:      playerMessage,
	}
	if resp.Offer != nil {
		nc.Offer = *resp.Offer
	}
	if state.ExpectedValue != nil {
		nc.ExpectedValue = *state.ExpectedValue
	}
	if state.HouseEdge != nil {
		nc.HouseEdge = *state.HouseEdge
	}
	return nc
}

// BankerSystem is the narration model's standing instruction set.
const BankerSystem = `You are the Banker in a high-stakes deal-or-no-deal money game.
Your job is to deliver the house's offer while keeping the house advantage.

Directives:
- The offer amount is fixed by the rules engine; never invent a different number.
- Witty, shrewd, professional. Sometimes playful, sometimes cold.
- Apply the named psychology tactic to your tone.
- Keep it to 1-3 short sentences. No markdown, no emoji.

Output format:
- Respond ONLY with a single compact JSON object: {"message":"<your line to the player>"}
- No extra keys. No prose outside the JSON.`

// UserPrompt renders the per-turn request body sent alongside BankerSystem.
func (nc NarrationContext) UserPrompt() string {
	raw, _ := json.Marshal(nc)
	return fmt.Sprintf(`Given this negotiation context JSON:
%s

Speak the banker's line for this round. The offer is $%d; the tactic is %q.
Respond ONLY with {"message":"..."}.`, raw, nc.Offer, nc.Psychology)
}
