package psych

type Tactic string

const (
	Pressure         Tactic = "pressure"
	Reassurance      Tactic = "reassurance"
	Challenge        Tactic = "challenge"
	Flattery         Tactic = "flattery"
	WithdrawalThreat Tactic = "withdrawal-threat"
)

type stage int

const (
	early stage = iota // rounds 1-3, same thresholds as the house edge
	mid                // rounds 4-7
	late               // rounds 8+
)

func stageForRound(round int) stage {
	switch {
	case round <= 3:
		return early
	case round <= 7:
		return mid
	default:
		return late
	}
}

// tacticTable is total over the 3x4 stage x sentiment space. Early game the
// banker keeps the player at the table; by the late game every read except
// open hostility converts to closing pressure.
var tacticTable = map[stage]map[Sentiment]Tactic{
	early: {
		Aggressive: Challenge,
		Desperate:  Reassurance,
		Confident:  Flattery,
		Neutral:    Flattery,
	},
	mid: {
		Aggressive: WithdrawalThreat,
		Desperate:  Pressure,
		Confident:  Challenge,
		Neutral:    Reassurance,
	},
	late: {
		Aggressive: WithdrawalThreat,
		Desperate:  Pressure,
		Confident:  Pressure,
		Neutral:    Pressure,
	},
}

// Select picks the round's tactic from the stage x sentiment table. One
// trend rule sits on top: past the early rounds, a confident player who has
// just watched the offer rise gets the withdrawal threat instead, taking
// the improving number back off the table.
func Select(round int, sentiment Sentiment, offerHistory []int) Tactic {
	st := stageForRound(round)
	if st != early && sentiment == Confident && risingOffer(offerHistory) {
		return WithdrawalThreat
	}
	if t, ok := tacticTable[st][sentiment]; ok {
		return t
	}
	return Reassurance
}

func risingOffer(history []int) bool {
	n := len(history)
	return n >= 2 && history[n-1] > history[n-2]
}
