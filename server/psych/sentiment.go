// Package psych classifies player messages and picks the banker's
// negotiation stance. Everything here is table-driven and deterministic so
// the same transcript always produces the same reads.
package psych

import "strings"

type Sentiment string

const (
	Confident  Sentiment = "confident"
	Desperate  Sentiment = "desperate"
	Aggressive Sentiment = "aggressive"
	Neutral    Sentiment = "neutral"
)

// sentimentRule matches when any of its phrases occurs in the lowercased
// message. Rules are evaluated in order; first hit wins, which encodes the
// aggressive > desperate > confident > neutral precedence.
type sentimentRule struct {
	label   Sentiment
	phrases []string
}

var sentimentRules = []sentimentRule{
	{Aggressive, []string{
		"stupid", "idiot", "ridiculous", "insult", "pathetic",
		"a joke", "scam", "rip off", "ripoff", "screw you",
		"garbage", "trash", "hate you", "you better", "give me more",
		"demand", "angry", "worst", "hell no", "outrageous",
	}},
	{Desperate, []string{
		"please", "i need", "need the money", "desperate", "i beg",
		"begging", "help me", "broke", "rent", "bills", "debt",
		"can't afford", "cant afford", "last chance", "have to win",
		"my family", "i'm struggling", "im struggling",
	}},
	{Confident, []string{
		"confident", "easy money", "not scared", "not afraid",
		"bring it", "i can win", "i will win", "holding out",
		"lowball", "too low", "not enough", "keep your money",
		"i'll wait", "ill wait", "better offer", "all the way",
		"risk it", "no chance", "i'm sure", "im sure",
	}},
}

// Classify maps a free-text player message to exactly one sentiment label.
// Total and deterministic; unmatched text is neutral.
func Classify(message string) Sentiment {
	msg := strings.ToLower(message)
	for _, rule := range sentimentRules {
		for _, p := range rule.phrases {
			if strings.Contains(msg, p) {
				return rule.label
			}
		}
	}
	return Neutral
}
