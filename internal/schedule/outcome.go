package schedule

import (
	"fmt"
	"strings"
)

// Outcome is the user's report of how well a card was recalled.
type Outcome int

const (
	Unrecognized Outcome = iota
	Yes                  // Remembered.
	Meh                  // Partially remembered.
	No                   // Forgotten.
)

var outcomeNames = [...]string{Unrecognized: "unrecognized", Yes: "yes", Meh: "meh", No: "no"}

var outcomeTokens = map[string]Outcome{
	"yes": Yes,
	"y":   Yes,
	"meh": Meh,
	"m":   Meh,
	"no":  No,
	"n":   No,
}

// ParseOutcome matches token case-insensitively against the accepted tokens.
// The second result is false when the token is not recognized.
func ParseOutcome(token string) (Outcome, bool) {
	o, ok := outcomeTokens[strings.ToLower(strings.TrimSpace(token))]
	return o, ok
}

// String returns "yes", "meh", "no" or "unrecognized".
func (o Outcome) String() string {
	if o >= Unrecognized && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// IsValid reports whether o is one of Yes, Meh or No.
func (o Outcome) IsValid() bool {
	return o >= Yes && o <= No
}
