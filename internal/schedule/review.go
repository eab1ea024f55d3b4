package schedule

import (
	"fmt"
	"math"
	"time"

	"github.com/conorfennell/elephant/internal/domain"
)

// DefaultMehDivisor is the divisor applied to a card's level on a "meh".
const DefaultMehDivisor = 1.99

// Reviewer applies review outcomes to cards.
type Reviewer struct {
	MehDivisor float64 // demotion divisor for Meh, must be > 1
}

// NewReviewer returns a Reviewer using divisor for Meh outcomes.
func NewReviewer(mehDivisor float64) (*Reviewer, error) {
	if !(mehDivisor > 1) || math.IsInf(mehDivisor, 0) {
		return nil, fmt.Errorf("meh divisor %v must be a finite number greater than 1", mehDivisor)
	}
	return &Reviewer{MehDivisor: mehDivisor}, nil
}

// DefaultReviewer returns a Reviewer with DefaultMehDivisor.
func DefaultReviewer() *Reviewer {
	return &Reviewer{MehDivisor: DefaultMehDivisor}
}

// Apply returns card updated for outcome at now. It reports false and returns
// the card untouched when the outcome is not recognized; LastReviewed only
// moves together with the level.
func (r *Reviewer) Apply(card domain.Card, outcome Outcome, now time.Time) (domain.Card, bool) {
	if !outcome.IsValid() {
		return card, false
	}
	level := domain.ClampLevel(card.Level)
	switch outcome {
	case Yes:
		level = min(level+1, domain.MaxLevel)
	case Meh:
		level = int(math.Floor(float64(level) / r.divisor()))
	case No:
		level = 0
	}

	card.Level = domain.ClampLevel(level)
	card.LastReviewed = now
	return card, true
}

func (r *Reviewer) divisor() float64 {
	if r == nil || !(r.MehDivisor > 1) {
		return DefaultMehDivisor
	}
	return r.MehDivisor
}
