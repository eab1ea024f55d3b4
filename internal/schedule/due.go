package schedule

import (
	"time"

	"github.com/conorfennell/elephant/internal/domain"
	"github.com/conorfennell/elephant/internal/query"
)

// IsDue reports whether card may be reviewed at now. The boundary is
// inclusive: a card whose interval has exactly elapsed is due.
func IsDue(card domain.Card, now time.Time) bool {
	return now.Sub(card.LastReviewed) >= Interval(card.Level)
}

// NextDue returns the moment card becomes due.
func NextDue(card domain.Card) time.Time {
	return card.LastReviewed.Add(Interval(card.Level))
}

// SelectDue returns the cards that are due at now and match q, in input
// order. No urgency sort is applied.
func SelectDue(cards []domain.Card, now time.Time, q query.Query) []domain.Card {
	var due []domain.Card
	for _, c := range cards {
		if IsDue(c, now) {
			due = append(due, c)
		}
	}
	return q.Filter(due)
}
