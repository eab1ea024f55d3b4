// Package query provides the phrase filter used by search and quiz.
package query

import (
	"strings"

	"github.com/conorfennell/elephant/internal/domain"
)

// Query is an AND-list of case-sensitive substring matchers. A card matches
// when every phrase occurs in its question or in its answer. The zero Query
// matches every card.
type Query struct {
	phrases []string
}

// New builds a Query from the given phrases.
func New(phrases ...string) Query {
	q := Query{}
	if len(phrases) > 0 {
		q.phrases = append([]string(nil), phrases...)
	}
	return q
}

// Phrases returns a copy of the phrases in the query.
func (q Query) Phrases() []string {
	return append([]string(nil), q.phrases...)
}

// Match reports whether card satisfies every phrase.
func (q Query) Match(card domain.Card) bool {
	for _, p := range q.phrases {
		if !strings.Contains(card.Question, p) && !strings.Contains(card.Answer, p) {
			return false
		}
	}
	return true
}

// Filter returns the cards that match, in input order.
func (q Query) Filter(cards []domain.Card) []domain.Card {
	var out []domain.Card
	for _, c := range cards {
		if q.Match(c) {
			out = append(out, c)
		}
	}
	return out
}
