package domain

import "time"

// MaxLevel is the highest spaced-repetition level a card can reach.
const MaxLevel = 11

// Card represents a single question-answer pair and its review state.
type Card struct {
	ID           int64     `yaml:"id"`
	Question     string    `yaml:"question"`
	Answer       string    `yaml:"answer"`
	Level        int       `yaml:"level"`
	TimeCreated  time.Time `yaml:"time_created"`
	LastReviewed time.Time `yaml:"last_reviewed"`
	Fingerprint  string    `yaml:"-"`
}

// NewCard returns a level 0 card whose timestamps are both set to now.
// The ID is left for the store to assign.
func NewCard(question, answer string, now time.Time) Card {
	return Card{
		Question:     question,
		Answer:       answer,
		Level:        0,
		TimeCreated:  now,
		LastReviewed: now,
	}
}

// ClampLevel forces level into [0, MaxLevel].
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// ReviewLog records a single review event for a card.
// Outcome holds the canonical outcome name: "yes", "meh" or "no".
type ReviewLog struct {
	SessionID   string
	CardID      int64
	Outcome     string
	LevelBefore int
	LevelAfter  int
	ReviewedAt  time.Time
}
