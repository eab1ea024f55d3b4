package storage

import (
	"context"

	"github.com/conorfennell/elephant/internal/domain"
)

// LogReview appends a review event.
func (db *DB) LogReview(ctx context.Context, entry domain.ReviewLog) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO review_log (session_id, card_id, outcome, level_before, level_after, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		entry.SessionID,
		entry.CardID,
		entry.Outcome,
		entry.LevelBefore,
		entry.LevelAfter,
		toUnix(entry.ReviewedAt),
	)
	return wrap("log review", err)
}

// ReviewsForCard returns the review history of a card, oldest first.
func (db *DB) ReviewsForCard(ctx context.Context, cardID int64) ([]domain.ReviewLog, error) {
	var rows []struct {
		SessionID   string  `db:"session_id"`
		CardID      int64   `db:"card_id"`
		Outcome     string  `db:"outcome"`
		LevelBefore int     `db:"level_before"`
		LevelAfter  int     `db:"level_after"`
		ReviewedAt  float64 `db:"reviewed_at"`
	}
	err := db.conn.SelectContext(ctx, &rows, `
		SELECT session_id, card_id, outcome, level_before, level_after, reviewed_at
		FROM review_log WHERE card_id = ? ORDER BY id
	`, cardID)
	if err != nil {
		return nil, wrap("load reviews", err)
	}

	logs := make([]domain.ReviewLog, 0, len(rows))
	for _, r := range rows {
		logs = append(logs, domain.ReviewLog{
			SessionID:   r.SessionID,
			CardID:      r.CardID,
			Outcome:     r.Outcome,
			LevelBefore: r.LevelBefore,
			LevelAfter:  r.LevelAfter,
			ReviewedAt:  fromUnix(r.ReviewedAt),
		})
	}
	return logs, nil
}
