package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/conorfennell/elephant/internal/domain"
	"github.com/conorfennell/elephant/internal/fingerprint"
)

const cardColumns = `id, question, answer, level, time_created, last_reviewed, fingerprint`

// cardRow is the persisted shape of a domain.Card.
type cardRow struct {
	ID           int64   `db:"id"`
	Question     string  `db:"question"`
	Answer       string  `db:"answer"`
	Level        int     `db:"level"`
	TimeCreated  float64 `db:"time_created"`
	LastReviewed float64 `db:"last_reviewed"`
	Fingerprint  string  `db:"fingerprint"`
}

func rowFromCard(c domain.Card) cardRow {
	fp := c.Fingerprint
	if fp == "" {
		fp = fingerprint.Of(c.Question, c.Answer)
	}
	return cardRow{
		ID:           c.ID,
		Question:     c.Question,
		Answer:       c.Answer,
		Level:        domain.ClampLevel(c.Level),
		TimeCreated:  toUnix(c.TimeCreated),
		LastReviewed: toUnix(c.LastReviewed),
		Fingerprint:  fp,
	}
}

func (r cardRow) card() domain.Card {
	return domain.Card{
		ID:           r.ID,
		Question:     r.Question,
		Answer:       r.Answer,
		Level:        domain.ClampLevel(r.Level),
		TimeCreated:  fromUnix(r.TimeCreated),
		LastReviewed: fromUnix(r.LastReviewed),
		Fingerprint:  r.Fingerprint,
	}
}

func cardsFromRows(rows []cardRow) []domain.Card {
	cards := make([]domain.Card, 0, len(rows))
	for _, r := range rows {
		cards = append(cards, r.card())
	}
	return cards
}

const insertCard = `
	INSERT INTO cards (` + cardColumns + `)
	VALUES (:id, :question, :answer, :level, :time_created, :last_reviewed, :fingerprint)
`

// Create stores a new level 0 card under a fresh id.
func (db *DB) Create(ctx context.Context, question, answer string) (domain.Card, error) {
	card := domain.NewCard(question, answer, db.now().Truncate(time.Microsecond))

	err := db.inTx(ctx, "create card", func(tx *sqlx.Tx) error {
		return insertNew(ctx, tx, &card)
	})
	if err != nil {
		return domain.Card{}, err
	}
	return card, nil
}

// insertNew takes the next id from the counter and inserts card under it.
func insertNew(ctx context.Context, tx *sqlx.Tx, card *domain.Card) error {
	var id int64
	if err := tx.GetContext(ctx, &id, `SELECT value FROM meta WHERE key = 'next_id'`); err != nil {
		return fmt.Errorf("read id counter: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE meta SET value = ? WHERE key = 'next_id'`, id+1); err != nil {
		return fmt.Errorf("advance id counter: %w", err)
	}

	card.ID = id
	row := rowFromCard(*card)
	card.Fingerprint = row.Fingerprint
	if _, err := tx.NamedExecContext(ctx, insertCard, row); err != nil {
		return fmt.Errorf("insert card %d: %w", id, err)
	}
	return nil
}

// List returns up to limit cards in creation order. A limit of zero or less
// yields an empty slice.
func (db *DB) List(ctx context.Context, limit int) ([]domain.Card, error) {
	if limit <= 0 {
		return []domain.Card{}, nil
	}
	var rows []cardRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT `+cardColumns+` FROM cards ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, wrap("list cards", err)
	}
	return cardsFromRows(rows), nil
}

// All returns every card in creation order.
func (db *DB) All(ctx context.Context) ([]domain.Card, error) {
	var rows []cardRow
	if err := db.conn.SelectContext(ctx, &rows, `SELECT `+cardColumns+` FROM cards ORDER BY id`); err != nil {
		return nil, wrap("load cards", err)
	}
	return cardsFromRows(rows), nil
}

// Get returns the card with the given id, or nil if there is none.
func (db *DB) Get(ctx context.Context, id int64) (*domain.Card, error) {
	var row cardRow
	err := db.conn.GetContext(ctx, &row, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get card", err)
	}
	card := row.card()
	return &card, nil
}

// Find scans the collection in creation order and returns the cards for
// which match reports true.
func (db *DB) Find(ctx context.Context, match func(domain.Card) bool) ([]domain.Card, error) {
	cards, err := db.All(ctx)
	if err != nil {
		return nil, err
	}
	found := []domain.Card{}
	for _, c := range cards {
		if match(c) {
			found = append(found, c)
		}
	}
	return found, nil
}

// Delete removes every card whose id is in ids and reports how many were
// actually removed. Unknown ids are ignored.
func (db *DB) Delete(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In(`DELETE FROM cards WHERE id IN (?)`, ids)
	if err != nil {
		return 0, wrap("delete cards", err)
	}
	res, err := db.conn.ExecContext(ctx, db.conn.Rebind(q), args...)
	if err != nil {
		return 0, wrap("delete cards", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap("delete cards", err)
	}
	slog.Debug("cards deleted", "requested", len(ids), "removed", n)
	return int(n), nil
}

// Save atomically replaces the stored collection with cards. The id counter
// is never lowered and always ends above the highest saved id.
func (db *DB) Save(ctx context.Context, cards []domain.Card) error {
	return db.inTx(ctx, "save cards", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
			return fmt.Errorf("clear cards: %w", err)
		}
		next := int64(0)
		for _, c := range cards {
			if c.ID < 0 {
				return fmt.Errorf("card id %d is negative", c.ID)
			}
			if _, err := tx.NamedExecContext(ctx, insertCard, rowFromCard(c)); err != nil {
				return fmt.Errorf("insert card %d: %w", c.ID, err)
			}
			next = max(next, c.ID+1)
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE meta SET value = MAX(value, ?) WHERE key = 'next_id'`, next)
		if err != nil {
			return fmt.Errorf("raise id counter: %w", err)
		}
		return nil
	})
}

// Import creates a card for every question and answer pair whose content
// fingerprint is not stored yet. Only Question and Answer of the input are
// used. It returns the created cards and how many were skipped as duplicates.
func (db *DB) Import(ctx context.Context, cards []domain.Card) ([]domain.Card, int, error) {
	var created []domain.Card
	skipped := 0
	now := db.now().Truncate(time.Microsecond)

	err := db.inTx(ctx, "import cards", func(tx *sqlx.Tx) error {
		seen := map[string]bool{}
		for _, c := range cards {
			fp := fingerprint.Of(c.Question, c.Answer)
			if seen[fp] {
				skipped++
				continue
			}
			seen[fp] = true

			var exists int
			err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM cards WHERE fingerprint = ?`, fp)
			if err != nil {
				return fmt.Errorf("check fingerprint: %w", err)
			}
			if exists > 0 {
				slog.Debug("duplicate card skipped", "fingerprint", fp)
				skipped++
				continue
			}

			card := domain.NewCard(c.Question, c.Answer, now)
			card.Fingerprint = fp
			if err := insertNew(ctx, tx, &card); err != nil {
				return err
			}
			created = append(created, card)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return created, skipped, nil
}

// inTx runs fn inside a transaction, rolling back on any error.
func (db *DB) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return wrap(op, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return wrap(op, err)
	}
	return wrap(op, tx.Commit())
}
