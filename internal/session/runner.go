// Package session drives an interactive review over the cards that are due.
//
// A session is a small state machine:
//
//	Idle -> Presenting(card) -> AwaitingOutcome(card) -> Applying(card) -> Presenting(next) | Done
//
// Presenting and AwaitingOutcome block on the UI. Cancelling the context or
// closing the input moves any state straight to Done. Every recognized
// outcome is committed before the next card is shown, so an interrupted
// session keeps everything reviewed so far.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/elephant/internal/domain"
	"github.com/conorfennell/elephant/internal/query"
	"github.com/conorfennell/elephant/internal/schedule"
)

// ErrInterrupted is returned by a UI prompt when the user aborts the session.
var ErrInterrupted = errors.New("session interrupted")

const (
	revealPrompt  = "Reveal answer? [enter]"
	outcomePrompt = "Remembered? [y]es / [m]eh / [n]o"
)

// UI presents cards and collects the user's responses.
type UI interface {
	ShowQuestion(card domain.Card)
	ShowAnswer(card domain.Card)
	Notify(msg string)
	// Prompt blocks until a line is entered or ctx is done.
	Prompt(ctx context.Context, prompt string) (string, error)
}

// Committer persists review results.
type Committer interface {
	Save(ctx context.Context, cards []domain.Card) error
	LogReview(ctx context.Context, entry domain.ReviewLog) error
}

// State is a step of the review state machine.
type State int

const (
	Idle State = iota
	Presenting
	AwaitingOutcome
	Applying
	Done
)

var stateNames = [...]string{
	Idle:            "idle",
	Presenting:      "presenting",
	AwaitingOutcome: "awaiting-outcome",
	Applying:        "applying",
	Done:            "done",
}

func (s State) String() string {
	if s >= Idle && s <= Done {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result summarises a finished session.
type Result struct {
	SessionID   string
	Due         int
	Reviewed    int
	Ignored     int
	Interrupted bool
}

// Remaining is the number of due cards that were never shown an outcome.
func (r Result) Remaining() int {
	return r.Due - r.Reviewed - r.Ignored
}

// Runner runs one review session.
type Runner struct {
	ui       UI
	store    Committer
	reviewer *schedule.Reviewer
	now      func() time.Time
	state    State
}

// NewRunner creates a Runner. A nil reviewer uses the default divisor.
func NewRunner(ui UI, store Committer, reviewer *schedule.Reviewer) *Runner {
	if reviewer == nil {
		reviewer = schedule.DefaultReviewer()
	}
	return &Runner{
		ui:       ui,
		store:    store,
		reviewer: reviewer,
		now:      time.Now,
		state:    Idle,
	}
}

func (r *Runner) setState(s State, cardID int64) {
	r.state = s
	slog.Debug("session state", "state", s, "card", cardID)
}

// Due returns the cards that a session started now would review.
func (r *Runner) Due(cards []domain.Card, q query.Query) []domain.Card {
	return schedule.SelectDue(cards, r.now(), q)
}

// Run reviews every card in cards that is due and matches q. cards is the
// whole collection; it is used as the working copy written back on every
// commit and is not modified. Storage failures end the session with an
// error, interruptions do not.
func (r *Runner) Run(ctx context.Context, cards []domain.Card, q query.Query) (Result, error) {
	working := append([]domain.Card(nil), cards...)
	position := make(map[int64]int, len(working))
	for i, c := range working {
		position[c.ID] = i
	}

	due := r.Due(working, q)
	res := Result{SessionID: uuid.NewString(), Due: len(due)}
	slog.Info("review session started", "session", res.SessionID, "due", res.Due, "phrases", q.Phrases())
	defer func() {
		r.setState(Done, -1)
		slog.Info("review session finished",
			"session", res.SessionID,
			"reviewed", res.Reviewed,
			"ignored", res.Ignored,
			"interrupted", res.Interrupted,
		)
	}()

	// Commits must land even when ctx is cancelled mid-write.
	commitCtx := context.WithoutCancel(ctx)

	for _, card := range due {
		if err := ctx.Err(); err != nil {
			return res, r.stop(ctx, &res, err)
		}

		r.setState(Presenting, card.ID)
		r.ui.ShowQuestion(card)
		if _, err := r.ui.Prompt(ctx, revealPrompt); err != nil {
			return res, r.stop(ctx, &res, err)
		}

		r.setState(AwaitingOutcome, card.ID)
		r.ui.ShowAnswer(card)
		token, err := r.ui.Prompt(ctx, outcomePrompt)
		if err != nil {
			return res, r.stop(ctx, &res, err)
		}

		r.setState(Applying, card.ID)
		outcome, _ := schedule.ParseOutcome(token)
		updated, applied := r.reviewer.Apply(card, outcome, r.now())
		if !applied {
			res.Ignored++
			r.ui.Notify(fmt.Sprintf("Unrecognized response %q, card #%d left unchanged.", token, card.ID))
			continue
		}

		working[position[card.ID]] = updated
		if err := r.store.Save(commitCtx, working); err != nil {
			return res, fmt.Errorf("commit card %d: %w", card.ID, err)
		}
		res.Reviewed++

		entry := domain.ReviewLog{
			SessionID:   res.SessionID,
			CardID:      card.ID,
			Outcome:     outcome.String(),
			LevelBefore: card.Level,
			LevelAfter:  updated.Level,
			ReviewedAt:  updated.LastReviewed,
		}
		if err := r.store.LogReview(commitCtx, entry); err != nil {
			slog.Warn("failed to record review", "card", card.ID, "error", err)
		}
	}

	return res, nil
}

// stop decides whether a prompt error is an interruption or a failure.
func (r *Runner) stop(ctx context.Context, res *Result, err error) error {
	if ctx.Err() != nil || errors.Is(err, ErrInterrupted) || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		res.Interrupted = true
		return nil
	}
	return fmt.Errorf("read response: %w", err)
}
