package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/elephant/internal/render"
	"github.com/conorfennell/elephant/internal/schedule"
	"github.com/conorfennell/elephant/internal/storage"
)

const timeLayout = "2006-01-02 15:04"

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show a card's level, next due time and past reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id < 0 {
				return fmt.Errorf("invalid card id %q", args[0])
			}

			return a.withStore(func(db *storage.DB) error {
				card, err := db.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if card == nil {
					return fmt.Errorf("no card with id %d", id)
				}
				logs, err := db.ReviewsForCard(cmd.Context(), id)
				if err != nil {
					return err
				}

				a.printf("%s\n", render.Line(*card))
				a.printf("Level %d, due %s\n", card.Level, formatDue(time.Now(), schedule.NextDue(*card)))
				if len(logs) == 0 {
					a.printf("Never reviewed\n")
					return nil
				}
				for _, l := range logs {
					a.printf("%s  %-3s  %d -> %d\n",
						l.ReviewedAt.Local().Format(timeLayout), l.Outcome, l.LevelBefore, l.LevelAfter)
				}
				return nil
			})
		},
	}
}

// formatDue prints "now" for cards that are already due.
func formatDue(now, due time.Time) string {
	if !due.After(now) {
		return "now"
	}
	return due.Local().Format(timeLayout)
}
