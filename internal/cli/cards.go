package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/elephant/internal/query"
	"github.com/conorfennell/elephant/internal/render"
	"github.com/conorfennell/elephant/internal/storage"
)

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Create a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, answer := args[0], args[1]
			if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
				return fmt.Errorf("question and answer must not be empty")
			}
			return a.withStore(func(db *storage.DB) error {
				card, err := db.Create(cmd.Context(), question, answer)
				if err != nil {
					return err
				}
				a.printf("Added card #%d\n", card.ID)
				return nil
			})
		},
	}
}

func (a *app) lsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"view"},
		Short:   "Print some cards",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := limitFlag(cmd, a.cfg.List.Limit)
			if err != nil {
				return err
			}
			return a.withStore(func(db *storage.DB) error {
				n, err := db.Count(cmd.Context())
				if err != nil {
					return err
				}
				if n == 0 {
					a.printf("No cards created yet\n")
					return nil
				}
				cards, err := db.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				for _, c := range cards {
					a.printf("%s\n", render.Line(c))
				}
				return nil
			})
		},
	}
	cmd.Flags().Int("limit", 10, "The maximum number of cards to list")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete cards by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil || id < 0 {
					return fmt.Errorf("invalid card id %q", arg)
				}
				ids = append(ids, id)
			}
			return a.withStore(func(db *storage.DB) error {
				n, err := db.Delete(cmd.Context(), ids)
				if err != nil {
					return err
				}
				a.printf("Removed %d card(s)\n", n)
				return nil
			})
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <phrase>...",
		Short: "Print cards containing every phrase (case sensitive)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := limitFlag(cmd, a.cfg.Search.Limit)
			if err != nil {
				return err
			}
			q := query.New(args...)
			return a.withStore(func(db *storage.DB) error {
				found, err := db.Find(cmd.Context(), q.Match)
				if err != nil {
					return err
				}
				if len(found) == 0 {
					a.printf("Found no matches\n")
					return nil
				}
				if len(found) > limit {
					found = found[:limit]
				}
				for _, c := range found {
					a.printf("%s\n", render.Line(c))
				}
				return nil
			})
		},
	}
	cmd.Flags().Int("limit", 15, "The maximum number of cards to list")
	return cmd
}
