package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/conorfennell/elephant/internal/query"
	"github.com/conorfennell/elephant/internal/render"
	"github.com/conorfennell/elephant/internal/schedule"
	"github.com/conorfennell/elephant/internal/session"
	"github.com/conorfennell/elephant/internal/storage"
)

func (a *app) quizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quiz [<phrase>...]",
		Short: "Review the cards that are due",
		Long: `Review due cards one by one. Only cards containing every given phrase
are included. Answer each card with yes (y), meh (m) or no (n).
Press Ctrl-C to stop; cards answered so far are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reviewer, err := schedule.NewReviewer(a.cfg.Schedule.MehDivisor)
			if err != nil {
				return err
			}
			q := query.New(args...)

			return a.withStore(func(db *storage.DB) error {
				cards, err := db.All(cmd.Context())
				if err != nil {
					return err
				}

				ui := session.NewTerminal(a.io.In, a.io.Out, a.renderer())
				defer ui.Close()
				runner := session.NewRunner(ui, db, reviewer)

				if len(runner.Due(cards, q)) == 0 {
					a.printf("Nothing due for review\n")
					return nil
				}

				res, err := runner.Run(cmd.Context(), cards, q)
				if err != nil {
					return err
				}
				if res.Interrupted {
					a.printf("\nSession stopped: %d reviewed, %d ignored, %d left for later\n",
						res.Reviewed, res.Ignored, res.Remaining())
					return nil
				}
				a.printf("\nSession complete: %d reviewed, %d ignored\n", res.Reviewed, res.Ignored)
				return nil
			})
		},
	}
}

func (a *app) renderer() *render.Renderer {
	f, _ := a.io.Out.(*os.File)
	return render.New(a.cfg.Render.Box, f)
}
