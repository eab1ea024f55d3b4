package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conorfennell/elephant/internal/domain"
	"github.com/conorfennell/elephant/internal/importer"
	"github.com/conorfennell/elephant/internal/storage"
)

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.md|dir>...",
		Short: "Create cards from Q:/A: blocks in markdown files",
		Long: `Read "Q:" and "A:" blocks from markdown files and create a card for
each one. Directories are searched for *.md files. Cards whose question and
answer already exist (ignoring case and surrounding whitespace) are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := importer.Collect(args...)
			if err != nil {
				return err
			}
			for _, perr := range found.Errors {
				fmt.Fprintf(a.io.ErrOut, "Skipped: %v\n", perr)
			}

			return a.withStore(func(db *storage.DB) error {
				created, skipped, err := db.Import(cmd.Context(), found.Cards)
				if err != nil {
					return err
				}
				a.printf("Imported %d card(s), skipped %d duplicate(s)\n", len(created), skipped)
				return nil
			})
		},
	}
}

// exportFile is the YAML document written by export.
type exportFile struct {
	Cards []domain.Card `yaml:"cards"`
}

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every card as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cards []domain.Card
			err := a.withStore(func(db *storage.DB) error {
				var err error
				cards, err = db.All(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(exportFile{Cards: cards})
			if err != nil {
				return fmt.Errorf("marshal cards: %w", err)
			}

			var w io.Writer = a.io.Out
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if _, err := w.Write(data); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}
