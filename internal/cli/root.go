// Package cli defines the cobra commands of the elephant CLI.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/conorfennell/elephant/internal/config"
	"github.com/conorfennell/elephant/internal/render"
	"github.com/conorfennell/elephant/internal/storage"
)

var version = "dev" // set via ldflags at build time

// IO bundles the streams a command reads from and writes to.
type IO struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// StdIO returns the process streams.
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// app carries what every command needs for one invocation.
type app struct {
	io         IO
	cfg        *config.Config
	configFile string
	dotEnv     string
}

// NewRootCmd builds the command tree.
func NewRootCmd(streams IO) *cobra.Command {
	a := &app{io: streams, dotEnv: ".env"}

	root := &cobra.Command{
		Use:   "elephant",
		Short: "The elephant spaced repetition memory application",
		Long: `Elephant keeps question/answer cards and quizzes you on the ones
that are due. Cards you remember move up a level and come back later;
cards you forget start again from level 0.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML config file (default $XDG_CONFIG_HOME/elephant/config.yaml)")
	pf.String("db", "", "Path to the SQLite database file")
	pf.String("log-level", "warn", "Log level: debug, info, warn, error")
	pf.Float64("meh-divisor", 1.99, "Divisor applied to a card's level on a 'meh'")
	pf.String("box", render.BoxAuto, "Draw boxes around quiz cards: auto, always, never")

	root.AddCommand(
		a.addCmd(),
		a.lsCmd(),
		a.rmCmd(),
		a.searchCmd(),
		a.quizCmd(),
		a.importCmd(),
		a.exportCmd(),
		a.historyCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, streams IO) int {
	root := NewRootCmd(streams)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(streams.ErrOut, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{
		ConfigFile: a.configFile,
		DotEnv:     a.dotEnv,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger := slog.New(slog.NewTextHandler(a.io.ErrOut, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return nil
}

// withStore opens the store for the duration of fn.
func (a *app) withStore(fn func(db *storage.DB) error) (err error) {
	db, err := storage.Open(a.cfg.DB)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(db)
}

// limitFlag returns the command's --limit when set, otherwise fallback.
func limitFlag(cmd *cobra.Command, fallback int) (int, error) {
	if !cmd.Flags().Changed("limit") {
		return fallback, nil
	}
	n, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("--limit must not be negative, got %d", n)
	}
	return n, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.io.Out, format, args...)
}
