package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/conorfennell/elephant/internal/cli"
)

func main() {
	// Ctrl-C cancels the context; a running quiz keeps what it has committed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], cli.StdIO())
	stop()
	os.Exit(code)
}
