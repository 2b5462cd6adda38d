// Package main is the coursehub executable.
//
// All logic lives in internal/. main only turns SIGINT/SIGTERM into context
// cancellation and the command's error into an exit code.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sakif/coursehub/internal/command"
)

func main() { os.Exit(run()) }

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := command.RootCommand().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
