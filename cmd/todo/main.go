// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todo/internal/cli"
	"todo/internal/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.OpenStore)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
