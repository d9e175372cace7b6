// Package main contains the entrypoint for the reibunbot Discord bot.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/reibun/reibunbot/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		slog.Error("reibunbot exited with error", "error", err)
		os.Exit(1)
	}
}
