package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/trellis/cmd"
	"github.com/thenoetrevino/trellis/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	if err != nil {
		cli.ReportError(os.Stderr, err)
	}
	stop()
	os.Exit(cli.ExitCode(err))
}
