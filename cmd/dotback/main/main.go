package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/dotback/cmd/dotback"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := dotback.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		dotback.ReportError(rootCmd, err, os.Stderr)
		stop()
		os.Exit(1)
	}
}
