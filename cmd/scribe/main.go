package main

import (
	"log/slog"
	"os"

	"github.com/roach88/scribe/internal/cli"
)

func main() {
	// Call logging goes to stderr so it never corrupts command output.
	// SCRIBE_DEBUG=1 lowers the level to debug.
	level := slog.LevelWarn
	if os.Getenv("SCRIBE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
