// Package main provides the entry point for the tinyjwt CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/MrEthical07/tinyjwt/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err != nil {
		fmt.Fprintln(os.Stderr, "tinyjwt:", err)
	}
	stop()
	os.Exit(cli.ExitCode(err))
}
