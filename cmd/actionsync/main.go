// Command actionsync keeps the action item section of a meeting notes
// document in sync with an issue tracker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/config/file"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driving/cli"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := file.LoadDotEnv(); err != nil {
		logger.Warn("loading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetLoader(loadServices)

	if err := cli.Execute(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
