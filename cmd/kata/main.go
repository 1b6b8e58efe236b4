// Command kata runs language katas through an assertion harness.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/kata/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	code := cli.GetExitCode(err)
	// Assertion failures have already been reported by the summary.
	if err != nil && code != cli.ExitFailure {
		fmt.Fprintln(os.Stderr, "kata:", err)
	}
	os.Exit(code)
}
