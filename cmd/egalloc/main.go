// Command egalloc solves egalitarian item-allocation instances stored as
// YAML or JSON files.
//
//	egalloc solve instances/*.yaml --jobs 4
//	egalloc compare --heuristic-margin 0.2 siblings.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "egalloc:", err)
		stop()
		os.Exit(1)
	}
}
