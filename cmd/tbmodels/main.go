// SPDX-License-Identifier: MIT

// Command tbmodels inspects, converts and transforms tight-binding models.
//
// Model arguments and -o outputs are either archive file paths or
// "store:<name>" references into the configured archive store
// (TBMODELS_STORE, see internal/config).
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
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "tbmodels:", err)
		os.Exit(1)
	}
}
