// Command survbkt estimates survival-corrected knowledge tracing models from
// learner event logs.
//
//	survbkt simulate --learners 1000 --out events.csv
//	survbkt estimate --data events.csv --max-iter 2000
//	survbkt import --data events.csv --db events.db
//	survbkt estimate --db events.db --config run.yaml
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
		fmt.Fprintln(os.Stderr, "survbkt:", err)
		os.Exit(1)
	}
}
