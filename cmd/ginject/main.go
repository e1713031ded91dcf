// Command ginject generates the implementation of an injector interface.
//
//	ginject --injector AppInjector --output wiring_gen.go
//
// Settings are read from ginject.yaml when present; flags override them.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
