package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	flags "github.com/jessevdk/go-flags"
	"github.com/lightninglabs/htlcplan"
)

func main() {
	// Load the configuration, and parse any command line options.
	cfg, err := htlcplan.LoadConfig(os.Args[1:])
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		os.Exit(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Call the "real" main in a nested manner so the defers will properly
	// be executed.
	if err := htlcplan.Main(ctx, cfg); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}
