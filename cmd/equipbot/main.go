// equipbot serves the equipment catalog through a Telegram bot and an
// administration API backed by PostgreSQL.
//
// Usage:
//
//	equipbot serve     # bot, admin API and monitoring
//	equipbot bot       # bot and monitoring
//	equipbot admin     # admin API and monitoring
//	equipbot migrate   # create the schema and exit
//	equipbot seed      # load the sample catalog into an empty database
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Canceled on Ctrl+C or SIGTERM for a graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
