// Command appenv launches the application server for one browser e2e
// scenario and exits 0 once the server is ready, leaving it running.
//
//	appenv [flags] <scenario> [sync|async]
//	appenv reclaim [--port N] [--method tcp|udp]
//	appenv reset <scenario>
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

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
