package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/devghori1264/aerophoenix/robot-service/cmd/robotctl/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.NewRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
