package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/direct-connect/go-tth/cmd/tth/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := cmd.Root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
