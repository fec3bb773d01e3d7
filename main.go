package main

import (
	"context"
	"fmt"
	"os"

	"go.miragespace.co/hashring/cmd/ringctl"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ringctl.App.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
