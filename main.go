package main

import (
	"context"
	"os"

	"github.com/fatih/color"

	"github.com/status-im/wallet-aggregator/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args[1:]); err != nil {
		_, _ = color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
