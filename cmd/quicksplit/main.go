package main

import (
	"fmt"
	"os"

	"github.com/mmynk/quicksplit/internal/cli"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "0.0.0-dev"

func main() {
	app := cli.NewCLIApp(Version)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
