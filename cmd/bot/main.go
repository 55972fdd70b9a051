package main

import (
	"fmt"
	"os"

	"github.com/aifusion/aifusionbot/internal/app"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	fmt.Printf("AIFusionBot %s (built %s)\n", version, buildTime)

	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialization failed: %v\n", err)
		os.Exit(1)
	}

	if err := application.Start(); err != nil {
		application.Logger.WithError(err).Fatal("Bot stopped with error")
	}

	application.WaitForShutdown()
}
