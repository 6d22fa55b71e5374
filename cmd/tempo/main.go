package main

import (
	"fmt"
	"os"

	"tempo-tracker/internal/di"
)

func main() {
	container, err := di.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize container: %v\n", err)
		os.Exit(1)
	}
	defer container.Close()

	if err := container.CLI.Execute(); err != nil {
		// Error already formatted by CLI
		os.Exit(1)
	}
}
