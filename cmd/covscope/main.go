package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if present (ignore errors - it's optional)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errBelowThreshold) || errors.Is(err, errNothingToReport) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
