// Package main provides the kudos binary entry point.
// Kudos prints one short AI-generated compliment, with bounded retry against
// the completion API and a local fallback that guarantees output.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "kudos"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	// Credentials may live in a .env file; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
