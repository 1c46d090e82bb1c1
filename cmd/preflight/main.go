// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hamed0406/edgecheck/internal/cli"
	"github.com/hamed0406/edgecheck/internal/config"
)

// Standalone preflight for CI images that ship without the full CLI. It reads
// the same env as edgecheck and, if set, the file named by EDGECHECK_CONFIG.
func main() {
	cfg, err := config.Load(os.Getenv("EDGECHECK_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "✖", err)
		os.Exit(1)
	}
	if !cli.Preflight(context.Background(), os.Stdout, os.Stderr, cfg) {
		os.Exit(1)
	}
}
