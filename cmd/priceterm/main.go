// Package main is the entry point for the priceterm operator CLI.
package main

import (
	"os"

	"github.com/smallbiznis/priceterm/cmd/priceterm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
