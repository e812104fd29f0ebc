// Package main provides the asql command.
package main

import (
	"os"

	"github.com/leapstack-labs/asql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
