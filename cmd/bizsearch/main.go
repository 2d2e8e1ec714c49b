// Package main is the entry point of the bizsearch gateway.
package main

import (
	"os"

	"github.com/kailas-cloud/bizsearch/cmd/bizsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
