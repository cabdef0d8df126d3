package main

import (
	"os"

	"github.com/tormodhaugland/ft/cmd/ft/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
