package main

import (
	"os"

	"github.com/roomi-fields/obsidian-image-autocrop/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
