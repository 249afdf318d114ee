package main

import (
	"os"

	"github.com/rustyeddy/pairs/cmd/pairs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
