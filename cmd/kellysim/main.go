package main

import (
	"os"

	"github.com/rustyeddy/kellysim/cmd/kellysim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
