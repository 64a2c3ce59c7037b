package main

import (
	"os"

	"github.com/cybrdelic/repotronium/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
