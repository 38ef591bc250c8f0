package main

import (
	"os"

	"github.com/gopsql/dqb/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
