package main

import (
	"os"

	"github.com/jmallik/capline/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
