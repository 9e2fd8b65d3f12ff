package main

import (
	"os"

	"github.com/templui/goaltrack/cmd/goalctl/cmd"
)

func main() {
	if err := cmd.Root().Execute(); err != nil {
		os.Exit(1)
	}
}
