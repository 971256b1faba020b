package main

import (
	"os"

	"github.com/riskview/riskview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
