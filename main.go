package main

import (
	"os"

	"github.com/penwyp/ClawMeter/cmd"
)

func main() {
	// errors are printed by cmd.Execute
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
