package main

import (
	"os"

	"github.com/01Taka/rooted/cmd"
	"github.com/01Taka/rooted/internal/logging"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logging.NewPrinter(os.Stdout, os.Stderr).Error("%v", err)
		os.Exit(1)
	}
}
