package main

import (
	"os"

	"github.com/actnova/resume-referee/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
