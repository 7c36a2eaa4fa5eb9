package main

import (
	"os"

	"github.com/kmartel07/gridride/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
