package main

import (
	"os"

	"github.com/MHMJerry/BackTest-ZZ800/cmd/zz800/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
