package main

import (
	"os"

	"github.com/abhisek/syntaxiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
