package main

import (
	"os"

	"github.com/rpgo/glidepath/cmd/glidepath/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
