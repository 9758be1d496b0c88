package main

import (
	"os"

	"github.com/pgperffarm/farmplot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
