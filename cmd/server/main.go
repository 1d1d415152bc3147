package main

import (
	"os"

	"github.com/maxviazov/prosante-admin/cmd/server/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
