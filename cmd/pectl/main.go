// Command pectl runs database maintenance tasks for the site.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/productivity-engines/website/cmd/pectl/command"
)

func main() {
	_ = godotenv.Load()
	if err := command.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
