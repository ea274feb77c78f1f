package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/grove/app"
	"github.com/ayoisaiah/grove/config"
)

func run(args []string) error {
	config.InitializePaths()

	return app.Get().Run(args)
}

func main() {
	err := run(os.Args)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
