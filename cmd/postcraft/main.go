package main

import (
	"fmt"
	"os"

	"postcraft/internal/app"
	"postcraft/internal/cli"
	"postcraft/internal/tui"
)

func main() {
	// If no args, launch TUI; otherwise route to CLI
	if len(os.Args) == 1 {
		a := app.New(app.Options{Interactive: true})
		deps := tui.Deps{
			Workflow:  a.Workflow,
			Generator: a.Generator,
			Saver:     a.Saver,
		}
		if err := tui.Run(deps); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
	}
}
