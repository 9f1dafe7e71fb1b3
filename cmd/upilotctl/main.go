package main

import (
	"fmt"
	"os"

	"github.com/upgradepilot-io/upgradepilot/cmd/upilotctl/app"
)

func main() {
	if err := app.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
