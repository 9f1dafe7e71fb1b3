package main

import (
	"os"

	"k8s.io/apiserver/pkg/server"

	_ "go.uber.org/automaxprocs"

	"github.com/upgradepilot-io/upgradepilot/cmd/upilot-advisor/app"
)

func main() {
	ctx := server.SetupSignalContext()
	if err := app.NewAdvisorCommand(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}
