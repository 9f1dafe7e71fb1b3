package app

import (
	"context"
	"flag"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/component-base/cli/globalflag"
	controllerruntime "sigs.k8s.io/controller-runtime"

	"github.com/upgradepilot-io/upgradepilot/cmd/upilot-advisor/app/options"
	"github.com/upgradepilot-io/upgradepilot/pkg/log"
)

const commandDesc = `The UpgradePilot Advisor watches the cluster's platform version and
installed operators, resolves lifecycle metadata for every component,
and serves upgrade recommendations: detected issues, candidate upgrade
paths and suggested maintenance windows.`

// NewAdvisorCommand builds the advisor's root command.
func NewAdvisorCommand(ctx context.Context) *cobra.Command {
	opts := options.NewAdvisorOptions()
	var configFile string

	cmd := &cobra.Command{
		Use:           "upilot-advisor",
		Long:          commandDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				if err := loadConfigFile(configFile, opts); err != nil {
					return err
				}
			}

			log.Init(opts.Log)
			defer log.Sync()
			controllerruntime.SetLogger(log.Std().Logr())

			if err := opts.Complete(); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}

			cfg, err := opts.Config()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			server, err := cfg.NewAdvisorServer()
			if err != nil {
				return fmt.Errorf("failed to create advisor server: %w", err)
			}

			return server.Run(ctx)
		},
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to the advisor configuration file.")

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	fs := cmd.Flags()
	namedfs := opts.Flags()
	globalflag.AddGlobalFlags(namedfs.FlagSet("global"), cmd.Name())
	for _, f := range namedfs.FlagSets {
		fs.AddFlagSet(f)
	}

	return cmd
}

// loadConfigFile reads the config file into the options. Flags set on
// the command line still win because they are bound after unmarshal.
// Changes to the file are detected and logged; applying them requires a
// restart.
func loadConfigFile(path string, opts *options.AdvisorOptions) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := v.Unmarshal(opts); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("config file changed; restart to apply", "file", e.Name)
	})
	v.WatchConfig()

	return nil
}
