package cmd

import (
	"fmt"

	"github.com/rustyeddy/kellysim/config"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
}

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "kellysim",
		Short: "Compounding trade simulator with Kelly position sizing",
		Long: `Kellysim simulates a trader who risks a fixed fraction of the balance
every day on an even-odds trade, paying a fee on entry and on exit.

It provides tools for:
  - Running a day-by-day compounding simulation and printing the table
  - Exporting the per-day balances to CSV
  - Computing the Kelly risk fraction with and without fees
  - Serving the simulation over HTTP with live websocket updates`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file with KELLYSIM_* overrides")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (console or json)")

	root.AddCommand(
		newSimulateCmd(opts),
		newKellyCmd(opts),
		newServeCmd(opts),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// load resolves the configuration: defaults or the config file, then the
// dotenv/environment overlay, then the log flags.
func (o *globalOptions) load() (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(o.configPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(o.envFile); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
