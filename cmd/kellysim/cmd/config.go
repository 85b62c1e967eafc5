package cmd

import (
	"fmt"

	"github.com/rustyeddy/kellysim/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files for simulations.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  kellysim config init --output my-config.yaml
  kellysim config validate --file my-config.yaml`,
	}

	var output string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Long: `Create a new configuration file with default settings.

Example:
  kellysim config init --output simulation.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "✓ Created default configuration: %s\n", output)
			fmt.Fprintln(w, "\nEdit the file and run with:")
			fmt.Fprintf(w, "  kellysim simulate --config %s\n", output)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&output, "output", "o", "simulation.yaml", "output config file path")

	var path string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Check if a configuration file is valid and can be loaded.

Example:
  kellysim config validate --file simulation.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			s := cfg.Simulation
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(w, "  Simulation: win %.0f%%, risk %.0f%%, fee %.2f%%, %d days, balance %.2f\n",
				s.WinRatePct, s.RiskPct, s.FeePct, s.Days, s.StartBalance)
			fmt.Fprintf(w, "  Server: %s\n", cfg.Server.Addr)
			fmt.Fprintf(w, "  Log: %s (%s)\n", cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&path, "file", "f", "", "path to config file (required)")
	validateCmd.MarkFlagRequired("file")

	configCmd.AddCommand(initCmd, validateCmd)
	return configCmd
}
