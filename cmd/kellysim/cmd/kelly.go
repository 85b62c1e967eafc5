package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/rustyeddy/kellysim/kelly"
	"github.com/rustyeddy/kellysim/report"
	"github.com/spf13/cobra"
)

func newKellyCmd(g *globalOptions) *cobra.Command {
	var (
		winRate float64
		fee     float64
		asJSON  bool
	)

	c := &cobra.Command{
		Use:   "kelly",
		Short: "Compute the Kelly risk fraction",
		Long: `Compute the optimal fraction of the balance to risk per trade for
even odds (1:1), once ignoring fees and once with the fee charged on entry
and exit.

Examples:
  kellysim kelly --win 55
  kellysim kelly --win 55 --fee 0.1 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("win") {
				cfg.Simulation.WinRatePct = winRate
			}
			if cmd.Flags().Changed("fee") {
				cfg.Simulation.FeePct = fee
			}

			est, err := kelly.Compute(cfg.Simulation.WinRatePct/100, cfg.Simulation.FeePct/100)
			if err != nil {
				return fmt.Errorf("kelly: %w", err)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(est)
			}
			report.PrintKelly(w, est)
			return nil
		},
	}

	c.Flags().Float64VarP(&winRate, "win", "w", 55, "win rate in percent (0-100)")
	c.Flags().Float64VarP(&fee, "fee", "f", 0.1, "fee per side in percent")
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return c
}
