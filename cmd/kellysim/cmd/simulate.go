package cmd

import (
	"fmt"

	"github.com/rustyeddy/kellysim/logging"
	"github.com/rustyeddy/kellysim/report"
	"github.com/rustyeddy/kellysim/session"
	"github.com/spf13/cobra"
)

type simulateOptions struct {
	winRate float64
	risk    float64
	fee     float64
	days    int
	balance float64
	seed    uint64
	csvPath string
	rows    int
	noTable bool
}

func newSimulateCmd(g *globalOptions) *cobra.Command {
	o := &simulateOptions{}

	c := &cobra.Command{
		Use:   "simulate",
		Short: "Run one compounding simulation",
		Long: `Simulate a fixed number of trading days. Each day is a win with the
given probability; the balance grows or shrinks by the risk fraction and pays
the fee on entry and exit.

Percent inputs are clamped to the dashboard ranges: win rate 0-100,
risk 1-100, fee 0-5.

Examples:
  kellysim simulate
  kellysim simulate --win 60 --risk 10 --fee 0.05 --days 365 --seed 7
  kellysim simulate --csv run.csv --rows 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, g, o)
		},
	}

	f := c.Flags()
	f.Float64VarP(&o.winRate, "win", "w", 55, "win rate in percent")
	f.Float64VarP(&o.risk, "risk", "r", 5, "risk per day in percent of balance")
	f.Float64VarP(&o.fee, "fee", "f", 0.1, "fee per side in percent")
	f.IntVarP(&o.days, "days", "d", 1000, "number of trading days")
	f.Float64VarP(&o.balance, "balance", "b", 100, "starting balance")
	f.Uint64Var(&o.seed, "seed", 0, "random seed (0 draws a fresh one)")
	f.StringVar(&o.csvPath, "csv", "", "write the per-day table to this CSV file")
	f.IntVar(&o.rows, "rows", 20, "table rows to print (0 prints every day)")
	f.BoolVar(&o.noTable, "no-table", false, "skip the per-day table")

	return c
}

func runSimulate(cmd *cobra.Command, g *globalOptions, o *simulateOptions) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	// flags win over the config file only when given explicitly
	f := cmd.Flags()
	sc := &cfg.Simulation
	if f.Changed("win") {
		sc.WinRatePct = o.winRate
	}
	if f.Changed("risk") {
		sc.RiskPct = o.risk
	}
	if f.Changed("fee") {
		sc.FeePct = o.fee
	}
	if f.Changed("days") {
		sc.Days = o.days
	}
	if f.Changed("balance") {
		sc.StartBalance = o.balance
	}
	if f.Changed("seed") {
		sc.Seed = o.seed
	}
	if f.Changed("csv") {
		cfg.Output.CSVPath = o.csvPath
	}
	if f.Changed("rows") {
		cfg.Output.TableRows = o.rows
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	sess := session.New(log, nil, session.WithSeed(sc.Seed))
	snap, _, err := sess.Apply(sc.Params())
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	w := cmd.OutOrStdout()
	report.PrintRun(w, snap)
	if !o.noTable {
		fmt.Fprintln(w)
		report.PrintTable(w, snap.Trajectory, cfg.Output.TableRows)
	}

	if cfg.Output.CSVPath != "" {
		if err := report.SaveCSV(cfg.Output.CSVPath, snap.Trajectory); err != nil {
			return fmt.Errorf("save csv: %w", err)
		}
		fmt.Fprintf(w, "\n✓ Table saved to %s\n", cfg.Output.CSVPath)
	}
	return nil
}
