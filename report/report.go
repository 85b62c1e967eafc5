// Package report renders a run as plain text and CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/kellysim/kelly"
	"github.com/rustyeddy/kellysim/session"
	"github.com/rustyeddy/kellysim/sim"
	"github.com/shopspring/decimal"
)

// CSVHeader is the first row written by WriteCSV.
var CSVHeader = []string{"day", "balance", "outcome"}

// WriteCSV writes the per-day table of tr.
func WriteCSV(w io.Writer, tr *sim.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for i := 0; i < tr.Len(); i++ {
		r := tr.At(i)
		if err := cw.Write([]string{strconv.Itoa(r.Day), f(r.Balance), r.Outcome.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to path, replacing any existing file.
func SaveCSV(path string, tr *sim.Trajectory) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(fh, tr); err != nil {
		fh.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return fh.Close()
}

// PrintTable prints the first rows days of tr; rows <= 0 prints all.
func PrintTable(w io.Writer, tr *sim.Trajectory, rows int) {
	n := tr.Len()
	if rows > 0 && rows < n {
		n = rows
	}

	fmt.Fprintf(w, "%6s  %16s  %s\n", "Day", "Balance", "Result")
	fmt.Fprintln(w, "--------------------------------------------------")
	for i := 0; i < n; i++ {
		r := tr.At(i)
		fmt.Fprintf(w, "%6d  %16s  %s\n", r.Day, Money(r.Balance), r.Outcome)
	}
	if n < tr.Len() {
		fmt.Fprintf(w, "... %d more days\n", tr.Len()-n)
	}
}

// PrintRun prints the run header, parameters, statistics and Kelly block.
func PrintRun(w io.Writer, snap *session.Snapshot) {
	p := snap.Params
	s := snap.Summary

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Compounding Simulation")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "Run ID:        %s\n", snap.RunID)
	fmt.Fprintf(w, "Created:       %s\n", snap.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Seed:          %d\n", snap.Seed)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parameters")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Win Rate:      %s%%\n", pct(p.WinProbability*100))
	fmt.Fprintf(w, "Risk per Day:  %s%%\n", pct(p.RiskFraction*100))
	fmt.Fprintf(w, "Fee per Side:  %s%%\n", pct(p.FeeFraction*100))
	fmt.Fprintf(w, "Days:          %d\n", p.NumDays)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinRate)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %s\n", Money(s.StartBalance))
	fmt.Fprintf(w, "Final Balance: %s\n", Money(s.EndBalance))
	fmt.Fprintf(w, "Net P/L:       %s\n", Money(s.NetPL))
	fmt.Fprintf(w, "Return:        %.2f%%\n", s.ReturnPct)
	fmt.Fprintf(w, "Peak Balance:  %s\n", Money(s.PeakBalance))
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", s.MaxDDPct)
	if s.Ruined {
		fmt.Fprintln(w, "Balance hit zero and stayed there.")
	}
	if s.Overflow {
		fmt.Fprintln(w, "Balance grew past the float64 range (+Inf).")
	}

	fmt.Fprintln(w)
	PrintKelly(w, snap.Kelly)
}

// PrintKelly prints both recommended risk fractions.
func PrintKelly(w io.Writer, e kelly.Estimate) {
	fmt.Fprintln(w, "Kelly Risk Fraction")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Without fees:  %s\n", kellyLine(e.Unadjusted))
	fmt.Fprintf(w, "With fees:     %s\n", kellyLine(e.Adjusted))
}

func kellyLine(r kelly.Result) string {
	if r.Degenerate {
		return "0% (undefined, no edge)"
	}
	return pct(r.RiskFractionPercent) + "%"
}

// Money formats x as dollars with thousands separators, e.g. $1,234.57.
// A balance that overflowed prints as $+Inf.
func Money(x float64) string {
	if !isFinite(x) {
		return "$" + strconv.FormatFloat(x, 'f', -1, 64)
	}
	d := decimal.NewFromFloat(x).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	s := d.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + "$" + b.String() + "." + frac
}

// pct trims a percentage to at most two decimals: 10, 4.9, 0.25.
func pct(x float64) string {
	if !isFinite(x) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return decimal.NewFromFloat(x).Round(2).String()
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
