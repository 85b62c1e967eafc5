package sim

import (
	"encoding/json"
	"math"
)

// TrialRecord is one row of the per-day table.
type TrialRecord struct {
	Day     int     `json:"day"`
	Outcome Outcome `json:"outcome"`
	Balance float64 `json:"balance"`
}

// Trajectory is the ordered, read-only output of a run. It is built once by
// Compound and never mutated afterwards; a re-run produces a new one.
type Trajectory struct {
	start   float64
	records []TrialRecord
}

// Len is the number of simulated days.
func (t *Trajectory) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// At returns the record for the zero-based index i.
func (t *Trajectory) At(i int) TrialRecord {
	return t.records[i]
}

// StartingBalance is the balance before day 1.
func (t *Trajectory) StartingBalance() float64 {
	if t == nil {
		return 0
	}
	return t.start
}

// Final is the balance after the last day.
func (t *Trajectory) Final() float64 {
	if t.Len() == 0 {
		return t.StartingBalance()
	}
	return t.records[len(t.records)-1].Balance
}

// Records returns a copy of the rows.
func (t *Trajectory) Records() []TrialRecord {
	if t == nil {
		return nil
	}
	out := make([]TrialRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Balances returns the balance series, one value per day.
func (t *Trajectory) Balances() []float64 {
	out := make([]float64, t.Len())
	for i := range out {
		out[i] = t.records[i].Balance
	}
	return out
}

// Outcomes returns the outcome series the trajectory was built from.
func (t *Trajectory) Outcomes() []Outcome {
	out := make([]Outcome, t.Len())
	for i := range out {
		out[i] = t.records[i].Outcome
	}
	return out
}

// MarshalJSON writes the starting balance and the rows. Balances that
// overflowed to +Inf are written as null.
func (t *Trajectory) MarshalJSON() ([]byte, error) {
	type row struct {
		Day     int     `json:"day"`
		Outcome Outcome `json:"outcome"`
		Balance finite  `json:"balance"`
	}
	rows := make([]row, t.Len())
	for i := range rows {
		r := t.records[i]
		rows[i] = row{Day: r.Day, Outcome: r.Outcome, Balance: finite(r.Balance)}
	}
	return json.Marshal(struct {
		StartingBalance float64 `json:"starting_balance"`
		Records         []row   `json:"records"`
	}{t.StartingBalance(), rows})
}

// finite encodes NaN and the infinities as JSON null.
type finite float64

func (f finite) MarshalJSON() ([]byte, error) {
	x := float64(f)
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(x)
}
