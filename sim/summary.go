package sim

import (
	"encoding/json"
	"math"
)

// Summary is a lightweight digest of a trajectory.
type Summary struct {
	Days         int     `json:"days"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"win_rate_pct"`
	StartBalance float64 `json:"start_balance"`
	EndBalance   float64 `json:"end_balance"`
	NetPL        float64 `json:"net_pl"`
	ReturnPct    float64 `json:"return_pct"`
	PeakBalance  float64 `json:"peak_balance"`
	MaxDDPct     float64 `json:"max_drawdown_pct"`
	// Ruined is set once the balance has hit zero.
	Ruined       bool    `json:"ruined"`
	// Overflow is set once the balance has grown past the float64 range.
	// The affected balance fields are +Inf and encode as null.
	Overflow     bool    `json:"overflow"`
}

// MarshalJSON writes non-finite balance figures as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		EndBalance  finite `json:"end_balance"`
		NetPL       finite `json:"net_pl"`
		ReturnPct   finite `json:"return_pct"`
		PeakBalance finite `json:"peak_balance"`
		MaxDDPct    finite `json:"max_drawdown_pct"`
	}{
		plain:       plain(s),
		EndBalance:  finite(s.EndBalance),
		NetPL:       finite(s.NetPL),
		ReturnPct:   finite(s.ReturnPct),
		PeakBalance: finite(s.PeakBalance),
		MaxDDPct:    finite(s.MaxDDPct),
	})
}

// Summarize computes the digest in a single pass. Percentages are in 0-100
// units.
func Summarize(t *Trajectory) Summary {
	s := Summary{
		Days:         t.Len(),
		StartBalance: t.StartingBalance(),
		EndBalance:   t.Final(),
		PeakBalance:  t.StartingBalance(),
	}

	for i := 0; i < t.Len(); i++ {
		r := t.At(i)
		if r.Outcome == Win {
			s.Wins++
		} else {
			s.Losses++
		}
		if r.Balance > s.PeakBalance {
			s.PeakBalance = r.Balance
		}
		if r.Balance == 0 {
			s.Ruined = true
		}
		if math.IsInf(r.Balance, 1) {
			s.Overflow = true
		}
		if s.PeakBalance > 0 && !math.IsInf(s.PeakBalance, 1) {
			if dd := (s.PeakBalance - r.Balance) / s.PeakBalance * 100; dd > s.MaxDDPct {
				s.MaxDDPct = dd
			}
		}
	}

	if s.Days > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Days) * 100
	}
	s.NetPL = s.EndBalance - s.StartBalance
	if s.StartBalance > 0 {
		s.ReturnPct = s.NetPL / s.StartBalance * 100
	}
	return s
}
