package sim

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned for out-of-domain simulation inputs.
var ErrInvalidParameter = errors.New("invalid parameter")

// Params is an immutable snapshot of the inputs for one simulation run.
// All fractions are in [0,1] units (0.05 = 5%).
type Params struct {
	WinProbability  float64 `json:"win_probability" yaml:"win_probability"`
	RiskFraction    float64 `json:"risk_fraction" yaml:"risk_fraction"`
	FeeFraction     float64 `json:"fee_fraction" yaml:"fee_fraction"`
	NumDays         int     `json:"num_days" yaml:"num_days"`
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
}

// DefaultParams mirrors the dashboard defaults: 55% win rate, 5% risk,
// 0.1% fee, 1000 trading days and a balance of 100.
func DefaultParams() Params {
	return Params{
		WinProbability:  0.55,
		RiskFraction:    0.05,
		FeeFraction:     0.001,
		NumDays:         1000,
		StartingBalance: 100.0,
	}
}

// Validate rejects parameters outside their domain.
func (p Params) Validate() error {
	if err := checkProbability(p.WinProbability); err != nil {
		return err
	}
	if math.IsNaN(p.RiskFraction) || p.RiskFraction <= 0 || p.RiskFraction > 1 {
		return fmt.Errorf("%w: risk fraction %v must be in (0,1]", ErrInvalidParameter, p.RiskFraction)
	}
	if math.IsNaN(p.FeeFraction) || p.FeeFraction < 0 || p.FeeFraction >= 1 {
		return fmt.Errorf("%w: fee fraction %v must be in [0,1)", ErrInvalidParameter, p.FeeFraction)
	}
	if err := checkDays(p.NumDays); err != nil {
		return err
	}
	if math.IsNaN(p.StartingBalance) || math.IsInf(p.StartingBalance, 0) || p.StartingBalance <= 0 {
		return fmt.Errorf("%w: starting balance %v must be positive", ErrInvalidParameter, p.StartingBalance)
	}
	return nil
}

// Clamp pulls every fraction into its valid domain. The day count and
// starting balance are left alone; Validate still reports those.
func (p Params) Clamp() Params {
	p.WinProbability = clamp(p.WinProbability, 0, 1)
	// risk must stay strictly positive; 1e-4 is one hundredth of a percent
	p.RiskFraction = clamp(p.RiskFraction, 1e-4, 1)
	p.FeeFraction = clamp(p.FeeFraction, 0, maxFee)
	return p
}

// maxFee is the largest fee fraction below 1 that Clamp will produce.
const maxFee = 0.9999

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func checkProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: win probability %v must be in [0,1]", ErrInvalidParameter, p)
	}
	return nil
}

func checkDays(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: num days %d must be at least 1", ErrInvalidParameter, n)
	}
	return nil
}
