// Package kelly computes the Kelly optimal risk fraction for a repeated
// even-odds bet, with and without round-trip transaction fees.
package kelly

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Odds is the fixed profit:loss ratio (1:1) of every trade.
const Odds = 1.0

// ErrInvalidParameter is returned for p outside [0,1] or fee outside [0,1).
var ErrInvalidParameter = errors.New("invalid parameter")

// Result is one recommended risk fraction, in percent.
type Result struct {
	FeeAdjusted         bool    `json:"fee_adjusted"`
	RiskFractionPercent float64 `json:"risk_fraction_pct"`
	// Degenerate is set when the formula had no finite value and the 0%
	// sentinel was reported instead.
	Degenerate bool `json:"degenerate,omitempty"`
}

// Estimate holds both recommendations for a single (p, fee) pair.
type Estimate struct {
	WinProbability float64 `json:"win_probability"`
	FeeFraction    float64 `json:"fee_fraction"`
	Unadjusted     Result  `json:"unadjusted"`
	Adjusted       Result  `json:"fee_adjusted"`
}

// Compute returns the unadjusted and fee-adjusted Kelly fractions for win
// probability p and per-side fee fraction fee. It has no hidden state.
func Compute(p, fee float64) (Estimate, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Estimate{}, fmt.Errorf("%w: win probability %v must be in [0,1]", ErrInvalidParameter, p)
	}
	if math.IsNaN(fee) || fee < 0 || fee >= 1 {
		return Estimate{}, fmt.Errorf("%w: fee fraction %v must be in [0,1)", ErrInvalidParameter, fee)
	}

	return Estimate{
		WinProbability: p,
		FeeFraction:    fee,
		Unadjusted:     unadjusted(p, Odds),
		Adjusted:       feeAdjusted(p, fee, Odds),
	}, nil
}

// Unadjusted is the classic (b*p - q)/b fraction, ignoring fees.
func Unadjusted(p float64) (Result, error) {
	e, err := Compute(p, 0)
	if err != nil {
		return Result{}, err
	}
	return e.Unadjusted, nil
}

// FeeAdjusted is the Kelly fraction with the fee charged on entry and exit.
func FeeAdjusted(p, fee float64) (Result, error) {
	e, err := Compute(p, fee)
	if err != nil {
		return Result{}, err
	}
	return e.Adjusted, nil
}

func unadjusted(p, b float64) Result {
	q := 1 - p
	return finish(false, (b*p-q)/b)
}

// feeAdjusted converts the fee into effective gain and loss per unit staked:
//
//	gainEff = (1-fee)(1+b)(1-fee) - 1
//	lossEff = 1 - (1-fee)(1-b)(1-fee)
func feeAdjusted(p, fee, b float64) Result {
	q := 1 - p
	keep := 1 - fee
	gainEff := keep*(1+b)*keep - 1
	lossEff := 1 - keep*(1-b)*keep

	denom := gainEff + lossEff
	if denom == 0 {
		return Result{FeeAdjusted: true, Degenerate: true}
	}
	return finish(true, (p*gainEff-q*lossEff)/denom)
}

// finish clamps at zero and rounds the percentage to two decimals.
func finish(adjusted bool, f float64) Result {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Result{FeeAdjusted: adjusted, Degenerate: true}
	}
	pct := decimal.NewFromFloat(f * 100).Round(2)
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	return Result{FeeAdjusted: adjusted, RiskFractionPercent: pct.InexactFloat64()}
}
