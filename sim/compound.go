package sim

import "fmt"

// Step applies one day's trade to balance. The fee is charged on entry and
// on exit, and the risk fraction scales the position multiplicatively.
// The multiplication order is fixed: balance*(1-fee)*(1±risk)*(1-fee).
func Step(balance float64, o Outcome, risk, fee float64) float64 {
	keep := 1 - fee
	mult := 1 + risk
	if o == Loss {
		mult = 1 - risk
	}
	if mult == 0 {
		// a full-risk loss wipes out even an overflowed (+Inf) balance
		return 0
	}
	return balance * keep * mult * keep
}

// Compound folds outcomes into a running balance starting at
// p.StartingBalance. Each record depends only on the previous balance and
// its own outcome. Once the balance reaches zero (risk of 1 on a loss) it
// stays at zero.
func Compound(p Params, outcomes []Outcome) (*Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(outcomes) != p.NumDays {
		return nil, fmt.Errorf("%w: got %d outcomes for %d days", ErrInvalidParameter, len(outcomes), p.NumDays)
	}

	records := make([]TrialRecord, len(outcomes))
	balance := p.StartingBalance
	for i, o := range outcomes {
		balance = Step(balance, o, p.RiskFraction, p.FeeFraction)
		records[i] = TrialRecord{Day: i + 1, Outcome: o, Balance: balance}
	}

	return &Trajectory{start: p.StartingBalance, records: records}, nil
}

// Run validates p, draws the outcomes from src and compounds them.
func Run(p Params, src Source) (*Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	outcomes, err := GenerateTrials(src, p.NumDays, p.WinProbability)
	if err != nil {
		return nil, err
	}
	return Compound(p, outcomes)
}
