package sim

import (
	"fmt"
	"math/rand/v2"
)

// Outcome is the result of a single trade.
type Outcome uint8

const (
	Loss Outcome = iota
	Win
)

func (o Outcome) String() string {
	if o == Win {
		return "win"
	}
	return "loss"
}

// MarshalText lets outcomes show up as "win"/"loss" in JSON and YAML.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses "win" or "loss".
func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "win", "W":
		*o = Win
	case "loss", "L":
		*o = Loss
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}

// Source yields uniform draws in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a PCG-backed source. A zero seed picks a random one so
// that each run without an explicit seed draws a fresh path.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// GenerateTrials draws numDays independent Bernoulli outcomes from src.
// Each trial is a Win when its uniform draw is below winProbability.
func GenerateTrials(src Source, numDays int, winProbability float64) ([]Outcome, error) {
	if err := checkProbability(winProbability); err != nil {
		return nil, err
	}
	if err := checkDays(numDays); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidParameter)
	}

	out := make([]Outcome, numDays)
	for i := range out {
		if src.Float64() < winProbability {
			out[i] = Win
		}
	}
	return out, nil
}
