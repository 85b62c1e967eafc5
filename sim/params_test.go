package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_Validate(t *testing.T) {
	base := DefaultParams()

	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults", func(p *Params) {}, false},
		{"zero win probability", func(p *Params) { p.WinProbability = 0 }, false},
		{"certain win", func(p *Params) { p.WinProbability = 1 }, false},
		{"full risk", func(p *Params) { p.RiskFraction = 1 }, false},
		{"zero fee", func(p *Params) { p.FeeFraction = 0 }, false},
		{"win probability above one", func(p *Params) { p.WinProbability = 1.5 }, true},
		{"win probability NaN", func(p *Params) { p.WinProbability = math.NaN() }, true},
		{"zero risk", func(p *Params) { p.RiskFraction = 0 }, true},
		{"risk above one", func(p *Params) { p.RiskFraction = 1.01 }, true},
		{"fee of one", func(p *Params) { p.FeeFraction = 1 }, true},
		{"negative fee", func(p *Params) { p.FeeFraction = -0.001 }, true},
		{"zero days", func(p *Params) { p.NumDays = 0 }, true},
		{"zero balance", func(p *Params) { p.StartingBalance = 0 }, true},
		{"infinite balance", func(p *Params) { p.StartingBalance = math.Inf(1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParameter)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParams_Clamp(t *testing.T) {
	p := Params{
		WinProbability:  1.2,
		RiskFraction:    -0.5,
		FeeFraction:     3,
		NumDays:         10,
		StartingBalance: 50,
	}.Clamp()

	assert.Equal(t, 1.0, p.WinProbability)
	assert.Greater(t, p.RiskFraction, 0.0)
	assert.Less(t, p.FeeFraction, 1.0)
	assert.NoError(t, p.Validate())

	in := DefaultParams()
	assert.Equal(t, in, in.Clamp())
}
