package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqSource replays fixed draws.
type seqSource struct {
	draws []float64
	i     int
}

func (s *seqSource) Float64() float64 {
	v := s.draws[s.i%len(s.draws)]
	s.i++
	return v
}

func TestGenerateTrials_ThresholdIsStrict(t *testing.T) {
	src := &seqSource{draws: []float64{0.0, 0.54, 0.55, 0.56, 0.99}}

	got, err := GenerateTrials(src, 5, 0.55)
	require.NoError(t, err)
	assert.Equal(t, []Outcome{Win, Win, Loss, Loss, Loss}, got)
	assert.Equal(t, 5, src.i, "one draw per trial")
}

func TestGenerateTrials_Extremes(t *testing.T) {
	never, err := GenerateTrials(NewSource(1), 100, 0)
	require.NoError(t, err)
	for _, o := range never {
		assert.Equal(t, Loss, o)
	}

	always, err := GenerateTrials(NewSource(1), 100, 1)
	require.NoError(t, err)
	for _, o := range always {
		assert.Equal(t, Win, o)
	}
}

func TestGenerateTrials_Frequency(t *testing.T) {
	const n = 20000
	got, err := GenerateTrials(NewSource(2024), n, 0.55)
	require.NoError(t, err)
	require.Len(t, got, n)

	wins := 0
	for _, o := range got {
		if o == Win {
			wins++
		}
	}
	// four standard deviations is ~0.014 at this n
	assert.InDelta(t, 0.55, float64(wins)/n, 0.02)
}

func TestGenerateTrials_InvalidParameter(t *testing.T) {
	tests := []struct {
		name string
		days int
		p    float64
		src  Source
	}{
		{"negative probability", 10, -0.01, NewSource(1)},
		{"probability above one", 10, 1.01, NewSource(1)},
		{"zero days", 0, 0.5, NewSource(1)},
		{"negative days", -3, 0.5, NewSource(1)},
		{"nil source", 10, 0.5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateTrials(tt.src, tt.days, tt.p)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestOutcome_Text(t *testing.T) {
	b, err := json.Marshal([]Outcome{Win, Loss})
	require.NoError(t, err)
	assert.JSONEq(t, `["win","loss"]`, string(b))

	var back []Outcome
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []Outcome{Win, Loss}, back)

	var o Outcome
	assert.Error(t, o.UnmarshalText([]byte("draw")))
}
