package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 55.0, cfg.Simulation.WinRatePct)
	assert.Equal(t, 5.0, cfg.Simulation.RiskPct)
	assert.Equal(t, 0.1, cfg.Simulation.FeePct)
	assert.Equal(t, 1000, cfg.Simulation.Days)
	assert.Equal(t, 100.0, cfg.Simulation.StartBalance)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "win rate above 100",
			mutate:  func(c *Config) { c.Simulation.WinRatePct = 101 },
			wantErr: true,
			errMsg:  "simulation.win_rate_pct must be between 0 and 100",
		},
		{
			name:    "risk below 1",
			mutate:  func(c *Config) { c.Simulation.RiskPct = 0.5 },
			wantErr: true,
			errMsg:  "simulation.risk_pct must be between 1 and 100",
		},
		{
			name:    "fee above 5",
			mutate:  func(c *Config) { c.Simulation.FeePct = 5.01 },
			wantErr: true,
			errMsg:  "simulation.fee_pct must be between 0 and 5",
		},
		{
			name:    "zero days",
			mutate:  func(c *Config) { c.Simulation.Days = 0 },
			wantErr: true,
			errMsg:  "simulation.days must be between 1 and 100000",
		},
		{
			name:    "too many days",
			mutate:  func(c *Config) { c.Simulation.Days = MaxDays + 1 },
			wantErr: true,
			errMsg:  "simulation.days must be between 1 and 100000",
		},
		{
			name:    "negative balance",
			mutate:  func(c *Config) { c.Simulation.StartBalance = -10 },
			wantErr: true,
			errMsg:  "simulation.start_balance must be between 1 and 1000000",
		},
		{
			name:    "balance below widget minimum",
			mutate:  func(c *Config) { c.Simulation.StartBalance = 0.5 },
			wantErr: true,
			errMsg:  "simulation.start_balance must be between 1 and 1000000",
		},
		{
			name:    "missing addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
			errMsg:  "server.addr is required",
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = "soon" },
			wantErr: true,
			errMsg:  "server.read_timeout",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "log.format must be 'console' or 'json'",
		},
		{
			name:    "negative table rows",
			mutate:  func(c *Config) { c.Output.TableRows = -1 },
			wantErr: true,
			errMsg:  "output.table_rows must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Simulation.Seed = 17
			cfg.Output.CSVPath = "run.csv"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  win_rate_pct: 60\n  days: 365\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 60.0, cfg.Simulation.WinRatePct)
	assert.Equal(t, 365, cfg.Simulation.Days)
	assert.Equal(t, 5.0, cfg.Simulation.RiskPct)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  risk_pct: 400\n"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "simulation.risk_pct")
}

func TestSimulationParams(t *testing.T) {
	p := Default().Simulation.Params()
	assert.InDelta(t, 0.55, p.WinProbability, 1e-12)
	assert.InDelta(t, 0.05, p.RiskFraction, 1e-12)
	assert.InDelta(t, 0.001, p.FeeFraction, 1e-12)
	assert.Equal(t, 1000, p.NumDays)
	assert.Equal(t, 100.0, p.StartingBalance)
	assert.NoError(t, p.Validate())

	wild := SimulationConfig{WinRatePct: 140, RiskPct: 0, FeePct: 9, Days: 10, StartBalance: 0}.Params()
	assert.Equal(t, 1.0, wild.WinProbability)
	assert.Equal(t, 0.01, wild.RiskFraction)
	assert.Equal(t, 0.05, wild.FeeFraction)
	assert.Equal(t, 1.0, wild.StartingBalance)
	assert.NoError(t, wild.Validate())

	long := SimulationConfig{WinRatePct: 55, RiskPct: 5, Days: 2_000_000_000, StartBalance: 100}.Params()
	assert.Equal(t, MaxDays, long.NumDays)

	zero := SimulationConfig{WinRatePct: 55, RiskPct: 5, Days: 0, StartBalance: 100}.Params()
	assert.Equal(t, 0, zero.NumDays)
	assert.Error(t, zero.Validate())
}

func TestSimulationClamp(t *testing.T) {
	in := SimulationConfig{WinRatePct: 150, RiskPct: 0, FeePct: 12, Days: MaxDays * 3, StartBalance: 5e6, Seed: 9}
	got := in.Clamp()
	assert.Equal(t, SimulationConfig{
		WinRatePct:   MaxWinRatePct,
		RiskPct:      MinRiskPct,
		FeePct:       MaxFeePct,
		Days:         MaxDays,
		StartBalance: MaxStartBalance,
		Seed:         9,
	}, got)

	// values already in range are untouched
	def := Default().Simulation
	assert.Equal(t, def, def.Clamp())
}

func TestServerTimeouts(t *testing.T) {
	r, w, err := Default().Server.Timeouts()
	require.NoError(t, err)
	assert.Equal(t, "5s", r.String())
	assert.Equal(t, "10s", w.String())

	r, w, err = ServerConfig{}.Timeouts()
	require.NoError(t, err)
	assert.Zero(t, r)
	assert.Zero(t, w)
}
