package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvWinRate      = "KELLYSIM_WIN_RATE_PCT"
	EnvRisk         = "KELLYSIM_RISK_PCT"
	EnvFee          = "KELLYSIM_FEE_PCT"
	EnvDays         = "KELLYSIM_DAYS"
	EnvStartBalance = "KELLYSIM_START_BALANCE"
	EnvSeed         = "KELLYSIM_SEED"
	EnvAddr         = "KELLYSIM_ADDR"
	EnvLogLevel     = "KELLYSIM_LOG_LEVEL"
	EnvLogFormat    = "KELLYSIM_LOG_FORMAT"
)

// ApplyEnv loads dotenv (if the file exists; existing variables win) and
// overlays any KELLYSIM_* variables onto c. The result is re-validated.
func (c *Config) ApplyEnv(dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{EnvWinRate, &c.Simulation.WinRatePct},
		{EnvRisk, &c.Simulation.RiskPct},
		{EnvFee, &c.Simulation.FeePct},
		{EnvStartBalance, &c.Simulation.StartBalance},
	}
	for _, f := range floats {
		if v, ok := os.LookupEnv(f.key); ok {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", f.key, err)
			}
			*f.dst = x
		}
	}

	if v, ok := os.LookupEnv(EnvDays); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDays, err)
		}
		c.Simulation.Days = n
	}
	if v, ok := os.LookupEnv(EnvSeed); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Simulation.Seed = n
	}
	if v, ok := os.LookupEnv(EnvAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		c.Log.Format = v
	}

	return c.Validate()
}
