package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rustyeddy/kellysim/sim"
	"gopkg.in/yaml.v3"
)

// Config represents the complete simulator configuration
type Config struct {
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Log        LogConfig        `json:"log" yaml:"log"`
	Output     OutputConfig     `json:"output" yaml:"output"`
}

// SimulationConfig holds the dashboard inputs in the units a user types
// them: whole percent for win rate and risk, percent with two decimals for
// the fee.
type SimulationConfig struct {
	WinRatePct   float64 `json:"win_rate_pct" yaml:"win_rate_pct"`
	RiskPct      float64 `json:"risk_pct" yaml:"risk_pct"`
	FeePct       float64 `json:"fee_pct" yaml:"fee_pct"`
	Days         int     `json:"days" yaml:"days"`
	StartBalance float64 `json:"start_balance" yaml:"start_balance"`
	Seed         uint64  `json:"seed,omitempty" yaml:"seed,omitempty"` // 0 = fresh draw per run
}

// ServerConfig contains the HTTP shell settings
type ServerConfig struct {
	Addr         string `json:"addr" yaml:"addr"`
	ReadTimeout  string `json:"read_timeout" yaml:"read_timeout"`   // e.g. "5s"
	WriteTimeout string `json:"write_timeout" yaml:"write_timeout"` // e.g. "10s"
}

// LogConfig selects the zap level and encoding
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // console or json
}

// OutputConfig controls the report written by the simulate command
type OutputConfig struct {
	CSVPath   string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
	TableRows int    `json:"table_rows" yaml:"table_rows"` // 0 prints every day
}

// Input bounds of the dashboard widgets.
const (
	MinWinRatePct      = 0
	MaxWinRatePct      = 100
	MinRiskPct         = 1
	MaxRiskPct         = 100
	MinFeePct          = 0
	MaxFeePct          = 5
	MinStartBalance    = 1.0
	MaxStartBalance    = 1_000_000.0
	MaxDays            = 100_000
	DefaultDays        = 1000
	DefaultWinRatePct  = 55
	DefaultRiskPct     = 5
	DefaultFeePct      = 0.1
	DefaultStartAmount = 100.0
)

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	s := c.Simulation
	if s.WinRatePct < MinWinRatePct || s.WinRatePct > MaxWinRatePct {
		return fmt.Errorf("simulation.win_rate_pct must be between %d and %d", MinWinRatePct, MaxWinRatePct)
	}
	if s.RiskPct < MinRiskPct || s.RiskPct > MaxRiskPct {
		return fmt.Errorf("simulation.risk_pct must be between %d and %d", MinRiskPct, MaxRiskPct)
	}
	if s.FeePct < MinFeePct || s.FeePct > MaxFeePct {
		return fmt.Errorf("simulation.fee_pct must be between %d and %d", MinFeePct, MaxFeePct)
	}
	if s.Days < 1 || s.Days > MaxDays {
		return fmt.Errorf("simulation.days must be between 1 and %d", MaxDays)
	}
	if s.StartBalance < MinStartBalance || s.StartBalance > MaxStartBalance {
		return fmt.Errorf("simulation.start_balance must be between %.0f and %.0f", MinStartBalance, MaxStartBalance)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, _, err := c.Server.Timeouts(); err != nil {
		return err
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	if c.Output.TableRows < 0 {
		return fmt.Errorf("output.table_rows must not be negative")
	}
	return nil
}

// Clamp pulls the inputs into the widget ranges the way the dashboard
// number inputs do, and caps the day count at MaxDays. A day count below 1
// is kept so that the run rejects it.
func (s SimulationConfig) Clamp() SimulationConfig {
	s.WinRatePct = clamp(s.WinRatePct, MinWinRatePct, MaxWinRatePct)
	s.RiskPct = clamp(s.RiskPct, MinRiskPct, MaxRiskPct)
	s.FeePct = clamp(s.FeePct, MinFeePct, MaxFeePct)
	s.StartBalance = clamp(s.StartBalance, MinStartBalance, MaxStartBalance)
	if s.Days > MaxDays {
		s.Days = MaxDays
	}
	return s
}

// Params converts the clamped percent inputs into a simulation snapshot.
func (s SimulationConfig) Params() sim.Params {
	s = s.Clamp()
	p := sim.Params{
		WinProbability:  s.WinRatePct / 100,
		RiskFraction:    s.RiskPct / 100,
		FeeFraction:     s.FeePct / 100,
		NumDays:         s.Days,
		StartingBalance: s.StartBalance,
	}
	return p.Clamp()
}

// Timeouts parses the read and write timeouts.
func (s ServerConfig) Timeouts() (read, write time.Duration, err error) {
	if read, err = parseDuration("server.read_timeout", s.ReadTimeout); err != nil {
		return 0, 0, err
	}
	if write, err = parseDuration("server.write_timeout", s.WriteTimeout); err != nil {
		return 0, 0, err
	}
	return read, write, nil
}

func parseDuration(field, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Default returns a configuration with the dashboard defaults
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			WinRatePct:   DefaultWinRatePct,
			RiskPct:      DefaultRiskPct,
			FeePct:       DefaultFeePct,
			Days:         DefaultDays,
			StartBalance: DefaultStartAmount,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  "5s",
			WriteTimeout: "10s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			TableRows: 20,
		},
	}
}
