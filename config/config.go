package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/pairs/market"
)

// Config represents the complete simulation configuration
type Config struct {
	Data     DataConfig     `json:"data" yaml:"data"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// DataConfig points at the price series and names the two instruments.
type DataConfig struct {
	Path   string `json:"path" yaml:"path"`
	First  string `json:"first" yaml:"first"`
	Second string `json:"second" yaml:"second"`
}

// Pair returns the instrument pair the data section names.
func (d DataConfig) Pair() market.Pair {
	return market.Pair{First: d.First, Second: d.Second}
}

// StrategyConfig holds the spread-rule parameters.
type StrategyConfig struct {
	Entry    float64  `json:"entry" yaml:"entry"`                             // g
	Exit     float64  `json:"exit" yaml:"exit"`                               // j
	StopLoss *float64 `json:"stop_loss,omitempty" yaml:"stop_loss,omitempty"` // s, null disables
	Lookback int      `json:"lookback" yaml:"lookback"`                       // M
	Cost     float64  `json:"cost" yaml:"cost"`                               // zeta
	Start    string   `json:"start" yaml:"start"`                             // activation date, YYYY-MM-DD
}

// JournalConfig controls where the finished ledger goes.
type JournalConfig struct {
	CSVFile string `json:"csv_file,omitempty" yaml:"csv_file,omitempty"`
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
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

// SaveToFile saves configuration to a file (format chosen by extension)
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

// StartDate parses the activation date.
func (c *Config) StartDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Strategy.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("strategy.start: %w", err)
	}
	return t, nil
}

// Validate checks if the configuration is valid. The entry/exit ordering
// g > j is expected but deliberately not enforced.
func (c *Config) Validate() error {
	if err := c.Data.Pair().Validate(); err != nil {
		return err
	}
	if c.Strategy.Lookback <= 0 {
		return fmt.Errorf("strategy.lookback must be a positive number of rows")
	}
	if c.Strategy.Cost < 0 {
		return fmt.Errorf("strategy.cost must be >= 0")
	}
	if c.Strategy.StopLoss != nil && *c.Strategy.StopLoss <= 0 {
		return fmt.Errorf("strategy.stop_loss must be positive when set (omit to disable)")
	}
	if c.Strategy.Start == "" {
		return fmt.Errorf("strategy.start is required")
	}
	if _, err := c.StartDate(); err != nil {
		return err
	}
	return nil
}

// Default returns a configuration with the parameters the strategy was
// originally run with.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Path:   "./prices.csv",
			First:  market.DefaultPair.First,
			Second: market.DefaultPair.Second,
		},
		Strategy: StrategyConfig{
			Entry:    0.05,
			Exit:     0.01,
			Lookback: 30,
			Cost:     0.00001,
			Start:    "2022-01-01",
		},
		Journal: JournalConfig{
			CSVFile: "./trade_log.csv",
		},
	}
}
