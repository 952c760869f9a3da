package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MHMJerry/BackTest-ZZ800/market"
)

// Config represents the complete backtest configuration
type Config struct {
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Fees     FeesConfig     `json:"fees" yaml:"fees"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// BacktestConfig contains the run parameters
type BacktestConfig struct {
	Start      market.Date `json:"start" yaml:"start"`
	End        market.Date `json:"end" yaml:"end"`
	PriorDate  market.Date `json:"prior_date" yaml:"prior_date"`
	Capital    float64     `json:"capital" yaml:"capital"`
	HedgeRatio float64     `json:"hedge_ratio" yaml:"hedge_ratio"`
}

// FeesConfig contains the fee schedule. ManageAnnual is spread evenly over
// TradingDays per year.
type FeesConfig struct {
	Buy          float64 `json:"buy" yaml:"buy"`
	Sell         float64 `json:"sell" yaml:"sell"`
	ManageAnnual float64 `json:"manage_annual" yaml:"manage_annual"`
	TradingDays  int     `json:"trading_days" yaml:"trading_days"`
}

// DailyManage returns the per-trading-day management fee rate.
func (f FeesConfig) DailyManage() float64 {
	return f.ManageAnnual / float64(f.TradingDays)
}

// DataConfig locates the input tables
type DataConfig struct {
	Dir                 string `json:"dir" yaml:"dir"`
	WeightsFile         string `json:"weights_file" yaml:"weights_file"`
	ContractsFile       string `json:"contracts_file" yaml:"contracts_file"`
	ForwardFillMaxStale int    `json:"forward_fill_max_stale,omitempty" yaml:"forward_fill_max_stale,omitempty"`
}

// JournalConfig contains recording parameters
type JournalConfig struct {
	Type      string `json:"type" yaml:"type"` // "csv" or "sqlite"
	AssetFile string `json:"asset_file,omitempty" yaml:"asset_file,omitempty"`
	LotsFile  string `json:"lots_file,omitempty" yaml:"lots_file,omitempty"`
	DBPath    string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
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

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Backtest.Start.IsZero() || c.Backtest.End.IsZero() {
		return fmt.Errorf("backtest.start and backtest.end are required")
	}
	if c.Backtest.End <= c.Backtest.Start {
		return fmt.Errorf("backtest.end must be after backtest.start")
	}
	if c.Backtest.PriorDate.IsZero() || c.Backtest.PriorDate >= c.Backtest.Start {
		return fmt.Errorf("backtest.prior_date must be before backtest.start")
	}
	if c.Backtest.Capital <= 0 {
		return fmt.Errorf("backtest.capital must be positive")
	}
	if c.Backtest.HedgeRatio < 0 || c.Backtest.HedgeRatio > 1 {
		return fmt.Errorf("backtest.hedge_ratio must be between 0 and 1")
	}
	if c.Fees.Buy < 0 || c.Fees.Sell < 0 || c.Fees.ManageAnnual < 0 {
		return fmt.Errorf("fee rates must be non-negative")
	}
	if c.Fees.TradingDays <= 0 {
		return fmt.Errorf("fees.trading_days must be positive")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	if c.Data.WeightsFile == "" {
		return fmt.Errorf("data.weights_file is required")
	}
	if c.Data.ContractsFile == "" {
		return fmt.Errorf("data.contracts_file is required")
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && (c.Journal.AssetFile == "" || c.Journal.LotsFile == "") {
		return fmt.Errorf("journal asset_file and lots_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// Default returns the reference run's settings: ZZ800 long book over
// 2011-2022, quarter-notional IC hedge, 0.1% trade fees, 1% annual
// management fee over 242 trading days.
func Default() *Config {
	return &Config{
		Backtest: BacktestConfig{
			Start:      "2011-01-04",
			End:        "2022-06-30",
			PriorDate:  "2010-12-31",
			Capital:    1e7,
			HedgeRatio: 0.25,
		},
		Fees: FeesConfig{
			Buy:          0.001,
			Sell:         0.001,
			ManageAnnual: 0.01,
			TradingDays:  242,
		},
		Data: DataConfig{
			Dir:           "./data",
			WeightsFile:   "./strategy/positions.csv",
			ContractsFile: "./strategy/future_contracts.csv",
		},
		Journal: JournalConfig{
			Type:      "csv",
			AssetFile: "./res/asset.csv",
			LotsFile:  "./res/stock_records.csv",
		},
	}
}
