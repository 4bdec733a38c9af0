package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/game"
)

// Config represents the complete server configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Table  *TableSettings  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional" env:"BLACKJACK_ADDRESS"`
	Port     int    `hcl:"port,optional" env:"PORT"`
	LogLevel string `hcl:"log_level,optional" env:"BLACKJACK_LOG_LEVEL"`
	Monitor  bool   `hcl:"monitor,optional" env:"BLACKJACK_MONITOR"`
}

// TableSettings contains the house rules and pacing. Durations use Go
// duration syntax, e.g. "1s" or "500ms".
type TableSettings struct {
	MinBet        int    `hcl:"min_bet,optional"`
	MaxBet        int    `hcl:"max_bet,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	MaxEntrants   int    `hcl:"max_entrants,optional"`
	TurnSeconds   int    `hcl:"turn_seconds,optional"`
	TickInterval  string `hcl:"tick_interval,optional"`
	DealerPace    string `hcl:"dealer_pace,optional"`
	ResultsPause  string `hcl:"results_pause,optional"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	rules := game.DefaultConfig()
	return &Config{
		Server: &ServerSettings{
			Address:  "",
			Port:     3000,
			LogLevel: "info",
		},
		Table: &TableSettings{
			MinBet:        rules.MinBet,
			MaxBet:        rules.MaxBet,
			StartingChips: rules.StartingChips,
			MaxEntrants:   rules.MaxEntrants,
			TurnSeconds:   rules.TurnSeconds,
			TickInterval:  rules.TickInterval.String(),
			DealerPace:    rules.DealerPace.String(),
			ResultsPause:  rules.ResultsPause.String(),
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to defaults
// when the file does not exist, then applies environment overrides.
func LoadConfig(filename string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) || filename == "" {
		config = DefaultConfig()
	} else {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}

		diags = gohcl.DecodeBody(file.Body, nil, config)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
		config.applyDefaults()
	}

	if err := env.Parse(config.Server); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Server == nil {
		c.Server = defaults.Server
	}
	if c.Table == nil {
		c.Table = defaults.Table
	}

	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = defaults.Server.LogLevel
	}

	t, d := c.Table, defaults.Table
	if t.MinBet == 0 {
		t.MinBet = d.MinBet
	}
	if t.MaxBet == 0 {
		t.MaxBet = d.MaxBet
	}
	if t.StartingChips == 0 {
		t.StartingChips = d.StartingChips
	}
	if t.MaxEntrants == 0 {
		t.MaxEntrants = d.MaxEntrants
	}
	if t.TurnSeconds == 0 {
		t.TurnSeconds = d.TurnSeconds
	}
	if t.TickInterval == "" {
		t.TickInterval = d.TickInterval
	}
	if t.DealerPace == "" {
		t.DealerPace = d.DealerPace
	}
	if t.ResultsPause == "" {
		t.ResultsPause = d.ResultsPause
	}
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	switch c.Server.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Server.LogLevel)
	}

	rules, err := c.TableConfig()
	if err != nil {
		return err
	}
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TableConfig converts the table block into game rules
func (c *Config) TableConfig() (game.Config, error) {
	t := c.Table
	rules := game.Config{
		MinBet:        t.MinBet,
		MaxBet:        t.MaxBet,
		StartingChips: t.StartingChips,
		MaxEntrants:   t.MaxEntrants,
		TurnSeconds:   t.TurnSeconds,
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"tick_interval", t.TickInterval, &rules.TickInterval},
		{"dealer_pace", t.DealerPace, &rules.DealerPace},
		{"results_pause", t.ResultsPause, &rules.ResultsPause},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return game.Config{}, fmt.Errorf("table: invalid %s %q: %w", d.name, d.value, err)
		}
		*d.dst = v
	}
	return rules, nil
}
