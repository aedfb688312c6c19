package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/lox/pokerodds/equity"
)

// Config is the configuration shared by the commands.
type Config struct {
	Equity EquityConfig
	Log    LogConfig
	Server ServerConfig
}

// EquityConfig controls how equity is calculated.
type EquityConfig struct {
	Method     string `hcl:"method,optional" env:"POKERODDS_METHOD"`
	Iterations uint64 `hcl:"iterations,optional" env:"POKERODDS_ITERATIONS"`
	Seed       uint64 `hcl:"seed,optional" env:"POKERODDS_SEED"`
	Workers    int    `hcl:"workers,optional" env:"POKERODDS_WORKERS"`
	MaxTrials  uint64 `hcl:"max_trials,optional" env:"POKERODDS_MAX_TRIALS"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `hcl:"level,optional" env:"POKERODDS_LOG_LEVEL"`
}

// ServerConfig controls the websocket service.
type ServerConfig struct {
	Address string `hcl:"address,optional" env:"POKERODDS_ADDRESS"`
	Port    int    `hcl:"port,optional" env:"POKERODDS_PORT"`

	// MaxIterations caps the Monte Carlo samples a single request may ask for.
	MaxIterations uint64 `hcl:"max_iterations,optional" env:"POKERODDS_MAX_ITERATIONS"`
	// MaxRequests caps the calculations one connection may run at once.
	MaxRequests int `hcl:"max_requests,optional" env:"POKERODDS_MAX_REQUESTS"`
}

// file is the on-disk layout; every block is optional.
type file struct {
	Equity *EquityConfig `hcl:"equity,block"`
	Log    *LogConfig    `hcl:"log,block"`
	Server *ServerConfig `hcl:"server,block"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Equity: EquityConfig{
			Method:     "auto",
			Iterations: equity.DefaultIterations,
			MaxTrials:  equity.DefaultMaxTrials,
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Address:       "localhost",
			Port:          8080,
			MaxIterations: 10_000_000,
			MaxRequests:   4,
		},
	}
}

// Load reads the HCL file at filename, falling back to defaults when the
// name is empty or the file does not exist, then applies POKERODDS_*
// environment overrides.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		src, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if cfg, err = Parse(src, filename); err != nil {
				return nil, err
			}
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Parse decodes HCL source. Settings it does not mention keep their defaults.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var decoded file
	diags = gohcl.DecodeBody(f.Body, nil, &decoded)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if decoded.Equity != nil {
		cfg.Equity = *decoded.Equity
	}
	if decoded.Log != nil {
		cfg.Log = *decoded.Log
	}
	if decoded.Server != nil {
		cfg.Server = *decoded.Server
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Equity.Method == "" {
		c.Equity.Method = def.Equity.Method
	}
	if c.Equity.Iterations == 0 {
		c.Equity.Iterations = def.Equity.Iterations
	}
	if c.Equity.MaxTrials == 0 {
		c.Equity.MaxTrials = def.Equity.MaxTrials
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.MaxIterations == 0 {
		c.Server.MaxIterations = def.Server.MaxIterations
	}
	if c.Server.MaxRequests == 0 {
		c.Server.MaxRequests = def.Server.MaxRequests
	}
}

// Validate checks the configuration for values the commands cannot use.
func (c *Config) Validate() error {
	if _, err := equity.ParseMethod(c.Equity.Method); err != nil {
		return err
	}
	if c.Equity.Workers < 0 {
		return fmt.Errorf("invalid workers: %d", c.Equity.Workers)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.MaxRequests < 0 {
		return fmt.Errorf("invalid max_requests: %d", c.Server.MaxRequests)
	}
	return nil
}

// Addr returns the listen address for the server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// Options converts the settings into calculator options. Zero workers
// leaves the calculator's default of one per CPU.
func (e EquityConfig) Options() []equity.Option {
	return []equity.Option{
		equity.WithIterations(e.Iterations),
		equity.WithSeed(e.Seed),
		equity.WithWorkers(e.Workers),
		equity.WithMaxTrials(e.MaxTrials),
	}
}

// ParsedMethod returns the configured method, assuming Validate passed.
func (e EquityConfig) ParsedMethod() equity.Method {
	m, _ := equity.ParseMethod(e.Method)
	return m
}
