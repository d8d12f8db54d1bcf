package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	TCPAddr           string        `mapstructure:"tcp_addr" yaml:"tcp_addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LedgerPath        string        `mapstructure:"ledger_path" yaml:"ledger_path"`
	MaxConnsPerMin    int           `mapstructure:"max_conns_per_min" yaml:"max_conns_per_min"`
}

// Default returns configuration with reasonable starter defaults. The ledger
// lives in memory unless pointed at a file.
func Default() Config {
	return Config{
		Addr:              ":8080",
		TCPAddr:           ":4000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		LedgerPath:        ":memory:",
		MaxConnsPerMin:    0, // unlimited
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.TCPAddr != "" {
		c.TCPAddr = other.TCPAddr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LedgerPath != "" {
		c.LedgerPath = other.LedgerPath
	}
	if other.MaxConnsPerMin != 0 {
		c.MaxConnsPerMin = other.MaxConnsPerMin
	}
}
