package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|prod
	Service   string `yaml:"service"`   // board-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Postgres struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

type Board struct {
	HistoryLimit   int    `yaml:"historyLimit"`   // events replayed to a new joiner
	Retention      string `yaml:"retention"`      // event log TTL, e.g. "168h"
	SweepInterval  string `yaml:"sweepInterval"`  // expiry pass period, e.g. "1h"
	MaxMessageSize int64  `yaml:"maxMessageSize"` // ws read limit, bytes
}

func (b Board) RetentionDuration() time.Duration {
	return parseDurationOr(7*24*time.Hour, b.Retention)
}

func (b Board) SweepIntervalDuration() time.Duration {
	return parseDurationOr(time.Hour, b.SweepInterval)
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	Logging  Logging  `yaml:"logging"`
	Postgres Postgres `yaml:"postgres"`
	Board    Board    `yaml:"board"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "board-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	if c.Board.HistoryLimit <= 0 {
		c.Board.HistoryLimit = 1000
	}
	if c.Board.MaxMessageSize <= 0 {
		c.Board.MaxMessageSize = 1 << 20
	}
	return nil
}

// helper for parsing TTL-style settings
func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
