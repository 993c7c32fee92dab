package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Load modes for decode errors.
const (
	ModePermissive = "permissive"
	ModeStrict     = "strict"
)

// Output sinks.
const (
	SinkCSV   = "csv"
	SinkRedis = "redis"
)

var (
	ErrInvalidMode = errors.New("invalid ledger mode")
	ErrInvalidSink = errors.New("invalid output sink")
)

// Config holds all application configuration.
type Config struct {
	// Ledger
	Mode               string `env:"LEDGER_MODE"                 envDefault:"permissive"`
	EarlyEmit          bool   `env:"LEDGER_EARLY_EMIT"           envDefault:"false"`
	EmitBuffer         int    `env:"LEDGER_EMIT_BUFFER"          envDefault:"1024"`
	EnforceClientMatch bool   `env:"LEDGER_ENFORCE_CLIENT_MATCH" envDefault:"true"`

	// Output
	Sink string `env:"OUTPUT_SINK" envDefault:"csv"`

	// Redis sink
	RedisURL       string        `env:"REDIS_URL"        envDefault:"redis://localhost:6379"`
	RedisKeyPrefix string        `env:"REDIS_KEY_PREFIX" envDefault:"txledger"`
	RedisKeyTTL    time.Duration `env:"REDIS_KEY_TTL"    envDefault:"24h"`
	RedisBatchSize int           `env:"REDIS_BATCH_SIZE" envDefault:"500"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Metrics (empty disables the textfile export)
	MetricsTextfile string `env:"METRICS_TEXTFILE" envDefault:""`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks enumerated settings. It runs after flags have been applied.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModePermissive, ModeStrict:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	switch c.Sink {
	case SinkCSV, SinkRedis:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSink, c.Sink)
	}

	if c.EmitBuffer < 1 {
		c.EmitBuffer = 1
	}
	if c.RedisBatchSize < 1 {
		c.RedisBatchSize = 1
	}
	return nil
}

// Strict reports whether the first decode error aborts the run.
func (c *Config) Strict() bool {
	return c.Mode == ModeStrict
}
