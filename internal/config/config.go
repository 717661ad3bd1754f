package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration, loaded once at startup from an
// optional YAML file with environment variable overrides.
type Config struct {
	Environment string `yaml:"environment"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	Dispute struct {
		// WindowHours is the strict dispute window applied by the
		// eligibility gate. LenientWindowHours is the policy ceiling;
		// WindowHours is clamped to it.
		WindowHours          int `yaml:"window_hours"`
		LenientWindowHours   int `yaml:"lenient_window_hours"`
		ResponseTimeoutHours int `yaml:"response_timeout_hours"`
		ConversationCapHours int `yaml:"conversation_cap_hours"`
	} `yaml:"dispute"`

	Refunds struct {
		SnadPartialMin    int `yaml:"snad_partial_min"`
		SnadPartialMax    int `yaml:"snad_partial_max"`
		GoodwillMin       int `yaml:"goodwill_min"`
		GoodwillMax       int `yaml:"goodwill_max"`
		SizingGoodwill    int `yaml:"sizing_goodwill"`
		NegotiatedMin     int `yaml:"negotiated_min"`
		NegotiatedMax     int `yaml:"negotiated_max"`
		ReturnFeeMinorCOD int `yaml:"return_fee_minor_cod"`
	} `yaml:"refunds"`

	Worker struct {
		BatchSize           int `yaml:"batch_size"`
		PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	} `yaml:"worker"`

	Tracing struct {
		Enabled          bool    `yaml:"enabled"`
		ExporterEndpoint string  `yaml:"exporter_endpoint"`
		ExporterProtocol string  `yaml:"exporter_protocol"`
		SamplingRatio    float64 `yaml:"sampling_ratio"`
	} `yaml:"tracing"`

	Bootstrap struct {
		SeedDemoCases bool `yaml:"seed_demo_cases"`
	} `yaml:"bootstrap"`
}

const envPrefix = "ARBITER_"

// Load reads the config file named by ARBITER_CONFIG (if any), applies
// defaults and environment overrides, and validates the result.
func Load() (Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv(envPrefix + "CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func defaults() Config {
	var cfg Config
	cfg.Environment = "development"
	cfg.HTTP.Addr = ":8080"
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "file:arbiter.db?cache=shared"
	cfg.Dispute.WindowHours = 24
	cfg.Dispute.LenientWindowHours = 48
	cfg.Dispute.ResponseTimeoutHours = 24
	cfg.Dispute.ConversationCapHours = 72
	cfg.Refunds.SnadPartialMin = 15
	cfg.Refunds.SnadPartialMax = 30
	cfg.Refunds.GoodwillMin = 5
	cfg.Refunds.GoodwillMax = 10
	cfg.Refunds.SizingGoodwill = 10
	cfg.Refunds.NegotiatedMin = 50
	cfg.Refunds.NegotiatedMax = 80
	cfg.Refunds.ReturnFeeMinorCOD = 6000
	cfg.Worker.BatchSize = 50
	cfg.Worker.PollIntervalSeconds = 30
	cfg.Tracing.SamplingRatio = 0.1
	return cfg
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(envPrefix + "ENVIRONMENT")); v != "" {
		cfg.Environment = v
	}
	if v := strings.TrimSpace(os.Getenv(envPrefix + "HTTP_ADDR")); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(envPrefix + "DB_DRIVER")); v != "" {
		cfg.Database.Driver = v
	}
	if v := strings.TrimSpace(os.Getenv(envPrefix + "DB_DSN")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv(envPrefix + "OTLP_ENDPOINT")); v != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.ExporterEndpoint = v
	}
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Dispute.WindowHours <= 0 {
		return fmt.Errorf("dispute window must be positive, got %d", c.Dispute.WindowHours)
	}
	if c.Dispute.LenientWindowHours < c.Dispute.WindowHours {
		return fmt.Errorf("lenient window %dh below strict window %dh", c.Dispute.LenientWindowHours, c.Dispute.WindowHours)
	}
	return nil
}

// DisputeWindow returns the strict dispute window as a duration, clamped to
// the lenient ceiling.
func (c Config) DisputeWindow() time.Duration {
	hours := c.Dispute.WindowHours
	if hours > c.Dispute.LenientWindowHours {
		hours = c.Dispute.LenientWindowHours
	}
	return time.Duration(hours) * time.Hour
}

// ResponseTimeout returns how long each party has to respond before
// auto-escalation.
func (c Config) ResponseTimeout() time.Duration {
	return time.Duration(c.Dispute.ResponseTimeoutHours) * time.Hour
}

// ConversationCap returns the maximum negotiation duration before a case
// summary is triggered.
func (c Config) ConversationCap() time.Duration {
	return time.Duration(c.Dispute.ConversationCapHours) * time.Hour
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
