package lifecycle

import (
	"time"

	"github.com/smallbiznis/arbiter/internal/config"
)

// Config controls the escalation worker loop.
type Config struct {
	BatchSize    int
	PollInterval time.Duration
	Deadlines    Deadlines
}

func DefaultConfig() Config {
	return Config{
		BatchSize:    50,
		PollInterval: 30 * time.Second,
		Deadlines: Deadlines{
			ResponseTimeout: 24 * time.Hour,
			ConversationCap: 72 * time.Hour,
		},
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaults.PollInterval
	}
	if c.Deadlines.ResponseTimeout <= 0 {
		c.Deadlines.ResponseTimeout = defaults.Deadlines.ResponseTimeout
	}
	if c.Deadlines.ConversationCap <= 0 {
		c.Deadlines.ConversationCap = defaults.Deadlines.ConversationCap
	}
	return c
}

func provideConfig(cfg config.Config) Config {
	out := Config{
		BatchSize:    cfg.Worker.BatchSize,
		PollInterval: time.Duration(cfg.Worker.PollIntervalSeconds) * time.Second,
		Deadlines: Deadlines{
			ResponseTimeout: cfg.ResponseTimeout(),
			ConversationCap: cfg.ConversationCap(),
		},
	}
	return out.withDefaults()
}
