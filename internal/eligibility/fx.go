package eligibility

import (
	"github.com/smallbiznis/arbiter/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("eligibility",
	fx.Provide(func(cfg config.Config) Config {
		return Config{DisputeWindow: cfg.DisputeWindow()}
	}),
	fx.Provide(NewGate),
)
