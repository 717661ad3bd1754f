package analysis

import (
	"github.com/smallbiznis/arbiter/internal/analysis/service"
	"go.uber.org/fx"
)

var Module = fx.Module("analysis",
	fx.Provide(service.NewService),
)
