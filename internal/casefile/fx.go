package casefile

import (
	"github.com/smallbiznis/arbiter/internal/casefile/repository"
	"github.com/smallbiznis/arbiter/internal/casefile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("casefile",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
