package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/arbiter/internal/analysis"
	"github.com/smallbiznis/arbiter/internal/audit"
	"github.com/smallbiznis/arbiter/internal/authorization"
	"github.com/smallbiznis/arbiter/internal/casefile"
	"github.com/smallbiznis/arbiter/internal/clock"
	"github.com/smallbiznis/arbiter/internal/config"
	"github.com/smallbiznis/arbiter/internal/eligibility"
	"github.com/smallbiznis/arbiter/internal/events"
	"github.com/smallbiznis/arbiter/internal/lifecycle"
	"github.com/smallbiznis/arbiter/internal/logger"
	"github.com/smallbiznis/arbiter/internal/migration"
	"github.com/smallbiznis/arbiter/internal/observability"
	"github.com/smallbiznis/arbiter/internal/policy"
	"github.com/smallbiznis/arbiter/internal/recommend"
	"github.com/smallbiznis/arbiter/internal/seed"
	"github.com/smallbiznis/arbiter/internal/server"
	"github.com/smallbiznis/arbiter/internal/snad"
	"github.com/smallbiznis/arbiter/internal/summary"
	"github.com/smallbiznis/arbiter/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		clock.Module,
		db.Module,
		migration.Module,
		seed.Module,
		observability.Module,
		policy.Module,
		events.Module,
		casefile.Module,
		eligibility.Module,
		snad.Module,
		recommend.Module,
		summary.Module,
		analysis.Module,
		lifecycle.Module,
		authorization.Module,
		audit.Module,
		server.Module,
	)
	app.Run()
}
