package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/clock"
	"github.com/smallbiznis/quizhub/internal/config"
	"github.com/smallbiznis/quizhub/internal/logger"
	"github.com/smallbiznis/quizhub/internal/migration"
	"github.com/smallbiznis/quizhub/internal/redis"
	"github.com/smallbiznis/quizhub/internal/scheduler"
	"github.com/smallbiznis/quizhub/internal/server"
	"github.com/smallbiznis/quizhub/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		redis.Module,
		clock.Module,
		migration.Module,

		// HTTP surface plus the feature services it depends on
		server.Module,

		// Background reminder sweep
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
