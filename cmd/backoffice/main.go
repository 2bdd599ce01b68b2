package main

import (
	"github.com/PelvK/club-sarmiento-management-sub000/internal/clock"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/config"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/migration"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/observability"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/scheduler"
	"github.com/PelvK/club-sarmiento-management-sub000/internal/server"
	"github.com/PelvK/club-sarmiento-management-sub000/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Schema and domain modules
		migration.Module,
		server.Module,

		// Background jobs
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
