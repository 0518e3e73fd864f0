package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/vantagehq/vantage/internal/config"
	"github.com/vantagehq/vantage/internal/entity"
	"github.com/vantagehq/vantage/internal/identity"
	"github.com/vantagehq/vantage/internal/idp"
	"github.com/vantagehq/vantage/internal/logger"
	"github.com/vantagehq/vantage/internal/migration"
	"github.com/vantagehq/vantage/internal/server"
	"github.com/vantagehq/vantage/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional domains
		identity.Module,
		entity.Module,
		idp.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterAPIRoutes()
		}),
		fx.Invoke(server.RunHTTP),
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
