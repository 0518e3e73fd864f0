package entity

import (
	"github.com/vantagehq/vantage/internal/entity/repository"
	"github.com/vantagehq/vantage/internal/entity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("entity.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
