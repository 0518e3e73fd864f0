package identity

import (
	"github.com/vantagehq/vantage/internal/config"
	"github.com/vantagehq/vantage/internal/identity/replay"
	"github.com/vantagehq/vantage/internal/identity/repository"
	"github.com/vantagehq/vantage/internal/identity/service"
	"github.com/vantagehq/vantage/internal/identity/webhook"
	"go.uber.org/fx"
)

func newVerifier(cfg config.Config) (*webhook.Verifier, error) {
	return webhook.NewVerifier(cfg.ClerkWebhookSecret)
}

var Module = fx.Module("identity.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
	fx.Provide(newVerifier),
	fx.Provide(replay.NewGuard),
)
