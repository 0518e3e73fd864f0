package idp

import "go.uber.org/fx"

var Module = fx.Module("idp.client",
	fx.Provide(NewClient),
)
