package httpfx

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(HttpServerConfigProvider),
	fx.Provide(HttpServer),
	fx.Provide(HttpRouter),
	fx.Invoke(RunServer),

	fx.Provide(RulesHandler),
	fx.Provide(StateHandler),
	fx.Invoke(RegisterRoutes),
)
