package metricsfx

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(Registry),
	fx.Provide(Recorder),
	fx.Invoke(RegisterMetricsHandler),
)
