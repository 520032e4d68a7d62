package main

import (
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/yurykabanov/logrotated/internal/configfx"
	"github.com/yurykabanov/logrotated/internal/domainfx"
	"github.com/yurykabanov/logrotated/internal/httpfx"
	"github.com/yurykabanov/logrotated/internal/loggerfx"
	"github.com/yurykabanov/logrotated/internal/metricsfx"
	"github.com/yurykabanov/logrotated/internal/sqlfx"
)

func main() {
	logger := loggerfx.Logger()

	var result *domainfx.OnceResult

	app := fx.New(
		fx.StartTimeout(15*time.Second),
		fx.StopTimeout(15*time.Second),

		fx.Logger(logger),

		loggerfx.Module,
		configfx.Module,
		sqlfx.Module,
		metricsfx.Module,
		httpfx.Module,
		domainfx.Module,

		fx.Populate(&result),
	)

	app.Run()

	if result != nil && result.Failed() {
		os.Exit(1)
	}
}
