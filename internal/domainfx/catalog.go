package domainfx

import (
	"context"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/yurykabanov/logrotated/internal/configfx"
	"github.com/yurykabanov/logrotated/pkg/catalog"
	"github.com/yurykabanov/logrotated/pkg/filemanager"
	"github.com/yurykabanov/logrotated/pkg/http/handler"
	"github.com/yurykabanov/logrotated/pkg/logrotate"
	"github.com/yurykabanov/logrotated/pkg/packages"
)

const (
	ConfigOutputDirectory = "output.directory"
	ConfigOutputMode      = "output.mode"
	ConfigApplySchedule   = "apply.schedule"
	ConfigApplyPurge      = "apply.purge"
)

type CatalogConfig struct {
	Directory string
	Mode      os.FileMode
	Schedule  string
	Purge     bool
}

func CatalogConfigProvider(v *viper.Viper) (*CatalogConfig, error) {
	mode, err := strconv.ParseUint(v.GetString(ConfigOutputMode), 8, 32)
	if err != nil {
		return nil, errors.Wrapf(err, "Invalid file mode '%s'", v.GetString(ConfigOutputMode))
	}

	return &CatalogConfig{
		Directory: v.GetString(ConfigOutputDirectory),
		Mode:      os.FileMode(mode),
		Schedule:  v.GetString(ConfigApplySchedule),
		Purge:     v.GetBool(ConfigApplyPurge),
	}, nil
}

func NewCron() *cron.Cron {
	return cron.New()
}

func Builder(logger logrus.FieldLogger, config *CatalogConfig) (*catalog.Builder, handler.CatalogBuilder) {
	b := catalog.NewBuilder(logger, config.Directory, config.Mode)

	return b, b
}

func FileManager() catalog.FileManager {
	return filemanager.New(logrotate.IsGenerated)
}

func PackageRegistry(logger logrus.FieldLogger) (*packages.Registry, catalog.PackageManager, handler.PackageRegistry) {
	r := packages.NewRegistry(logger)

	return r, r, r
}

func Applier(
	logger logrus.FieldLogger,
	config *CatalogConfig,
	files catalog.FileManager,
	packageManager catalog.PackageManager,
	journal catalog.JournalRepository,
	recorder catalog.Recorder,
) *catalog.Applier {
	return catalog.NewApplier(logger, files, packageManager, journal, recorder, config.Purge)
}

func Manager(
	logger logrus.FieldLogger,
	config *CatalogConfig,
	source catalog.RuleSource,
	builder *catalog.Builder,
	applier *catalog.Applier,
	cron *cron.Cron,
) *catalog.Manager {
	return catalog.NewManager(logger, source, builder, applier, cron, config.Schedule)
}

// OnceResult holds the outcome of a single converge run in `--once` mode.
type OnceResult struct {
	Report catalog.Report
	Err    error
}

func (r *OnceResult) Failed() bool {
	return r.Err != nil
}

func NewOnceResult() *OnceResult {
	return &OnceResult{}
}

func RunManager(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	logger logrus.FieldLogger,
	mode *configfx.RunMode,
	manager *catalog.Manager,
	result *OnceResult,
) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if mode.Once {
				go func() {
					result.Report, result.Err = manager.Converge(ctx)
					if result.Err != nil {
						logger.WithError(result.Err).Error("Converge run finished with errors")
					}

					if err := shutdowner.Shutdown(); err != nil {
						logger.WithError(err).Error("Unable to shutdown")
					}
				}()
				return nil
			}

			go func() {
				if err := manager.Run(ctx); err != nil {
					logger.WithError(err).Fatal("Unable to run converge manager")
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
