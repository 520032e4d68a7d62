package domainfx

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(RuleSourceProvider),
	fx.Provide(CatalogConfigProvider),
	fx.Provide(NewCron),
	fx.Provide(Builder),
	fx.Provide(FileManager),
	fx.Provide(PackageRegistry),
	fx.Provide(Applier),
	fx.Provide(Manager),
	fx.Provide(NewOnceResult),
	fx.Invoke(RunManager),
)
