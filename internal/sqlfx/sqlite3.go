package sqlfx

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"github.com/yurykabanov/logrotated/pkg/util"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	ConfigDatabaseDSN        = "db.dsn"
	ConfigDatabaseMigrations = "db.migrations"
)

type SqliteConfig struct {
	DSN            string
	DatabaseName   string
	MigrationsPath string
}

func SqliteConfigProvider(v *viper.Viper) (*SqliteConfig, error) {
	config := &SqliteConfig{
		DSN:            v.GetString(ConfigDatabaseDSN),
		DatabaseName:   "logrotated",
		MigrationsPath: v.GetString(ConfigDatabaseMigrations),
	}

	if config.DSN == "" {
		return nil, errors.New("Database DSN is not configured")
	}

	return config, nil
}

func OpenSqliteDatabase(config *SqliteConfig, logger *logrus.Logger) (*sqlx.DB, error) {
	logger.WithField("dsn", config.DSN).Debug("Connecting to DB with DSN")

	if file := databaseFile(config.DSN); file != "" {
		err := os.MkdirAll(filepath.Dir(file), 0755)
		if err != nil {
			return nil, errors.Wrap(err, "Unable to create DB directory")
		}
	}

	db, err := sqlx.Open("sqlite3", config.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to connect to DB")
	}

	db.MapperFunc(util.CamelToSnakeCase)

	driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create instance of migrate")
	}

	m, err := migrate.NewWithDatabaseInstance(config.MigrationsPath, config.DatabaseName, driver)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to load migrations")
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return nil, errors.Wrap(err, "Unable to migrate DB")
	}

	return db, nil
}

// databaseFile extracts file path from DSN like `./db/logrotated.db?_busy_timeout=5000`.
func databaseFile(dsn string) string {
	file := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(file, '?'); i >= 0 {
		file = file[:i]
	}

	if file == "" || file == ":memory:" {
		return ""
	}

	return file
}

func CloseSqliteDatabase(lc fx.Lifecycle, db *sqlx.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})
}
