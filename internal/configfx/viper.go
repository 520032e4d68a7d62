package configfx

import (
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix              = "logrotated"
	DefaultConfigDirectory = "logrotated"
	DefaultConfigFile      = "logrotated"
)

const (
	ConfigOnce = "once"
)

var (
	defaultConfigPaths = []string{
		".",
		"./config",
		path.Join("/etc", DefaultConfigDirectory),
	}

	defaults = map[string]interface{}{
		"log.level":            "info",
		"log.format":           "json",
		"output.directory":     "/etc/logrotate.d",
		"output.mode":          "0644",
		"apply.schedule":       "@every 30m",
		"apply.purge":          false,
		"server.address":       "127.0.0.1:9118",
		"server.timeout.read":  "10s",
		"server.timeout.write": "30s",
		"db.dsn":               "./db/logrotated.db",
		"db.migrations":        "file://migrations/",
	}
)

func ViperProvider(logger *logrus.Logger, flagSet *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(flagSet)
	if err != nil {
		return nil, err
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(DefaultConfigFile)

	// Read config from config file
	if configFile := v.GetString("config"); configFile != "" {
		// If user do specify config file, then this file MUST exist and be valid
		// so missing file is a fatal error

		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		// If user does not specify config file, then we'll still try to find appropriate config,
		// but missing file is not an error

		for _, dir := range defaultConfigPaths {
			v.AddConfigPath(dir)
		}

		if err := v.ReadInConfig(); err != nil {
			logger.WithError(err).Warn("Couldn't read config file")
		}
	}

	return v, nil
}

// RunMode tells whether the agent converges once or keeps running.
type RunMode struct {
	Once bool
}

func RunModeProvider(v *viper.Viper) *RunMode {
	return &RunMode{
		Once: v.GetBool(ConfigOnce),
	}
}
