package configfx

import (
	"os"

	"github.com/spf13/pflag"
)

func PFlags() (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)

	// Config file flag
	fs.StringP("config", "c", "", "Config file")

	// Converge once and exit instead of running on schedule
	fs.Bool(ConfigOnce, false, "Apply rules once and exit")

	return fs, fs.Parse(os.Args[1:])
}
