package catalog

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/yurykabanov/logrotated/pkg/appcontext"
	"github.com/yurykabanov/logrotated/pkg/logrotate"
)

const DefaultFileMode os.FileMode = 0644

// NamedParams is a rule declaration: its name plus parameters.
type NamedParams struct {
	Name string `mapstructure:"name" yaml:"name"`

	logrotate.Params `mapstructure:",squash" yaml:",inline"`
}

type Builder struct {
	logger logrus.FieldLogger

	directory string
	mode      os.FileMode
}

func NewBuilder(logger logrus.FieldLogger, directory string, mode os.FileMode) *Builder {
	if directory == "" {
		directory = logrotate.DefaultDirectory
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	return &Builder{
		logger:    logger,
		directory: directory,
		mode:      mode,
	}
}

func (b *Builder) Directory() string {
	return b.directory
}

// Build translates every rule on its own. Invalid rules don't produce files
// and are reported through the returned error, but the catalog still holds
// every valid rule and the system package.
func (b *Builder) Build(ctx context.Context, rules []NamedParams) (*Catalog, error) {
	c := &Catalog{
		Directory: b.directory,
		Packages:  []PackageResource{System()},
	}

	var errs error
	seen := make(map[string]struct{}, len(rules))

	for _, r := range rules {
		logger := appcontext.LoggerFromContext(b.logger, appcontext.WithRuleName(ctx, r.Name))

		if _, ok := seen[r.Name]; ok {
			err := errors.Errorf("Duplicate rule `%s`", r.Name)
			logger.WithError(err).Error("Skipping rule")
			c.Invalid = append(c.Invalid, InvalidRule{Name: r.Name, Err: err})
			errs = multierr.Append(errs, err)
			continue
		}
		seen[r.Name] = struct{}{}

		rule, err := logrotate.Normalize(r.Name, r.Params)
		if err != nil {
			logger.WithError(err).Error("Invalid rule")
			c.Invalid = append(c.Invalid, InvalidRule{Name: r.Name, Err: err})
			errs = multierr.Append(errs, err)
			continue
		}

		c.Files = append(c.Files, FileResource{
			Rule:    rule.Name,
			Path:    rule.Path(b.directory),
			Content: logrotate.Render(rule),
			Mode:    b.mode,
		})

		logger.Debug("Rule rendered")
	}

	return c, errs
}
