package catalog

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/logrotated/pkg/appcontext"
)

// RuleSource provides current rule declarations. It's queried on every run so
// edits are picked up without restart.
type RuleSource interface {
	Load() ([]NamedParams, error)
}

type builder interface {
	Build(context.Context, []NamedParams) (*Catalog, error)
}

type applier interface {
	Apply(context.Context, *Catalog) (Report, error)
}

type cron interface {
	AddFunc(spec string, cmd func()) error
	Start()
	Stop()
}

// Manager periodically converges the host to the declared rules. Runs never
// overlap: a run requested while another is in progress is queued once.
type Manager struct {
	logger logrus.FieldLogger

	source  RuleSource
	builder builder
	applier applier

	cron     cron
	schedule string

	pending chan struct{}
}

func NewManager(
	logger logrus.FieldLogger,
	source RuleSource,
	builder builder,
	applier applier,
	cron cron,
	schedule string,
) *Manager {
	return &Manager{
		logger:   logger,
		source:   source,
		builder:  builder,
		applier:  applier,
		cron:     cron,
		schedule: schedule,
		pending:  make(chan struct{}, 1),
	}
}

// Converge loads rules, builds a catalog and applies it once.
func (m *Manager) Converge(ctx context.Context) (Report, error) {
	rules, err := m.source.Load()
	if err != nil {
		return Report{}, errors.Wrap(err, "Unable to load rules")
	}

	// invalid rules are already in the catalog, the applier journals them
	c, buildErr := m.builder.Build(ctx, rules)

	report, err := m.applier.Apply(ctx, c)
	if err != nil {
		return report, err
	}

	return report, buildErr
}

// Run converges immediately and then on every tick of the schedule until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	if m.schedule != "" {
		err := m.cron.AddFunc(m.schedule, m.dispatch)
		if err != nil {
			return errors.Wrapf(err, "Invalid cron spec: '%s'", m.schedule)
		}

		m.logger.WithField("spec", m.schedule).Debug("Starting cron")
		m.cron.Start()
		defer m.cron.Stop()
	}

	m.dispatch()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-m.pending:
			m.converge(ctx)
		}
	}
}

func (m *Manager) dispatch() {
	select {
	case m.pending <- struct{}{}:
		m.logger.Debug("Dispatched converge run")
	default:
		m.logger.Warn("Converge run is already pending")
	}
}

func (m *Manager) converge(ctx context.Context) {
	report, err := m.Converge(ctx)

	logger := appcontext.LoggerFromContext(m.logger, appcontext.WithRunId(ctx, report.RunId))
	if err != nil {
		logger.WithError(err).Error("Converge run finished with errors")
		return
	}

	logger.Info("Converge run finished")
}
