package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/yurykabanov/logrotated/pkg/appcontext"
)

type FileManager interface {
	Ensure(path string, content []byte, mode os.FileMode) (bool, error)
	Remove(path string) error
	ListManaged(dir string) ([]string, error)
}

type PackageManager interface {
	Ensure(context.Context, PackageResource) error
}

type JournalRepository interface {
	Create(context.Context, JournalEntry) (JournalEntry, error)
}

type Recorder interface {
	ObserveResource(resourceType string, status ResourceStatus)
	ObserveRun(report Report, duration time.Duration)
}

type Report struct {
	RunId string `json:"run_id"`

	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
	Failed    int `json:"failed"`
	Invalid   int `json:"invalid"`
}

func (r *Report) count(status ResourceStatus) {
	switch status {
	case StatusChanged:
		r.Changed++
	case StatusUnchanged:
		r.Unchanged++
	case StatusRemoved:
		r.Removed++
	case StatusFailed:
		r.Failed++
	case StatusInvalid:
		r.Invalid++
	}
}

type Applier struct {
	logger logrus.FieldLogger

	files    FileManager
	packages PackageManager
	journal  JournalRepository
	recorder Recorder

	// remove generated files of rules that are gone
	purge bool

	nextRunId func() string
}

func NewApplier(
	logger logrus.FieldLogger,
	files FileManager,
	packages PackageManager,
	journal JournalRepository,
	recorder Recorder,
	purge bool,
) *Applier {
	return &Applier{
		logger:    logger,
		files:     files,
		packages:  packages,
		journal:   journal,
		recorder:  recorder,
		purge:     purge,
		nextRunId: uuid.NewString,
	}
}

// Apply converges the host to the catalog. Every resource is handled even if
// some of them fail; failures are returned together.
func (a *Applier) Apply(ctx context.Context, c *Catalog) (Report, error) {
	startedAt := time.Now()

	report := Report{RunId: a.nextRunId()}
	ctx = appcontext.WithRunId(ctx, report.RunId)

	logger := appcontext.LoggerFromContext(a.logger, ctx)
	logger.WithFields(logrus.Fields{
		"files":    len(c.Files),
		"packages": len(c.Packages),
		"invalid":  len(c.Invalid),
	}).Info("Applying catalog")

	var errs error

	for _, p := range c.Packages {
		status := StatusUnchanged
		err := a.packages.Ensure(ctx, p)
		if err != nil {
			status = StatusFailed
			err = errors.Wrapf(err, "Unable to ensure %s", p.Ref())
			errs = multierr.Append(errs, err)
		}

		a.record(appcontext.WithResource(ctx, p.Ref()), &report, JournalEntry{
			ResourceType: "package",
			ResourceName: p.Name,
			Status:       status,
		}, err)
	}

	declared := make(map[string]struct{}, len(c.Files)+len(c.Invalid))

	for _, f := range c.Files {
		declared[f.Path] = struct{}{}

		status := StatusUnchanged
		changed, err := a.files.Ensure(f.Path, []byte(f.Content), f.Mode)
		switch {
		case err != nil:
			status = StatusFailed
			err = errors.Wrapf(err, "Unable to write %s", f.Ref())
			errs = multierr.Append(errs, err)
		case changed:
			status = StatusChanged
		}

		a.record(appcontext.WithResource(appcontext.WithRuleName(ctx, f.Rule), f.Ref()), &report, JournalEntry{
			ResourceType: "file",
			ResourceName: f.Rule,
			Path:         f.Path,
			Checksum:     checksum(f.Content),
			Status:       status,
		}, err)
	}

	for _, inv := range c.Invalid {
		var file string
		if inv.Name != "" {
			file = path.Join(c.Directory, inv.Name)
			declared[file] = struct{}{}
		}

		a.record(appcontext.WithRuleName(ctx, inv.Name), &report, JournalEntry{
			ResourceType: "file",
			ResourceName: inv.Name,
			Path:         file,
			Status:       StatusInvalid,
		}, inv.Err)
	}

	if a.purge {
		errs = multierr.Append(errs, a.purgeUndeclared(ctx, &report, c.Directory, declared))
	}

	a.recorder.ObserveRun(report, time.Since(startedAt))

	logger.WithFields(logrus.Fields{
		"changed":   report.Changed,
		"unchanged": report.Unchanged,
		"removed":   report.Removed,
		"failed":    report.Failed,
		"invalid":   report.Invalid,
	}).Info("Catalog applied")

	return report, errs
}

func (a *Applier) purgeUndeclared(ctx context.Context, report *Report, dir string, declared map[string]struct{}) error {
	managed, err := a.files.ListManaged(dir)
	if err != nil {
		appcontext.LoggerFromContext(a.logger, ctx).WithError(err).Error("Unable to list managed files")
		return errors.Wrapf(err, "Unable to list managed files in %s", dir)
	}

	var errs error

	for _, file := range managed {
		if _, ok := declared[file]; ok {
			continue
		}

		status := StatusRemoved
		err := a.files.Remove(file)
		if err != nil {
			status = StatusFailed
			err = errors.Wrapf(err, "Unable to remove file[%s]", file)
			errs = multierr.Append(errs, err)
		}

		a.record(appcontext.WithResource(ctx, "file["+file+"]"), report, JournalEntry{
			ResourceType: "file",
			ResourceName: path.Base(file),
			Path:         file,
			Status:       status,
		}, err)
	}

	return errs
}

func (a *Applier) record(ctx context.Context, report *Report, entry JournalEntry, err error) {
	logger := appcontext.LoggerFromContext(a.logger, ctx)

	entry.RunId = report.RunId
	entry.AppliedAt = time.Now()
	if err != nil {
		entry.Error = err.Error()
	}

	report.count(entry.Status)
	a.recorder.ObserveResource(entry.ResourceType, entry.Status)

	switch entry.Status {
	case StatusFailed, StatusInvalid:
		logger.WithError(err).Error("Resource is not applied")
	case StatusChanged, StatusRemoved:
		logger.WithField("status", entry.Status).Info("Resource applied")
	default:
		logger.Debug("Resource is up to date")
	}

	if _, jerr := a.journal.Create(ctx, entry); jerr != nil {
		logger.WithError(jerr).Error("Unable to write journal entry")
	}
}

func checksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
