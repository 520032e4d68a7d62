package packages

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/logrotated/pkg/appcontext"
	"github.com/yurykabanov/logrotated/pkg/catalog"
)

// Registry keeps package requests declared by the catalog. Installing them is
// up to the host's package manager.
type Registry struct {
	logger logrus.FieldLogger

	mu       sync.RWMutex
	declared map[string]catalog.Ensure
}

func NewRegistry(logger logrus.FieldLogger) *Registry {
	return &Registry{
		logger:   logger,
		declared: make(map[string]catalog.Ensure),
	}
}

func (r *Registry) Ensure(ctx context.Context, p catalog.PackageResource) error {
	r.mu.Lock()
	prev, ok := r.declared[p.Name]
	r.declared[p.Name] = p.Ensure
	r.mu.Unlock()

	if !ok || prev != p.Ensure {
		appcontext.LoggerFromContext(r.logger, ctx).
			WithFields(logrus.Fields{"package": p.Name, "ensure": p.Ensure}).
			Info("Package declared")
	}

	return nil
}

// Declared returns declared requests sorted by package name.
func (r *Registry) Declared() []catalog.PackageResource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]catalog.PackageResource, 0, len(r.declared))
	for name, ensure := range r.declared {
		result = append(result, catalog.PackageResource{Name: name, Ensure: ensure})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result
}
