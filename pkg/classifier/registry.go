package classifier

import (
	"fmt"
	"sort"
	"sync"

	"github.com/modsentry/modsentry/pkg/domain"
	"github.com/sirupsen/logrus"
)

// Registry holds every classifier the engine can dispatch to. Sessions select
// a subset by name at start time.
type Registry struct {
	mu          sync.RWMutex
	classifiers map[string]Classifier
	logger      *logrus.Logger
}

func NewRegistry(logger *logrus.Logger) *Registry {
	return &Registry{
		classifiers: make(map[string]Classifier),
		logger:      logger,
	}
}

func (r *Registry) Register(c Classifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := c.Name()
	if _, exists := r.classifiers[name]; exists {
		return fmt.Errorf("classifier %s already registered", name)
	}
	r.classifiers[name] = c
	r.logger.WithField("classifier", name).Info("classifier registered")
	return nil
}

func (r *Registry) Get(name string) (Classifier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classifiers[name]
	return c, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.classifiers))
	for name := range r.classifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps a session's requested model names to classifiers. An unknown
// name is a configuration error, not a runtime failure.
func (r *Registry) Resolve(names []string) ([]Classifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	resolved := make([]Classifier, 0, len(names))
	for _, name := range names {
		c, ok := r.classifiers[name]
		if !ok {
			return nil, domain.NewInvalidConfigurationError(fmt.Sprintf("unknown classifier %q", name))
		}
		resolved = append(resolved, c)
	}
	return resolved, nil
}
