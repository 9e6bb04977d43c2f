package core

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Interface is a long running component with an explicit lifecycle
type Interface interface {
	Start(ctx context.Context) error
	Stop()
}

// HealthChecker is implemented by components that can report their health
type HealthChecker interface {
	Name() string
	Healthy() bool
}

// Registry starts services in registration order and stops them in reverse
type Registry struct {
	mu       sync.Mutex
	services []Interface
	checks   []HealthChecker
	started  int
	logger   *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		services: make([]Interface, 0),
		logger:   logger.Named("registry"),
	}
}

// Register adds a service. Services that implement HealthChecker are also
// added to the health report.
func (sr *Registry) Register(service Interface) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.services = append(sr.services, service)
	if checker, ok := service.(HealthChecker); ok {
		sr.checks = append(sr.checks, checker)
	}
}

// AddHealthCheck adds a component without a lifecycle to the health report
func (sr *Registry) AddHealthCheck(checker HealthChecker) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.checks = append(sr.checks, checker)
}

// StartAll starts every service. If one fails, the services already started
// are stopped again and the error is returned.
func (sr *Registry) StartAll(ctx context.Context) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	for i, service := range sr.services[sr.started:] {
		if err := service.Start(ctx); err != nil {
			sr.logger.Error("Service failed to start", zap.Int("index", sr.started+i), zap.Error(err))
			sr.stopLocked()
			return fmt.Errorf("start service %T: %w", service, err)
		}
		sr.started++
	}
	return nil
}

// StopAll stops the started services in reverse order
func (sr *Registry) StopAll() {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.stopLocked()
}

func (sr *Registry) stopLocked() {
	for i := sr.started - 1; i >= 0; i-- {
		sr.services[i].Stop()
	}
	sr.started = 0
}

// Health reports the health of every checker by name
func (sr *Registry) Health() map[string]bool {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	health := make(map[string]bool, len(sr.checks))
	for _, checker := range sr.checks {
		health[checker.Name()] = checker.Healthy()
	}
	return health
}
