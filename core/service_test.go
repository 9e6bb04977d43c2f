package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StopRecorder records the order of service starts and stops
type StopRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *StopRecorder) Record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *StopRecorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type recordingService struct {
	id       string
	startErr error
	healthy  bool
	recorder *StopRecorder
}

func (s *recordingService) Start(ctx context.Context) error {
	s.recorder.Record("start:" + s.id)
	return s.startErr
}

func (s *recordingService) Stop() {
	s.recorder.Record("stop:" + s.id)
}

type healthyService struct {
	recordingService
}

func (s *healthyService) Name() string  { return s.id }
func (s *healthyService) Healthy() bool { return s.healthy }

func TestRegistry_StartAndStopOrder(t *testing.T) {
	recorder := &StopRecorder{}
	registry := NewRegistry(nil)
	for _, id := range []string{"cache", "binance", "server"} {
		registry.Register(&recordingService{id: id, recorder: recorder})
	}

	require.NoError(t, registry.StartAll(context.Background()))
	registry.StopAll()

	assert.Equal(t, []string{
		"start:cache", "start:binance", "start:server",
		"stop:server", "stop:binance", "stop:cache",
	}, recorder.Events())
}

func TestRegistry_StartFailureStopsStartedServices(t *testing.T) {
	recorder := &StopRecorder{}
	startErr := errors.New("port in use")

	registry := NewRegistry(nil)
	registry.Register(&recordingService{id: "cache", recorder: recorder})
	registry.Register(&recordingService{id: "binance", recorder: recorder})
	registry.Register(&recordingService{id: "server", startErr: startErr, recorder: recorder})

	err := registry.StartAll(context.Background())
	require.ErrorIs(t, err, startErr)

	assert.Equal(t, []string{
		"start:cache", "start:binance", "start:server",
		"stop:binance", "stop:cache",
	}, recorder.Events())

	// Nothing is left to stop
	registry.StopAll()
	assert.Len(t, recorder.Events(), 5)
}

func TestRegistry_StopWithoutStart(t *testing.T) {
	recorder := &StopRecorder{}
	registry := NewRegistry(nil)
	registry.Register(&recordingService{id: "cache", recorder: recorder})

	registry.StopAll()
	assert.Empty(t, recorder.Events())
}

func TestRegistry_Health(t *testing.T) {
	recorder := &StopRecorder{}
	registry := NewRegistry(nil)
	registry.Register(&recordingService{id: "cache", recorder: recorder})
	registry.Register(&healthyService{recordingService{id: "binance", healthy: false, recorder: recorder}})
	registry.AddHealthCheck(&healthyService{recordingService{id: "coingecko", healthy: true, recorder: recorder}})

	assert.Equal(t, map[string]bool{"binance": false, "coingecko": true}, registry.Health())
}
