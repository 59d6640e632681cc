package collector

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeProbe struct {
	elapsed atomic.Int64 // nanos
	tripped atomic.Int32
}

func (p *fakeProbe) ElapsedSinceLastActivity() time.Duration {
	return time.Duration(p.elapsed.Load())
}

func (p *fakeProbe) TriggerIdleTimeout(elapsed, idleLimit time.Duration) {
	p.tripped.Add(1)
}

func TestIdleTimeoutScheduler_TripsOnceIdleExceeded(t *testing.T) {
	s := NewIdleTimeoutScheduler(20 * time.Millisecond)
	defer s.Close()

	probe := &fakeProbe{}
	probe.elapsed.Store(int64(time.Second)) // already over any reasonable idle budget

	task := s.Schedule(probe, 10*time.Millisecond)
	defer task.Cancel()

	assert.Eventually(t, func() bool {
		return probe.tripped.Load() > 0
	}, time.Second, 5*time.Millisecond)
}

func TestIdleTimeoutScheduler_CancelStopsFurtherChecks(t *testing.T) {
	s := NewIdleTimeoutScheduler(5 * time.Millisecond)
	defer s.Close()

	probe := &fakeProbe{}
	task := s.Schedule(probe, 10*time.Millisecond)
	task.Cancel()

	probe.elapsed.Store(int64(time.Hour))
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), probe.tripped.Load())
}

func TestIdleTimeoutScheduler_CloseIsIdempotent(t *testing.T) {
	s := NewIdleTimeoutScheduler(5 * time.Millisecond)
	s.Close()
	assert.NotPanics(t, func() { s.Close() })
}
