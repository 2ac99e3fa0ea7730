package service

import (
	"testing"
	"time"

	"github.com/caseflow-systems/caseflow/internal/events"
	"github.com/caseflow-systems/caseflow/internal/logging"
	"github.com/caseflow-systems/caseflow/internal/store"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	subjects []string
	events   []events.CaseEvent
}

func (p *recordingPublisher) Publish(subject string, event events.CaseEvent) error {
	p.subjects = append(p.subjects, subject)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() {}

func newTestService(t *testing.T) (*Service, *store.MemoryStore, *recordingPublisher) {
	t.Helper()

	st := store.NewMemoryStore()
	pub := &recordingPublisher{}
	svc := New(st, t.TempDir(), logging.Default(), pub)

	// A strictly increasing clock keeps created_at ordering deterministic.
	tick := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	return svc, st, pub
}
