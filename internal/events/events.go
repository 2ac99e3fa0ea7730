// Package events publishes case lifecycle notifications. Publishing is
// best-effort: failures are logged by the caller and never fail the
// triggering operation.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects for case lifecycle events.
const (
	SubjectCaseCreated       = "cases.created"
	SubjectCaseStatusChanged = "cases.status_changed"
	SubjectCaseDeleted       = "cases.deleted"
)

// CaseEvent is the payload published on case lifecycle subjects.
type CaseEvent struct {
	CaseID    string    `json:"case_id"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher emits case lifecycle events.
type Publisher interface {
	Publish(subject string, event CaseEvent) error
	Close()
}

// NATSPublisher publishes events over a NATS connection.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("caseflow"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(subject string, event CaseEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// NoopPublisher discards all events. Used when NATS is disabled.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(string, CaseEvent) error { return nil }

// Close implements Publisher.
func (NoopPublisher) Close() {}
