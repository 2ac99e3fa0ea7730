// Package service implements the case-management operations on top of the
// storage adapter: users, cases, comments, file attachments, alerts, and
// the denormalized counter maintenance that keeps case child counts honest.
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/caseflow-systems/caseflow/internal/events"
	"github.com/caseflow-systems/caseflow/internal/logging"
	"github.com/caseflow-systems/caseflow/internal/store"
)

// Validation errors surfaced to clients as HTTP 400.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidStatus     = errors.New("invalid case status")
	ErrInvalidPriority   = errors.New("invalid case priority")
)

// Service wires the storage adapter, upload directory, event publisher and
// logger together. One instance serves all requests.
type Service struct {
	store     store.Store
	uploadDir string
	log       *logging.Logger
	events    events.Publisher

	now   func() time.Time
	newID func() string
}

// New creates a Service.
func New(st store.Store, uploadDir string, log *logging.Logger, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.NoopPublisher{}
	}
	return &Service{
		store:     st,
		uploadDir: uploadDir,
		log:       log,
		events:    pub,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Store exposes the underlying adapter for health checks.
func (s *Service) Store() store.Store {
	return s.store
}

func (s *Service) publish(subject string, event events.CaseEvent) {
	if err := s.events.Publish(subject, event); err != nil {
		s.log.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
