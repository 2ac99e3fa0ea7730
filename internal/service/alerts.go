package service

import (
	"context"
	"fmt"

	"github.com/caseflow-systems/caseflow/internal/events"
	"github.com/caseflow-systems/caseflow/internal/models"
	"github.com/caseflow-systems/caseflow/internal/store"
)

// CreateAlert records a new active alert.
func (s *Service) CreateAlert(ctx context.Context, req models.AlertCreate) (*models.Alert, error) {
	alert := &models.Alert{
		ID:              s.newID(),
		Title:           req.Title,
		Description:     req.Description,
		Severity:        req.Severity,
		Status:          models.AlertStatusActive,
		MonitorID:       req.MonitorID,
		TriggerID:       req.TriggerID,
		Query:           req.Query,
		VisualizationID: req.VisualizationID,
		CreatedAt:       s.now(),
	}

	doc, err := store.Encode(alert)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, store.CollectionAlerts, alert.ID, doc); err != nil {
		return nil, err
	}
	return alert, nil
}

// ListAlerts returns alerts filtered by status and severity, newest first.
func (s *Service) ListAlerts(ctx context.Context, status, severity string) ([]models.Alert, error) {
	terms := map[string]string{}
	if status != "" {
		terms["status"] = status
	}
	if severity != "" {
		terms["severity"] = severity
	}

	docs, err := s.store.Query(ctx, store.CollectionAlerts, store.Options{
		Filter:    store.Filter{Terms: terms},
		SortField: "created_at",
		SortDesc:  true,
		Limit:     1000,
	})
	if err != nil {
		return nil, err
	}

	alerts := make([]models.Alert, 0, len(docs))
	for _, doc := range docs {
		var a models.Alert
		if err := store.Decode(doc, &a); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

// GetAlert returns the alert with the given id, or store.ErrNotFound.
func (s *Service) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	doc, err := s.store.Get(ctx, store.CollectionAlerts, id)
	if err != nil {
		return nil, err
	}
	var a models.Alert
	if err := store.Decode(doc, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// AcknowledgeAlert marks an alert acknowledged.
func (s *Service) AcknowledgeAlert(ctx context.Context, id string) (*models.Alert, error) {
	return s.setAlertStatus(ctx, id, models.AlertStatusAcknowledged, "acknowledged_at")
}

// CompleteAlert marks an alert completed.
func (s *Service) CompleteAlert(ctx context.Context, id string) (*models.Alert, error) {
	return s.setAlertStatus(ctx, id, models.AlertStatusCompleted, "completed_at")
}

func (s *Service) setAlertStatus(ctx context.Context, id, status, stampField string) (*models.Alert, error) {
	if _, err := s.store.Get(ctx, store.CollectionAlerts, id); err != nil {
		return nil, err
	}

	partial := map[string]any{
		"status":   status,
		stampField: s.now(),
	}
	if err := s.store.Update(ctx, store.CollectionAlerts, id, partial); err != nil {
		return nil, err
	}
	return s.GetAlert(ctx, id)
}

// CreateCaseFromAlert promotes an alert into a case. Title and description
// default to the alert's when omitted; the case is tagged with "alert" and
// "severity-<severity>", inherits the alert's query verbatim, and records
// the alert id. The case id is then written back onto the alert. The two
// writes are not atomic; a failure between them leaves the case without a
// backlink, an accepted inconsistency.
func (s *Service) CreateCaseFromAlert(ctx context.Context, alertID string, req models.CreateCaseFromAlert) (*models.Case, error) {
	alert, err := s.GetAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = alert.Title
	}
	description := req.Description
	if description == "" {
		description = alert.Description
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityForSeverity(alert.Severity)
	}
	if !models.ValidCasePriority(priority) {
		return nil, ErrInvalidPriority
	}

	tags := append([]string{}, req.Tags...)
	tags = append(tags, "alert", "severity-"+alert.Severity)

	now := s.now()
	c := &models.Case{
		ID:            s.newID(),
		Title:         title,
		Description:   description,
		Status:        models.CaseStatusOpen,
		Priority:      priority,
		Tags:          tags,
		AssignedTo:    req.AssignedTo,
		CreatedBy:     req.CreatedBy,
		CreatedByName: req.CreatedByName,
		CreatedAt:     now,
		UpdatedAt:     now,
		AlertID:       alert.ID,
		AlertQuery:    alert.Query,
	}

	doc, err := store.Encode(c)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, store.CollectionCases, c.ID, doc); err != nil {
		return nil, err
	}

	if err := s.createSystemComment(ctx, c.ID, fmt.Sprintf("Case created from alert: %s", alert.Title)); err != nil {
		s.log.WarnContext(ctx, "failed to create system comment", "case_id", c.ID, "error", err)
	}
	s.RefreshCaseCounters(ctx, c.ID)

	if err := s.store.Update(ctx, store.CollectionAlerts, alertID, map[string]any{"case_id": c.ID}); err != nil {
		s.log.WarnContext(ctx, "failed to link alert to case", "alert_id", alertID, "case_id", c.ID, "error", err)
	}

	s.publish(events.SubjectCaseCreated, events.CaseEvent{CaseID: c.ID, Status: c.Status, Timestamp: now})

	return s.GetCase(ctx, c.ID)
}
