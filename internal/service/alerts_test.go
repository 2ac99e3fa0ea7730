package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow-systems/caseflow/internal/models"
	"github.com/caseflow-systems/caseflow/internal/store"
)

func TestCreateAlert(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateAlert(ctx, models.AlertCreate{
		Title:     "CPU spike",
		Severity:  "high",
		MonitorID: "m1",
		TriggerID: "t1",
		Query:     json.RawMessage(`{"match":{"host":"web-1"}}`),
	})
	require.NoError(t, err)

	assert.Equal(t, models.AlertStatusActive, a.Status)
	assert.Empty(t, a.CaseID)
	assert.Nil(t, a.AcknowledgedAt)
}

func TestListAlertsFiltered(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAlert(ctx, models.AlertCreate{Title: "a", Severity: "low"})
	require.NoError(t, err)
	high, err := svc.CreateAlert(ctx, models.AlertCreate{Title: "b", Severity: "high"})
	require.NoError(t, err)

	alerts, err := svc.ListAlerts(ctx, "", "high")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, high.ID, alerts[0].ID)

	alerts, err = svc.ListAlerts(ctx, models.AlertStatusActive, "")
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

func TestAcknowledgeAndCompleteAlert(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateAlert(ctx, models.AlertCreate{Title: "x", Severity: "medium"})
	require.NoError(t, err)

	acked, err := svc.AcknowledgeAlert(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusAcknowledged, acked.Status)
	require.NotNil(t, acked.AcknowledgedAt)
	assert.Nil(t, acked.CompletedAt)

	completed, err := svc.CompleteAlert(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.NotNil(t, completed.AcknowledgedAt, "earlier stamp is preserved")

	_, err = svc.AcknowledgeAlert(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateCaseFromAlertDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	query := json.RawMessage(`{"match":{"severity":"critical"}}`)
	a, err := svc.CreateAlert(ctx, models.AlertCreate{
		Title:       "Disk full",
		Description: "root volume at 98%",
		Severity:    "critical",
		Query:       query,
	})
	require.NoError(t, err)

	c, err := svc.CreateCaseFromAlert(ctx, a.ID, models.CreateCaseFromAlert{
		CreatedBy:     "u1",
		CreatedByName: "Analyst",
	})
	require.NoError(t, err)

	assert.Equal(t, "Disk full", c.Title, "title defaults to the alert's")
	assert.Equal(t, "root volume at 98%", c.Description)
	assert.Equal(t, models.CasePriorityHigh, c.Priority, "critical severity promotes as high priority")
	assert.ElementsMatch(t, []string{"alert", "severity-critical"}, c.Tags)
	assert.Equal(t, a.ID, c.AlertID)
	assert.JSONEq(t, string(query), string(c.AlertQuery))
	assert.Equal(t, 1, c.CommentsCount)

	comments, err := svc.ListComments(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Case created from alert: Disk full", comments[0].Content)

	// The alert now links back to the case.
	linked, err := svc.GetAlert(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, linked.CaseID)
}

func TestCreateCaseFromAlertOverrides(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateAlert(ctx, models.AlertCreate{Title: "Alert title", Severity: "low"})
	require.NoError(t, err)

	c, err := svc.CreateCaseFromAlert(ctx, a.ID, models.CreateCaseFromAlert{
		Title:    "Custom title",
		Priority: models.CasePriorityCritical,
		Tags:     []string{"custom"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Custom title", c.Title)
	assert.Equal(t, models.CasePriorityCritical, c.Priority)
	assert.ElementsMatch(t, []string{"custom", "alert", "severity-low"}, c.Tags)
}

func TestCreateCaseFromAlertMissing(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateCaseFromAlert(context.Background(), "missing", models.CreateCaseFromAlert{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
