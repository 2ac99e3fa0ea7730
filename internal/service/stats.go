package service

import (
	"context"

	"github.com/caseflow-systems/caseflow/internal/models"
	"github.com/caseflow-systems/caseflow/internal/store"
)

// Stats summarizes case counts by status and priority, and alert counts by
// severity and status.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	totalCases, err := s.store.Count(ctx, store.CollectionCases, store.Filter{})
	if err != nil {
		return nil, err
	}

	byStatus := map[string]int{}
	for _, status := range []string{models.CaseStatusOpen, models.CaseStatusInProgress, models.CaseStatusClosed} {
		n, err := s.store.Count(ctx, store.CollectionCases, store.Filter{
			Terms: map[string]string{"status": status},
		})
		if err != nil {
			return nil, err
		}
		byStatus[status] = n
	}

	priorities := map[string]int{}
	for _, priority := range []string{
		models.CasePriorityLow,
		models.CasePriorityMedium,
		models.CasePriorityHigh,
		models.CasePriorityCritical,
	} {
		n, err := s.store.Count(ctx, store.CollectionCases, store.Filter{
			Terms: map[string]string{"priority": priority},
		})
		if err != nil {
			return nil, err
		}
		priorities[priority] = n
	}

	totalAlerts, err := s.store.Count(ctx, store.CollectionAlerts, store.Filter{})
	if err != nil {
		return nil, err
	}

	alertSeverities := map[string]int{}
	for _, severity := range []string{"low", "medium", "high", "critical"} {
		n, err := s.store.Count(ctx, store.CollectionAlerts, store.Filter{
			Terms: map[string]string{"severity": severity},
		})
		if err != nil {
			return nil, err
		}
		alertSeverities[severity] = n
	}

	alertStatuses := map[string]int{}
	for _, status := range []string{
		models.AlertStatusActive,
		models.AlertStatusAcknowledged,
		models.AlertStatusCompleted,
	} {
		n, err := s.store.Count(ctx, store.CollectionAlerts, store.Filter{
			Terms: map[string]string{"status": status},
		})
		if err != nil {
			return nil, err
		}
		alertStatuses[status] = n
	}

	return &models.Stats{
		TotalCases:         totalCases,
		OpenCases:          byStatus[models.CaseStatusOpen],
		InProgressCases:    byStatus[models.CaseStatusInProgress],
		ClosedCases:        byStatus[models.CaseStatusClosed],
		PriorityStats:      priorities,
		TotalAlerts:        totalAlerts,
		AlertSeverityStats: alertSeverities,
		AlertStatusStats:   alertStatuses,
	}, nil
}
