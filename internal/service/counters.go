package service

import (
	"context"

	"github.com/caseflow-systems/caseflow/internal/metrics"
	"github.com/caseflow-systems/caseflow/internal/store"
)

// RefreshCaseCounters recomputes comments_count and attachments_count for a
// case from the live child records and persists them along with a refreshed
// updated_at. A failure here is logged and swallowed: the triggering
// operation (comment or file creation/deletion, status change) must still
// succeed even if the counter refresh errors.
//
// Concurrent refreshes for the same case can race; last write wins. That is
// an accepted consistency weakness, not a guarantee.
func (s *Service) RefreshCaseCounters(ctx context.Context, caseID string) {
	childFilter := store.Filter{Terms: map[string]string{"case_id": caseID}}

	commentsCount, err := s.store.Count(ctx, store.CollectionComments, childFilter)
	if err != nil {
		s.counterRefreshFailed(ctx, caseID, err)
		return
	}

	attachmentsCount, err := s.store.Count(ctx, store.CollectionFiles, childFilter)
	if err != nil {
		s.counterRefreshFailed(ctx, caseID, err)
		return
	}

	partial := map[string]any{
		"comments_count":    commentsCount,
		"attachments_count": attachmentsCount,
		"updated_at":        s.now(),
	}
	if err := s.store.Update(ctx, store.CollectionCases, caseID, partial); err != nil {
		s.counterRefreshFailed(ctx, caseID, err)
	}
}

func (s *Service) counterRefreshFailed(ctx context.Context, caseID string, err error) {
	metrics.CounterRefreshFailures.Inc()
	s.log.WarnContext(ctx, "case counter refresh failed", "case_id", caseID, "error", err)
}
