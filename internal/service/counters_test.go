package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow-systems/caseflow/internal/models"
	"github.com/caseflow-systems/caseflow/internal/store"
)

// faultStore wraps the memory store and lets tests inject failures on
// selected operations.
type faultStore struct {
	*store.MemoryStore
	countErr error
}

func (f *faultStore) Count(ctx context.Context, collection string, filter store.Filter) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.MemoryStore.Count(ctx, collection, filter)
}

func TestRefreshCaseCounters(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateComment(ctx, c.ID, models.CommentCreate{Content: "n", Author: "u1"})
		require.NoError(t, err)
	}

	got, err := svc.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.CommentsCount, "system comment plus three user comments")
	assert.Equal(t, 0, got.AttachmentsCount)
}

func TestCounterRefreshFailureIsSwallowed(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	fs := &faultStore{MemoryStore: st, countErr: assert.AnError}
	svc.store = fs

	// The comment write must still succeed even though the refresh fails.
	comment, err := svc.CreateComment(ctx, c.ID, models.CommentCreate{Content: "n", Author: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, comment.ID)

	fs.countErr = nil
	got, err := svc.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentsCount, "counter is stale until the next successful refresh")
}
