package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow-systems/caseflow/internal/events"
	"github.com/caseflow-systems/caseflow/internal/models"
	"github.com/caseflow-systems/caseflow/internal/store"
)

func TestCreateCaseDefaults(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{
		Title:         "Suspicious login",
		Description:   "Multiple failed attempts",
		CreatedBy:     "u1",
		CreatedByName: "Analyst One",
	})
	require.NoError(t, err)

	assert.Equal(t, models.CaseStatusOpen, c.Status)
	assert.Equal(t, models.CasePriorityMedium, c.Priority, "priority defaults to medium")
	assert.NotNil(t, c.Tags)
	assert.Empty(t, c.Tags)
	assert.Nil(t, c.ClosedAt)

	// The auto-generated system comment is already counted.
	assert.Equal(t, 1, c.CommentsCount)
	assert.Equal(t, 0, c.AttachmentsCount)

	comments, err := svc.ListComments(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, models.CommentTypeSystem, comments[0].Type)
	assert.Equal(t, "system", comments[0].Author)
	assert.Equal(t, "Case created by Analyst One", comments[0].Content)

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, events.SubjectCaseCreated, pub.subjects[0])
	assert.Equal(t, c.ID, pub.events[0].CaseID)
}

func TestCreateCaseInvalidPriority(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateCase(context.Background(), models.CaseCreate{
		Title:    "x",
		Priority: "urgent",
	})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestListCasesFilters(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	high, err := svc.CreateCase(ctx, models.CaseCreate{Title: "high one", Priority: models.CasePriorityHigh})
	require.NoError(t, err)
	_, err = svc.CreateCase(ctx, models.CaseCreate{Title: "low one", Priority: models.CasePriorityLow})
	require.NoError(t, err)

	cases, err := svc.ListCases(ctx, models.CaseFilter{Priority: models.CasePriorityHigh})
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, high.ID, cases[0].ID)

	// Newest first.
	cases, err = svc.ListCases(ctx, models.CaseFilter{})
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "low one", cases[0].Title)

	// Free-text search over titles.
	cases, err = svc.ListCases(ctx, models.CaseFilter{Search: "HIGH"})
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, high.ID, cases[0].ID)
}

func TestListCasesLimitClamped(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateCase(ctx, models.CaseCreate{Title: "case"})
		require.NoError(t, err)
	}

	cases, err := svc.ListCases(ctx, models.CaseFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, cases, 2)

	cases, err = svc.ListCases(ctx, models.CaseFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, cases, 1)
}

func TestUpdateCasePartial(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "before", Priority: models.CasePriorityHigh})
	require.NoError(t, err)

	title := "after"
	updated, err := svc.UpdateCase(ctx, c.ID, models.CaseUpdate{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, models.CasePriorityHigh, updated.Priority, "unset fields stay untouched")
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt))
	assert.Equal(t, 1, updated.CommentsCount, "no status change, no extra system comment")
}

func TestUpdateCaseStatusClose(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	closed := models.CaseStatusClosed
	updated, err := svc.UpdateCase(ctx, c.ID, models.CaseUpdate{Status: &closed})
	require.NoError(t, err)

	assert.Equal(t, models.CaseStatusClosed, updated.Status)
	require.NotNil(t, updated.ClosedAt)
	assert.Equal(t, 2, updated.CommentsCount, "status change appends a system comment")

	comments, err := svc.ListComments(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Case status changed to closed", comments[len(comments)-1].Content)

	assert.Contains(t, pub.subjects, events.SubjectCaseStatusChanged)
}

func TestUpdateCaseReopenClearsClosedAt(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	closed := models.CaseStatusClosed
	_, err = svc.UpdateCase(ctx, c.ID, models.CaseUpdate{Status: &closed})
	require.NoError(t, err)

	open := models.CaseStatusOpen
	reopened, err := svc.UpdateCase(ctx, c.ID, models.CaseUpdate{Status: &open})
	require.NoError(t, err)

	assert.Equal(t, models.CaseStatusOpen, reopened.Status)
	assert.Nil(t, reopened.ClosedAt, "reopening clears the close timestamp")
}

func TestUpdateCaseSameStatusNoComment(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	open := models.CaseStatusOpen
	updated, err := svc.UpdateCase(ctx, c.ID, models.CaseUpdate{Status: &open})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CommentsCount)
}

func TestUpdateCaseInvalidValues(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	bad := "resolved"
	_, err = svc.UpdateCase(ctx, c.ID, models.CaseUpdate{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	worse := "urgent"
	_, err = svc.UpdateCase(ctx, c.ID, models.CaseUpdate{Priority: &worse})
	assert.ErrorIs(t, err, ErrInvalidPriority)

	_, err = svc.UpdateCase(ctx, "missing", models.CaseUpdate{Title: &bad})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteCaseCascades(t *testing.T) {
	svc, st, pub := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	comment, err := svc.CreateComment(ctx, c.ID, models.CommentCreate{Content: "note", Author: "u1"})
	require.NoError(t, err)

	file, err := svc.UploadFile(ctx, c.ID, "evidence.log", "text/plain", "u1", strings.NewReader("data"))
	require.NoError(t, err)
	path := filepath.Join(svc.uploadDir, file.Filename)
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCase(ctx, c.ID))

	_, err = svc.GetCase(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Get(ctx, store.CollectionComments, comment.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Get(ctx, store.CollectionFiles, file.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "attachment bytes removed from disk")

	assert.Contains(t, pub.subjects, events.SubjectCaseDeleted)
}

func TestDeleteCaseNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.ErrorIs(t, svc.DeleteCase(context.Background(), "missing"), store.ErrNotFound)
}
