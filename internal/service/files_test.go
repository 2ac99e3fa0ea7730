package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseflow-systems/caseflow/internal/models"
	"github.com/caseflow-systems/caseflow/internal/store"
)

func TestUploadFile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	content := "packet capture bytes"
	f, err := svc.UploadFile(ctx, c.ID, "capture.pcap", "application/octet-stream", "u1", strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "capture.pcap", f.OriginalFilename)
	assert.Equal(t, f.ID+".pcap", f.Filename, "stored under generated name plus original extension")
	assert.Equal(t, int64(len(content)), f.FileSize)
	assert.Equal(t, "u1", f.UploadedBy)

	data, err := os.ReadFile(filepath.Join(svc.uploadDir, f.Filename))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	got, err := svc.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AttachmentsCount)
}

func TestUploadFileAnonymousDefault(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	f, err := svc.UploadFile(ctx, c.ID, "a.txt", "text/plain", "", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "anonymous", f.UploadedBy)
}

func TestUploadFileMissingCase(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.UploadFile(context.Background(), "missing", "a.txt", "text/plain", "u1", strings.NewReader("x"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListFilesNewestFirst(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	first, err := svc.UploadFile(ctx, c.ID, "one.txt", "text/plain", "u1", strings.NewReader("1"))
	require.NoError(t, err)
	second, err := svc.UploadFile(ctx, c.ID, "two.txt", "text/plain", "u1", strings.NewReader("2"))
	require.NoError(t, err)

	files, err := svc.ListFiles(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, second.ID, files[0].ID)
	assert.Equal(t, first.ID, files[1].ID)
}

func TestGetFile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	f, err := svc.UploadFile(ctx, c.ID, "a.txt", "text/plain", "u1", strings.NewReader("x"))
	require.NoError(t, err)

	got, path, err := svc.GetFile(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)
	assert.Equal(t, filepath.Join(svc.uploadDir, f.Filename), path)

	// A record whose backing file vanished reports NotFound.
	require.NoError(t, os.Remove(path))
	_, _, err = svc.GetFile(ctx, f.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteFile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateCase(ctx, models.CaseCreate{Title: "t"})
	require.NoError(t, err)

	f, err := svc.UploadFile(ctx, c.ID, "a.txt", "text/plain", "u1", strings.NewReader("x"))
	require.NoError(t, err)
	path := filepath.Join(svc.uploadDir, f.Filename)

	require.NoError(t, svc.DeleteFile(ctx, f.ID))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	got, err := svc.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AttachmentsCount)

	assert.ErrorIs(t, svc.DeleteFile(ctx, f.ID), store.ErrNotFound)
}
