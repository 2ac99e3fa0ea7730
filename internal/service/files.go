package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caseflow-systems/caseflow/internal/metrics"
	"github.com/caseflow-systems/caseflow/internal/models"
	"github.com/caseflow-systems/caseflow/internal/store"
)

// UploadFile persists the attachment bytes to disk under a generated name,
// then writes the metadata record. If the record write fails the just-written
// file is removed again: compensating cleanup, not a transaction.
func (s *Service) UploadFile(ctx context.Context, caseID, originalFilename, mimeType, uploadedBy string, r io.Reader) (*models.FileAttachment, error) {
	if _, err := s.GetCase(ctx, caseID); err != nil {
		return nil, err
	}
	if uploadedBy == "" {
		uploadedBy = "anonymous"
	}

	id := s.newID()
	storedName := id + filepath.Ext(originalFilename)
	path := filepath.Join(s.uploadDir, storedName)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	size, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write file: %w", err)
	}
	metrics.UploadBytesTotal.Add(float64(size))

	attachment := &models.FileAttachment{
		ID:               id,
		CaseID:           caseID,
		Filename:         storedName,
		OriginalFilename: originalFilename,
		FileSize:         size,
		MimeType:         mimeType,
		UploadedBy:       uploadedBy,
		UploadedAt:       s.now(),
	}

	doc, err := store.Encode(attachment)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	if err := s.store.Insert(ctx, store.CollectionFiles, id, doc); err != nil {
		os.Remove(path)
		return nil, err
	}

	s.RefreshCaseCounters(ctx, caseID)
	return attachment, nil
}

// ListFiles returns a case's attachments, newest first.
func (s *Service) ListFiles(ctx context.Context, caseID string) ([]models.FileAttachment, error) {
	if _, err := s.GetCase(ctx, caseID); err != nil {
		return nil, err
	}

	docs, err := s.store.Query(ctx, store.CollectionFiles, store.Options{
		Filter:    store.Filter{Terms: map[string]string{"case_id": caseID}},
		SortField: "uploaded_at",
		SortDesc:  true,
		Limit:     1000,
	})
	if err != nil {
		return nil, err
	}

	files := make([]models.FileAttachment, 0, len(docs))
	for _, doc := range docs {
		var f models.FileAttachment
		if err := store.Decode(doc, &f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// GetFile returns the attachment metadata and its on-disk path. A record
// whose backing file is missing reports NotFound.
func (s *Service) GetFile(ctx context.Context, id string) (*models.FileAttachment, string, error) {
	doc, err := s.store.Get(ctx, store.CollectionFiles, id)
	if err != nil {
		return nil, "", err
	}
	var f models.FileAttachment
	if err := store.Decode(doc, &f); err != nil {
		return nil, "", err
	}

	path := filepath.Join(s.uploadDir, f.Filename)
	if _, err := os.Stat(path); err != nil {
		return nil, "", fmt.Errorf("%w: file missing on disk", store.ErrNotFound)
	}
	return &f, path, nil
}

// DeleteFile removes both the disk file and the metadata record, then
// refreshes the case counters.
func (s *Service) DeleteFile(ctx context.Context, id string) error {
	doc, err := s.store.Get(ctx, store.CollectionFiles, id)
	if err != nil {
		return err
	}
	var f models.FileAttachment
	if err := store.Decode(doc, &f); err != nil {
		return err
	}

	s.removeStoredFile(ctx, f.Filename)

	if err := s.store.Delete(ctx, store.CollectionFiles, id); err != nil {
		return err
	}

	s.RefreshCaseCounters(ctx, f.CaseID)
	return nil
}

func (s *Service) removeStoredFile(ctx context.Context, storedName string) {
	if storedName == "" {
		return
	}
	path := filepath.Join(s.uploadDir, storedName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.WarnContext(ctx, "failed to remove stored file", "path", path, "error", err)
	}
}
