package service

import (
	"context"
	"fmt"

	"github.com/caseflow-systems/caseflow/internal/events"
	"github.com/caseflow-systems/caseflow/internal/models"
	"github.com/caseflow-systems/caseflow/internal/store"
)

// CreateCase creates a case, appends the auto-generated system comment, and
// refreshes the denormalized counters before returning the stored record.
func (s *Service) CreateCase(ctx context.Context, req models.CaseCreate) (*models.Case, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.CasePriorityMedium
	}
	if !models.ValidCasePriority(priority) {
		return nil, ErrInvalidPriority
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.now()
	c := &models.Case{
		ID:             s.newID(),
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.CaseStatusOpen,
		Priority:       priority,
		Tags:           tags,
		AssignedTo:     req.AssignedTo,
		AssignedToName: req.AssignedToName,
		CreatedBy:      req.CreatedBy,
		CreatedByName:  req.CreatedByName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	doc, err := store.Encode(c)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, store.CollectionCases, c.ID, doc); err != nil {
		return nil, err
	}

	// Later steps are best-effort: the case record already exists and there
	// is no rollback across collections.
	if err := s.createSystemComment(ctx, c.ID, fmt.Sprintf("Case created by %s", c.CreatedByName)); err != nil {
		s.log.WarnContext(ctx, "failed to create system comment", "case_id", c.ID, "error", err)
	}
	s.RefreshCaseCounters(ctx, c.ID)
	s.publish(events.SubjectCaseCreated, events.CaseEvent{CaseID: c.ID, Status: c.Status, Timestamp: now})

	return s.GetCase(ctx, c.ID)
}

// ListCases returns cases matching the filter, newest first.
func (s *Service) ListCases(ctx context.Context, f models.CaseFilter) ([]models.Case, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	terms := map[string]string{}
	if f.Status != "" {
		terms["status"] = f.Status
	}
	if f.Priority != "" {
		terms["priority"] = f.Priority
	}
	if f.AssignedTo != "" {
		terms["assigned_to"] = f.AssignedTo
	}
	if f.CreatedBy != "" {
		terms["created_by"] = f.CreatedBy
	}

	docs, err := s.store.Query(ctx, store.CollectionCases, store.Options{
		Filter:    store.Filter{Terms: terms, Search: f.Search},
		SortField: "created_at",
		SortDesc:  true,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	cases := make([]models.Case, 0, len(docs))
	for _, doc := range docs {
		var c models.Case
		if err := store.Decode(doc, &c); err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// GetCase returns the case with the given id, or store.ErrNotFound.
func (s *Service) GetCase(ctx context.Context, id string) (*models.Case, error) {
	doc, err := s.store.Get(ctx, store.CollectionCases, id)
	if err != nil {
		return nil, err
	}
	var c models.Case
	if err := store.Decode(doc, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCase applies a partial update. A status change stamps or clears
// closed_at, appends a system comment, and refreshes the counters.
func (s *Service) UpdateCase(ctx context.Context, id string, upd models.CaseUpdate) (*models.Case, error) {
	existing, err := s.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}

	partial := map[string]any{}
	if upd.Title != nil {
		partial["title"] = *upd.Title
	}
	if upd.Description != nil {
		partial["description"] = *upd.Description
	}
	if upd.Priority != nil {
		if !models.ValidCasePriority(*upd.Priority) {
			return nil, ErrInvalidPriority
		}
		partial["priority"] = *upd.Priority
	}
	if upd.Tags != nil {
		partial["tags"] = *upd.Tags
	}
	if upd.AssignedTo != nil {
		partial["assigned_to"] = *upd.AssignedTo
	}
	if upd.AssignedToName != nil {
		partial["assigned_to_name"] = *upd.AssignedToName
	}

	statusChanged := false
	if upd.Status != nil {
		if !models.ValidCaseStatus(*upd.Status) {
			return nil, ErrInvalidStatus
		}
		partial["status"] = *upd.Status
		statusChanged = *upd.Status != existing.Status

		if *upd.Status == models.CaseStatusClosed {
			partial["closed_at"] = s.now()
		} else if existing.Status == models.CaseStatusClosed {
			// Reopening clears the close timestamp so closed_at is set iff
			// the case is closed.
			partial["closed_at"] = nil
		}
	}

	if len(partial) > 0 {
		partial["updated_at"] = s.now()
		if err := s.store.Update(ctx, store.CollectionCases, id, partial); err != nil {
			return nil, err
		}

		if statusChanged {
			newStatus := *upd.Status
			if err := s.createSystemComment(ctx, id, fmt.Sprintf("Case status changed to %s", newStatus)); err != nil {
				s.log.WarnContext(ctx, "failed to create system comment", "case_id", id, "error", err)
			}
			s.RefreshCaseCounters(ctx, id)
			s.publish(events.SubjectCaseStatusChanged, events.CaseEvent{CaseID: id, Status: newStatus, Timestamp: s.now()})
		}
	}

	return s.GetCase(ctx, id)
}

// DeleteCase removes a case and cascade-deletes its comments, file records
// and on-disk attachments.
func (s *Service) DeleteCase(ctx context.Context, id string) error {
	if _, err := s.GetCase(ctx, id); err != nil {
		return err
	}

	childFilter := store.Filter{Terms: map[string]string{"case_id": id}}

	comments, err := s.store.Query(ctx, store.CollectionComments, store.Options{Filter: childFilter, Limit: 1000})
	if err != nil {
		return err
	}
	for _, doc := range comments {
		if commentID, ok := doc["id"].(string); ok {
			if err := s.store.Delete(ctx, store.CollectionComments, commentID); err != nil {
				s.log.WarnContext(ctx, "failed to delete comment during cascade", "comment_id", commentID, "error", err)
			}
		}
	}

	files, err := s.store.Query(ctx, store.CollectionFiles, store.Options{Filter: childFilter, Limit: 1000})
	if err != nil {
		return err
	}
	for _, doc := range files {
		var f models.FileAttachment
		if err := store.Decode(doc, &f); err != nil {
			continue
		}
		s.removeStoredFile(ctx, f.Filename)
		if err := s.store.Delete(ctx, store.CollectionFiles, f.ID); err != nil {
			s.log.WarnContext(ctx, "failed to delete file record during cascade", "file_id", f.ID, "error", err)
		}
	}

	if err := s.store.Delete(ctx, store.CollectionCases, id); err != nil {
		return err
	}

	s.publish(events.SubjectCaseDeleted, events.CaseEvent{CaseID: id, Timestamp: s.now()})
	return nil
}

func (s *Service) createSystemComment(ctx context.Context, caseID, content string) error {
	comment := &models.Comment{
		ID:         s.newID(),
		CaseID:     caseID,
		Author:     "system",
		AuthorName: "System",
		Content:    content,
		Type:       models.CommentTypeSystem,
		CreatedAt:  s.now(),
	}
	doc, err := store.Encode(comment)
	if err != nil {
		return err
	}
	return s.store.Insert(ctx, store.CollectionComments, comment.ID, doc)
}
