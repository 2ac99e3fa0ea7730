package service

import (
	"context"

	"github.com/caseflow-systems/caseflow/internal/models"
	"github.com/caseflow-systems/caseflow/internal/store"
)

// CreateComment adds a comment to an existing case and refreshes the case
// counters.
func (s *Service) CreateComment(ctx context.Context, caseID string, req models.CommentCreate) (*models.Comment, error) {
	if _, err := s.GetCase(ctx, caseID); err != nil {
		return nil, err
	}

	commentType := req.Type
	if commentType == "" {
		commentType = models.CommentTypeUser
	}

	comment := &models.Comment{
		ID:         s.newID(),
		CaseID:     caseID,
		Author:     req.Author,
		AuthorName: req.AuthorName,
		Content:    req.Content,
		Type:       commentType,
		CreatedAt:  s.now(),
	}

	doc, err := store.Encode(comment)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, store.CollectionComments, comment.ID, doc); err != nil {
		return nil, err
	}

	s.RefreshCaseCounters(ctx, caseID)
	return comment, nil
}

// ListComments returns a case's comments oldest first.
func (s *Service) ListComments(ctx context.Context, caseID string) ([]models.Comment, error) {
	if _, err := s.GetCase(ctx, caseID); err != nil {
		return nil, err
	}

	docs, err := s.store.Query(ctx, store.CollectionComments, store.Options{
		Filter:    store.Filter{Terms: map[string]string{"case_id": caseID}},
		SortField: "created_at",
		Limit:     1000,
	})
	if err != nil {
		return nil, err
	}

	comments := make([]models.Comment, 0, len(docs))
	for _, doc := range docs {
		var c models.Comment
		if err := store.Decode(doc, &c); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}

// UpdateComment replaces a comment's content.
func (s *Service) UpdateComment(ctx context.Context, id, content string) (*models.Comment, error) {
	if _, err := s.store.Get(ctx, store.CollectionComments, id); err != nil {
		return nil, err
	}

	partial := map[string]any{
		"content":    content,
		"updated_at": s.now(),
	}
	if err := s.store.Update(ctx, store.CollectionComments, id, partial); err != nil {
		return nil, err
	}

	doc, err := s.store.Get(ctx, store.CollectionComments, id)
	if err != nil {
		return nil, err
	}
	var c models.Comment
	if err := store.Decode(doc, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a comment and refreshes its case's counters.
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	doc, err := s.store.Get(ctx, store.CollectionComments, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, store.CollectionComments, id); err != nil {
		return err
	}

	if caseID, ok := doc["case_id"].(string); ok {
		s.RefreshCaseCounters(ctx, caseID)
	}
	return nil
}
