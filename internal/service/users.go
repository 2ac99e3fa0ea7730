package service

import (
	"context"
	"fmt"

	"github.com/caseflow-systems/caseflow/internal/models"
	"github.com/caseflow-systems/caseflow/internal/store"
)

// CreateUser creates a user after checking username uniqueness.
func (s *Service) CreateUser(ctx context.Context, req models.UserCreate) (*models.User, error) {
	existing, err := s.store.Count(ctx, store.CollectionUsers, store.Filter{
		Terms: map[string]string{"username": req.Username},
	})
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateUsername
	}

	user := &models.User{
		ID:        s.newID(),
		Username:  req.Username,
		Email:     req.Email,
		FullName:  req.FullName,
		CreatedAt: s.now(),
	}

	doc, err := store.Encode(user)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, store.CollectionUsers, user.ID, doc); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns all users ordered by creation time.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	docs, err := s.store.Query(ctx, store.CollectionUsers, store.Options{
		SortField: "created_at",
		Limit:     1000,
	})
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		var u models.User
		if err := store.Decode(doc, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// GetUser returns the user with the given id, or store.ErrNotFound.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	doc, err := s.store.Get(ctx, store.CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := store.Decode(doc, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
