// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mergington-high/activities/internal/model"
	"github.com/mergington-high/activities/internal/repository"
)

// ActivityService orchestrates catalog operations over a CatalogStore.
type ActivityService struct {
	catalog repository.CatalogStore
}

// NewActivityService constructs an ActivityService with its store.
func NewActivityService(catalog repository.CatalogStore) *ActivityService {
	return &ActivityService{catalog: catalog}
}

// ListActivities returns the full catalog keyed by activity name.
func (s *ActivityService) ListActivities(ctx context.Context) (map[string]model.Activity, error) {
	return s.catalog.List(ctx)
}

// SignUp registers email for the named activity. Activity names match
// exactly (case-sensitive, spaces included) and emails are taken verbatim:
// the store decides membership by exact string comparison.
func (s *ActivityService) SignUp(ctx context.Context, activity, email string) error {
	if activity == "" {
		return fmt.Errorf("activity name is required")
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if err := s.catalog.SignUp(ctx, activity, email); err != nil {
		// Surface domain errors directly so handlers can set correct HTTP status.
		if errors.Is(err, repository.ErrActivityNotFound) ||
			errors.Is(err, repository.ErrAlreadyRegistered) {
			return err
		}
		return fmt.Errorf("sign up for activity: %w", err)
	}
	return nil
}

// Unregister removes email from the named activity's roster.
func (s *ActivityService) Unregister(ctx context.Context, activity, email string) error {
	if activity == "" {
		return fmt.Errorf("activity name is required")
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	if err := s.catalog.Unregister(ctx, activity, email); err != nil {
		if errors.Is(err, repository.ErrActivityNotFound) ||
			errors.Is(err, repository.ErrNotRegistered) {
			return err
		}
		return fmt.Errorf("unregister from activity: %w", err)
	}
	return nil
}
