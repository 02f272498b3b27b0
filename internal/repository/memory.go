package repository

import (
	"context"
	"sync"

	"github.com/mergington-high/activities/internal/model"
)

// MemoryStore keeps the catalog in process memory. It is the default store:
// state is seeded at startup and lost on shutdown.
//
// A single RWMutex guards every check-then-mutate sequence, so concurrent
// signups for the same activity cannot both pass the duplicate check.
type MemoryStore struct {
	mu         sync.RWMutex
	activities map[string]*model.Activity
}

// NewMemoryStore constructs a MemoryStore holding copies of the given
// activities.
func NewMemoryStore(seed []model.Activity) *MemoryStore {
	activities := make(map[string]*model.Activity, len(seed))
	for _, a := range seed {
		a := a
		a.Participants = append([]string(nil), a.Participants...)
		activities[a.Name] = &a
	}
	return &MemoryStore{activities: activities}
}

// List returns a snapshot of the catalog. Rosters are copied so callers
// (and JSON encoders) never observe a concurrent mutation.
func (s *MemoryStore) List(ctx context.Context) (map[string]model.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]model.Activity, len(s.activities))
	for name, a := range s.activities {
		snapshot := *a
		// Copy so callers never alias the live roster; empty stays an
		// array, not null, on the wire.
		snapshot.Participants = append([]string{}, a.Participants...)
		out[name] = snapshot
	}
	return out, nil
}

// SignUp appends email to the activity's roster.
func (s *MemoryStore) SignUp(ctx context.Context, activity, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[activity]
	if !ok {
		return ErrActivityNotFound
	}
	if a.IsRegistered(email) {
		return ErrAlreadyRegistered
	}
	a.Participants = append(a.Participants, email)
	return nil
}

// Unregister removes email from the activity's roster, keeping the
// remaining participants in their original order.
func (s *MemoryStore) Unregister(ctx context.Context, activity, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[activity]
	if !ok {
		return ErrActivityNotFound
	}
	for i, p := range a.Participants {
		if p == email {
			a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
			return nil
		}
	}
	return ErrNotRegistered
}
