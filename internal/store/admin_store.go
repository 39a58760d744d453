package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vidhost/console/internal/models"
	"vidhost/console/internal/service"
)

// AdminStore caches the admin collection. Unlike videos, admin edits never
// involve files, so the pre-mutation state is always fully known and a
// failed optimistic update restores the exact snapshot instead of
// re-fetching.
type AdminStore struct {
	mu          sync.RWMutex
	admins      []models.Admin
	lastFetched time.Time

	svc *service.AdminService
	log zerolog.Logger
}

func NewAdminStore(svc *service.AdminService, logger zerolog.Logger) *AdminStore {
	return &AdminStore{svc: svc, log: logger}
}

func (s *AdminStore) Load(ctx context.Context) error {
	admins, err := s.svc.List(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins = admins
	s.lastFetched = time.Now()
	return nil
}

// Create registers an admin and appends the confirmed record. A conflict
// leaves the cached list untouched; the error keeps the server's field tag.
func (s *AdminStore) Create(ctx context.Context, input service.CreateAdminInput) (models.Admin, error) {
	admin, err := s.svc.Create(ctx, input)
	if err != nil {
		return models.Admin{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins = append(s.admins, admin)
	return admin, nil
}

// Update merges the patch optimistically, then confirms with the backend.
// On success the server's record wins; on failure the snapshot taken before
// the mutation is restored and the error rethrown.
func (s *AdminStore) Update(ctx context.Context, id string, patch service.AdminPatch) (models.Admin, error) {
	s.mu.Lock()
	snapshot := make([]models.Admin, len(s.admins))
	copy(snapshot, s.admins)
	for i := range s.admins {
		if s.admins[i].ID == id {
			if patch.Username != "" {
				s.admins[i].Username = patch.Username
			}
			if patch.Email != "" {
				s.admins[i].Email = patch.Email
			}
			break
		}
	}
	s.mu.Unlock()

	admin, err := s.svc.Update(ctx, id, patch)
	if err != nil {
		s.mu.Lock()
		s.admins = snapshot
		s.mu.Unlock()
		return models.Admin{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].ID == id {
			s.admins[i] = admin
			break
		}
	}
	return admin, nil
}

// Delete removes the record optimistically. A failure falls back to a
// re-fetch rather than an explicit rollback.
func (s *AdminStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	for i := range s.admins {
		if s.admins[i].ID == id {
			s.admins = append(s.admins[:i], s.admins[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if err := s.svc.Delete(ctx, id); err != nil {
		if lerr := s.Load(ctx); lerr != nil {
			s.log.Warn().Err(lerr).Msg("reconcile after failed admin delete")
		}
		return err
	}
	return nil
}

func (s *AdminStore) Admins() []models.Admin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Admin, len(s.admins))
	copy(out, s.admins)
	return out
}

// ShouldRefetch reports whether the cached list is missing or stale.
func (s *AdminStore) ShouldRefetch() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFetched.IsZero() || time.Since(s.lastFetched) > staleAfter
}

func (s *AdminStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFetched = time.Time{}
}
