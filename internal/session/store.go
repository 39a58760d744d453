package session

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"vidhost/console/internal/models"
	"vidhost/console/internal/storage"
)

// ErrIncomplete rejects a Set call missing either half of the session.
var ErrIncomplete = errors.New("session: user and token are both required")

// Store holds the authenticated identity and its bearer token. Both fields
// are present or both are absent, never one without the other. Every
// mutation is mirrored synchronously into durable storage so a restart
// reconstructs the session without a network round-trip; there is no
// whoami endpoint, the persisted token is trusted until a request is
// rejected.
type Store struct {
	mu    sync.RWMutex
	user  *models.User
	token string

	storage *storage.Storage
	log     zerolog.Logger
}

// New builds a Store and hydrates it from storage. A persisted record with
// a missing user id or empty token is discarded rather than half-restored.
func New(st *storage.Storage, logger zerolog.Logger) *Store {
	s := &Store{storage: st, log: logger}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	ps, err := s.storage.ReadSession()
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Msg("session hydrate failed")
		}
		return
	}
	if ps.User.ID == "" || ps.Token == "" {
		s.log.Warn().Msg("discarding incomplete persisted session")
		_ = s.storage.ClearSession()
		return
	}
	user := ps.User
	s.user = &user
	s.token = ps.Token
}

// Set replaces the identity and token atomically and persists them.
func (s *Store) Set(user models.User, token string) error {
	if user.ID == "" || token == "" {
		return ErrIncomplete
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.WriteSession(storage.PersistedSession{User: user, Token: token}); err != nil {
		return err
	}
	u := user
	s.user = &u
	s.token = token
	return nil
}

// Clear drops both fields and removes the persisted record. Other persisted
// state (preferences, device id) is untouched.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.token = ""
	return s.storage.ClearSession()
}

// Token implements the token source consumed by the HTTP client. Empty
// means unauthenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

func (s *Store) IsSuperAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.Role == models.UserRoleSuperAdmin
}
