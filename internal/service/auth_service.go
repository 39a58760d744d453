package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"vidhost/console/internal/api"
	"vidhost/console/internal/models"
	"vidhost/console/internal/session"
)

type AuthService struct {
	client   *api.Client
	sessions *session.Store
	log      zerolog.Logger
}

func NewAuthService(client *api.Client, sessions *session.Store, logger zerolog.Logger) *AuthService {
	return &AuthService{
		client:   client,
		sessions: sessions,
		log:      logger,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

// Login authenticates against the backend and installs the returned
// identity and token into the session store.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (models.User, error) {
	payload := map[string]string{
		"email":    strings.TrimSpace(strings.ToLower(input.Email)),
		"password": input.Password,
	}

	var out struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := s.client.Post(ctx, "/api/auth/login", payload, &out); err != nil {
		if api.IsUnauthorized(err) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := s.sessions.Set(out.User, out.Token); err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", out.User.ID).Msg("signed in")
	return out.User, nil
}

// Logout drops the local session. The backend holds no revocable state for
// bearer tokens, so no request is made.
func (s *AuthService) Logout() error {
	return s.sessions.Clear()
}

// RequestPasswordReset asks the backend to mail reset instructions. The
// backend acks regardless of whether the account exists, to avoid account
// enumeration; callers should phrase the confirmation accordingly.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	payload := map[string]string{"email": strings.TrimSpace(strings.ToLower(email))}
	return s.client.Post(ctx, "/api/auth/reset-password/request", payload, nil)
}

// ResetPassword completes a reset using the emailed token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return ErrResetTokenInvalid
	}
	payload := map[string]string{"password": password}
	err := s.client.Post(ctx, "/api/auth/reset-password/"+token, payload, nil)
	if api.IsBadRequest(err) {
		return ErrResetTokenInvalid
	}
	return err
}
