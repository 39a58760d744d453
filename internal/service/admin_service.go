package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"vidhost/console/internal/api"
	"vidhost/console/internal/models"
)

type AdminService struct {
	client *api.Client
	log    zerolog.Logger
}

func NewAdminService(client *api.Client, logger zerolog.Logger) *AdminService {
	return &AdminService{client: client, log: logger}
}

func (s *AdminService) List(ctx context.Context) ([]models.Admin, error) {
	var out struct {
		Admins []models.Admin `json:"admins"`
		Total  int            `json:"total"`
	}
	if err := s.client.Get(ctx, "/api/admins", &out); err != nil {
		return nil, err
	}
	return out.Admins, nil
}

type CreateAdminInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Create registers a new admin account. The password confirmation is
// checked locally; a server-side duplicate (409) propagates as an
// api.Error carrying the offending field so the form can highlight it.
func (s *AdminService) Create(ctx context.Context, input CreateAdminInput) (models.Admin, error) {
	if input.Password != input.ConfirmPassword {
		return models.Admin{}, ErrPasswordMismatch
	}

	payload := map[string]string{
		"username": strings.TrimSpace(input.Username),
		"email":    strings.TrimSpace(strings.ToLower(input.Email)),
		"password": input.Password,
	}

	var out struct {
		Admin models.Admin `json:"admin"`
	}
	if err := s.client.Post(ctx, "/api/admins", payload, &out); err != nil {
		return models.Admin{}, err
	}

	s.log.Info().Str("admin_id", out.Admin.ID).Msg("admin created")
	return out.Admin, nil
}

// AdminPatch carries only the fields the user filled in; empty strings are
// omitted from the payload.
type AdminPatch struct {
	Username string
	Email    string
	Password string
}

func (p AdminPatch) payload() map[string]string {
	m := make(map[string]string, 3)
	if p.Username != "" {
		m["username"] = strings.TrimSpace(p.Username)
	}
	if p.Email != "" {
		m["email"] = strings.TrimSpace(strings.ToLower(p.Email))
	}
	if p.Password != "" {
		m["password"] = p.Password
	}
	return m
}

func (s *AdminService) Update(ctx context.Context, id string, patch AdminPatch) (models.Admin, error) {
	return s.update(ctx, id, patch, s.client.Put)
}

// Patch is the partial-update variant; semantics match Update with the
// backend's PATCH route.
func (s *AdminService) Patch(ctx context.Context, id string, patch AdminPatch) (models.Admin, error) {
	return s.update(ctx, id, patch, s.client.Patch)
}

func (s *AdminService) update(
	ctx context.Context,
	id string,
	patch AdminPatch,
	call func(context.Context, string, any, any) error,
) (models.Admin, error) {
	payload := patch.payload()
	if len(payload) == 0 {
		return models.Admin{}, ErrNoChanges
	}

	var out struct {
		Admin models.Admin `json:"admin"`
	}
	if err := call(ctx, "/api/admins/"+url.PathEscape(id), payload, &out); err != nil {
		return models.Admin{}, mapNotFound(err)
	}
	return out.Admin, nil
}

func (s *AdminService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/api/admins/"+url.PathEscape(id), nil); err != nil {
		return mapNotFound(err)
	}
	return nil
}
