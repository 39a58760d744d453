package apitest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vidhost/console/internal/models"
)

// SeedAdmin inserts an admin record directly.
func (s *Server) SeedAdmin(username, email string) models.Admin {
	now := time.Now().UTC()
	admin := models.Admin{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		Role:      models.UserRoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins = append(s.admins, admin)
	return admin
}

func (s *Server) Admins() []models.Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Admin, len(s.admins))
	copy(out, s.admins)
	return out
}

func (s *Server) handleListAdmins(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, http.StatusOK, gin.H{
		"admins": s.admins,
		"total":  len(s.admins),
	})
}

func (s *Server) handleCreateAdmin(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Username == "" || body.Email == "" || body.Password == "" {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if field := s.adminConflictLocked(body.Username, body.Email, ""); field != "" {
		failField(c, http.StatusConflict, field+" already in use", field)
		return
	}

	now := time.Now().UTC()
	admin := models.Admin{
		ID:        uuid.NewString(),
		Username:  body.Username,
		Email:     body.Email,
		Role:      models.UserRoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.admins = append(s.admins, admin)

	ok(c, http.StatusCreated, gin.H{"admin": admin})
}

func (s *Server) handleUpdateAdmin(c *gin.Context) {
	if s.shouldFail("admin-update") {
		fail(c, http.StatusInternalServerError, "update failed")
		return
	}

	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findAdminLocked(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "admin not found")
		return
	}
	if field := s.adminConflictLocked(body.Username, body.Email, s.admins[i].ID); field != "" {
		failField(c, http.StatusConflict, field+" already in use", field)
		return
	}

	if body.Username != "" {
		s.admins[i].Username = body.Username
	}
	if body.Email != "" {
		s.admins[i].Email = body.Email
	}
	s.admins[i].UpdatedAt = time.Now().UTC()

	ok(c, http.StatusOK, gin.H{"admin": s.admins[i]})
}

func (s *Server) handleDeleteAdmin(c *gin.Context) {
	if s.shouldFail("admin-delete") {
		fail(c, http.StatusInternalServerError, "delete failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findAdminLocked(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "admin not found")
		return
	}
	s.admins = append(s.admins[:i], s.admins[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "admin deleted"})
}

func (s *Server) findAdminLocked(id string) int {
	for i, a := range s.admins {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// adminConflictLocked returns the name of the first field colliding with an
// existing record, or "".
func (s *Server) adminConflictLocked(username, email, excludeID string) string {
	for _, a := range s.admins {
		if a.ID == excludeID {
			continue
		}
		if username != "" && a.Username == username {
			return "username"
		}
		if email != "" && a.Email == email {
			return "email"
		}
	}
	return ""
}
