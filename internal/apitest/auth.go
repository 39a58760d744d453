package apitest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"vidhost/console/internal/models"
)

// SeedUser registers an account that can sign in with the given password.
func (s *Server) SeedUser(username, email, password string, role models.UserRole) models.User {
	user := models.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		Role:     role,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = userFixture{user: user, password: password}
	return user
}

// MintToken issues a bearer token for a seeded user, letting tests install
// a session without going through the login flow.
func (s *Server) MintToken(user models.User) string {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) handleLogin(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	fixture, okUser := s.users[body.Email]
	s.mu.Unlock()

	if !okUser || fixture.password != body.Password {
		fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	ok(c, http.StatusOK, gin.H{
		"user":  fixture.user,
		"token": s.MintToken(fixture.user),
	})
}

func (s *Server) handleResetRequest(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	// Always acks, whether or not the account exists.
	c.JSON(http.StatusAccepted, gin.H{"status": "success", "message": "reset instructions sent"})
}

func (s *Server) handleReset(c *gin.Context) {
	token := c.Param("token")

	s.mu.Lock()
	valid := s.resetTokens[token]
	delete(s.resetTokens, token)
	s.mu.Unlock()

	if !valid {
		fail(c, http.StatusBadRequest, "invalid or expired token")
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Password == "" {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "password updated"})
}

func (s *Server) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		fail(c, http.StatusUnauthorized, "missing token")
		c.Abort()
		return
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		fail(c, http.StatusUnauthorized, "invalid token")
		c.Abort()
		return
	}

	c.Next()
}
