// Package apitest hosts an in-memory stand-in for the video-hosting
// backend. Tests point the real client at it over httptest and drive the
// same wire surface the production API exposes.
package apitest

import (
	"fmt"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"vidhost/console/internal/models"
)

type userFixture struct {
	user     models.User
	password string
}

type Server struct {
	mu          sync.Mutex
	users       map[string]userFixture // keyed by email
	videos      []models.Video
	admins      []models.Admin
	resetTokens map[string]bool
	failNext    map[string]bool
	secret      []byte

	requests int64
	srv      *httptest.Server
}

func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		users:       make(map[string]userFixture),
		resetTokens: make(map[string]bool),
		failNext:    make(map[string]bool),
		secret:      []byte("apitest-secret"),
	}

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		atomic.AddInt64(&s.requests, 1)
		c.Next()
	})

	root := engine.Group("/api")
	root.POST("/auth/login", s.handleLogin)
	root.POST("/auth/reset-password/request", s.handleResetRequest)
	root.POST("/auth/reset-password/:token", s.handleReset)

	authed := root.Group("", s.requireToken)
	authed.GET("/videos", s.handleListVideos)
	authed.POST("/videos/upload", s.handleUploadVideo)
	authed.POST("/videos/bulk-delete", s.handleBulkDelete)
	authed.POST("/videos/check-title", s.handleCheckTitle)
	authed.PATCH("/videos/:id", s.handlePatchVideo)
	authed.PUT("/videos/:id/update-all", s.handleUpdateAll)
	authed.PUT("/videos/:id/video", s.handleReplaceVideoFile)
	authed.PUT("/videos/:id/thumbnail", s.handleReplaceThumbnail)
	authed.DELETE("/videos/:id", s.handleDeleteVideo)

	authed.GET("/admins", s.handleListAdmins)
	authed.POST("/admins", s.handleCreateAdmin)
	authed.PUT("/admins/:id", s.handleUpdateAdmin)
	authed.PATCH("/admins/:id", s.handleUpdateAdmin)
	authed.DELETE("/admins/:id", s.handleDeleteAdmin)

	s.srv = httptest.NewServer(engine)
	return s
}

func (s *Server) URL() string { return s.srv.URL }

func (s *Server) Close() { s.srv.Close() }

// RequestCount reports how many requests have reached the server; tests
// use it to prove an operation short-circuited locally.
func (s *Server) RequestCount() int {
	return int(atomic.LoadInt64(&s.requests))
}

// FailNext makes the next occurrence of the named operation return a 500.
// Known names: "video-delete", "bulk-delete", "admin-update", "admin-delete".
func (s *Server) FailNext(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[op] = true
}

func (s *Server) shouldFail(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext[op] {
		delete(s.failNext, op)
		return true
	}
	return false
}

// AllowResetToken registers a password-reset token the server will accept.
func (s *Server) AllowResetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetTokens[token] = true
}

func ok(c *gin.Context, status int, data gin.H) {
	c.JSON(status, gin.H{"status": "success", "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

func failField(c *gin.Context, status int, message, field string) {
	c.JSON(status, gin.H{"status": "error", "message": message, "field": field})
}

func fakeURL(kind, name string) string {
	return fmt.Sprintf("https://cdn.apitest.local/%s/%s", kind, name)
}
