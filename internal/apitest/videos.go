package apitest

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vidhost/console/internal/models"
)

// SeedVideos populates n complete video records and returns them, newest
// first like the real listing.
func (s *Server) SeedVideos(n int) []models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Video, 0, n)
	for i := 0; i < n; i++ {
		v := s.newVideoLocked(fmt.Sprintf("Video %d", i+1), fmt.Sprintf("Description %d", i+1))
		out = append(out, v)
	}
	return out
}

// AddVideo inserts an arbitrary record, complete or not.
func (s *Server) AddVideo(v models.Video) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos = append([]models.Video{v}, s.videos...)
}

func (s *Server) Videos() []models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Video, len(s.videos))
	copy(out, s.videos)
	return out
}

func (s *Server) newVideoLocked(title, description string) models.Video {
	now := time.Now().UTC()
	v := models.Video{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  description,
		VideoURL:     fakeURL("videos", uuid.NewString()+".mp4"),
		ThumbnailURL: fakeURL("thumbnails", uuid.NewString()+".jpg"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.videos = append([]models.Video{v}, s.videos...)
	return v
}

func (s *Server) handleListVideos(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	total := len(s.videos)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	ok(c, http.StatusOK, gin.H{
		"videos": s.videos[start:end],
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

func (s *Server) handleUploadVideo(c *gin.Context) {
	title := c.PostForm("title")
	description := c.PostForm("description")
	if title == "" {
		failField(c, http.StatusBadRequest, "title is required", "title")
		return
	}
	if _, err := c.FormFile("video"); err != nil {
		failField(c, http.StatusBadRequest, "video file is required", "video")
		return
	}
	if _, err := c.FormFile("thumbnail"); err != nil {
		failField(c, http.StatusBadRequest, "thumbnail file is required", "thumbnail")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.titleTakenLocked(title, "") {
		failField(c, http.StatusConflict, "title already in use", "title")
		return
	}

	v := s.newVideoLocked(title, description)
	ok(c, http.StatusCreated, gin.H{"video": v})
}

func (s *Server) handlePatchVideo(c *gin.Context) {
	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findVideoLocked(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "video not found")
		return
	}
	if body.Title != nil {
		if s.titleTakenLocked(*body.Title, s.videos[i].ID) {
			failField(c, http.StatusConflict, "title already in use", "title")
			return
		}
		s.videos[i].Title = *body.Title
	}
	if body.Description != nil {
		s.videos[i].Description = *body.Description
	}
	s.videos[i].UpdatedAt = time.Now().UTC()

	ok(c, http.StatusOK, gin.H{"video": s.videos[i]})
}

func (s *Server) handleUpdateAll(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findVideoLocked(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "video not found")
		return
	}

	if title := c.PostForm("title"); title != "" {
		if s.titleTakenLocked(title, s.videos[i].ID) {
			failField(c, http.StatusConflict, "title already in use", "title")
			return
		}
		s.videos[i].Title = title
	}
	if description := c.PostForm("description"); description != "" {
		s.videos[i].Description = description
	}
	if _, err := c.FormFile("video"); err == nil {
		s.videos[i].VideoURL = fakeURL("videos", uuid.NewString()+".mp4")
	}
	if _, err := c.FormFile("thumbnail"); err == nil {
		s.videos[i].ThumbnailURL = fakeURL("thumbnails", uuid.NewString()+".jpg")
	}
	s.videos[i].UpdatedAt = time.Now().UTC()

	ok(c, http.StatusOK, gin.H{"video": s.videos[i]})
}

func (s *Server) handleReplaceVideoFile(c *gin.Context) {
	s.replaceFile(c, "video")
}

func (s *Server) handleReplaceThumbnail(c *gin.Context) {
	s.replaceFile(c, "thumbnail")
}

func (s *Server) replaceFile(c *gin.Context, kind string) {
	if _, err := c.FormFile(kind); err != nil {
		failField(c, http.StatusBadRequest, kind+" file is required", kind)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findVideoLocked(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "video not found")
		return
	}

	if kind == "video" {
		s.videos[i].VideoURL = fakeURL("videos", uuid.NewString()+".mp4")
	} else {
		s.videos[i].ThumbnailURL = fakeURL("thumbnails", uuid.NewString()+".jpg")
	}
	s.videos[i].UpdatedAt = time.Now().UTC()

	ok(c, http.StatusOK, gin.H{"video": s.videos[i]})
}

func (s *Server) handleDeleteVideo(c *gin.Context) {
	if s.shouldFail("video-delete") {
		fail(c, http.StatusInternalServerError, "delete failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findVideoLocked(c.Param("id"))
	if i < 0 {
		fail(c, http.StatusNotFound, "video not found")
		return
	}
	s.videos = append(s.videos[:i], s.videos[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "video deleted"})
}

func (s *Server) handleBulkDelete(c *gin.Context) {
	if s.shouldFail("bulk-delete") {
		fail(c, http.StatusInternalServerError, "bulk delete failed")
		return
	}

	var body struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	successful := make([]string, 0, len(body.IDs))
	for _, id := range body.IDs {
		if i := s.findVideoLocked(id); i >= 0 {
			s.videos = append(s.videos[:i], s.videos[i+1:]...)
			successful = append(successful, id)
		}
	}

	ok(c, http.StatusOK, gin.H{
		"deletedCount":  len(successful),
		"successfulIds": successful,
	})
}

func (s *Server) handleCheckTitle(c *gin.Context) {
	var body struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, http.StatusOK, gin.H{"available": !s.titleTakenLocked(body.Title, "")})
}

func (s *Server) findVideoLocked(id string) int {
	for i, v := range s.videos {
		if v.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) titleTakenLocked(title, excludeID string) bool {
	for _, v := range s.videos {
		if v.Title == title && v.ID != excludeID {
			return true
		}
	}
	return false
}
