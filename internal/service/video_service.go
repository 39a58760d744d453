package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"vidhost/console/internal/api"
	"vidhost/console/internal/config"
	"vidhost/console/internal/models"
)

type VideoService struct {
	client *api.Client
	limits config.UploadConfig
	log    zerolog.Logger
}

func NewVideoService(client *api.Client, limits config.UploadConfig, logger zerolog.Logger) *VideoService {
	return &VideoService{
		client: client,
		limits: limits,
		log:    logger,
	}
}

// VideoPage is one page of the video listing. Total is the collection-wide
// count carried in the response body.
type VideoPage struct {
	Videos []models.Video
	Total  int
}

func (s *VideoService) List(ctx context.Context, page, limit int) (VideoPage, error) {
	var out struct {
		Videos []models.Video `json:"videos"`
		Total  int            `json:"total"`
	}
	path := fmt.Sprintf("/api/videos?page=%d&limit=%d", page, limit)
	if err := s.client.Get(ctx, path, &out); err != nil {
		return VideoPage{}, err
	}
	return VideoPage{Videos: out.Videos, Total: out.Total}, nil
}

// Stats derives the collection total from a minimal page fetch.
func (s *VideoService) Stats(ctx context.Context) (models.VideoStats, error) {
	page, err := s.List(ctx, 1, 1)
	if err != nil {
		return models.VideoStats{}, err
	}
	return models.VideoStats{TotalVideos: page.Total}, nil
}

// FileUpload describes a file the caller wants to submit. Size and
// ContentType come from the caller (the CLI stats the file) and are
// validated against the configured limits before any bytes move.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type UploadVideoInput struct {
	Title       string
	Description string
	Video       *FileUpload
	Thumbnail   *FileUpload
	OnProgress  func(pct int)
}

// Upload creates a video. Both files are mandatory on create and are
// checked locally (type allow-list, size cap) before the request starts.
func (s *VideoService) Upload(ctx context.Context, input UploadVideoInput) (models.Video, error) {
	if input.Video == nil {
		return models.Video{}, &ValidationError{Field: "video", Message: "video file is required"}
	}
	if input.Thumbnail == nil {
		return models.Video{}, &ValidationError{Field: "thumbnail", Message: "thumbnail file is required"}
	}
	if err := s.validateVideoFile(input.Video); err != nil {
		return models.Video{}, err
	}
	if err := s.validateThumbnailFile(input.Thumbnail); err != nil {
		return models.Video{}, err
	}

	form := api.Form{
		Fields: map[string]string{
			"title":       input.Title,
			"description": input.Description,
		},
		Files: []api.File{
			filePart("video", input.Video),
			filePart("thumbnail", input.Thumbnail),
		},
	}

	var out struct {
		Video models.Video `json:"video"`
	}
	if err := s.client.SubmitForm(ctx, http.MethodPost, "/api/videos/upload", form, &out, input.OnProgress); err != nil {
		return models.Video{}, err
	}

	s.log.Info().Str("video_id", out.Video.ID).Msg("video uploaded")
	return out.Video, nil
}

// VideoEdit carries the fields a caller wants to change. Nil pointers mean
// "leave as is"; nil files mean "keep the current media".
type VideoEdit struct {
	Title       *string
	Description *string
	Video       *FileUpload
	Thumbnail   *FileUpload
	OnProgress  func(pct int)
}

// Edit applies an edit using the narrowest backend operation that covers
// it: metadata-only goes through PATCH, a lone file through the dedicated
// single-file endpoint, anything mixed through the full multipart replace.
// An edit that changes nothing is rejected locally with ErrNoChanges.
func (s *VideoService) Edit(ctx context.Context, original models.Video, edit VideoEdit) (models.Video, error) {
	titleChanged := edit.Title != nil && *edit.Title != original.Title
	descChanged := edit.Description != nil && *edit.Description != original.Description
	hasVideo := edit.Video != nil
	hasThumb := edit.Thumbnail != nil

	if !titleChanged && !descChanged && !hasVideo && !hasThumb {
		return models.Video{}, ErrNoChanges
	}

	if hasVideo {
		if err := s.validateVideoFile(edit.Video); err != nil {
			return models.Video{}, err
		}
	}
	if hasThumb {
		if err := s.validateThumbnailFile(edit.Thumbnail); err != nil {
			return models.Video{}, err
		}
	}

	switch {
	case !hasVideo && !hasThumb:
		patch := MetadataPatch{}
		if titleChanged {
			patch.Title = edit.Title
		}
		if descChanged {
			patch.Description = edit.Description
		}
		return s.UpdateMetadata(ctx, original.ID, patch)

	case hasVideo && !hasThumb && !titleChanged && !descChanged:
		return s.replaceFile(ctx, original.ID, "video", edit.Video, edit.OnProgress)

	case hasThumb && !hasVideo && !titleChanged && !descChanged:
		return s.replaceFile(ctx, original.ID, "thumbnail", edit.Thumbnail, edit.OnProgress)
	}

	form := api.Form{Fields: map[string]string{}}
	if titleChanged {
		form.Fields["title"] = *edit.Title
	}
	if descChanged {
		form.Fields["description"] = *edit.Description
	}
	if hasVideo {
		form.Files = append(form.Files, filePart("video", edit.Video))
	}
	if hasThumb {
		form.Files = append(form.Files, filePart("thumbnail", edit.Thumbnail))
	}

	var out struct {
		Video models.Video `json:"video"`
	}
	err := s.client.SubmitForm(ctx, http.MethodPut, "/api/videos/"+url.PathEscape(original.ID)+"/update-all", form, &out, edit.OnProgress)
	if err != nil {
		return models.Video{}, mapNotFound(err)
	}
	return out.Video, nil
}

// MetadataPatch is a sparse title/description update.
type MetadataPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (s *VideoService) UpdateMetadata(ctx context.Context, id string, patch MetadataPatch) (models.Video, error) {
	var out struct {
		Video models.Video `json:"video"`
	}
	if err := s.client.Patch(ctx, "/api/videos/"+url.PathEscape(id), patch, &out); err != nil {
		return models.Video{}, mapNotFound(err)
	}
	return out.Video, nil
}

func (s *VideoService) replaceFile(ctx context.Context, id, kind string, f *FileUpload, onProgress func(int)) (models.Video, error) {
	form := api.Form{Files: []api.File{filePart(kind, f)}}
	var out struct {
		Video models.Video `json:"video"`
	}
	err := s.client.SubmitForm(ctx, http.MethodPut, "/api/videos/"+url.PathEscape(id)+"/"+kind, form, &out, onProgress)
	if err != nil {
		return models.Video{}, mapNotFound(err)
	}
	return out.Video, nil
}

func (s *VideoService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/api/videos/"+url.PathEscape(id), nil); err != nil {
		return mapNotFound(err)
	}
	return nil
}

// BulkDeleteResult is the backend's report for a batch delete.
type BulkDeleteResult struct {
	DeletedCount  int      `json:"deletedCount"`
	SuccessfulIDs []string `json:"successfulIds"`
}

func (s *VideoService) BulkDelete(ctx context.Context, ids []string) (BulkDeleteResult, error) {
	payload := map[string][]string{"ids": ids}
	var out BulkDeleteResult
	if err := s.client.Post(ctx, "/api/videos/bulk-delete", payload, &out); err != nil {
		return BulkDeleteResult{}, err
	}
	return out, nil
}

// CheckTitle asks whether a title is still free. Advisory only: the
// authoritative check happens server-side at submit time.
func (s *VideoService) CheckTitle(ctx context.Context, title string) (bool, error) {
	payload := map[string]string{"title": title}
	var out struct {
		Available bool `json:"available"`
	}
	if err := s.client.Post(ctx, "/api/videos/check-title", payload, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}

func filePart(field string, f *FileUpload) api.File {
	return api.File{
		Field:       field,
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        f.Size,
		Reader:      f.Reader,
	}
}

func mapNotFound(err error) error {
	if api.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}
