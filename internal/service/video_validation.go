package service

import "fmt"

func (s *VideoService) validateVideoFile(f *FileUpload) error {
	return validateFile(f, "video", s.limits.VideoTypes, s.limits.MaxVideoBytes)
}

func (s *VideoService) validateThumbnailFile(f *FileUpload) error {
	return validateFile(f, "thumbnail", s.limits.ThumbnailTypes, s.limits.MaxThumbnailBytes)
}

func validateFile(f *FileUpload, field string, allowed []string, maxBytes int64) error {
	ok := false
	for _, t := range allowed {
		if f.ContentType == t {
			ok = true
			break
		}
	}
	if !ok {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("unsupported %s type %q", field, f.ContentType),
		}
	}
	if maxBytes > 0 && f.Size > maxBytes {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s exceeds the %d byte limit", field, maxBytes),
		}
	}
	return nil
}
