package models

import "time"

type Video struct {
	ID           string    `json:"_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Renderable reports whether the record is complete enough to show in a
// list. The backend has been observed returning half-written records
// during uploads; those are filtered out instead of rendered blank.
func (v Video) Renderable() bool {
	return v.ID != "" && v.Title != "" && v.ThumbnailURL != ""
}

type VideoStats struct {
	TotalVideos int `json:"totalVideos"`
}
