package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFormFieldsAndFiles(t *testing.T) {
	var (
		gotTitle     string
		gotVideo     []byte
		gotVideoName string
		gotThumb     []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotTitle = r.FormValue("title")

		f, header, err := r.FormFile("video")
		require.NoError(t, err)
		gotVideo, _ = io.ReadAll(f)
		gotVideoName = header.Filename

		f2, _, err := r.FormFile("thumbnail")
		require.NoError(t, err)
		gotThumb, _ = io.ReadAll(f2)

		_, _ = w.Write([]byte(`{"status":"success","data":{"ok":true}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, fixedToken("tok"), "", zerolog.Nop())

	videoData := bytes.Repeat([]byte("v"), 4096)
	thumbData := []byte("thumb-bytes")

	form := Form{
		Fields: map[string]string{"title": "My Clip"},
		Files: []File{
			{Field: "video", Name: "clip.mp4", ContentType: "video/mp4", Size: int64(len(videoData)), Reader: bytes.NewReader(videoData)},
			{Field: "thumbnail", Name: "thumb.jpg", ContentType: "image/jpeg", Size: int64(len(thumbData)), Reader: bytes.NewReader(thumbData)},
		},
	}

	var progress []int
	err := c.SubmitForm(context.Background(), http.MethodPost, "/api/videos/upload", form, nil, func(pct int) {
		progress = append(progress, pct)
	})
	require.NoError(t, err)

	assert.Equal(t, "My Clip", gotTitle)
	assert.Equal(t, videoData, gotVideo)
	assert.Equal(t, "clip.mp4", gotVideoName)
	assert.Equal(t, thumbData, gotThumb)

	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1], "progress must never move backwards")
	}
}

func TestSubmitFormFileReadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, fixedToken(""), "", zerolog.Nop())

	form := Form{
		Files: []File{{
			Field:       "video",
			Name:        "clip.mp4",
			ContentType: "video/mp4",
			Size:        10,
			Reader:      io.MultiReader(strings.NewReader("abc"), failingReader{}),
		}},
	}

	err := c.SubmitForm(context.Background(), http.MethodPost, "/upload", form, nil, nil)
	require.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
