package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// File is one part of a multipart submission.
type File struct {
	Field       string
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Form is a multipart payload: plain fields plus zero or more files.
type Form struct {
	Fields map[string]string
	Files  []File
}

// SubmitForm streams a multipart request. onProgress, when non-nil, receives
// the transfer percentage (0-100) computed over the file bytes; it is only
// ever called with increasing values. Progress says nothing about success:
// only the returned error decides the outcome.
func (c *Client) SubmitForm(ctx context.Context, method, path string, form Form, out any, onProgress func(pct int)) error {
	var total int64
	for _, f := range form.Files {
		total += f.Size
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeForm(mw, form, total, onProgress)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, pr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, out)
}

func writeForm(mw *multipart.Writer, form Form, total int64, onProgress func(pct int)) error {
	for name, value := range form.Fields {
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}

	var written int64
	for _, f := range form.Files {
		part, err := mw.CreatePart(fileHeader(f))
		if err != nil {
			return fmt.Errorf("create part %s: %w", f.Field, err)
		}
		n, err := io.Copy(&progressWriter{
			dst:        part,
			base:       written,
			total:      total,
			onProgress: onProgress,
		}, f.Reader)
		if err != nil {
			return fmt.Errorf("copy %s: %w", f.Field, err)
		}
		written += n
	}
	return nil
}

func fileHeader(f File) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, escapeQuotes(f.Name)))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	return h
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

type progressWriter struct {
	dst        io.Writer
	base       int64
	total      int64
	written    int64
	last       int
	onProgress func(pct int)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	w.written += int64(n)
	if w.onProgress != nil && w.total > 0 {
		pct := int((w.base + w.written) * 100 / w.total)
		if pct > 100 {
			pct = 100
		}
		if pct > w.last {
			w.last = pct
			w.onProgress(pct)
		}
	}
	return n, err
}
