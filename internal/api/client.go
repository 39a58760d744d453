package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource yields the current bearer token. Empty means unauthenticated,
// which is not an error: public endpoints exist.
type TokenSource interface {
	Token() string
}

// Client is the single outbound gateway to the backend. It attaches the
// bearer token to every request and reports expired sessions through the
// OnSessionInvalid callback instead of navigating itself; the application
// shell owns the redirect.
type Client struct {
	base     string
	http     *http.Client
	tokens   TokenSource
	deviceID string
	log      zerolog.Logger

	onSessionInvalid func()
}

func New(baseURL string, timeout time.Duration, tokens TokenSource, deviceID string, logger zerolog.Logger) *Client {
	return &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
		deviceID: deviceID,
		log:      logger,
	}
}

// OnSessionInvalid registers the subscriber notified when an authenticated
// request comes back 401. A failed login never triggers it.
func (c *Client) OnSessionInvalid(fn func()) {
	c.onSessionInvalid = fn
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	c.decorate(req)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return c.decodeError(req, res)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func (c *Client) decorate(req *http.Request) {
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}
}

// envelope is the backend's response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type errorBody struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

func (c *Client) decodeError(req *http.Request, res *http.Response) error {
	var eb errorBody
	data, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	_ = json.Unmarshal(data, &eb)
	if eb.Message == "" {
		eb.Message = http.StatusText(res.StatusCode)
	}

	apiErr := &Error{
		StatusCode: res.StatusCode,
		Code:       eb.Code,
		Message:    eb.Message,
		Field:      eb.Field,
	}

	if res.StatusCode == http.StatusUnauthorized && !isAuthPath(req.URL.Path) {
		c.log.Warn().Str("path", req.URL.Path).Msg("authenticated request rejected, session invalid")
		if c.onSessionInvalid != nil {
			c.onSessionInvalid()
		}
	}

	return apiErr
}

// isAuthPath reports whether the request targeted the auth endpoints. A bad
// login must not wipe an unrelated, still-valid session.
func isAuthPath(path string) bool {
	return strings.Contains(path, "/auth/")
}
