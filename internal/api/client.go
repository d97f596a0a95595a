package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/vacationbid/internal/constants"
	"github.com/julianstephens/vacationbid/internal/logger"
)

// Config holds everything the client needs to talk to the backend.
// The CSRF token is passed in explicitly; nothing is looked up at call time.
type Config struct {
	BaseURL       string `validate:"required,url"`
	CSRFToken     string
	SessionCookie string // "name=value", sent with every request
	Timeout       time.Duration
	HTTPClient    *http.Client `validate:"-"`
}

// Client is a thin JSON client for the vacation backend
type Client struct {
	base      *url.URL
	csrfToken string
	http      *http.Client
}

type requestIDKey struct{}

// WithRequestID makes the client send id as the request's X-Request-Id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id set by WithRequestID, if any
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func NewClient(cfg Config) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid api config: %w", err)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	// a caller's client is copied so the jar below never leaks into it
	var hc *http.Client
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		hc = &c
	} else {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	if hc.Jar == nil || cfg.SessionCookie != "" {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	if cfg.SessionCookie != "" {
		cookies, err := http.ParseCookie(cfg.SessionCookie)
		if err != nil {
			return nil, fmt.Errorf("invalid session cookie: %w", err)
		}
		hc.Jar.SetCookies(base, cookies)
	}

	return &Client{base: base, csrfToken: cfg.CSRFToken, http: hc}, nil
}

func (c *Client) url(path, query string) string {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query
	return u.String()
}

// get issues a read. Only 200 is a success.
func (c *Client) get(ctx context.Context, path, query string) (json.RawMessage, error) {
	data, _, err := c.do(ctx, http.MethodGet, path, query, nil, http.StatusOK)
	return data, err
}

// send issues a write carrying the JSON body and the CSRF token.
// 200, 201 and 204 are successes; the status is returned so callers can
// tell an empty 204 apart from an explicit null payload.
func (c *Client) send(ctx context.Context, method, path string, body any) (json.RawMessage, int, error) {
	return c.do(ctx, method, path, "", body, http.StatusOK, http.StatusCreated, http.StatusNoContent)
}

func (c *Client) do(ctx context.Context, method, path, query string, body any, accept ...int) (json.RawMessage, int, error) {
	reqID := RequestIDFrom(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(constants.HeaderRequestID, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(constants.HeaderCSRFToken, c.csrfToken)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("Request failed", "request_id", reqID, "method", method, "path", path, "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	logger.Debug("Request completed",
		"request_id", reqID, "method", method, "path", path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if !statusIn(resp.StatusCode, accept) {
		_, _ = io.Copy(io.Discard, resp.Body)
		statusErr := &StatusError{Method: method, Path: path, Code: resp.StatusCode}
		if resp.StatusCode == http.StatusConflict && method == http.MethodPut {
			return nil, resp.StatusCode, errors.Join(ErrStaleRevision, statusErr)
		}
		return nil, resp.StatusCode, statusErr
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, resp.StatusCode, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return env.Data, resp.StatusCode, nil
}

func statusIn(code int, accept []int) bool {
	for _, a := range accept {
		if code == a {
			return true
		}
	}
	return false
}
