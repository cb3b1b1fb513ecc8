package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/mangareader/internal/common"
	"github.com/dmitrijs2005/mangareader/internal/logging"
	"github.com/google/uuid"
)

// Client is the transport contract the services depend on.
type Client interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
	PostJSON(ctx context.Context, path string, body any, out any) error
	PutJSON(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, out any) error
	Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error
	Origin() string
}

// HTTPClient talks JSON to the REST backend.
type HTTPClient struct {
	baseURL   *url.URL
	http      *http.Client
	token     func() string
	requestID func() string
	logger    logging.Logger
}

type Option func(*HTTPClient)

func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// WithTokenSource sets the credential lookup consulted on every request.
func WithTokenSource(f func() string) Option {
	return func(c *HTTPClient) { c.token = f }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewHTTPClient parses baseURL (e.g. "http://localhost:5000/api") and applies opts.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}

	c := &HTTPClient{
		baseURL:   u,
		http:      &http.Client{Timeout: 15 * time.Second},
		token:     func() string { return "" },
		requestID: uuid.NewString,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Origin is the backend root without the trailing /api segment. Relative
// asset paths such as /uploads/x.jpg are served from here.
func (c *HTTPClient) Origin() string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/api")
	u.RawQuery = ""
	return strings.TrimRight(u.String(), "/")
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *HTTPClient) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, c.endpoint(path, query), nil, out)
}

func (c *HTTPClient) PostJSON(ctx context.Context, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPost, c.endpoint(path, nil), body, out)
}

func (c *HTTPClient) PutJSON(ctx context.Context, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPut, c.endpoint(path, nil), body, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, c.endpoint(path, nil), nil, out)
}

// Upload sends r as a single multipart/form-data file part named field.
func (c *HTTPClient) Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read upload %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, out)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, target string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	ctx := req.Context()
	requestID := c.requestID()

	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if token := c.token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	log := c.logger.With("request_id", requestID, "method", req.Method, "url", req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	return nil
}
