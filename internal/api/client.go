package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avicena/avicena/internal/domain"
	"github.com/avicena/avicena/internal/session"
	"github.com/google/uuid"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Avicena/1.0"
)

// TokenSource provides the bearer token for outgoing requests and is
// cleared when the server rejects it. *session.Store satisfies it.
type TokenSource interface {
	Token() string
	Clear() error
}

// Client performs authenticated requests against the admin API. A single
// instance is shared by every resource group so the 401 teardown policy
// is applied uniformly.
type Client struct {
	baseURL        string
	tokens         TokenSource
	httpClient     *http.Client
	logger         *slog.Logger
	onUnauthorized func()
}

// NewClient creates an API client rooted at baseURL (the fixed
// /api/v1 origin). tokens supplies the bearer token per request.
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// SetTimeout overrides the per-request HTTP timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// OnUnauthorized registers a callback fired after any 401 response, once
// the session store has been cleared. The failing operation still
// receives its error; the callback only drives navigation back to login.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

var _ TokenSource = (*session.Store)(nil)

// do performs one JSON request and returns the raw response body.
// No retry, no backoff: failures surface immediately to the caller.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	var reqBody io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.doRaw(ctx, method, path, query, contentType, reqBody)
}

// doRaw is the single execution point for every request: URL building,
// bearer injection, error taxonomy, and the 401 teardown all live here.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, contentType string, reqBody io.Reader) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL = reqURL + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "method", method, "url", reqURL, "error", err)
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp.StatusCode, respBody)
		c.logger.Error("api error", "method", method, "url", reqURL, "status", resp.StatusCode)
		if resp.StatusCode == http.StatusUnauthorized {
			// Uniform session teardown, independent of which resource
			// group issued the request. The error is still returned.
			if err := c.tokens.Clear(); err != nil {
				c.logger.Error("failed to clear session", "error", err)
			}
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return nil, apiErr
	}

	return respBody, nil
}

// parseAPIError builds an APIError from an error response body. Bodies are
// expected to be JSON with either a message or a field-level errors list;
// anything else degrades to the bare status code.
func parseAPIError(status int, body []byte) *domain.APIError {
	apiErr := &domain.APIError{Status: status}

	var parsed struct {
		Message string             `json:"message"`
		Error   string             `json:"error"`
		Errors  []domain.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Message = parsed.Message
		if apiErr.Message == "" {
			apiErr.Message = parsed.Error
		}
		apiErr.Errors = parsed.Errors
	}

	return apiErr
}

// get issues a GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

// send issues a write (POST/PUT/PATCH/DELETE) and decodes the response
// into out when out is non-nil.
func (c *Client) send(ctx context.Context, method, path string, reqBody, out any) error {
	body, err := c.do(ctx, method, path, nil, reqBody)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeInto(body, out)
}

// queryBuilder accumulates query parameters, omitting empty values so
// unset filters never reach the wire.
type queryBuilder struct {
	values url.Values
}

func newQuery() *queryBuilder {
	return &queryBuilder{values: url.Values{}}
}

func (q *queryBuilder) Set(key, value string) *queryBuilder {
	if value != "" {
		q.values.Set(key, value)
	}
	return q
}

func (q *queryBuilder) SetInt(key string, value int) *queryBuilder {
	if value != 0 {
		q.values.Set(key, strconv.Itoa(value))
	}
	return q
}

func (q *queryBuilder) SetBool(key string, value *bool) *queryBuilder {
	if value != nil {
		q.values.Set(key, strconv.FormatBool(*value))
	}
	return q
}

// SetIntPtr is for filters where zero is meaningful (dayOfWeek 0 = Sunday).
func (q *queryBuilder) SetIntPtr(key string, value *int) *queryBuilder {
	if value != nil {
		q.values.Set(key, strconv.Itoa(*value))
	}
	return q
}

func (q *queryBuilder) Values() url.Values {
	return q.values
}
