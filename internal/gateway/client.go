// Package gateway issues read, replace, create and delete calls against the
// remote kanban service. Every call is a single attempt: failures surface as
// *models.AuthError or *models.ServiceError and callers decide what to do.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thenoetrevino/trellis/internal/models"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.trello.com"

// maxErrorBody bounds how much of a failed response body ends up in an error.
const maxErrorBody = 512

// Params holds field-selection and query parameters. They are passed to the
// service verbatim.
type Params map[string]string

// Resource is the four-operation protocol the navigator consumes.
type Resource interface {
	Get(ctx context.Context, path string, params Params, out any) error
	Put(ctx context.Context, path string, params Params, body any, out any) error
	Post(ctx context.Context, path string, params Params, body any, out any) error
	Delete(ctx context.Context, path string, params Params) error
}

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string

	// Key is the application key sent with every request.
	Key string

	// Token is the user's API token. It can be replaced later with SetToken.
	Token string

	// HTTPClient defaults to http.DefaultClient. No timeout is applied.
	HTTPClient *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client is an authenticated REST client for the kanban service.
type Client struct {
	baseURL    string
	key        string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Resource = (*Client)(nil)

// NewClient creates a Client from the given configuration.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("gateway: invalid base URL %q: %w", baseURL, err)
	}
	if config.Key == "" {
		return nil, fmt.Errorf("gateway: an application key is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		key:        config.Key,
		token:      config.Token,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// SetToken replaces the token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the token currently in use.
func (c *Client) Token() string {
	return c.token
}

// Get reads a resource and decodes it into out.
func (c *Client) Get(ctx context.Context, path string, params Params, out any) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

// Put replaces a resource field set with body.
func (c *Client) Put(ctx context.Context, path string, params Params, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, params, body, out)
}

// Post creates a resource from body.
func (c *Client) Post(ctx context.Context, path string, params Params, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, params, body, out)
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, path string, params Params) error {
	return c.do(ctx, http.MethodDelete, path, params, nil, nil)
}

// do executes one request. Non-2xx responses are classified by classify;
// a nil out discards the response body.
func (c *Client) do(ctx context.Context, method, path string, params Params, body any, out any) error {
	requestID := uuid.NewString()
	started := time.Now()

	request, err := c.newRequest(ctx, method, path, params, body)
	if err != nil {
		return err
	}
	request.Header.Set("X-Request-Id", requestID)

	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Error("request failed", "request_id", requestID, "method", method, "path", path, "error", err)
		return &models.ServiceError{Method: method, Path: path, Message: err.Error(), Err: err}
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return &models.ServiceError{Status: response.StatusCode, Method: method, Path: path,
			Message: "reading response body: " + err.Error(), Err: err}
	}

	c.logger.Debug("request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"duration", time.Since(started),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return classify(method, path, response.StatusCode, payload)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &models.ServiceError{Status: response.StatusCode, Method: method, Path: path,
			Message: "decoding response: " + err.Error(), Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, params Params, body any) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	query := url.Values{}
	for name, value := range params {
		query.Set(name, value)
	}
	query.Set("key", c.key)
	if c.token != "" {
		query.Set("token", c.token)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gateway: encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), reader)
	if err != nil {
		return nil, fmt.Errorf("gateway: building %s %s: %w", method, path, err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	return request, nil
}
