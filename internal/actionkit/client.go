package actionkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/groundswell-hq/actionkit-adapter/internal/httpclient"
	"github.com/groundswell-hq/actionkit-adapter/internal/metrics"
)

// Client wraps low-level HTTP communication with an ActionKit instance.
// Credentials are resolved once at construction (explicit values over
// ACTION_KIT_* environment variables) and are immutable afterwards; a Client
// is safe for concurrent use. Every call is a single authenticated attempt:
// no retries, no pagination following, no rate limiting.
type Client struct {
	creds   Credentials
	baseURL string
	logger  *zap.Logger
	exec    *httpclient.Executor
}

// NewClient constructs a new ActionKit HTTP client. Omitted credential fields
// fall back to the environment; construction fails with *ConfigurationError if
// any value is still missing. A nil httpClient gets a default with a 30s timeout.
func NewClient(logger *zap.Logger, httpClient *http.Client, explicit Credentials) (*Client, error) {
	creds, err := ResolveCredentials(explicit)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		creds:   creds,
		baseURL: creds.baseURL(),
		logger:  logger,
		exec:    httpclient.New(logger, httpClient, "actionkit"),
	}, nil
}

// Domain returns the instance domain the client was constructed for.
func (c *Client) Domain() string {
	return c.creds.Domain
}

// GetUser retrieves a single user record by numeric identifier.
// GET /rest/v1/user/{id}/
func (c *Client) GetUser(ctx context.Context, id int64) (Record, error) {
	var rec Record
	if err := c.getJSON(ctx, fmt.Sprintf("/user/%d/", id), nil, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListUsers retrieves one page of user records. Query params (_limit, _offset,
// field filters) pass through verbatim; the caller drives paging.
// GET /rest/v1/user/
func (c *Client) ListUsers(ctx context.Context, params url.Values) (*List, error) {
	var page List
	if err := c.getJSON(ctx, "/user/", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateUser creates a user and returns the URI of the created resource from
// the Location header (ActionKit answers 201 with an empty body).
// POST /rest/v1/user/
func (c *Client) CreateUser(ctx context.Context, fields Record) (string, error) {
	return c.postJSON(ctx, "/user/", fields)
}

// UpdateUser applies a partial update to a user record.
// PATCH /rest/v1/user/{id}/
func (c *Client) UpdateUser(ctx context.Context, id int64, fields Record) error {
	_, err := c.send(ctx, http.MethodPatch, fmt.Sprintf("/user/%d/", id), nil, fields)
	return err
}

// DeleteUser removes a user record.
// DELETE /rest/v1/user/{id}/
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	_, err := c.send(ctx, http.MethodDelete, fmt.Sprintf("/user/%d/", id), nil, nil)
	return err
}

// GetPage retrieves a page (petition, signup, donation page) record.
// GET /rest/v1/page/{id}/
func (c *Client) GetPage(ctx context.Context, id int64) (Record, error) {
	var rec Record
	if err := c.getJSON(ctx, fmt.Sprintf("/page/%d/", id), nil, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateAction records a generic action against a page, returning the created
// resource URI.
// POST /rest/v1/action/
func (c *Client) CreateAction(ctx context.Context, fields Record) (string, error) {
	return c.postJSON(ctx, "/action/", fields)
}

// GetOrder retrieves a donation order record.
// GET /rest/v1/order/{id}/
func (c *Client) GetOrder(ctx context.Context, id int64) (Record, error) {
	var rec Record
	if err := c.getJSON(ctx, fmt.Sprintf("/order/%d/", id), nil, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// getJSON performs an authenticated GET request and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	res, err := c.send(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(res.Body, out); err != nil {
		c.logger.Warn("actionkit.decode_failed",
			zap.String("path", path),
			zap.Error(err))
		return &ParseError{URL: c.baseURL + path, Err: err}
	}
	return nil
}

// postJSON performs an authenticated POST and returns the Location header of
// the created resource, decoding a body only when the vendor sends one.
func (c *Client) postJSON(ctx context.Context, path string, body any) (string, error) {
	res, err := c.send(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return "", err
	}
	if loc := res.Header.Get("Location"); loc != "" {
		return loc, nil
	}
	if len(res.Body) > 0 {
		var rec Record
		if err := json.Unmarshal(res.Body, &rec); err != nil {
			return "", &ParseError{URL: c.baseURL + path, Err: err}
		}
		return rec.String("resource_uri"), nil
	}
	return "", nil
}

// send executes one authenticated request and classifies the outcome:
// transport failures become *TransportError, non-success statuses become
// *RemoteAPIError, anything else is handed back raw.
func (c *Client) send(ctx context.Context, method, path string, params url.Values, body any) (*httpclient.Result, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	endpoint := endpointTag(path)
	start := time.Now()
	res, err := c.exec.Do(req)
	metrics.ObserveDuration(metrics.ActionKitRequestDuration, start, endpoint, method)
	if err != nil {
		metrics.IncActionKitRequest(endpoint, method, "transport_error")
		return nil, &TransportError{URL: fullURL, Err: err}
	}
	metrics.IncActionKitRequest(endpoint, method, strconv.Itoa(res.Status))

	if res.Status >= 400 {
		return nil, &RemoteAPIError{StatusCode: res.Status, Body: res.Body}
	}
	return res, nil
}

// endpointTag reduces a resource path to its first segment for metric labels
// ("/user/123/" → "user") so identifiers never become label values.
func endpointTag(path string) string {
	trimmed := strings.Trim(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		return trimmed[:i]
	}
	return trimmed
}
