// Package upstream implements the HTTP gateway to the external AI backend.
// Every call is a single GET with a deadline derived from the inbound
// request context; there is no retry and no fan-out.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/scholarbridge/assistant-api/internal/api/metrics"
	"github.com/scholarbridge/assistant-api/internal/core/domain"
	"github.com/scholarbridge/assistant-api/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// maxBodyBytes bounds how much of an upstream response is read.
const maxBodyBytes = 4 << 20

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// New creates a Client for the given base URL. A non-positive timeout
// falls back to the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

// Get implements ports.UpstreamGateway.
func (c *Client) Get(ctx context.Context, path string, query url.Values, identity ports.UpstreamIdentity) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if identity.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+identity.Bearer)
	}
	if identity.UserID != "" {
		req.Header.Set("x-user-id", identity.UserID)
	}

	route := routeLabel(path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(route, "error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues(route, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{
			Status:  resp.StatusCode,
			Message: errorMessage(body),
		}
	}

	return json.RawMessage(body), nil
}

// routeLabel keeps metric cardinality bounded: only the first path segment
// identifies the upstream route (ids and query values are dropped).
func routeLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "root"
	}
	return trimmed
}

// errorMessage extracts a best-effort message from an upstream error body.
// Both {"message": ...} and {"error": ...} shapes occur.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "Backend error"
}
