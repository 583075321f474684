package ports

import (
	"context"
	"encoding/json"
	"net/url"
)

// UpstreamIdentity selects how the outbound call identifies the caller:
// a bearer Authorization header, an x-user-id header, or both.
type UpstreamIdentity struct {
	Bearer string
	UserID string
}

// UpstreamGateway issues a single GET against the AI backend and returns
// the raw JSON body of a 2xx response. Non-2xx responses surface as
// *domain.UpstreamError; transport failures wrap domain.ErrUpstreamUnavailable.
type UpstreamGateway interface {
	Get(ctx context.Context, path string, query url.Values, identity UpstreamIdentity) (json.RawMessage, error)
}

// ProxyService exposes the authenticated proxy operations.
type ProxyService interface {
	Dashboard(ctx context.Context, userID string) (json.RawMessage, error)
	Insights(ctx context.Context, token string) (json.RawMessage, error)
	ChatHistory(ctx context.Context, userID, sessionID string) (json.RawMessage, error)
}
