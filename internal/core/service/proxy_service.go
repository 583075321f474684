package service

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/scholarbridge/assistant-api/internal/core/ports"
)

// ProxyService translates one inbound request into one outbound call against
// the AI backend and relays the result. It holds no per-request state.
type ProxyService struct {
	gateway ports.UpstreamGateway
	logger  zerolog.Logger
}

func NewProxyService(gateway ports.UpstreamGateway, logger zerolog.Logger) *ProxyService {
	return &ProxyService{gateway: gateway, logger: logger}
}

// Dashboard fetches the application dashboard for one user, identified to
// the upstream by the x-user-id header.
func (s *ProxyService) Dashboard(ctx context.Context, userID string) (json.RawMessage, error) {
	data, err := s.gateway.Get(ctx, "/dashboard/"+url.PathEscape(userID), nil, ports.UpstreamIdentity{UserID: userID})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("dashboard proxy failed")
		return nil, err
	}
	return data, nil
}

// Insights forwards the caller's session token as a bearer credential.
func (s *ProxyService) Insights(ctx context.Context, token string) (json.RawMessage, error) {
	data, err := s.gateway.Get(ctx, "/insights", nil, ports.UpstreamIdentity{Bearer: token})
	if err != nil {
		s.logger.Error().Err(err).Msg("insights proxy failed")
		return nil, err
	}
	return data, nil
}

// ChatHistory forwards the chat session id as a query parameter. The userID
// is whichever identity the handler resolved: the authenticated user or the
// configured demo fallback.
func (s *ProxyService) ChatHistory(ctx context.Context, userID, sessionID string) (json.RawMessage, error) {
	query := url.Values{"sessionId": {sessionID}}
	data, err := s.gateway.Get(ctx, "/chat/history", query, ports.UpstreamIdentity{UserID: userID})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("chat_session_id", sessionID).Msg("chat history proxy failed")
		return nil, err
	}
	return data, nil
}
