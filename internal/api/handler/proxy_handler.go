package handler

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scholarbridge/assistant-api/internal/core/ports"
)

// successResponse is the unified envelope for every proxied 2xx response.
type successResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// ProxyHandler relays authenticated requests to the AI backend. Handlers
// are stateless; each inbound request maps to exactly one outbound call.
type ProxyHandler struct {
	proxy      ports.ProxyService
	demoUserID string
}

// NewProxyHandler creates a ProxyHandler. demoUserID is the identity
// forwarded on the chat history route when the caller has no session.
func NewProxyHandler(proxy ports.ProxyService, demoUserID string) *ProxyHandler {
	return &ProxyHandler{proxy: proxy, demoUserID: demoUserID}
}

// Dashboard handles GET /api/applications/dashboard.
//
// @Summary      Application dashboard
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/applications/dashboard [get]
func (h *ProxyHandler) Dashboard(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	data, err := h.proxy.Dashboard(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Data: data})
}

// Insights handles GET /api/insights, forwarding the caller's session token
// as the upstream bearer credential.
//
// @Summary      Scholarship insights
// @Tags         insights
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/insights [get]
func (h *ProxyHandler) Insights(c echo.Context) error {
	_, token, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	data, err := h.proxy.Insights(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Data: data})
}

// ChatHistory handles GET /api/chat-orchestrator/history. The sessionId
// query parameter is required and checked before any outbound call; the
// forwarded identity falls back to the configured demo user when the
// request carries no session.
//
// @Summary      Chat history
// @Tags         chat-orchestrator
// @Produce      json
// @Param        sessionId  query     string  true  "Chat session id"
// @Success      200  {object}  successResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/chat-orchestrator/history [get]
func (h *ProxyHandler) ChatHistory(c echo.Context) error {
	sessionID := c.QueryParam("sessionId")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing sessionId")
	}

	userID := ctxOptionalUserID(c, h.demoUserID)

	data, err := h.proxy.ChatHistory(c.Request().Context(), userID, sessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, successResponse{Success: true, Data: data})
}
