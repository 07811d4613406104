package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bergizi/backend/internal/infrastructure/realtime"
	"github.com/bergizi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	defaultMaxReplay = 50
	replayWriteWait  = 5 * time.Second
)

// ReplaySource reads the stored payloads of a channel, newest first
type ReplaySource interface {
	RecentRaw(ctx context.Context, channel string, limit int) ([][]byte, error)
}

// RealtimeConfig tunes the realtime endpoints
type RealtimeConfig struct {
	ClientBuffer int
	// MaxReplay caps ?replay=
	MaxReplay int
	// PongWait is how long a WebSocket peer may stay silent
	PongWait time.Duration
	// AllowedOrigins for WebSocket upgrades. Empty or "*" allows any origin.
	AllowedOrigins []string
}

// RealtimeHandler connects browsers to the dashboard event stream
type RealtimeHandler struct {
	BaseHandler
	hub      *realtime.Hub
	history  ReplaySource
	channels realtime.Channels
	cfg      RealtimeConfig
	upgrader websocket.Upgrader
	clock    clockwork.Clock
	logger   *zap.Logger
}

// NewRealtimeHandler creates a realtime handler. history may be nil, in
// which case nothing is replayed.
func NewRealtimeHandler(hub *realtime.Hub, history ReplaySource, channels realtime.Channels, cfg RealtimeConfig, clock clockwork.Clock, logger *zap.Logger) *RealtimeHandler {
	if cfg.MaxReplay <= 0 {
		cfg.MaxReplay = defaultMaxReplay
	}
	if cfg.ClientBuffer <= 0 {
		cfg.ClientBuffer = 64
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &RealtimeHandler{
		hub:      hub,
		history:  history,
		channels: channels,
		cfg:      cfg,
		clock:    clock,
		logger:   logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// SSE godoc
// @Summary      Dashboard event stream (SSE)
// @Description  Server-sent events of the caller's dashboard channel. Platform users also receive platform events and may pick an SPPG with tenant_id. The token may be passed as ?token=.
// @Tags         realtime
// @Produce      text/event-stream
// @Param        replay query int false "Stored events to send first, max 50"
// @Param        tenant_id query string false "SPPG to follow, platform users only" format(uuid)
// @Success      200 {string} string "event stream"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /realtime/sse [get]
func (h *RealtimeHandler) SSE(c *gin.Context) {
	client, ok := h.newClient(c, realtime.TransportSSE)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.hub.Register(client); err != nil {
		h.rejectClient(c, err)
		return
	}
	defer h.hub.Unregister(client)
	// Live messages published while history is read wait in the client buffer.
	replay := h.replay(ctx, client.Channels(), h.replayCount(c))

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	w := c.Writer
	for _, payload := range replay {
		if err := realtime.WriteSSE(w, realtime.Message{Kind: realtime.KindEvent, Payload: payload}); err != nil {
			return
		}
	}
	if err := realtime.ServeSSE(ctx, w, w.Flush, client); err != nil {
		h.logger.Debug("SSE stream ended", zap.String("client_id", client.ID), zap.Error(err))
	}
}

// WebSocket godoc
// @Summary      Dashboard event stream (WebSocket)
// @Description  Same events as the SSE stream as text frames. Keep-alives are ping frames. The token may be passed as ?token=.
// @Tags         realtime
// @Param        replay query int false "Stored events to send first, max 50"
// @Param        tenant_id query string false "SPPG to follow, platform users only" format(uuid)
// @Param        token query string false "Access token"
// @Success      101 {string} string "switching protocols"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /realtime/ws [get]
func (h *RealtimeHandler) WebSocket(c *gin.Context) {
	client, ok := h.newClient(c, realtime.TransportWebSocket)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.hub.Register(client); err != nil {
		h.rejectClient(c, err)
		return
	}
	defer h.hub.Unregister(client)
	// Live messages published while history is read wait in the client buffer.
	replay := h.replay(ctx, client.Channels(), h.replayCount(c))

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the error response
		h.logger.Debug("WebSocket upgrade failed", zap.Error(err))
		return
	}

	for _, payload := range replay {
		_ = conn.SetWriteDeadline(h.clock.Now().Add(replayWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			return
		}
	}

	writer := realtime.NewWebSocketWriter(conn, client, h.clock, h.cfg.PongWait)
	if err := writer.Serve(ctx); err != nil {
		h.logger.Debug("WebSocket stream ended", zap.String("client_id", client.ID), zap.Error(err))
	}
}

// newClient binds the caller to their channels. SPPG users follow their own
// dashboard. Platform users follow the platform channel and, when they name
// one, an SPPG's dashboard.
func (h *RealtimeHandler) newClient(c *gin.Context, transport realtime.Transport) (*realtime.Client, bool) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return nil, false
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid user ID in token")
		return nil, false
	}

	var tenantID uuid.UUID
	var channels []string
	if claims.IsPlatform() {
		channels = append(channels, h.channels.Platform())
		ref := c.Query("tenant_id")
		if ref == "" {
			ref = c.GetHeader(middleware.TenantHeaderKey)
		}
		if ref != "" {
			tenantID, err = uuid.Parse(ref)
			if err != nil || tenantID == uuid.Nil {
				h.BadRequest(c, "Invalid tenant ID format")
				return nil, false
			}
		}
	} else {
		tenantID, err = claims.GetTenantUUID()
		if err != nil || tenantID == uuid.Nil {
			h.Unauthorized(c, "Token carries no SPPG")
			return nil, false
		}
	}
	if tenantID != uuid.Nil {
		channels = append(channels, h.channels.Dashboard(tenantID))
	}

	return realtime.NewClient(transport, tenantID, userID, channels, h.cfg.ClientBuffer), true
}

func (h *RealtimeHandler) replayCount(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("replay"))
	if err != nil || n <= 0 {
		return 0
	}
	if n > h.cfg.MaxReplay {
		return h.cfg.MaxReplay
	}
	return n
}

// replay returns up to n stored payloads per channel, oldest first. A
// failing history read only costs the replay.
func (h *RealtimeHandler) replay(ctx context.Context, channels []string, n int) [][]byte {
	if n == 0 || h.history == nil {
		return nil
	}
	var out [][]byte
	for _, ch := range channels {
		stored, err := h.history.RecentRaw(ctx, ch, n)
		if err != nil {
			h.logger.Warn("Realtime replay unavailable", zap.String("channel", ch), zap.Error(err))
			continue
		}
		for i := len(stored) - 1; i >= 0; i-- {
			out = append(out, stored[i])
		}
	}
	return out
}

func (h *RealtimeHandler) rejectClient(c *gin.Context, err error) {
	if errors.Is(err, realtime.ErrTooManyClients) {
		h.ServiceUnavailable(c, "Too many realtime connections")
		return
	}
	h.HandleError(c, err)
}

func (h *RealtimeHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range h.cfg.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}
