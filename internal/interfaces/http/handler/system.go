package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/bergizi/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

const healthTimeout = 2 * time.Second

// DBPinger reports database reachability
type DBPinger interface {
	Ping(ctx context.Context) error
}

// BridgeStatus reports whether the Redis realtime bridge is subscribed
type BridgeStatus interface {
	Running() bool
}

// SystemHandler serves health and system information endpoints
type SystemHandler struct {
	BaseHandler
	db        DBPinger
	bridge    BridgeStatus
	version   string
	clock     clockwork.Clock
	startTime time.Time
}

// NewSystemHandler creates a system handler. bridge is nil when realtime is
// disabled.
func NewSystemHandler(db DBPinger, bridge BridgeStatus, version string, clock clockwork.Clock) *SystemHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if version == "" {
		version = "dev"
	}
	return &SystemHandler{
		db:        db,
		bridge:    bridge,
		version:   version,
		clock:     clock,
		startTime: clock.Now(),
	}
}

// HealthResponse is the health probe body
type HealthResponse struct {
	Status         string `json:"status" example:"healthy"`
	Database       string `json:"database" example:"connected"`
	RealtimeBridge string `json:"realtime_bridge" example:"running"`
	Time           string `json:"time" example:"2026-01-23T12:00:00Z"`
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Reports database and realtime bridge state. Returns 503 when the database is unreachable.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:         "healthy",
		Database:       "connected",
		RealtimeBridge: "disabled",
		Time:           h.clock.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	if h.db == nil || h.db.Ping(ctx) != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		status = http.StatusServiceUnavailable
	}

	if h.bridge != nil {
		if h.bridge.Running() {
			resp.RealtimeBridge = "running"
		} else {
			// events still reach local subscribers
			resp.RealtimeBridge = "reconnecting"
			if status == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}

	c.JSON(status, resp)
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"Bergizi-ID API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemSystemInfo
// @Summary      Get system information
// @Description  Returns basic system information including version and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "Bergizi-ID API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    h.clock.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Description  Simple ping endpoint to check if the API is responsive
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(PingResponse{
		Message:   "pong",
		Timestamp: h.clock.Now().UTC().Format(time.RFC3339),
	}))
}
