package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retaildash/backend/internal/interfaces/http/dto"
)

// HealthCheck probes one backing service
type HealthCheck func(ctx context.Context) error

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name         string
	version      string
	startTime    time.Time
	checks       map[string]HealthCheck
	checkTimeout time.Duration
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string) *SystemHandler {
	return &SystemHandler{
		name:         name,
		version:      version,
		startTime:    time.Now(),
		checks:       make(map[string]HealthCheck),
		checkTimeout: 2 * time.Second,
	}
}

// AddCheck registers a dependency probed by Health
func (h *SystemHandler) AddCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// HealthResponse reports the state of the service and its dependencies
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// Health probes every registered dependency. Any failure yields 503.
// It is served at the root, outside the documented API.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Checks:    make(map[string]string, len(h.checks)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.checkTimeout)
		err := h.checks[name](ctx)
		cancel()
		if err != nil {
			resp.Status = "unhealthy"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// GetSystemInfo godoc
// @ID          getSystemInfo
// @Summary     Get system info
// @Description Returns the service name, version and uptime.
// @Tags        system
// @Produce     json
// @Success     200 {object} dto.Response{data=SystemInfoResponse}
// @Router      /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping godoc
// @ID          ping
// @Summary     Ping
// @Description Liveness check that touches no dependency.
// @Tags        system
// @Produce     json
// @Success     200 {object} dto.Response{data=PingResponse}
// @Router      /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
