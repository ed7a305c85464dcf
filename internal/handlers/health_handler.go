package handlers

import (
	"net/http"

	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/pkg/database"
	"gorent/pkg/ws"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	db    *database.MongoDB
	cache services.CacheService
	hub   *ws.Hub
}

func NewHealthHandler(db *database.MongoDB, cache services.CacheService, hub *ws.Hub) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
		hub:   hub,
	}
}

// Health reports liveness of the service and its backing stores.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := gin.H{
		"database": "ok",
		"cache":    "ok",
	}
	healthy := true

	if err := h.db.Ping(); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}
	if err := h.cache.Ping(c.Request.Context()); err != nil {
		checks["cache"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":     map[bool]string{true: "healthy", false: "degraded"}[healthy],
		"app":        utils.AppName,
		"version":    utils.AppVersion,
		"checks":     checks,
		"ws_clients": h.hub.ClientCount(),
	})
}
