package handlers

import (
	"gorent/pkg/logger"
	"gorent/pkg/ws"

	"github.com/gin-gonic/gin"
)

type WSHandler struct {
	hub    *ws.Hub
	logger *logger.Logger
}

func NewWSHandler(hub *ws.Hub, log *logger.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: log,
	}
}

// BookingFeed upgrades an admin console connection to a websocket carrying
// live booking lifecycle events, replacing dashboard polling.
func (h *WSHandler) BookingFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := ws.ServeWS(h.hub, c.Writer, c.Request, userID); err != nil {
		h.logger.WithError(err).WithUserID(userID).Warn("Websocket upgrade failed")
		return
	}

	h.logger.WithUserID(userID).Info("Admin console connected to booking feed")
}
