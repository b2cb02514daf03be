package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/bloxcord/bloxcord-server/internal/core"
)

// APIHandlers provides HTTP handlers for the REST endpoints.
type APIHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{hub: hub, log: logger}
}

// CreateChannelRequest represents the channel pre-create request body.
type CreateChannelRequest struct {
	ChannelID string `json:"channelId" binding:"required"`
	Username  string `json:"username" binding:"required"`
	UserID    int64  `json:"userId"`
	PlaceID   int64  `json:"placeId"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateChannel pre-creates a channel before the realtime connection opens.
// Superseded by create-on-join; kept for older clients.
// POST /api/channels
func (h *APIHandlers) CreateChannel(c *gin.Context) {
	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid create channel request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	snapshot, err := h.hub.CreateChannel(c.Request.Context(), req.ChannelID, req.Username, req.UserID, req.PlaceID)
	if err != nil {
		if errors.Is(err, core.ErrChannelNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid channel id"})
			return
		}
		h.log.Error().Err(err).Str("channel_id", req.ChannelID).Msg("failed to create channel")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("channel_id", req.ChannelID).Str("username", req.Username).Msg("channel pre-created")
	c.JSON(http.StatusCreated, snapshotData(snapshot))
}

// ListGames returns the live game/server aggregation, enriched with icons and
// display names when a metadata client is configured.
// GET /api/games
func (h *APIHandlers) ListGames(c *gin.Context) {
	games, err := h.hub.ListGames(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list games")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	// This path is synchronously awaited by the caller, so enrichment blocks
	// here rather than in the hub's dispatch loop.
	core.EnrichGames(c.Request.Context(), h.hub.Metadata(), games)
	c.JSON(http.StatusOK, gamesData(games))
}
