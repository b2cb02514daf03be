package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/bloxcord/bloxcord-server/internal/config"
	"github.com/bloxcord/bloxcord-server/internal/core"
)

// NewServer builds the HTTP server: health, REST API, and the websocket
// endpoint the overlay client speaks the realtime protocol over. The
// websocket route bypasses gin: Accept hijacks the connection, which gin's
// wrapped ResponseWriter does not support.
func NewServer(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	api := NewAPIHandlers(hub, logger)
	router.POST("/api/channels", api.CreateChannel)
	router.GET("/api/games", api.ListGames)

	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, cfg.MessageRateLimit, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
