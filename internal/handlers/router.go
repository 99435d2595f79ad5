package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	WS      *WSHandler
	History *HistoryHandler
	Packs   *PacksHandler
	Health  *HealthHandler
}

func NewRouter(h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/healthz", h.Health.Health)
	r.GET("/ws", h.WS.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		api.GET("/history", h.History.ListResults)
		api.GET("/history/:code", h.History.GetResult)
		api.GET("/packs", h.Packs.ListPacks)
	}

	return r
}
