package handler

import (
	"story-engine/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WorldHandler обрабатывает HTTP запросы движка миров.
type WorldHandler struct {
	worldService service.WorldService
	arcService   service.ArcService
	logger       *zap.Logger
}

// NewWorldHandler создает новый WorldHandler.
func NewWorldHandler(worldService service.WorldService, arcService service.ArcService, logger *zap.Logger) *WorldHandler {
	return &WorldHandler{
		worldService: worldService,
		arcService:   arcService,
		logger:       logger.Named("WorldHandler"),
	}
}

// RegisterRoutes регистрирует маршруты движка миров.
func (h *WorldHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api")
	{
		worlds := api.Group("/worlds")
		{
			worlds.POST("", h.createWorld)
			worlds.GET("", h.listWorlds)
			worlds.GET("/:worldId", h.getWorld)
			worlds.GET("/:worldId/state", h.getWorldState)
			worlds.GET("/:worldId/arcs", h.listWorldArcs)
			worlds.POST("/:worldId/arcs", h.createArc)
			worlds.POST("/:worldId/arcs/:arcId/progress", h.progressArc)
			worlds.POST("/:worldId/arcs/:arcId/complete", h.completeArc)
			worlds.POST("/:worldId/events", h.recordEvent)
		}
	}
}
