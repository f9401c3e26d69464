package handler

import (
	"net/http"

	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// parseUUIDParam извлекает и валидирует UUID-параметр пути.
func (h *WorldHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid " + name + " format"})
		return uuid.Nil, false
	}
	return id, true
}

// createWorld обрабатывает POST /api/worlds.
func (h *WorldHandler) createWorld(c *gin.Context) {
	var req CreateWorldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body: " + err.Error()})
		return
	}

	world, err := h.worldService.CreateWorld(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, world)
}

// listWorlds обрабатывает GET /api/worlds.
func (h *WorldHandler) listWorlds(c *gin.Context) {
	worlds, err := h.worldService.ListWorlds(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if worlds == nil {
		worlds = []models.World{}
	}
	c.JSON(http.StatusOK, worlds)
}

// getWorld обрабатывает GET /api/worlds/:worldId.
func (h *WorldHandler) getWorld(c *gin.Context) {
	worldID, ok := h.parseUUIDParam(c, "worldId")
	if !ok {
		return
	}

	world, err := h.worldService.GetWorld(c.Request.Context(), worldID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, world)
}

// getWorldState обрабатывает GET /api/worlds/:worldId/state.
func (h *WorldHandler) getWorldState(c *gin.Context) {
	worldID, ok := h.parseUUIDParam(c, "worldId")
	if !ok {
		return
	}

	state, err := h.worldService.GetWorldState(c.Request.Context(), worldID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// listWorldArcs обрабатывает GET /api/worlds/:worldId/arcs.
func (h *WorldHandler) listWorldArcs(c *gin.Context) {
	worldID, ok := h.parseUUIDParam(c, "worldId")
	if !ok {
		return
	}

	arcs, err := h.worldService.GetWorldArcs(c.Request.Context(), worldID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if arcs == nil {
		arcs = []models.WorldArc{}
	}
	c.JSON(http.StatusOK, arcs)
}

// createArc обрабатывает POST /api/worlds/:worldId/arcs.
// Тело опционально: без него арка создается с идеей по умолчанию.
func (h *WorldHandler) createArc(c *gin.Context) {
	worldID, ok := h.parseUUIDParam(c, "worldId")
	if !ok {
		return
	}

	var req CreateArcRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body: " + err.Error()})
			return
		}
	}

	result, err := h.arcService.CreateArc(c.Request.Context(), worldID, req.StoryIdea)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.logger.Info("Arc created via API",
		zap.String("worldID", worldID.String()),
		zap.String("arcID", result.Arc.ID.String()))
	c.JSON(http.StatusCreated, result)
}

// progressArc обрабатывает POST /api/worlds/:worldId/arcs/:arcId/progress.
func (h *WorldHandler) progressArc(c *gin.Context) {
	worldID, ok := h.parseUUIDParam(c, "worldId")
	if !ok {
		return
	}
	arcID, ok := h.parseUUIDParam(c, "arcId")
	if !ok {
		return
	}

	var req ProgressArcRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body: " + err.Error()})
			return
		}
	}

	beat, completed, err := h.arcService.ProgressArc(c.Request.Context(), worldID, arcID, req.ActionContext)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProgressArcResponse{Completed: completed, Beat: beat})
}

// completeArc обрабатывает POST /api/worlds/:worldId/arcs/:arcId/complete.
func (h *WorldHandler) completeArc(c *gin.Context) {
	worldID, ok := h.parseUUIDParam(c, "worldId")
	if !ok {
		return
	}
	arcID, ok := h.parseUUIDParam(c, "arcId")
	if !ok {
		return
	}

	arc, err := h.arcService.CompleteArc(c.Request.Context(), worldID, arcID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, arc)
}

// recordEvent обрабатывает POST /api/worlds/:worldId/events.
func (h *WorldHandler) recordEvent(c *gin.Context) {
	worldID, ok := h.parseUUIDParam(c, "worldId")
	if !ok {
		return
	}

	var req RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "invalid request body: " + err.Error()})
		return
	}

	event, err := h.worldService.RecordWorldEvent(
		c.Request.Context(),
		worldID,
		models.EventType(req.EventType),
		req.Description,
		models.ImpactLevel(req.ImpactLevel),
		req.ArcID,
		req.BeatID,
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}
