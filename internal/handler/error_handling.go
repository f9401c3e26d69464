package handler

import (
	"errors"
	"net/http"

	"story-engine/internal/generation"
	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError транслирует ошибки сервисного слоя в HTTP статусы.
// Внутренние детали наружу не уходят: для 500 клиент видит только
// стандартное сообщение.
func (h *WorldHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrWorldNotFound),
		errors.Is(err, models.ErrArcNotFound),
		errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, APIError{Message: err.Error()})
	case errors.Is(err, models.ErrBeatIndexConflict),
		errors.Is(err, models.ErrArcAlreadyComplete):
		c.JSON(http.StatusConflict, APIError{Message: err.Error()})
	case errors.Is(err, models.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	case errors.Is(err, models.ErrInvalidGenerationResult):
		h.logger.Error("Generation result rejected", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, APIError{Message: models.ErrInvalidGenerationResult.Error()})
	case errors.Is(err, generation.ErrAIGenerationFailed):
		h.logger.Error("Upstream generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, APIError{Message: generation.ErrAIGenerationFailed.Error()})
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Message: models.ErrInternalServer.Error()})
	}
}
