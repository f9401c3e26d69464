package handler

import (
	"github.com/google/uuid"

	"story-engine/internal/models"
)

// APIError представляет стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
}

// CreateWorldRequest - тело POST /api/worlds.
type CreateWorldRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateArcRequest - тело POST /api/worlds/:id/arcs. Идея опциональна:
// пустая заменяется фиксированным значением по умолчанию. Имя арки не
// принимается - его задает первый сгенерированный якорь.
type CreateArcRequest struct {
	StoryIdea string `json:"storyIdea"`
}

// ProgressArcRequest - тело POST /api/worlds/:id/arcs/:arcId/progress.
// ActionContext опционален; при пустом значении контекстом генерации
// становятся последние события журнала мира.
type ProgressArcRequest struct {
	ActionContext string `json:"actionContext"`
}

// ProgressArcResponse - результат шага прогрессии. При completed = true
// beat отсутствует: арка завершена и новых битов не будет.
type ProgressArcResponse struct {
	Completed bool              `json:"completed"`
	Beat      *models.WorldBeat `json:"beat,omitempty"`
}

// RecordEventRequest - тело POST /api/worlds/:id/events.
type RecordEventRequest struct {
	EventType   string     `json:"eventType" binding:"required"`
	Description string     `json:"description" binding:"required"`
	ImpactLevel string     `json:"impactLevel" binding:"required"`
	ArcID       *uuid.UUID `json:"arcId"`
	BeatID      *uuid.UUID `json:"beatId"`
}
