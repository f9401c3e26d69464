package models

import (
	"time"

	"github.com/google/uuid"
)

// ArcStatus - статус арки.
type ArcStatus string

const (
	ArcStatusActive    ArcStatus = "active"
	ArcStatusCompleted ArcStatus = "completed"
)

// Фолбэк-литералы при создании арки. Фиксированный контракт, не менять.
const (
	DefaultArcName      = "Untitled World Arc"
	DefaultArcStoryIdea = "Auto-generated world story arc"
)

// FallbackArcSummary используется, когда генерация итогового summary
// не удалась: завершение арки никогда не падает из-за проблем генерации.
const FallbackArcSummary = "Arc completed without significant world changes."

// WorldArc — один полный нарративный цикл мира из ровно 15 битов.
// ArcNumber последователен в рамках мира (1-based). Переход статуса
// строго active -> completed; после завершения арка иммутабельна,
// кроме Summary/CompletedAt, выставляемых ровно один раз.
type WorldArc struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	WorldID     uuid.UUID  `json:"world_id" db:"world_id"`
	ArcNumber   int        `json:"arc_number" db:"arc_number"`
	StoryName   string     `json:"story_name" db:"story_name"`
	StoryIdea   string     `json:"story_idea" db:"story_idea"`
	Status      ArcStatus  `json:"status" db:"status"`
	Summary     *string    `json:"summary,omitempty" db:"summary"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// ArcWithAnchors - результат создания арки: сама арка и три якорных бита.
type ArcWithAnchors struct {
	Arc     *WorldArc   `json:"arc"`
	Anchors []WorldBeat `json:"anchors"`
}
