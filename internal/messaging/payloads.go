package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Типы сообщений очереди world_updates.
const (
	UpdateTypeArcCreated   = "arc_created"
	UpdateTypeBeatCreated  = "beat_created"
	UpdateTypeArcCompleted = "arc_completed"
	UpdateTypeEventLogged  = "event_logged"
)

// AnchorInfo - краткое описание якорного бита в уведомлении о новой арке.
type AnchorInfo struct {
	BeatIndex int    `json:"beatIndex"`
	BeatName  string `json:"beatName"`
}

// ArcCreatedPayload публикуется после успешного создания арки с якорями.
type ArcCreatedPayload struct {
	WorldID     uuid.UUID    `json:"worldId"`
	ArcID       uuid.UUID    `json:"arcId"`
	ArcNumber   int          `json:"arcNumber"`
	StoryName   string       `json:"storyName"`
	Anchors     []AnchorInfo `json:"anchors"`
	MajorEvents []string     `json:"majorEvents,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// BeatCreatedPayload публикуется после генерации очередного бита.
type BeatCreatedPayload struct {
	WorldID   uuid.UUID `json:"worldId"`
	ArcID     uuid.UUID `json:"arcId"`
	BeatID    uuid.UUID `json:"beatId"`
	BeatIndex int       `json:"beatIndex"`
	BeatType  string    `json:"beatType"`
	BeatName  string    `json:"beatName"`
	CreatedAt time.Time `json:"createdAt"`
}

// ArcCompletedPayload публикуется после завершения арки. Поля помимо
// Summary заполняются только если генерация итога прошла успешно.
type ArcCompletedPayload struct {
	WorldID             uuid.UUID `json:"worldId"`
	ArcID               uuid.UUID `json:"arcId"`
	ArcNumber           int       `json:"arcNumber"`
	StoryName           string    `json:"storyName"`
	Summary             string    `json:"summary"`
	MajorChanges        []string  `json:"majorChanges,omitempty"`
	AffectedRegions     []string  `json:"affectedRegions,omitempty"`
	ThematicProgression string    `json:"thematicProgression,omitempty"`
	FutureImplications  []string  `json:"futureImplications,omitempty"`
	CompletedAt         time.Time `json:"completedAt"`
}

// EventLoggedPayload публикуется после записи события в журнал мира.
type EventLoggedPayload struct {
	WorldID     uuid.UUID  `json:"worldId"`
	EventID     uuid.UUID  `json:"eventId"`
	ArcID       *uuid.UUID `json:"arcId,omitempty"`
	BeatID      *uuid.UUID `json:"beatId,omitempty"`
	EventType   string     `json:"eventType"`
	Description string     `json:"description"`
	ImpactLevel string     `json:"impactLevel"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// worldUpdateEnvelope - обертка сообщения: тип + полезная нагрузка.
type worldUpdateEnvelope struct {
	UpdateType string `json:"updateType"`
	Payload    any    `json:"payload"`
}
