package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType - источник события мира.
type EventType string

const (
	EventTypePlayerAction EventType = "player_action"
	EventTypeSystemEvent  EventType = "system_event"
	EventTypeWorldEvent   EventType = "world_event"
)

// IsValid проверяет, что значение входит в допустимый набор.
func (t EventType) IsValid() bool {
	switch t {
	case EventTypePlayerAction, EventTypeSystemEvent, EventTypeWorldEvent:
		return true
	}
	return false
}

// ImpactLevel - степень влияния события на мир.
type ImpactLevel string

const (
	ImpactMinor    ImpactLevel = "minor"
	ImpactModerate ImpactLevel = "moderate"
	ImpactMajor    ImpactLevel = "major"
)

// IsValid проверяет, что значение входит в допустимый набор.
func (l ImpactLevel) IsValid() bool {
	switch l {
	case ImpactMinor, ImpactModerate, ImpactMajor:
		return true
	}
	return false
}

// WorldEvent — запись append-only журнала событий мира. Используется как
// контекст для генерации битов и как audit trail; опционально привязана
// к арке/биту.
type WorldEvent struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	WorldID     uuid.UUID   `json:"world_id" db:"world_id"`
	ArcID       *uuid.UUID  `json:"arc_id,omitempty" db:"arc_id"`
	BeatID      *uuid.UUID  `json:"beat_id,omitempty" db:"beat_id"`
	EventType   EventType   `json:"event_type" db:"event_type"`
	ImpactLevel ImpactLevel `json:"impact_level" db:"impact_level"`
	Description string      `json:"description" db:"description"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}
