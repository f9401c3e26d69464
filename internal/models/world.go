package models

import (
	"time"

	"github.com/google/uuid"
)

// World — персистентная нарративная вселенная. Владеет последовательностью
// арок, из которых активна максимум одна (CurrentArcID).
type World struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description" db:"description"`
	CurrentArcID *uuid.UUID `json:"current_arc_id,omitempty" db:"current_arc_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// WorldState — составной read-only снапшот мира для внешних потребителей.
// Без кэширования: всегда отражает последнее персистентное состояние.
type WorldState struct {
	World        *World       `json:"world"`
	CurrentArc   *WorldArc    `json:"current_arc"`
	CurrentBeats []WorldBeat  `json:"current_beats"`
	RecentEvents []WorldEvent `json:"recent_events"`
}
