package models

import (
	"time"

	"github.com/google/uuid"
)

// BeatType - тип бита.
type BeatType string

const (
	BeatTypeAnchor  BeatType = "anchor"
	BeatTypeDynamic BeatType = "dynamic"
)

// BeatsPerArc - полная арка содержит ровно 15 битов (индексы 0..14).
const BeatsPerArc = 15

// AnchorSlots - фиксированные позиции якорных битов: завязка, перелом,
// развязка. Слот присваивается ПОЗИЦИОННО по порядку массива из генерации,
// а не по заявленному LLM индексу (см. ArcService.CreateArc).
var AnchorSlots = [3]int{0, 7, 14}

// WorldBeat — один нарративный шаг арки на фиксированной позиции 0-14.
// Биты иммутабельны после создания; уникальность (arc_id, beat_index)
// гарантируется ограничением в БД.
type WorldBeat struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	ArcID              uuid.UUID `json:"arc_id" db:"arc_id"`
	BeatIndex          int       `json:"beat_index" db:"beat_index"`
	BeatType           BeatType  `json:"beat_type" db:"beat_type"`
	BeatName           string    `json:"beat_name" db:"beat_name"`
	Description        string    `json:"description" db:"description"`
	WorldDirectives    []string  `json:"world_directives" db:"world_directives"`
	EmergentStorylines []string  `json:"emergent_storylines" db:"emergent_storylines"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}
