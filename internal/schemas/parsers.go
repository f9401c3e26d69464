package schemas

import (
	"encoding/json"
	"fmt"
	"strings"

	"story-engine/internal/models"
)

// Парсеры ответов генерации. Любое несоответствие формы - жесткая ошибка
// (ErrInvalidGenerationResult), без тихих коэрций: вызывающая сторона
// не должна персистить частичное состояние.

// ParseAnchorBatch разбирает JSON генерации якорей и проверяет контракт:
// ровно 3 якоря, заявленные индексы - перестановка {0, 7, 14},
// непустые имя и описание у каждого.
func ParseAnchorBatch(data []byte) (*models.AnchorBatch, error) {
	var batch models.AnchorBatch
	if err := json.Unmarshal(stripJSONFence(data), &batch); err != nil {
		return nil, fmt.Errorf("%w: failed to parse anchor batch: %v", models.ErrInvalidGenerationResult, err)
	}
	if len(batch.Anchors) != 3 {
		return nil, fmt.Errorf("%w: expected exactly 3 anchors, got %d", models.ErrInvalidGenerationResult, len(batch.Anchors))
	}
	seen := make(map[int]bool, 3)
	for i, anchor := range batch.Anchors {
		if anchor.BeatIndex != 0 && anchor.BeatIndex != 7 && anchor.BeatIndex != 14 {
			return nil, fmt.Errorf("%w: anchor %d declares invalid beat index %d", models.ErrInvalidGenerationResult, i, anchor.BeatIndex)
		}
		if seen[anchor.BeatIndex] {
			return nil, fmt.Errorf("%w: duplicate anchor beat index %d", models.ErrInvalidGenerationResult, anchor.BeatIndex)
		}
		seen[anchor.BeatIndex] = true
		if strings.TrimSpace(anchor.Description) == "" {
			return nil, fmt.Errorf("%w: anchor %d has empty description", models.ErrInvalidGenerationResult, i)
		}
	}
	return &batch, nil
}

// ParseDynamicBeat разбирает JSON генерации динамического бита.
// environmentalChanges может отсутствовать или быть null - это валидно.
func ParseDynamicBeat(data []byte) (*models.DynamicBeatPayload, error) {
	var payload models.DynamicBeatPayload
	if err := json.Unmarshal(stripJSONFence(data), &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to parse dynamic beat: %v", models.ErrInvalidGenerationResult, err)
	}
	if strings.TrimSpace(payload.BeatName) == "" {
		return nil, fmt.Errorf("%w: dynamic beat has empty name", models.ErrInvalidGenerationResult)
	}
	if strings.TrimSpace(payload.Description) == "" {
		return nil, fmt.Errorf("%w: dynamic beat has empty description", models.ErrInvalidGenerationResult)
	}
	return &payload, nil
}

// ParseArcSummary разбирает JSON генерации итогового summary арки.
// Пустой summary - ошибка; фолбэк-литерал подставляет вызывающая сторона.
func ParseArcSummary(data []byte) (*models.ArcSummaryPayload, error) {
	var payload models.ArcSummaryPayload
	if err := json.Unmarshal(stripJSONFence(data), &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to parse arc summary: %v", models.ErrInvalidGenerationResult, err)
	}
	if strings.TrimSpace(payload.Summary) == "" {
		return nil, fmt.Errorf("%w: arc summary is empty", models.ErrInvalidGenerationResult)
	}
	return &payload, nil
}

// stripJSONFence убирает markdown-ограждение (```json ... ```), которым
// модели иногда оборачивают ответ, несмотря на инструкции.
func stripJSONFence(data []byte) []byte {
	s := strings.TrimSpace(string(data))
	if !strings.HasPrefix(s, "```") {
		return data
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}
