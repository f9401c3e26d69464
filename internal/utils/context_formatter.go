package utils

import (
	"fmt"
	"strings"

	"story-engine/internal/models"
)

// beatDescriptionLimit - сколько символов описания бита попадает в текст
// для генерации summary.
const beatDescriptionLimit = 200

// FormatRecentEvents форматирует события мира в контекстный текст для
// генерации бита: по строке "[impact_level] description" на событие.
func FormatRecentEvents(events []models.WorldEvent) string {
	if len(events) == 0 {
		return ""
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, fmt.Sprintf("[%s] %s", e.ImpactLevel, e.Description))
	}
	return strings.Join(lines, "\n")
}

// FormatBeatSummaryInput собирает текст для генерации итогового summary арки:
// биты по порядку индексов, описание каждого обрезано до 200 символов.
func FormatBeatSummaryInput(beats []models.WorldBeat) string {
	blocks := make([]string, 0, len(beats))
	for _, b := range beats {
		blocks = append(blocks, fmt.Sprintf("Beat %d (%s): %s...",
			b.BeatIndex, b.BeatName, TruncateRunes(b.Description, beatDescriptionLimit)))
	}
	return strings.Join(blocks, "\n\n")
}

// TruncateRunes обрезает строку до limit рун, не ломая многобайтовые символы.
func TruncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
