package models

// Структуры payload'ов генерации. Это контракт с LLM: JSON-ответы моделей
// парсятся в эти структуры и проходят строгую проверку формы в internal/schemas.

// AnchorBeatPayload - один якорный бит из батча генерации якорей.
type AnchorBeatPayload struct {
	BeatIndex          int      `json:"beatIndex"`
	BeatName           string   `json:"beatName"`
	Description        string   `json:"description"`
	WorldDirectives    []string `json:"worldDirectives"`
	MajorEvents        []string `json:"majorEvents"`
	EmergentStorylines []string `json:"emergentStorylines"`
}

// AnchorBatch - результат generateAnchors: ровно 3 якоря + описание арки.
type AnchorBatch struct {
	Anchors        []AnchorBeatPayload `json:"anchors"`
	ArcDescription string              `json:"arcDescription"`
}

// DynamicBeatPayload - результат generateDynamicBeat.
// EnvironmentalChanges может быть null по контракту.
type DynamicBeatPayload struct {
	BeatName             string   `json:"beatName"`
	Description          string   `json:"description"`
	WorldDirectives      []string `json:"worldDirectives"`
	EmergingConflicts    []string `json:"emergingConflicts"`
	EnvironmentalChanges []string `json:"environmentalChanges"`
}

// ArcSummaryPayload - результат generateSummary при завершении арки.
type ArcSummaryPayload struct {
	Summary             string   `json:"summary"`
	MajorChanges        []string `json:"majorChanges"`
	AffectedRegions     []string `json:"affectedRegions"`
	ThematicProgression string   `json:"thematicProgression"`
	FutureImplications  []string `json:"futureImplications"`
}
