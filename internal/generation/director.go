package generation

import (
	"context"
	"fmt"

	"story-engine/internal/models"
	"story-engine/internal/schemas"

	"go.uber.org/zap"
)

// Метки операций для метрик AI клиента.
const (
	opAnchors     = "anchors"
	opDynamicBeat = "dynamic_beat"
	opSummary     = "summary"
)

// AnchorRequest - входные данные генерации якорных битов новой арки.
type AnchorRequest struct {
	WorldName            string
	WorldDescription     string
	StoryIdea            string
	PreviousArcSummaries []string // до 3 summary завершенных арок, свежайший последним
}

// DynamicBeatRequest - входные данные генерации одного динамического бита.
type DynamicBeatRequest struct {
	WorldName        string
	WorldDescription string
	TargetIndex      int
	PreviousBeats    []models.WorldBeat
	UpcomingAnchor   models.WorldBeat
	RecentEventsText string
}

// SummaryRequest - входные данные генерации итогового summary арки.
type SummaryRequest struct {
	ArcName              string
	ArcIdea              string
	BeatDescriptionsText string
}

// StoryDirector - граница возможностей генерации: три операции, каждая
// синхронна и возвращает проверенный по схеме payload либо ошибку.
// Побочных эффектов на данные движка нет.
type StoryDirector interface {
	GenerateAnchors(ctx context.Context, req AnchorRequest) (*models.AnchorBatch, error)
	GenerateDynamicBeat(ctx context.Context, req DynamicBeatRequest) (*models.DynamicBeatPayload, error)
	GenerateSummary(ctx context.Context, req SummaryRequest) (*models.ArcSummaryPayload, error)
}

type aiStoryDirector struct {
	client AIClient
	logger *zap.Logger
}

// NewStoryDirector создает StoryDirector поверх AIClient.
func NewStoryDirector(client AIClient, logger *zap.Logger) StoryDirector {
	return &aiStoryDirector{
		client: client,
		logger: logger.Named("StoryDirector"),
	}
}

// GenerateAnchors запрашивает батч из трех якорных битов.
func (d *aiStoryDirector) GenerateAnchors(ctx context.Context, req AnchorRequest) (*models.AnchorBatch, error) {
	userInput := buildAnchorUserInput(req.WorldName, req.WorldDescription, req.StoryIdea, req.PreviousArcSummaries)

	raw, usage, err := d.client.GenerateText(ctx, opAnchors, anchorSystemPrompt, userInput, GenerationParams{})
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации якорных битов: %w", err)
	}
	d.logger.Debug("Anchor batch generated",
		zap.String("world", req.WorldName), zap.Int("total_tokens", usage.TotalTokens))

	batch, err := schemas.ParseAnchorBatch([]byte(raw))
	if err != nil {
		d.logger.Error("Anchor batch failed schema validation",
			zap.String("world", req.WorldName), zap.Error(err))
		return nil, err
	}
	return batch, nil
}

// GenerateDynamicBeat запрашивает один динамический бит для целевого слота.
func (d *aiStoryDirector) GenerateDynamicBeat(ctx context.Context, req DynamicBeatRequest) (*models.DynamicBeatPayload, error) {
	userInput := buildDynamicBeatUserInput(
		req.WorldName, req.WorldDescription, req.TargetIndex,
		req.PreviousBeats, req.UpcomingAnchor, req.RecentEventsText,
	)

	raw, usage, err := d.client.GenerateText(ctx, opDynamicBeat, dynamicBeatSystemPrompt, userInput, GenerationParams{})
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации бита %d: %w", req.TargetIndex, err)
	}
	d.logger.Debug("Dynamic beat generated",
		zap.String("world", req.WorldName),
		zap.Int("target_index", req.TargetIndex),
		zap.Int("total_tokens", usage.TotalTokens),
	)

	payload, err := schemas.ParseDynamicBeat([]byte(raw))
	if err != nil {
		d.logger.Error("Dynamic beat failed schema validation",
			zap.String("world", req.WorldName), zap.Int("target_index", req.TargetIndex), zap.Error(err))
		return nil, err
	}
	return payload, nil
}

// GenerateSummary запрашивает итоговый summary завершаемой арки.
// Фолбэк при ошибке - ответственность вызывающей стороны (ArcService).
func (d *aiStoryDirector) GenerateSummary(ctx context.Context, req SummaryRequest) (*models.ArcSummaryPayload, error) {
	userInput := buildSummaryUserInput(req.ArcName, req.ArcIdea, req.BeatDescriptionsText)

	raw, usage, err := d.client.GenerateText(ctx, opSummary, summarySystemPrompt, userInput, GenerationParams{})
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации summary арки: %w", err)
	}
	d.logger.Debug("Arc summary generated",
		zap.String("arc", req.ArcName), zap.Int("total_tokens", usage.TotalTokens))

	payload, err := schemas.ParseArcSummary([]byte(raw))
	if err != nil {
		d.logger.Error("Arc summary failed schema validation",
			zap.String("arc", req.ArcName), zap.Error(err))
		return nil, err
	}
	return payload, nil
}
