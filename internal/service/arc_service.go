package service

import (
	"context"
	"fmt"
	"time"

	"story-engine/internal/generation"
	"story-engine/internal/messaging"
	"story-engine/internal/models"
	"story-engine/internal/repository"
	"story-engine/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// Сколько summary предыдущих арок уходит в контекст генерации якорей.
	previousArcSummariesLimit = 3
	// Сколько последних событий уходит в контекст генерации бита, если
	// вызывающая сторона не передала собственный контекст.
	recentEventsForBeatContext = 5
)

// ArcService defines the interface for the arc progression engine: creation
// with anchors, gap-filling beat generation and completion with summary.
type ArcService interface {
	// CreateArc создает арку по идее истории; имя арки берется из первого
	// сгенерированного якоря.
	CreateArc(ctx context.Context, worldID uuid.UUID, storyIdea string) (*models.ArcWithAnchors, error)
	// ProgressArc генерирует следующий динамический бит активной арки.
	// Возвращает (nil, true, nil), когда арка завершена (в этом или
	// предыдущих вызовах) и нового бита не будет.
	ProgressArc(ctx context.Context, worldID, arcID uuid.UUID, actionContext string) (*models.WorldBeat, bool, error)
	CompleteArc(ctx context.Context, worldID, arcID uuid.UUID) (*models.WorldArc, error)
}

type arcServiceImpl struct {
	worldRepo repository.WorldRepository
	arcRepo   repository.ArcRepository
	beatRepo  repository.BeatRepository
	eventRepo repository.EventRepository
	director  generation.StoryDirector
	publisher messaging.WorldUpdatePublisher
	logger    *zap.Logger
}

// NewArcService создает экземпляр ArcService.
func NewArcService(
	worldRepo repository.WorldRepository,
	arcRepo repository.ArcRepository,
	beatRepo repository.BeatRepository,
	eventRepo repository.EventRepository,
	director generation.StoryDirector,
	publisher messaging.WorldUpdatePublisher,
	logger *zap.Logger,
) ArcService {
	return &arcServiceImpl{
		worldRepo: worldRepo,
		arcRepo:   arcRepo,
		beatRepo:  beatRepo,
		eventRepo: eventRepo,
		director:  director,
		publisher: publisher,
		logger:    logger.Named("ArcService"),
	}
}

// CreateArc создает новую арку мира: генерирует три якоря, сохраняет их на
// фиксированные позиции 0/7/14 и делает арку текущей для мира. Якоря
// раскладываются по слотам ПОЗИЦИОННО, в порядке массива из генерации:
// заявленный моделью beatIndex уже проверен схемой, но не используется
// как адрес. Именем арки становится beatName первого якоря.
func (s *arcServiceImpl) CreateArc(ctx context.Context, worldID uuid.UUID, storyIdea string) (*models.ArcWithAnchors, error) {
	world, err := s.worldRepo.GetByID(ctx, worldID)
	if err != nil {
		return nil, err
	}

	if storyIdea == "" {
		storyIdea = models.DefaultArcStoryIdea
	}

	summaries, err := s.arcRepo.ListCompletedSummaries(ctx, worldID, previousArcSummariesLimit)
	if err != nil {
		return nil, err
	}

	batch, err := s.director.GenerateAnchors(ctx, generation.AnchorRequest{
		WorldName:            world.Name,
		WorldDescription:     world.Description,
		StoryIdea:            storyIdea,
		PreviousArcSummaries: summaries,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации якорей для новой арки мира %s: %w", worldID, err)
	}
	if len(batch.Anchors) != len(models.AnchorSlots) {
		return nil, fmt.Errorf("%w: ожидалось %d якорей, получено %d",
			models.ErrInvalidGenerationResult, len(models.AnchorSlots), len(batch.Anchors))
	}

	storyName := batch.Anchors[0].BeatName
	if storyName == "" {
		storyName = models.DefaultArcName
	}

	arc := &models.WorldArc{
		ID:        uuid.New(),
		WorldID:   worldID,
		StoryName: storyName,
		StoryIdea: storyIdea,
		Status:    models.ArcStatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.arcRepo.Create(ctx, arc); err != nil {
		return nil, err
	}

	anchors := make([]models.WorldBeat, 0, len(models.AnchorSlots))
	var majorEvents []string
	for i, payload := range batch.Anchors {
		beat := models.WorldBeat{
			ID:                 uuid.New(),
			ArcID:              arc.ID,
			BeatIndex:          models.AnchorSlots[i],
			BeatType:           models.BeatTypeAnchor,
			BeatName:           payload.BeatName,
			Description:        payload.Description,
			WorldDirectives:    payload.WorldDirectives,
			EmergentStorylines: payload.EmergentStorylines,
			CreatedAt:          time.Now().UTC(),
		}
		if err := s.beatRepo.Create(ctx, &beat); err != nil {
			return nil, fmt.Errorf("ошибка сохранения якоря на позиции %d арки %s: %w", beat.BeatIndex, arc.ID, err)
		}
		anchors = append(anchors, beat)
		majorEvents = append(majorEvents, payload.MajorEvents...)
	}

	if err := s.worldRepo.UpdateCurrentArc(ctx, worldID, &arc.ID); err != nil {
		return nil, err
	}

	// Уведомление best-effort: арка уже создана и стала текущей.
	anchorInfos := make([]messaging.AnchorInfo, 0, len(anchors))
	for _, a := range anchors {
		anchorInfos = append(anchorInfos, messaging.AnchorInfo{BeatIndex: a.BeatIndex, BeatName: a.BeatName})
	}
	if err := s.publisher.PublishArcCreated(ctx, messaging.ArcCreatedPayload{
		WorldID:     worldID,
		ArcID:       arc.ID,
		ArcNumber:   arc.ArcNumber,
		StoryName:   arc.StoryName,
		Anchors:     anchorInfos,
		MajorEvents: majorEvents,
		CreatedAt:   arc.CreatedAt,
	}); err != nil {
		s.logger.Warn("Failed to publish arc created notification",
			zap.String("arcID", arc.ID.String()), zap.Error(err))
	}

	s.logger.Info("World arc created with anchors",
		zap.String("worldID", worldID.String()),
		zap.String("arcID", arc.ID.String()),
		zap.Int("arcNumber", arc.ArcNumber),
		zap.String("storyName", arc.StoryName))
	return &models.ArcWithAnchors{Arc: arc, Anchors: anchors}, nil
}

// ProgressArc - один шаг прогрессии: находит первый свободный слот 0-14,
// генерирует для него динамический бит в контексте предыдущих битов,
// ближайшего якоря впереди и недавних событий мира, и сохраняет его.
// Если все 15 слотов уже заняты, арка завершается и возвращается
// (nil, true, nil).
func (s *arcServiceImpl) ProgressArc(ctx context.Context, worldID, arcID uuid.UUID, actionContext string) (*models.WorldBeat, bool, error) {
	arc, err := s.arcRepo.GetByID(ctx, arcID)
	if err != nil {
		return nil, false, err
	}
	if arc.WorldID != worldID {
		return nil, false, models.ErrArcNotFound
	}
	// Прогрессия завершенной арки идемпотентна: нового бита не будет.
	if arc.Status == models.ArcStatusCompleted {
		return nil, true, nil
	}

	world, err := s.worldRepo.GetByID(ctx, worldID)
	if err != nil {
		return nil, false, err
	}

	beats, err := s.beatRepo.ListByArc(ctx, arcID)
	if err != nil {
		return nil, false, err
	}
	if len(beats) >= models.BeatsPerArc {
		if _, err := s.CompleteArc(ctx, worldID, arcID); err != nil {
			return nil, false, fmt.Errorf("ошибка завершения заполненной арки %s: %w", arcID, err)
		}
		return nil, true, nil
	}

	nextIndex := nextBeatIndex(beats)
	upcomingAnchor, ok := nextAnchorAfter(beats, nextIndex)
	if !ok {
		// Арка без якоря впереди свободного слота структурно испорчена.
		s.logger.Error("Arc has no anchor ahead of the free slot",
			zap.String("arcID", arcID.String()), zap.Int("nextIndex", nextIndex))
		return nil, false, models.ErrNoAnchorPoint
	}

	eventsText := actionContext
	if eventsText == "" {
		recentEvents, err := s.eventRepo.ListRecentByWorld(ctx, worldID, recentEventsForBeatContext)
		if err != nil {
			return nil, false, err
		}
		eventsText = utils.FormatRecentEvents(recentEvents)
	}

	payload, err := s.director.GenerateDynamicBeat(ctx, generation.DynamicBeatRequest{
		WorldName:        world.Name,
		WorldDescription: world.Description,
		TargetIndex:      nextIndex,
		PreviousBeats:    beatsBefore(beats, nextIndex),
		UpcomingAnchor:   upcomingAnchor,
		RecentEventsText: eventsText,
	})
	if err != nil {
		return nil, false, fmt.Errorf("ошибка генерации бита %d арки %s: %w", nextIndex, arcID, err)
	}

	// environmentalChanges не имеют отдельной колонки и дописываются в хвост
	// директив: для потребителей это те же указания об изменении мира.
	directives := append([]string{}, payload.WorldDirectives...)
	directives = append(directives, payload.EnvironmentalChanges...)

	beat := &models.WorldBeat{
		ID:                 uuid.New(),
		ArcID:              arcID,
		BeatIndex:          nextIndex,
		BeatType:           models.BeatTypeDynamic,
		BeatName:           payload.BeatName,
		Description:        payload.Description,
		WorldDirectives:    directives,
		EmergentStorylines: payload.EmergingConflicts,
		CreatedAt:          time.Now().UTC(),
	}
	if err := s.beatRepo.Create(ctx, beat); err != nil {
		// ErrBeatIndexConflict уходит наверх как есть: слот занял
		// конкурирующий вызов, его бит остается в силе.
		return nil, false, err
	}

	recordSystemEvent(ctx, s.eventRepo, s.logger, worldID, &arcID, &beat.ID,
		fmt.Sprintf("New world beat generated: %s", beat.BeatName), models.ImpactModerate)

	if err := s.publisher.PublishBeatCreated(ctx, messaging.BeatCreatedPayload{
		WorldID:   worldID,
		ArcID:     arcID,
		BeatID:    beat.ID,
		BeatIndex: beat.BeatIndex,
		BeatType:  string(beat.BeatType),
		BeatName:  beat.BeatName,
		CreatedAt: beat.CreatedAt,
	}); err != nil {
		s.logger.Warn("Failed to publish beat created notification",
			zap.String("beatID", beat.ID.String()), zap.Error(err))
	}

	s.logger.Info("World beat generated",
		zap.String("worldID", worldID.String()),
		zap.String("arcID", arcID.String()),
		zap.Int("beatIndex", beat.BeatIndex),
		zap.String("beatName", beat.BeatName))
	return beat, false, nil
}

// CompleteArc завершает арку: генерирует итоговый summary по ее битам,
// переводит арку в completed и сбрасывает указатель текущей арки мира.
// Сбой генерации summary не блокирует завершение - используется
// фиксированный фолбэк.
func (s *arcServiceImpl) CompleteArc(ctx context.Context, worldID, arcID uuid.UUID) (*models.WorldArc, error) {
	arc, err := s.arcRepo.GetByID(ctx, arcID)
	if err != nil {
		return nil, err
	}
	if arc.WorldID != worldID {
		return nil, models.ErrArcNotFound
	}
	if arc.Status == models.ArcStatusCompleted {
		return nil, models.ErrArcAlreadyComplete
	}

	beats, err := s.beatRepo.ListByArc(ctx, arcID)
	if err != nil {
		return nil, err
	}

	summary := models.FallbackArcSummary
	var summaryPayload *models.ArcSummaryPayload
	payload, err := s.director.GenerateSummary(ctx, generation.SummaryRequest{
		ArcName:              arc.StoryName,
		ArcIdea:              arc.StoryIdea,
		BeatDescriptionsText: utils.FormatBeatSummaryInput(beats),
	})
	switch {
	case err != nil:
		s.logger.Warn("Summary generation failed, using fallback",
			zap.String("arcID", arcID.String()), zap.Error(err))
	case payload.Summary == "":
		s.logger.Warn("Summary generation returned empty text, using fallback",
			zap.String("arcID", arcID.String()))
	default:
		summary = payload.Summary
		summaryPayload = payload
	}

	completedAt := time.Now().UTC()
	if err := s.arcRepo.MarkCompleted(ctx, arcID, summary, completedAt); err != nil {
		return nil, err
	}
	if err := s.worldRepo.UpdateCurrentArc(ctx, worldID, nil); err != nil {
		return nil, err
	}

	arc.Status = models.ArcStatusCompleted
	arc.Summary = &summary
	arc.CompletedAt = &completedAt

	recordSystemEvent(ctx, s.eventRepo, s.logger, worldID, &arcID, nil,
		fmt.Sprintf("World arc completed: %s. %s", arc.StoryName, summary), models.ImpactMajor)

	completedPayload := messaging.ArcCompletedPayload{
		WorldID:     worldID,
		ArcID:       arcID,
		ArcNumber:   arc.ArcNumber,
		StoryName:   arc.StoryName,
		Summary:     summary,
		CompletedAt: completedAt,
	}
	if summaryPayload != nil {
		completedPayload.MajorChanges = summaryPayload.MajorChanges
		completedPayload.AffectedRegions = summaryPayload.AffectedRegions
		completedPayload.ThematicProgression = summaryPayload.ThematicProgression
		completedPayload.FutureImplications = summaryPayload.FutureImplications
	}
	if err := s.publisher.PublishArcCompleted(ctx, completedPayload); err != nil {
		s.logger.Warn("Failed to publish arc completed notification",
			zap.String("arcID", arcID.String()), zap.Error(err))
	}

	s.logger.Info("World arc completed",
		zap.String("worldID", worldID.String()),
		zap.String("arcID", arcID.String()),
		zap.Int("arcNumber", arc.ArcNumber))
	return arc, nil
}

// nextBeatIndex возвращает первый свободный индекс 0-14. Дыры заполняются
// раньше хвоста: прогрессия идет строго слева направо по свободным слотам.
func nextBeatIndex(beats []models.WorldBeat) int {
	occupied := make(map[int]bool, len(beats))
	for _, b := range beats {
		occupied[b.BeatIndex] = true
	}
	for i := 0; i < models.BeatsPerArc; i++ {
		if !occupied[i] {
			return i
		}
	}
	// Полная арка сюда не попадает: ProgressArc завершает ее раньше по
	// числу битов. Возвращаем индекс за пределами арки, а не 0, чтобы
	// занятый слот никогда не адресовался повторно.
	return models.BeatsPerArc
}

// beatsBefore возвращает биты с индексом меньше target (beats уже
// отсортированы по возрастанию индекса).
func beatsBefore(beats []models.WorldBeat, target int) []models.WorldBeat {
	out := make([]models.WorldBeat, 0, len(beats))
	for _, b := range beats {
		if b.BeatIndex < target {
			out = append(out, b)
		}
	}
	return out
}

// nextAnchorAfter возвращает ближайший якорь с индексом строго больше
// target.
func nextAnchorAfter(beats []models.WorldBeat, target int) (models.WorldBeat, bool) {
	for _, b := range beats {
		if b.BeatType == models.BeatTypeAnchor && b.BeatIndex > target {
			return b, true
		}
	}
	return models.WorldBeat{}, false
}
