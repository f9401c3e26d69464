package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"story-engine/internal/generation"
	genmocks "story-engine/internal/generation/mocks"
	"story-engine/internal/messaging"
	messagingmocks "story-engine/internal/messaging/mocks"
	"story-engine/internal/models"
	repomocks "story-engine/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type arcServiceMocks struct {
	worldRepo *repomocks.WorldRepository
	arcRepo   *repomocks.ArcRepository
	beatRepo  *repomocks.BeatRepository
	eventRepo *repomocks.EventRepository
	director  *genmocks.StoryDirector
	publisher *messagingmocks.WorldUpdatePublisher
}

func newArcService(t *testing.T) (ArcService, *arcServiceMocks) {
	t.Helper()
	m := &arcServiceMocks{
		worldRepo: new(repomocks.WorldRepository),
		arcRepo:   new(repomocks.ArcRepository),
		beatRepo:  new(repomocks.BeatRepository),
		eventRepo: new(repomocks.EventRepository),
		director:  new(genmocks.StoryDirector),
		publisher: new(messagingmocks.WorldUpdatePublisher),
	}
	svc := NewArcService(m.worldRepo, m.arcRepo, m.beatRepo, m.eventRepo, m.director, m.publisher, zap.NewNop())
	return svc, m
}

func anchorBatch() *models.AnchorBatch {
	return &models.AnchorBatch{
		Anchors: []models.AnchorBeatPayload{
			{BeatIndex: 0, BeatName: "Завязка", Description: "d0", MajorEvents: []string{"пожар"}},
			{BeatIndex: 7, BeatName: "Перелом", Description: "d7"},
			{BeatIndex: 14, BeatName: "Развязка", Description: "d14", MajorEvents: []string{"коронация"}},
		},
		ArcDescription: "desc",
	}
}

// anchorBeats - якоря на штатных позициях 0/7/14, как после CreateArc.
func anchorBeats(arcID uuid.UUID) []models.WorldBeat {
	return []models.WorldBeat{
		{ID: uuid.New(), ArcID: arcID, BeatIndex: 0, BeatType: models.BeatTypeAnchor, BeatName: "A0"},
		{ID: uuid.New(), ArcID: arcID, BeatIndex: 7, BeatType: models.BeatTypeAnchor, BeatName: "A7"},
		{ID: uuid.New(), ArcID: arcID, BeatIndex: 14, BeatType: models.BeatTypeAnchor, BeatName: "A14"},
	}
}

func TestArcService_CreateArc(t *testing.T) {
	ctx := context.Background()
	worldID := uuid.New()
	world := &models.World{ID: worldID, Name: "Аэлирион", Description: "мир островов"}

	t.Run("Success_AnchorsPlacedPositionally", func(t *testing.T) {
		svc, m := newArcService(t)
		m.worldRepo.On("GetByID", ctx, worldID).Return(world, nil).Once()
		m.arcRepo.On("ListCompletedSummaries", ctx, worldID, previousArcSummariesLimit).
			Return([]string{"первая эпоха"}, nil).Once()
		m.director.On("GenerateAnchors", ctx, mock.MatchedBy(func(req generation.AnchorRequest) bool {
			return req.WorldName == "Аэлирион" && len(req.PreviousArcSummaries) == 1
		})).Return(anchorBatch(), nil).Once()
		m.arcRepo.On("Create", ctx, mock.AnythingOfType("*models.WorldArc")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.WorldArc).ArcNumber = 2
			}).Return(nil).Once()

		var savedIndexes []int
		m.beatRepo.On("Create", ctx, mock.AnythingOfType("*models.WorldBeat")).
			Run(func(args mock.Arguments) {
				beat := args.Get(1).(*models.WorldBeat)
				savedIndexes = append(savedIndexes, beat.BeatIndex)
				assert.Equal(t, models.BeatTypeAnchor, beat.BeatType)
			}).Return(nil).Times(3)
		m.worldRepo.On("UpdateCurrentArc", ctx, worldID, mock.AnythingOfType("*uuid.UUID")).Return(nil).Once()

		var published messaging.ArcCreatedPayload
		m.publisher.On("PublishArcCreated", ctx, mock.AnythingOfType("messaging.ArcCreatedPayload")).
			Run(func(args mock.Arguments) {
				published = args.Get(1).(messaging.ArcCreatedPayload)
			}).Return(nil).Once()

		result, err := svc.CreateArc(ctx, worldID, "передел торговых путей")
		require.NoError(t, err)
		assert.Equal(t, []int{0, 7, 14}, savedIndexes)
		assert.Equal(t, 2, result.Arc.ArcNumber)
		assert.Equal(t, models.ArcStatusActive, result.Arc.Status)
		assert.Len(t, result.Anchors, 3)
		assert.Equal(t, []string{"пожар", "коронация"}, published.MajorEvents)
		m.publisher.AssertExpectations(t)
	})

	t.Run("Success_StoryNameTakenFromFirstAnchor", func(t *testing.T) {
		svc, m := newArcService(t)
		m.worldRepo.On("GetByID", ctx, worldID).Return(world, nil).Once()
		m.arcRepo.On("ListCompletedSummaries", ctx, worldID, previousArcSummariesLimit).
			Return([]string{}, nil).Once()
		m.director.On("GenerateAnchors", ctx, mock.MatchedBy(func(req generation.AnchorRequest) bool {
			return req.StoryIdea == models.DefaultArcStoryIdea
		})).Return(anchorBatch(), nil).Once()
		m.arcRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		m.beatRepo.On("Create", ctx, mock.Anything).Return(nil).Times(3)
		m.worldRepo.On("UpdateCurrentArc", ctx, worldID, mock.Anything).Return(nil).Once()
		m.publisher.On("PublishArcCreated", ctx, mock.Anything).Return(nil).Once()

		result, err := svc.CreateArc(ctx, worldID, "")
		require.NoError(t, err)
		assert.Equal(t, "Завязка", result.Arc.StoryName)
		assert.Equal(t, models.DefaultArcStoryIdea, result.Arc.StoryIdea)
	})

	t.Run("Success_FallbackNameWhenFirstAnchorNameEmpty", func(t *testing.T) {
		svc, m := newArcService(t)
		batch := anchorBatch()
		batch.Anchors[0].BeatName = ""
		m.worldRepo.On("GetByID", ctx, worldID).Return(world, nil).Once()
		m.arcRepo.On("ListCompletedSummaries", ctx, worldID, previousArcSummariesLimit).
			Return([]string{}, nil).Once()
		m.director.On("GenerateAnchors", ctx, mock.Anything).Return(batch, nil).Once()
		m.arcRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		m.beatRepo.On("Create", ctx, mock.Anything).Return(nil).Times(3)
		m.worldRepo.On("UpdateCurrentArc", ctx, worldID, mock.Anything).Return(nil).Once()
		m.publisher.On("PublishArcCreated", ctx, mock.Anything).Return(nil).Once()

		result, err := svc.CreateArc(ctx, worldID, "идея")
		require.NoError(t, err)
		assert.Equal(t, models.DefaultArcName, result.Arc.StoryName)
	})

	t.Run("Error_WorldNotFound", func(t *testing.T) {
		svc, m := newArcService(t)
		m.worldRepo.On("GetByID", ctx, worldID).Return(nil, models.ErrWorldNotFound).Once()

		_, err := svc.CreateArc(ctx, worldID, "i")
		assert.True(t, errors.Is(err, models.ErrWorldNotFound))
		m.director.AssertNotCalled(t, "GenerateAnchors", mock.Anything, mock.Anything)
	})

	t.Run("Error_GenerationFailed_NothingPersisted", func(t *testing.T) {
		svc, m := newArcService(t)
		m.worldRepo.On("GetByID", ctx, worldID).Return(world, nil).Once()
		m.arcRepo.On("ListCompletedSummaries", ctx, worldID, previousArcSummariesLimit).
			Return([]string{}, nil).Once()
		m.director.On("GenerateAnchors", ctx, mock.Anything).
			Return(nil, generation.ErrAIGenerationFailed).Once()

		_, err := svc.CreateArc(ctx, worldID, "i")
		require.Error(t, err)
		assert.True(t, errors.Is(err, generation.ErrAIGenerationFailed))
		m.arcRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.beatRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_WrongAnchorCount", func(t *testing.T) {
		svc, m := newArcService(t)
		m.worldRepo.On("GetByID", ctx, worldID).Return(world, nil).Once()
		m.arcRepo.On("ListCompletedSummaries", ctx, worldID, previousArcSummariesLimit).
			Return([]string{}, nil).Once()
		bad := &models.AnchorBatch{Anchors: anchorBatch().Anchors[:2]}
		m.director.On("GenerateAnchors", ctx, mock.Anything).Return(bad, nil).Once()

		_, err := svc.CreateArc(ctx, worldID, "i")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrInvalidGenerationResult))
		m.arcRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestArcService_ProgressArc(t *testing.T) {
	ctx := context.Background()
	worldID := uuid.New()
	arcID := uuid.New()
	world := &models.World{ID: worldID, Name: "W", Description: "d", CurrentArcID: &arcID}
	activeArc := func() *models.WorldArc {
		return &models.WorldArc{ID: arcID, WorldID: worldID, ArcNumber: 1, StoryName: "Арка", StoryIdea: "идея", Status: models.ArcStatusActive}
	}
	dynPayload := &models.DynamicBeatPayload{
		BeatName:             "Караван",
		Description:          "Караван входит в город.",
		WorldDirectives:      []string{"открыть рынок"},
		EmergingConflicts:    []string{"спор гильдий"},
		EnvironmentalChanges: []string{"ворота открыты"},
	}

	t.Run("Success_FillsFirstFreeSlot", func(t *testing.T) {
		svc, m := newArcService(t)
		m.arcRepo.On("GetByID", ctx, arcID).Return(activeArc(), nil).Once()
		m.worldRepo.On("GetByID", ctx, worldID).Return(world, nil).Once()
		m.beatRepo.On("ListByArc", ctx, arcID).Return(anchorBeats(arcID), nil).Once()
		m.director.On("GenerateDynamicBeat", ctx, mock.MatchedBy(func(req generation.DynamicBeatRequest) bool {
			// Свободен слот 1; впереди якорь на 7
			return req.TargetIndex == 1 &&
				req.UpcomingAnchor.BeatIndex == 7 &&
				len(req.PreviousBeats) == 1 &&
				req.RecentEventsText == "действие игрока"
		})).Return(dynPayload, nil).Once()

		var savedBeat *models.WorldBeat
		m.beatRepo.On("Create", ctx, mock.AnythingOfType("*models.WorldBeat")).
			Run(func(args mock.Arguments) {
				savedBeat = args.Get(1).(*models.WorldBeat)
			}).Return(nil).Once()
		m.eventRepo.On("Create", ctx, mock.MatchedBy(func(e *models.WorldEvent) bool {
			return e.EventType == models.EventTypeSystemEvent &&
				e.ImpactLevel == models.ImpactModerate &&
				e.Description == "New world beat generated: Караван"
		})).Return(nil).Once()
		m.publisher.On("PublishBeatCreated", ctx, mock.AnythingOfType("messaging.BeatCreatedPayload")).Return(nil).Once()

		beat, completed, err := svc.ProgressArc(ctx, worldID, arcID, "действие игрока")
		require.NoError(t, err)
		assert.False(t, completed)
		assert.Equal(t, 1, beat.BeatIndex)
		assert.Equal(t, models.BeatTypeDynamic, beat.BeatType)
		// environmentalChanges дописаны в хвост директив
		assert.Equal(t, []string{"открыть рынок", "ворота открыты"}, savedBeat.WorldDirectives)
		assert.Equal(t, []string{"спор гильдий"}, savedBeat.EmergentStorylines)
		m.eventRepo.AssertExpectations(t)
	})

	t.Run("Success_GapBeforeTailIsFilledFirst", func(t *testing.T) {
		svc, m := newArcService(t)
		beats := append(anchorBeats(arcID),
			models.WorldBeat{ArcID: arcID, BeatIndex: 1, BeatType: models.BeatTypeDynamic},
			models.WorldBeat{ArcID: arcID, BeatIndex: 3, BeatType: models.BeatTypeDynamic},
		)
		m.arcRepo.On("GetByID", ctx, arcID).Return(activeArc(), nil).Once()
		m.worldRepo.On("GetByID", ctx, worldID).Return(world, nil).Once()
		m.beatRepo.On("ListByArc", ctx, arcID).Return(beats, nil).Once()
		m.director.On("GenerateDynamicBeat", ctx, mock.MatchedBy(func(req generation.DynamicBeatRequest) bool {
			return req.TargetIndex == 2
		})).Return(dynPayload, nil).Once()
		m.beatRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		m.eventRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		m.publisher.On("PublishBeatCreated", ctx, mock.Anything).Return(nil).Once()

		beat, completed, err := svc.ProgressArc(ctx, worldID, arcID, "ctx")
		require.NoError(t, err)
		assert.False(t, completed)
		assert.Equal(t, 2, beat.BeatIndex)
	})

	t.Run("Success_EmptyContextUsesRecentEvents", func(t *testing.T) {
		svc, m := newArcService(t)
		events := []models.WorldEvent{
			{ImpactLevel: models.ImpactMajor, Description: "Вулкан проснулся"},
		}
		m.arcRepo.On("GetByID", ctx, arcID).Return(activeArc(), nil).Once()
		m.worldRepo.On("GetByID", ctx, worldID).Return(world, nil).Once()
		m.beatRepo.On("ListByArc", ctx, arcID).Return(anchorBeats(arcID), nil).Once()
		m.eventRepo.On("ListRecentByWorld", ctx, worldID, recentEventsForBeatContext).Return(events, nil).Once()
		m.director.On("GenerateDynamicBeat", ctx, mock.MatchedBy(func(req generation.DynamicBeatRequest) bool {
			return req.RecentEventsText == "[major] Вулкан проснулся"
		})).Return(dynPayload, nil).Once()
		m.beatRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		m.eventRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		m.publisher.On("PublishBeatCreated", ctx, mock.Anything).Return(nil).Once()

		_, _, err := svc.ProgressArc(ctx, worldID, arcID, "")
		require.NoError(t, err)
		m.eventRepo.AssertExpectations(t)
	})

	t.Run("CompletedArcIsIdempotent", func(t *testing.T) {
		svc, m := newArcService(t)
		arc := activeArc()
		arc.Status = models.ArcStatusCompleted
		m.arcRepo.On("GetByID", ctx, arcID).Return(arc, nil).Once()

		beat, completed, err := svc.ProgressArc(ctx, worldID, arcID, "")
		require.NoError(t, err)
		assert.True(t, completed)
		assert.Nil(t, beat)
		m.director.AssertNotCalled(t, "GenerateDynamicBeat", mock.Anything, mock.Anything)
	})

	t.Run("FullArcTriggersCompletion", func(t *testing.T) {
		svc, m := newArcService(t)
		beats := make([]models.WorldBeat, 0, models.BeatsPerArc)
		for i := 0; i < models.BeatsPerArc; i++ {
			beatType := models.BeatTypeDynamic
			if i == 0 || i == 7 || i == 14 {
				beatType = models.BeatTypeAnchor
			}
			beats = append(beats, models.WorldBeat{ArcID: arcID, BeatIndex: i, BeatType: beatType, BeatName: "b", Description: "d"})
		}
		// Первый GetByID из ProgressArc, второй из CompleteArc
		m.arcRepo.On("GetByID", ctx, arcID).Return(activeArc(), nil).Times(2)
		m.worldRepo.On("GetByID", ctx, worldID).Return(world, nil).Once()
		m.beatRepo.On("ListByArc", ctx, arcID).Return(beats, nil).Times(2)
		m.director.On("GenerateSummary", ctx, mock.Anything).
			Return(&models.ArcSummaryPayload{Summary: "Итог арки"}, nil).Once()
		m.arcRepo.On("MarkCompleted", ctx, arcID, "Итог арки", mock.AnythingOfType("time.Time")).Return(nil).Once()
		m.worldRepo.On("UpdateCurrentArc", ctx, worldID, (*uuid.UUID)(nil)).Return(nil).Once()
		m.eventRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		m.publisher.On("PublishArcCompleted", ctx, mock.Anything).Return(nil).Once()

		beat, completed, err := svc.ProgressArc(ctx, worldID, arcID, "")
		require.NoError(t, err)
		assert.True(t, completed)
		assert.Nil(t, beat)
		m.director.AssertNotCalled(t, "GenerateDynamicBeat", mock.Anything, mock.Anything)
		m.arcRepo.AssertExpectations(t)
	})

	t.Run("Error_ArcBelongsToAnotherWorld", func(t *testing.T) {
		svc, m := newArcService(t)
		foreign := activeArc()
		foreign.WorldID = uuid.New()
		m.arcRepo.On("GetByID", ctx, arcID).Return(foreign, nil).Once()

		_, _, err := svc.ProgressArc(ctx, worldID, arcID, "")
		assert.True(t, errors.Is(err, models.ErrArcNotFound))
	})

	t.Run("Error_BeatIndexConflictPassedThrough", func(t *testing.T) {
		svc, m := newArcService(t)
		m.arcRepo.On("GetByID", ctx, arcID).Return(activeArc(), nil).Once()
		m.worldRepo.On("GetByID", ctx, worldID).Return(world, nil).Once()
		m.beatRepo.On("ListByArc", ctx, arcID).Return(anchorBeats(arcID), nil).Once()
		m.director.On("GenerateDynamicBeat", ctx, mock.Anything).Return(dynPayload, nil).Once()
		m.beatRepo.On("Create", ctx, mock.Anything).Return(models.ErrBeatIndexConflict).Once()

		_, _, err := svc.ProgressArc(ctx, worldID, arcID, "ctx")
		assert.True(t, errors.Is(err, models.ErrBeatIndexConflict))
		m.publisher.AssertNotCalled(t, "PublishBeatCreated", mock.Anything, mock.Anything)
	})

	t.Run("Error_NoAnchorAhead", func(t *testing.T) {
		svc, m := newArcService(t)
		// Структурно испорченная арка: только якорь на 0, впереди пусто
		beats := []models.WorldBeat{
			{ArcID: arcID, BeatIndex: 0, BeatType: models.BeatTypeAnchor},
		}
		m.arcRepo.On("GetByID", ctx, arcID).Return(activeArc(), nil).Once()
		m.worldRepo.On("GetByID", ctx, worldID).Return(world, nil).Once()
		m.beatRepo.On("ListByArc", ctx, arcID).Return(beats, nil).Once()

		_, _, err := svc.ProgressArc(ctx, worldID, arcID, "ctx")
		assert.True(t, errors.Is(err, models.ErrNoAnchorPoint))
		m.director.AssertNotCalled(t, "GenerateDynamicBeat", mock.Anything, mock.Anything)
	})
}

func TestArcService_CompleteArc(t *testing.T) {
	ctx := context.Background()
	worldID := uuid.New()
	arcID := uuid.New()
	activeArc := func() *models.WorldArc {
		return &models.WorldArc{ID: arcID, WorldID: worldID, ArcNumber: 3, StoryName: "Финал", StoryIdea: "идея", Status: models.ArcStatusActive}
	}

	t.Run("Success_GeneratedSummary", func(t *testing.T) {
		svc, m := newArcService(t)
		summaryPayload := &models.ArcSummaryPayload{
			Summary:             "Эпоха завершилась.",
			MajorChanges:        []string{"пала империя"},
			ThematicProgression: "от порядка к хаосу",
		}
		m.arcRepo.On("GetByID", ctx, arcID).Return(activeArc(), nil).Once()
		m.beatRepo.On("ListByArc", ctx, arcID).Return(anchorBeats(arcID), nil).Once()
		m.director.On("GenerateSummary", ctx, mock.MatchedBy(func(req generation.SummaryRequest) bool {
			return req.ArcName == "Финал" && req.BeatDescriptionsText != ""
		})).Return(summaryPayload, nil).Once()
		m.arcRepo.On("MarkCompleted", ctx, arcID, "Эпоха завершилась.", mock.AnythingOfType("time.Time")).Return(nil).Once()
		m.worldRepo.On("UpdateCurrentArc", ctx, worldID, (*uuid.UUID)(nil)).Return(nil).Once()
		m.eventRepo.On("Create", ctx, mock.MatchedBy(func(e *models.WorldEvent) bool {
			return e.ImpactLevel == models.ImpactMajor &&
				e.Description == "World arc completed: Финал. Эпоха завершилась."
		})).Return(nil).Once()

		var published messaging.ArcCompletedPayload
		m.publisher.On("PublishArcCompleted", ctx, mock.AnythingOfType("messaging.ArcCompletedPayload")).
			Run(func(args mock.Arguments) {
				published = args.Get(1).(messaging.ArcCompletedPayload)
			}).Return(nil).Once()

		arc, err := svc.CompleteArc(ctx, worldID, arcID)
		require.NoError(t, err)
		assert.Equal(t, models.ArcStatusCompleted, arc.Status)
		require.NotNil(t, arc.Summary)
		assert.Equal(t, "Эпоха завершилась.", *arc.Summary)
		assert.NotNil(t, arc.CompletedAt)
		assert.Equal(t, []string{"пала империя"}, published.MajorChanges)
		assert.Equal(t, "от порядка к хаосу", published.ThematicProgression)
	})

	t.Run("Success_FallbackOnGenerationFailure", func(t *testing.T) {
		svc, m := newArcService(t)
		m.arcRepo.On("GetByID", ctx, arcID).Return(activeArc(), nil).Once()
		m.beatRepo.On("ListByArc", ctx, arcID).Return(anchorBeats(arcID), nil).Once()
		m.director.On("GenerateSummary", ctx, mock.Anything).
			Return(nil, generation.ErrAIGenerationFailed).Once()
		m.arcRepo.On("MarkCompleted", ctx, arcID, models.FallbackArcSummary, mock.AnythingOfType("time.Time")).Return(nil).Once()
		m.worldRepo.On("UpdateCurrentArc", ctx, worldID, (*uuid.UUID)(nil)).Return(nil).Once()
		m.eventRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		var published messaging.ArcCompletedPayload
		m.publisher.On("PublishArcCompleted", ctx, mock.AnythingOfType("messaging.ArcCompletedPayload")).
			Run(func(args mock.Arguments) {
				published = args.Get(1).(messaging.ArcCompletedPayload)
			}).Return(nil).Once()

		arc, err := svc.CompleteArc(ctx, worldID, arcID)
		require.NoError(t, err)
		require.NotNil(t, arc.Summary)
		assert.Equal(t, models.FallbackArcSummary, *arc.Summary)
		assert.Empty(t, published.MajorChanges)
		m.arcRepo.AssertExpectations(t)
	})

	t.Run("Error_AlreadyCompleted", func(t *testing.T) {
		svc, m := newArcService(t)
		arc := activeArc()
		arc.Status = models.ArcStatusCompleted
		m.arcRepo.On("GetByID", ctx, arcID).Return(arc, nil).Once()

		_, err := svc.CompleteArc(ctx, worldID, arcID)
		assert.True(t, errors.Is(err, models.ErrArcAlreadyComplete))
		m.director.AssertNotCalled(t, "GenerateSummary", mock.Anything, mock.Anything)
	})

	t.Run("Error_ArcNotFound", func(t *testing.T) {
		svc, m := newArcService(t)
		m.arcRepo.On("GetByID", ctx, arcID).Return(nil, models.ErrArcNotFound).Once()

		_, err := svc.CompleteArc(ctx, worldID, arcID)
		assert.True(t, errors.Is(err, models.ErrArcNotFound))
	})

	t.Run("Error_ArcBelongsToAnotherWorld", func(t *testing.T) {
		svc, m := newArcService(t)
		foreign := activeArc()
		foreign.WorldID = uuid.New()
		m.arcRepo.On("GetByID", ctx, arcID).Return(foreign, nil).Once()

		_, err := svc.CompleteArc(ctx, worldID, arcID)
		assert.True(t, errors.Is(err, models.ErrArcNotFound))
	})
}

func TestNextBeatIndex(t *testing.T) {
	arcID := uuid.New()

	t.Run("EmptyArc", func(t *testing.T) {
		assert.Equal(t, 0, nextBeatIndex(nil))
	})

	t.Run("AnchorsOnly", func(t *testing.T) {
		assert.Equal(t, 1, nextBeatIndex(anchorBeats(arcID)))
	})

	t.Run("GapInMiddle", func(t *testing.T) {
		beats := append(anchorBeats(arcID),
			models.WorldBeat{BeatIndex: 1}, models.WorldBeat{BeatIndex: 2},
			models.WorldBeat{BeatIndex: 4},
		)
		assert.Equal(t, 3, nextBeatIndex(beats))
	})

	t.Run("FullArc", func(t *testing.T) {
		beats := make([]models.WorldBeat, 0, models.BeatsPerArc)
		for i := 0; i < models.BeatsPerArc; i++ {
			beats = append(beats, models.WorldBeat{BeatIndex: i})
		}
		assert.Equal(t, models.BeatsPerArc, nextBeatIndex(beats))
	})
}

func TestNextAnchorAfter(t *testing.T) {
	arcID := uuid.New()
	beats := anchorBeats(arcID)

	t.Run("BeforeMidpoint", func(t *testing.T) {
		anchor, ok := nextAnchorAfter(beats, 3)
		require.True(t, ok)
		assert.Equal(t, 7, anchor.BeatIndex)
	})

	t.Run("AfterMidpoint", func(t *testing.T) {
		anchor, ok := nextAnchorAfter(beats, 7)
		require.True(t, ok)
		assert.Equal(t, 14, anchor.BeatIndex)
	})

	t.Run("NoAnchorAhead", func(t *testing.T) {
		_, ok := nextAnchorAfter(beats, 14)
		assert.False(t, ok)
	})
}

// Проверка согласованности времени завершения: CompletedAt и payload
// уведомления берут один и тот же момент.
func TestArcService_CompleteArc_TimestampConsistency(t *testing.T) {
	ctx := context.Background()
	worldID := uuid.New()
	arcID := uuid.New()
	arc := &models.WorldArc{ID: arcID, WorldID: worldID, StoryName: "A", StoryIdea: "i", Status: models.ArcStatusActive}

	svc, m := newArcService(t)
	m.arcRepo.On("GetByID", ctx, arcID).Return(arc, nil).Once()
	m.beatRepo.On("ListByArc", ctx, arcID).Return([]models.WorldBeat{}, nil).Once()
	m.director.On("GenerateSummary", ctx, mock.Anything).
		Return(&models.ArcSummaryPayload{Summary: "s"}, nil).Once()

	var markedAt time.Time
	m.arcRepo.On("MarkCompleted", ctx, arcID, "s", mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			markedAt = args.Get(3).(time.Time)
		}).Return(nil).Once()
	m.worldRepo.On("UpdateCurrentArc", ctx, worldID, (*uuid.UUID)(nil)).Return(nil).Once()
	m.eventRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	var published messaging.ArcCompletedPayload
	m.publisher.On("PublishArcCompleted", ctx, mock.AnythingOfType("messaging.ArcCompletedPayload")).
		Run(func(args mock.Arguments) {
			published = args.Get(1).(messaging.ArcCompletedPayload)
		}).Return(nil).Once()

	completed, err := svc.CompleteArc(ctx, worldID, arcID)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, markedAt, *completed.CompletedAt)
	assert.Equal(t, markedAt, published.CompletedAt)
}
