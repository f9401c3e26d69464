package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"story-engine/internal/messaging"
	"story-engine/internal/models"
	"story-engine/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Сколько последних событий попадает в снапшот состояния мира.
const recentEventsForState = 20

// WorldService defines the interface for world lifecycle and the world
// event journal.
type WorldService interface {
	CreateWorld(ctx context.Context, name, description string) (*models.World, error)
	GetWorld(ctx context.Context, worldID uuid.UUID) (*models.World, error)
	ListWorlds(ctx context.Context) ([]models.World, error)
	// GetWorldState собирает составной снапшот: мир, текущая арка, ее биты
	// и последние события журнала.
	GetWorldState(ctx context.Context, worldID uuid.UUID) (*models.WorldState, error)
	GetWorldArcs(ctx context.Context, worldID uuid.UUID) ([]models.WorldArc, error)
	RecordWorldEvent(ctx context.Context, worldID uuid.UUID, eventType models.EventType, description string, impactLevel models.ImpactLevel, arcID, beatID *uuid.UUID) (*models.WorldEvent, error)
}

type worldServiceImpl struct {
	worldRepo repository.WorldRepository
	arcRepo   repository.ArcRepository
	beatRepo  repository.BeatRepository
	eventRepo repository.EventRepository
	publisher messaging.WorldUpdatePublisher
	logger    *zap.Logger
}

// NewWorldService создает экземпляр WorldService.
func NewWorldService(
	worldRepo repository.WorldRepository,
	arcRepo repository.ArcRepository,
	beatRepo repository.BeatRepository,
	eventRepo repository.EventRepository,
	publisher messaging.WorldUpdatePublisher,
	logger *zap.Logger,
) WorldService {
	return &worldServiceImpl{
		worldRepo: worldRepo,
		arcRepo:   arcRepo,
		beatRepo:  beatRepo,
		eventRepo: eventRepo,
		publisher: publisher,
		logger:    logger.Named("WorldService"),
	}
}

// CreateWorld создает мир без активной арки.
func (s *worldServiceImpl) CreateWorld(ctx context.Context, name, description string) (*models.World, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: имя мира не может быть пустым", models.ErrInvalidInput)
	}

	world := &models.World{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.worldRepo.Create(ctx, world); err != nil {
		return nil, fmt.Errorf("ошибка создания мира: %w", err)
	}
	s.logger.Info("World created",
		zap.String("worldID", world.ID.String()), zap.String("name", world.Name))
	return world, nil
}

func (s *worldServiceImpl) GetWorld(ctx context.Context, worldID uuid.UUID) (*models.World, error) {
	return s.worldRepo.GetByID(ctx, worldID)
}

func (s *worldServiceImpl) ListWorlds(ctx context.Context) ([]models.World, error) {
	return s.worldRepo.List(ctx)
}

// GetWorldState собирает снапшот без кэширования: каждое обращение читает
// последнее персистентное состояние. У мира без активной арки CurrentArc
// и CurrentBeats пустые.
func (s *worldServiceImpl) GetWorldState(ctx context.Context, worldID uuid.UUID) (*models.WorldState, error) {
	world, err := s.worldRepo.GetByID(ctx, worldID)
	if err != nil {
		return nil, err
	}

	state := &models.WorldState{World: world}

	if world.CurrentArcID != nil {
		arc, err := s.arcRepo.GetByID(ctx, *world.CurrentArcID)
		if err != nil {
			return nil, fmt.Errorf("ошибка получения текущей арки мира %s: %w", worldID, err)
		}
		beats, err := s.beatRepo.ListByArc(ctx, arc.ID)
		if err != nil {
			return nil, err
		}
		state.CurrentArc = arc
		state.CurrentBeats = beats
	}

	events, err := s.eventRepo.ListRecentByWorld(ctx, worldID, recentEventsForState)
	if err != nil {
		return nil, err
	}
	state.RecentEvents = events

	return state, nil
}

func (s *worldServiceImpl) GetWorldArcs(ctx context.Context, worldID uuid.UUID) ([]models.WorldArc, error) {
	if _, err := s.worldRepo.GetByID(ctx, worldID); err != nil {
		return nil, err
	}
	return s.arcRepo.ListByWorld(ctx, worldID)
}

// RecordWorldEvent добавляет запись в журнал мира. Привязка к арке/биту
// опциональна и не проверяется на существование: журнал append-only и
// переживает удаление источника.
func (s *worldServiceImpl) RecordWorldEvent(
	ctx context.Context,
	worldID uuid.UUID,
	eventType models.EventType,
	description string,
	impactLevel models.ImpactLevel,
	arcID, beatID *uuid.UUID,
) (*models.WorldEvent, error) {
	if !eventType.IsValid() {
		return nil, fmt.Errorf("%w: недопустимый event_type '%s'", models.ErrInvalidInput, eventType)
	}
	if !impactLevel.IsValid() {
		return nil, fmt.Errorf("%w: недопустимый impact_level '%s'", models.ErrInvalidInput, impactLevel)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: описание события не может быть пустым", models.ErrInvalidInput)
	}
	if _, err := s.worldRepo.GetByID(ctx, worldID); err != nil {
		return nil, err
	}

	event := &models.WorldEvent{
		ID:          uuid.New(),
		WorldID:     worldID,
		ArcID:       arcID,
		BeatID:      beatID,
		EventType:   eventType,
		ImpactLevel: impactLevel,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	// Уведомление best-effort: журнал уже записан, сбой брокера не
	// откатывает операцию.
	if err := s.publisher.PublishEventLogged(ctx, messaging.EventLoggedPayload{
		WorldID:     event.WorldID,
		EventID:     event.ID,
		ArcID:       event.ArcID,
		BeatID:      event.BeatID,
		EventType:   string(event.EventType),
		Description: event.Description,
		ImpactLevel: string(event.ImpactLevel),
		CreatedAt:   event.CreatedAt,
	}); err != nil {
		s.logger.Warn("Failed to publish event logged notification",
			zap.String("worldID", worldID.String()),
			zap.String("eventID", event.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("World event recorded",
		zap.String("worldID", worldID.String()),
		zap.String("eventID", event.ID.String()),
		zap.String("eventType", string(event.EventType)),
		zap.String("impactLevel", string(event.ImpactLevel)))
	return event, nil
}

// recordSystemEvent - внутренняя запись системного события прогрессии.
// Сбой логируется, но не прерывает основную операцию.
func recordSystemEvent(
	ctx context.Context,
	eventRepo repository.EventRepository,
	logger *zap.Logger,
	worldID uuid.UUID,
	arcID, beatID *uuid.UUID,
	description string,
	impactLevel models.ImpactLevel,
) *models.WorldEvent {
	event := &models.WorldEvent{
		ID:          uuid.New(),
		WorldID:     worldID,
		ArcID:       arcID,
		BeatID:      beatID,
		EventType:   models.EventTypeSystemEvent,
		ImpactLevel: impactLevel,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := eventRepo.Create(ctx, event); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("Failed to record system event",
				zap.String("worldID", worldID.String()),
				zap.String("description", description),
				zap.Error(err))
		}
		return nil
	}
	return event
}
