package mocks

import (
	"context"
	"time"

	"story-engine/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock WorldRepository
type WorldRepository struct {
	mock.Mock
}

func (m *WorldRepository) Create(ctx context.Context, world *models.World) error {
	args := m.Called(ctx, world)
	return args.Error(0)
}

func (m *WorldRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.World, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.World), args.Error(1)
}

func (m *WorldRepository) List(ctx context.Context) ([]models.World, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.World), args.Error(1)
}

func (m *WorldRepository) UpdateCurrentArc(ctx context.Context, worldID uuid.UUID, arcID *uuid.UUID) error {
	args := m.Called(ctx, worldID, arcID)
	return args.Error(0)
}

// Mock ArcRepository
type ArcRepository struct {
	mock.Mock
}

func (m *ArcRepository) Create(ctx context.Context, arc *models.WorldArc) error {
	args := m.Called(ctx, arc)
	return args.Error(0)
}

func (m *ArcRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WorldArc, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorldArc), args.Error(1)
}

func (m *ArcRepository) ListByWorld(ctx context.Context, worldID uuid.UUID) ([]models.WorldArc, error) {
	args := m.Called(ctx, worldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorldArc), args.Error(1)
}

func (m *ArcRepository) ListCompletedSummaries(ctx context.Context, worldID uuid.UUID, limit int) ([]string, error) {
	args := m.Called(ctx, worldID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *ArcRepository) MarkCompleted(ctx context.Context, arcID uuid.UUID, summary string, completedAt time.Time) error {
	args := m.Called(ctx, arcID, summary, completedAt)
	return args.Error(0)
}

// Mock BeatRepository
type BeatRepository struct {
	mock.Mock
}

func (m *BeatRepository) Create(ctx context.Context, beat *models.WorldBeat) error {
	args := m.Called(ctx, beat)
	return args.Error(0)
}

func (m *BeatRepository) ListByArc(ctx context.Context, arcID uuid.UUID) ([]models.WorldBeat, error) {
	args := m.Called(ctx, arcID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorldBeat), args.Error(1)
}

// Mock EventRepository
type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Create(ctx context.Context, event *models.WorldEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventRepository) ListRecentByWorld(ctx context.Context, worldID uuid.UUID, limit int) ([]models.WorldEvent, error) {
	args := m.Called(ctx, worldID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorldEvent), args.Error(1)
}
