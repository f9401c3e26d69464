package mocks

import (
	"context"

	"story-engine/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock WorldService
type WorldService struct {
	mock.Mock
}

func (m *WorldService) CreateWorld(ctx context.Context, name, description string) (*models.World, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.World), args.Error(1)
}

func (m *WorldService) GetWorld(ctx context.Context, worldID uuid.UUID) (*models.World, error) {
	args := m.Called(ctx, worldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.World), args.Error(1)
}

func (m *WorldService) ListWorlds(ctx context.Context) ([]models.World, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.World), args.Error(1)
}

func (m *WorldService) GetWorldState(ctx context.Context, worldID uuid.UUID) (*models.WorldState, error) {
	args := m.Called(ctx, worldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorldState), args.Error(1)
}

func (m *WorldService) GetWorldArcs(ctx context.Context, worldID uuid.UUID) ([]models.WorldArc, error) {
	args := m.Called(ctx, worldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WorldArc), args.Error(1)
}

func (m *WorldService) RecordWorldEvent(ctx context.Context, worldID uuid.UUID, eventType models.EventType, description string, impactLevel models.ImpactLevel, arcID, beatID *uuid.UUID) (*models.WorldEvent, error) {
	args := m.Called(ctx, worldID, eventType, description, impactLevel, arcID, beatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorldEvent), args.Error(1)
}

// Mock ArcService
type ArcService struct {
	mock.Mock
}

func (m *ArcService) CreateArc(ctx context.Context, worldID uuid.UUID, storyIdea string) (*models.ArcWithAnchors, error) {
	args := m.Called(ctx, worldID, storyIdea)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArcWithAnchors), args.Error(1)
}

func (m *ArcService) ProgressArc(ctx context.Context, worldID, arcID uuid.UUID, actionContext string) (*models.WorldBeat, bool, error) {
	args := m.Called(ctx, worldID, arcID, actionContext)
	var beat *models.WorldBeat
	if args.Get(0) != nil {
		beat = args.Get(0).(*models.WorldBeat)
	}
	return beat, args.Bool(1), args.Error(2)
}

func (m *ArcService) CompleteArc(ctx context.Context, worldID, arcID uuid.UUID) (*models.WorldArc, error) {
	args := m.Called(ctx, worldID, arcID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorldArc), args.Error(1)
}
