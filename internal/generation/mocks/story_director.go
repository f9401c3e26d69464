package mocks

import (
	"context"

	"story-engine/internal/generation"
	"story-engine/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock StoryDirector
type StoryDirector struct {
	mock.Mock
}

func (m *StoryDirector) GenerateAnchors(ctx context.Context, req generation.AnchorRequest) (*models.AnchorBatch, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnchorBatch), args.Error(1)
}

func (m *StoryDirector) GenerateDynamicBeat(ctx context.Context, req generation.DynamicBeatRequest) (*models.DynamicBeatPayload, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DynamicBeatPayload), args.Error(1)
}

func (m *StoryDirector) GenerateSummary(ctx context.Context, req generation.SummaryRequest) (*models.ArcSummaryPayload, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ArcSummaryPayload), args.Error(1)
}
