package mocks

import (
	"context"

	"story-engine/internal/messaging"

	"github.com/stretchr/testify/mock"
)

// Mock WorldUpdatePublisher
type WorldUpdatePublisher struct {
	mock.Mock
}

func (m *WorldUpdatePublisher) PublishArcCreated(ctx context.Context, payload messaging.ArcCreatedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *WorldUpdatePublisher) PublishBeatCreated(ctx context.Context, payload messaging.BeatCreatedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *WorldUpdatePublisher) PublishArcCompleted(ctx context.Context, payload messaging.ArcCompletedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *WorldUpdatePublisher) PublishEventLogged(ctx context.Context, payload messaging.EventLoggedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
