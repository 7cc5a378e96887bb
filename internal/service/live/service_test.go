package live

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/productivity-backend-go/internal/domain/session"
	"github.com/cmlabs-hris/productivity-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/productivity-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/productivity-backend-go/internal/service/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveTracking_PublishesToAgentAndManager(t *testing.T) {
	ctx := context.Background()
	repos := fixtures.NewRepositories()
	demo, err := fixtures.SeedDemo(ctx, repos.Users)
	require.NoError(t, err)

	hub := sse.NewHub()
	svc := NewLiveTrackingService(tracking.NewTrackingService(repos.Sessions, repos.Targets, fixtures.Clock()), repos.Users, hub, logger.Discard())

	managerStream, closeManager := hub.Subscribe(demo.Manager.ID)
	defer closeManager()
	aliceStream, closeAlice := hub.Subscribe(demo.Alice.ID)
	defer closeAlice()
	bobStream, closeBob := hub.Subscribe(demo.Bob.ID)
	defer closeBob()

	_, err = svc.RecordActivity(ctx, demo.Alice.ID, session.RecordActivityRequest{ActiveMinutes: 15})
	require.NoError(t, err)

	require.Len(t, managerStream, 1)
	require.Len(t, aliceStream, 1)
	assert.Len(t, bobStream, 0)

	event := <-managerStream
	assert.Equal(t, EventSessionUpdated, event.Name)
	payload, ok := event.Data.(SessionEvent)
	require.True(t, ok)
	assert.Equal(t, "Alice", payload.Name)
	assert.Equal(t, 15, payload.Session.ActiveMinutes)

	_, err = svc.CompleteSession(ctx, demo.Alice.ID, fixtures.TodayDate)
	require.NoError(t, err)
	assert.Len(t, managerStream, 1)
}

func TestLiveTracking_NoEventOnFailure(t *testing.T) {
	ctx := context.Background()
	repos := fixtures.NewRepositories()
	demo, err := fixtures.SeedDemo(ctx, repos.Users)
	require.NoError(t, err)

	hub := sse.NewHub()
	svc := NewLiveTrackingService(tracking.NewTrackingService(repos.Sessions, repos.Targets, fixtures.Clock()), repos.Users, hub, logger.Discard())

	stream, closeFn := hub.Subscribe(demo.Carol.ID)
	defer closeFn()

	_, err = svc.RecordActivity(ctx, demo.Carol.ID, session.RecordActivityRequest{ActiveMinutes: -5})
	require.Error(t, err)
	_, err = svc.CompleteSession(ctx, demo.Carol.ID, fixtures.TodayDate)
	require.ErrorIs(t, err, session.ErrSessionNotFound)

	assert.Len(t, stream, 0)
}
