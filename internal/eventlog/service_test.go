package eventlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/event"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
)

// MockEventBus is a mock implementation of event.Bus
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, evt event.Event) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(eventType event.Type, handler event.Handler) {
	m.Called(eventType, handler)
}

func TestService_Subscribe(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo)
	mockBus := new(MockEventBus)

	for _, et := range LoggedEventTypes {
		mockBus.On("Subscribe", et, mock.Anything).Return()
	}

	err := service.Subscribe(mockBus)
	assert.NoError(t, err)
	mockBus.AssertExpectations(t)
	mockBus.AssertNumberOfCalls(t, "Subscribe", 8)
}

func TestService_HandleEvent_MapPayload(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo).(*service)

	ctx := context.Background()
	playerID := "player-1"
	payload := map[string]interface{}{
		"player_id": playerID,
		"spawn_id":  "abc",
	}
	evt := event.Event{
		Type:     event.SpawnAbandoned,
		Payload:  payload,
		Metadata: map[string]interface{}{"source": "test"},
	}

	mockRepo.On("LogEvent", ctx, "spawn.abandoned", &playerID, payload, map[string]interface{}{"source": "test"}).Return(nil)

	err := svc.handleEvent(ctx, evt)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_HandleEvent_TypedPayloadUsesHolderID(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo).(*service)
	ctx := context.Background()

	sp := &domain.Spawn{
		ID:          uuid.New(),
		State:       domain.SpawnStateReserved,
		Reservation: &domain.Reservation{HolderID: "holder-7"},
	}
	evt := event.NewSpawnExpiredEvent(sp)

	mockRepo.On("LogEvent", ctx, "spawn.expired",
		mock.MatchedBy(func(id *string) bool { return id != nil && *id == "holder-7" }),
		mock.MatchedBy(func(p map[string]interface{}) bool { return p["holder_id"] == "holder-7" }),
		mock.Anything,
	).Return(nil)

	require.NoError(t, svc.handleEvent(ctx, evt))
	mockRepo.AssertExpectations(t)
}

func TestService_HandleEvent_NoPlayer(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo).(*service)
	ctx := context.Background()

	evt := event.NewDailyResetCompleteEvent(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), 12)

	mockRepo.On("LogEvent", ctx, "daily_reset.complete", (*string)(nil), mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.handleEvent(ctx, evt))
	mockRepo.AssertExpectations(t)
}

func TestService_HandleEvent_NonObjectPayloadSkipped(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo).(*service)

	err := svc.handleEvent(context.Background(), event.Event{Type: event.LevelUp, Payload: "not an object"})
	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "LogEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_HandleEvent_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo).(*service)
	ctx := context.Background()

	mockRepo.On("LogEvent", ctx, "progression.level_up", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))

	err := svc.handleEvent(ctx, event.NewLevelUpEvent("p1", 1, 2))
	assert.EqualError(t, err, "db down")
}

func TestService_GetEvents_ClampsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultQueryLimit},
		{"negative uses default", -3, DefaultQueryLimit},
		{"within range", 20, 20},
		{"above max", 10000, MaxQueryLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := NewService(mockRepo)
			ctx := context.Background()

			mockRepo.On("GetEvents", ctx, repository.EventLogFilter{Limit: tt.want}).Return([]repository.EventLogEntry{}, nil)

			_, err := service.GetEvents(ctx, repository.EventLogFilter{Limit: tt.limit})
			require.NoError(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_CleanupOldEvents(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo).(*service)
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	mockRepo.On("CleanupOldEvents", ctx, now.Add(-48*time.Hour)).Return(int64(5), nil)

	count, err := svc.CleanupOldEvents(ctx, 48*time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), count)
	mockRepo.AssertExpectations(t)
}

func TestService_LogsThroughMemoryBus(t *testing.T) {
	mockRepo := new(MockRepository)
	bus := event.NewMemoryBus()
	require.NoError(t, NewService(mockRepo).Subscribe(bus))

	mockRepo.On("LogEvent", mock.Anything, "progression.level_up",
		mock.MatchedBy(func(id *string) bool { return id != nil && *id == "p9" }),
		mock.Anything, mock.Anything,
	).Return(nil)

	require.NoError(t, bus.Publish(context.Background(), event.NewLevelUpEvent("p9", 3, 4)))
	mockRepo.AssertExpectations(t)
}
