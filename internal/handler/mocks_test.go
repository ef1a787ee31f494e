package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
)

// MockHuntService mocks hunt.Service
type MockHuntService struct {
	mock.Mock
}

func (m *MockHuntService) ListNearbySpawns(ctx context.Context, playerID string, at domain.Location, radius float64) ([]domain.NearbySpawn, error) {
	args := m.Called(ctx, playerID, at, radius)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NearbySpawn), args.Error(1)
}

func (m *MockHuntService) ReserveSpawn(ctx context.Context, playerID string, spawnID uuid.UUID) (*domain.ReservationResult, error) {
	args := m.Called(ctx, playerID, spawnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReservationResult), args.Error(1)
}

func (m *MockHuntService) ArriveAtSpawn(ctx context.Context, playerID string, spawnID uuid.UUID, at domain.Location) (*domain.ArrivalResult, error) {
	args := m.Called(ctx, playerID, spawnID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArrivalResult), args.Error(1)
}

func (m *MockHuntService) AttemptCatch(ctx context.Context, playerID string, spawnID uuid.UUID, timingInput float64) (*domain.CatchResult, error) {
	args := m.Called(ctx, playerID, spawnID, timingInput)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatchResult), args.Error(1)
}

func (m *MockHuntService) AbandonSpawn(ctx context.Context, playerID string, spawnID uuid.UUID) error {
	args := m.Called(ctx, playerID, spawnID)
	return args.Error(0)
}

func (m *MockHuntService) GetProgress(ctx context.Context, playerID string) (*domain.PlayerProgress, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlayerProgress), args.Error(1)
}

func (m *MockHuntService) SpendWarmth(ctx context.Context, playerID string, feature domain.Feature, at *domain.Location) (*domain.SpendResult, error) {
	args := m.Called(ctx, playerID, feature, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpendResult), args.Error(1)
}

func (m *MockHuntService) ListCatches(ctx context.Context, playerID string, limit int) ([]domain.CatchRecord, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatchRecord), args.Error(1)
}

func (m *MockHuntService) CreateSpawn(ctx context.Context, req domain.NewSpawn) (*domain.Spawn, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Spawn), args.Error(1)
}

func (m *MockHuntService) SweepExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockPinger mocks the readiness dependency
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockResetTrigger mocks DailyResetTrigger
type MockResetTrigger struct {
	mock.Mock
}

func (m *MockResetTrigger) RunOnce(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventLogReader struct {
	mock.Mock
}

func (m *MockEventLogReader) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.EventLogEntry), args.Error(1)
}
