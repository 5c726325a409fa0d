package service

import (
	"context"
	"testing"

	"collector/config"
	"collector/events"
	"collector/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPlayerServiceMocks() (*MockUnitOfWork, *MockPlayerRepository, *MockBalanceHistoryRepository) {
	mockUoW := new(MockUnitOfWork)
	mockPlayerRepo := new(MockPlayerRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)
	mockUoW.SetRepositories(mockPlayerRepo, nil, nil, nil, nil, mockHistoryRepo)
	return mockUoW, mockPlayerRepo, mockHistoryRepo
}

func TestPlayerService_GetOrCreatePlayer(t *testing.T) {
	ctx := context.Background()
	cfg := config.Get()

	t.Run("existing player is returned untouched", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _ := newPlayerServiceMocks()
		service := NewPlayerService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		existing := &models.Player{TelegramID: 100, Username: "alice", Coins: 42}
		mockPlayerRepo.On("GetByTelegramID", ctx, int64(100)).Return(existing, nil)

		player, err := service.GetOrCreatePlayer(ctx, 100, "alice")
		require.NoError(t, err)
		assert.Equal(t, existing, player)
		mockPlayerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("new player gets starting balances and history", func(t *testing.T) {
		mockUoW, mockPlayerRepo, mockHistoryRepo := newPlayerServiceMocks()
		service := NewPlayerService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		created := &models.Player{TelegramID: 200, Username: "bob", Coins: cfg.StartingCoins, Gold: cfg.StartingGold}
		mockPlayerRepo.On("GetByTelegramID", ctx, int64(200)).Return(nil, nil)
		mockPlayerRepo.On("Create", ctx, int64(200), "bob", cfg.StartingCoins, cfg.StartingGold).Return(created, nil)
		if cfg.StartingCoins > 0 {
			mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
				return h.TransactionType == models.TransactionTypeInitial &&
					h.Currency == models.CurrencyCoins &&
					h.BalanceAfter == cfg.StartingCoins
			})).Return(nil)
		}

		player, err := service.GetOrCreatePlayer(ctx, 200, "bob")
		require.NoError(t, err)
		assert.Equal(t, cfg.StartingCoins, player.Coins)
		assert.Equal(t, 1, mockUoW.Committed)

		published := mockUoW.PublishedEvents()
		require.NotEmpty(t, published)
		_, ok := published[len(published)-1].(events.PlayerCreatedEvent)
		assert.True(t, ok)

		mockPlayerRepo.AssertExpectations(t)
		mockHistoryRepo.AssertExpectations(t)
	})
}

func TestPlayerService_GetPlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _ := newPlayerServiceMocks()
		service := NewPlayerService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetByTelegramID", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)

		player, err := service.GetPlayer(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(100), player.TelegramID)
	})

	t.Run("not found", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _ := newPlayerServiceMocks()
		service := NewPlayerService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetByTelegramID", ctx, int64(100)).Return(nil, nil)

		_, err := service.GetPlayer(ctx, 100)
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})
}

func TestPlayerService_RecordGameResult(t *testing.T) {
	ctx := context.Background()

	t.Run("win extends the streak", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _ := newPlayerServiceMocks()
		service := NewPlayerService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		player := &models.Player{TelegramID: 100, TotalGames: 3, GamesWon: 2, TotalPoints: 40, CurrentStreak: 2, BestStreak: 2}
		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(player, nil)
		mockPlayerRepo.On("UpdateStats", ctx, player).Return(nil)

		updated, err := service.RecordGameResult(ctx, 100, true, 15)
		require.NoError(t, err)
		assert.Equal(t, 4, updated.TotalGames)
		assert.Equal(t, 3, updated.GamesWon)
		assert.Equal(t, 55, updated.TotalPoints)
		assert.Equal(t, 3, updated.CurrentStreak)
		assert.Equal(t, 3, updated.BestStreak)
	})

	t.Run("loss resets the streak", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _ := newPlayerServiceMocks()
		service := NewPlayerService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		player := &models.Player{TelegramID: 100, CurrentStreak: 5, BestStreak: 5}
		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(player, nil)
		mockPlayerRepo.On("UpdateStats", ctx, player).Return(nil)

		updated, err := service.RecordGameResult(ctx, 100, false, 0)
		require.NoError(t, err)
		assert.Zero(t, updated.CurrentStreak)
		assert.Equal(t, 5, updated.BestStreak)
	})

	t.Run("negative points rejected", func(t *testing.T) {
		mockUoW, _, _ := newPlayerServiceMocks()
		service := NewPlayerService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		_, err := service.RecordGameResult(ctx, 100, true, -1)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestPlayerService_GetLeaderboard(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockPlayerRepo, _ := newPlayerServiceMocks()
	service := NewPlayerService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

	entries := []*models.LeaderboardEntry{
		{TelegramID: 1, TotalPoints: 500},
		{TelegramID: 2, TotalPoints: 300},
	}
	mockPlayerRepo.On("GetLeaderboard", ctx, 10).Return(entries, nil)

	got, err := service.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
