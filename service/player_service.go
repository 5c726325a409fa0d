package service

import (
	"context"
	"fmt"

	"collector/config"
	"collector/events"
	"collector/models"
)

type playerService struct {
	uowFactory UnitOfWorkFactory
}

// NewPlayerService creates a new player service
func NewPlayerService(uowFactory UnitOfWorkFactory) PlayerService {
	return &playerService{
		uowFactory: uowFactory,
	}
}

// GetOrCreatePlayer retrieves an existing player or registers a new one
// with the configured starting balances
func (s *playerService) GetOrCreatePlayer(ctx context.Context, telegramID int64, username string) (*models.Player, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	player, err := uow.PlayerRepository().GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing player: %w", err)
	}
	if player != nil {
		return player, nil
	}

	cfg := config.Get()
	player, err = uow.PlayerRepository().Create(ctx, telegramID, username, cfg.StartingCoins, cfg.StartingGold)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	if cfg.StartingCoins > 0 {
		history := &models.BalanceHistory{
			PlayerID:        telegramID,
			Currency:        models.CurrencyCoins,
			BalanceBefore:   0,
			BalanceAfter:    cfg.StartingCoins,
			ChangeAmount:    cfg.StartingCoins,
			TransactionType: models.TransactionTypeInitial,
			TransactionMetadata: map[string]any{
				"username": username,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
	}
	if cfg.StartingGold > 0 {
		history := &models.BalanceHistory{
			PlayerID:        telegramID,
			Currency:        models.CurrencyGold,
			BalanceBefore:   0,
			BalanceAfter:    cfg.StartingGold,
			ChangeAmount:    cfg.StartingGold,
			TransactionType: models.TransactionTypeInitial,
			TransactionMetadata: map[string]any{
				"username": username,
			},
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record initial balance: %w", err)
		}
	}

	uow.EventBus().Publish(events.PlayerCreatedEvent{
		PlayerID:      telegramID,
		Username:      username,
		StartingCoins: cfg.StartingCoins,
		StartingGold:  cfg.StartingGold,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return player, nil
}

// GetPlayer retrieves an existing player
func (s *playerService) GetPlayer(ctx context.Context, telegramID int64) (*models.Player, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	return player, nil
}

// RecordGameResult updates a player's aggregate statistics after a game
func (s *playerService) RecordGameResult(ctx context.Context, telegramID int64, won bool, points int) (*models.Player, error) {
	if points < 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetForUpdate(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	player.RecordGame(won, points)

	if err := uow.PlayerRepository().UpdateStats(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player stats: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return player, nil
}

// GetLeaderboard returns the top players by total points
func (s *playerService) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.PlayerRepository().GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return entries, nil
}
