package repository

import (
	"context"
	"fmt"

	"collector/database"
	"collector/models"
	"collector/service"
	"github.com/jackc/pgx/v5"
)

const playerColumns = `
	telegram_id, username, coins, gold,
	total_games, games_won, total_points, current_streak, best_streak,
	notifications_enabled, language, created_at, updated_at`

// PlayerRepository implements the service.PlayerRepository interface
type PlayerRepository struct {
	q queryable
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

// newPlayerRepositoryWithTx creates a new player repository with a transaction
func newPlayerRepositoryWithTx(tx queryable) *PlayerRepository {
	return &PlayerRepository{q: tx}
}

// GetByTelegramID retrieves a player by their Telegram ID, nil when absent
func (r *PlayerRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Player, error) {
	query := `SELECT` + playerColumns + `
		FROM players
		WHERE telegram_id = $1`

	return r.getOne(ctx, query, telegramID)
}

// GetForUpdate retrieves a player holding a row lock for the rest of
// the transaction. Serializes a player's deck and currency mutations.
func (r *PlayerRepository) GetForUpdate(ctx context.Context, telegramID int64) (*models.Player, error) {
	query := `SELECT` + playerColumns + `
		FROM players
		WHERE telegram_id = $1
		FOR UPDATE`

	return r.getOne(ctx, query, telegramID)
}

func (r *PlayerRepository) getOne(ctx context.Context, query string, telegramID int64) (*models.Player, error) {
	var p models.Player
	err := r.q.QueryRow(ctx, query, telegramID).Scan(
		&p.TelegramID,
		&p.Username,
		&p.Coins,
		&p.Gold,
		&p.TotalGames,
		&p.GamesWon,
		&p.TotalPoints,
		&p.CurrentStreak,
		&p.BestStreak,
		&p.NotificationsEnabled,
		&p.Language,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", telegramID, err)
	}

	return &p, nil
}

// Create creates a new player with the given starting balances
func (r *PlayerRepository) Create(ctx context.Context, telegramID int64, username string, coins, gold int64) (*models.Player, error) {
	query := `
		INSERT INTO players (telegram_id, username, coins, gold)
		VALUES ($1, $2, $3, $4)
		RETURNING` + playerColumns

	var p models.Player
	err := r.q.QueryRow(ctx, query, telegramID, username, coins, gold).Scan(
		&p.TelegramID,
		&p.Username,
		&p.Coins,
		&p.Gold,
		&p.TotalGames,
		&p.GamesWon,
		&p.TotalPoints,
		&p.CurrentStreak,
		&p.BestStreak,
		&p.NotificationsEnabled,
		&p.Language,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create player %d: %w", telegramID, err)
	}

	return &p, nil
}

// DebitBalances decrements both balances atomically. The conditional
// WHERE makes overdraw impossible even without the caller holding the
// player lock.
func (r *PlayerRepository) DebitBalances(ctx context.Context, telegramID int64, coins, gold int64) error {
	if coins < 0 || gold < 0 {
		return service.ErrInvalidAmount
	}

	query := `
		UPDATE players
		SET coins = coins - $1, gold = gold - $2, updated_at = NOW()
		WHERE telegram_id = $3 AND coins >= $1 AND gold >= $2
	`

	result, err := r.q.Exec(ctx, query, coins, gold, telegramID)
	if err != nil {
		return fmt.Errorf("failed to debit player %d: %w", telegramID, err)
	}

	if result.RowsAffected() == 0 {
		player, err := r.GetByTelegramID(ctx, telegramID)
		if err != nil {
			return fmt.Errorf("failed to check player: %w", err)
		}
		if player == nil {
			return service.ErrPlayerNotFound
		}
		return service.ErrInsufficientFunds
	}

	return nil
}

// CreditCoins adds to the primary balance
func (r *PlayerRepository) CreditCoins(ctx context.Context, telegramID int64, amount int64) error {
	return r.credit(ctx, telegramID, "coins", amount)
}

// CreditGold adds to the premium balance
func (r *PlayerRepository) CreditGold(ctx context.Context, telegramID int64, amount int64) error {
	return r.credit(ctx, telegramID, "gold", amount)
}

func (r *PlayerRepository) credit(ctx context.Context, telegramID int64, column string, amount int64) error {
	if amount <= 0 {
		return service.ErrInvalidAmount
	}

	// column is one of the two fixed balance column names
	query := fmt.Sprintf(`
		UPDATE players
		SET %s = %s + $1, updated_at = NOW()
		WHERE telegram_id = $2
	`, column, column)

	result, err := r.q.Exec(ctx, query, amount, telegramID)
	if err != nil {
		return fmt.Errorf("failed to credit player %d: %w", telegramID, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrPlayerNotFound
	}

	return nil
}

// UpdateStats persists the aggregate game statistics fields
func (r *PlayerRepository) UpdateStats(ctx context.Context, player *models.Player) error {
	query := `
		UPDATE players
		SET total_games = $1, games_won = $2, total_points = $3,
		    current_streak = $4, best_streak = $5, updated_at = NOW()
		WHERE telegram_id = $6
	`

	result, err := r.q.Exec(ctx, query,
		player.TotalGames,
		player.GamesWon,
		player.TotalPoints,
		player.CurrentStreak,
		player.BestStreak,
		player.TelegramID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stats for player %d: %w", player.TelegramID, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrPlayerNotFound
	}

	return nil
}

// GetLeaderboard returns the top players by total points
func (r *PlayerRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT telegram_id, username, total_points, games_won, total_games
		FROM players
		ORDER BY total_points DESC, games_won DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var e models.LeaderboardEntry
		err := rows.Scan(&e.TelegramID, &e.Username, &e.TotalPoints, &e.GamesWon, &e.TotalGames)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}

	return entries, nil
}
