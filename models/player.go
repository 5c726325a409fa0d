package models

import (
	"time"
)

// Player represents a Telegram user with currency balances and game statistics
type Player struct {
	TelegramID int64  `db:"telegram_id"`
	Username   string `db:"username"`

	// Currency balances. Coins are the primary currency, gold the premium one.
	Coins int64 `db:"coins"`
	Gold  int64 `db:"gold"`

	// Aggregate game statistics
	TotalGames    int `db:"total_games"`
	GamesWon      int `db:"games_won"`
	TotalPoints   int `db:"total_points"`
	CurrentStreak int `db:"current_streak"`
	BestStreak    int `db:"best_streak"`

	NotificationsEnabled bool   `db:"notifications_enabled"`
	Language             string `db:"language"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford checks whether the player has both balances required for a purchase
func (p *Player) CanAfford(coins, gold int64) bool {
	return p.Coins >= coins && p.Gold >= gold
}

// WinRate returns the percentage of games won, 0 if no games were played
func (p *Player) WinRate() float64 {
	if p.TotalGames == 0 {
		return 0
	}
	return float64(p.GamesWon) / float64(p.TotalGames) * 100
}

// RecordGame updates the aggregate statistics after a finished game
func (p *Player) RecordGame(won bool, points int) {
	p.TotalGames++
	p.TotalPoints += points
	if won {
		p.GamesWon++
		p.CurrentStreak++
		if p.CurrentStreak > p.BestStreak {
			p.BestStreak = p.CurrentStreak
		}
	} else {
		p.CurrentStreak = 0
	}
}
