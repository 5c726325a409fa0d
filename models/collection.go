package models

// CollectionSummary is a read-side rollup of a player's card collection
type CollectionSummary struct {
	TotalCards      int
	UniqueTemplates int
	InDeck          int
	ByTemplate      map[string]int
	ByRarity        map[Rarity]int
	ByElement       map[Element]int
}

// SellResult reports the outcome of selling a card instance
type SellResult struct {
	Price    int64
	NewCoins int64
}

// LeaderboardEntry is one row of the points leaderboard
type LeaderboardEntry struct {
	TelegramID  int64  `db:"telegram_id"`
	Username    string `db:"username"`
	TotalPoints int    `db:"total_points"`
	GamesWon    int    `db:"games_won"`
	TotalGames  int    `db:"total_games"`
}
