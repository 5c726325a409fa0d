package testutil

import (
	"context"
	"testing"

	"collector/database"
	"collector/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// CreateTestPlayer inserts a player with the given starting balances
// and returns the row.
func CreateTestPlayer(t *testing.T, db *database.DB, telegramID int64, coins, gold int64) *models.Player {
	ctx := context.Background()

	var p models.Player
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO players (telegram_id, username, coins, gold)
		VALUES ($1, $2, $3, $4)
		RETURNING telegram_id, username, coins, gold, created_at, updated_at
	`, telegramID, "testplayer", coins, gold).
		Scan(&p.TelegramID, &p.Username, &p.Coins, &p.Gold, &p.CreatedAt, &p.UpdatedAt)
	require.NoError(t, err)

	return &p
}

// CreateTestCatalog inserts a universe and a season and returns their IDs.
// Both rows go in one transaction so a failure leaves no orphan universe.
func CreateTestCatalog(t *testing.T, db *database.DB) (universeID, seasonID int64) {
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO universes (name) VALUES ('Test Universe') RETURNING id
		`).Scan(&universeID); err != nil {
			return err
		}

		return tx.QueryRow(ctx, `
			INSERT INTO seasons (universe_id, name, season_number)
			VALUES ($1, 'Season One', 1)
			RETURNING id
		`, universeID).Scan(&seasonID)
	})
	require.NoError(t, err)

	return universeID, seasonID
}

// CreateTestTemplate inserts a card template with fixed single-point
// stat ranges so rolled instances are deterministic.
func CreateTestTemplate(t *testing.T, db *database.DB, universeID, seasonID int64, name string, coinCost int64) *models.CardTemplate {
	tmpl := &models.CardTemplate{
		Name:       name,
		UniverseID: universeID,
		SeasonID:   seasonID,
		Element:    models.ElementNeutral,
		Rarity:     models.RarityCommon,
		HealthMin:  100,
		HealthMax:  100,
		AttackMin:  10,
		AttackMax:  10,
		DefenseMin: 5,
		DefenseMax: 5,
		CoinCost:   coinCost,
		SellPrice:  coinCost / 2,
		IsActive:   true,
	}
	InsertTestTemplate(t, db, tmpl)
	return tmpl
}

// InsertTestTemplate inserts an arbitrary template and fills its ID
func InsertTestTemplate(t *testing.T, db *database.DB, tmpl *models.CardTemplate) {
	ctx := context.Background()

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO card_templates
			(name, description, image_url, universe_id, season_id, element, rarity,
			 health_min, health_max, attack_min, attack_max, defense_min, defense_max,
			 coin_cost, gold_cost, sell_price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`,
		tmpl.Name, tmpl.Description, tmpl.ImageURL, tmpl.UniverseID, tmpl.SeasonID,
		tmpl.Element, tmpl.Rarity,
		tmpl.HealthMin, tmpl.HealthMax, tmpl.AttackMin, tmpl.AttackMax,
		tmpl.DefenseMin, tmpl.DefenseMax,
		tmpl.CoinCost, tmpl.GoldCost, tmpl.SellPrice, tmpl.IsActive,
	).Scan(&tmpl.ID, &tmpl.CreatedAt, &tmpl.UpdatedAt)
	require.NoError(t, err)
}

// CreateTestInstance inserts a card instance at the template's minimum
// stats with full health.
func CreateTestInstance(t *testing.T, db *database.DB, tmpl *models.CardTemplate, ownerID int64) *models.CardInstance {
	ctx := context.Background()

	card := &models.CardInstance{
		TemplateID:    tmpl.ID,
		OwnerID:       ownerID,
		Health:        tmpl.HealthMin,
		Attack:        tmpl.AttackMin,
		Defense:       tmpl.DefenseMin,
		CurrentHealth: tmpl.HealthMin,
		Level:         1,
	}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO card_instances
			(template_id, owner_id, health, attack, defense, current_health, level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, acquired_at
	`,
		card.TemplateID, card.OwnerID, card.Health, card.Attack, card.Defense,
		card.CurrentHealth, card.Level,
	).Scan(&card.ID, &card.AcquiredAt)
	require.NoError(t, err)

	card.TemplateName = tmpl.Name
	card.TemplateRarity = tmpl.Rarity
	card.TemplateElement = tmpl.Element
	return card
}

// CreateTestDeck inserts an inactive deck
func CreateTestDeck(t *testing.T, db *database.DB, ownerID int64, name string) *models.Deck {
	ctx := context.Background()

	deck := &models.Deck{OwnerID: ownerID, Name: name}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO decks (owner_id, name) VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, ownerID, name).Scan(&deck.ID, &deck.CreatedAt, &deck.UpdatedAt)
	require.NoError(t, err)

	return deck
}

// CreateTestItem inserts a shop item
func CreateTestItem(t *testing.T, db *database.DB, name string, coinCost int64, maxStack int, stackable bool) *models.Item {
	ctx := context.Background()

	item := &models.Item{
		Name:        name,
		Rarity:      models.RarityCommon,
		ItemType:    models.ItemTypeConsumable,
		CoinCost:    coinCost,
		MaxStack:    maxStack,
		IsStackable: stackable,
		IsActive:    true,
	}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO items (name, rarity, item_type, coin_cost, gold_cost, max_stack, is_stackable, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`,
		item.Name, item.Rarity, item.ItemType, item.CoinCost, item.GoldCost,
		item.MaxStack, item.IsStackable, item.IsActive,
	).Scan(&item.ID, &item.CreatedAt)
	require.NoError(t, err)

	return item
}
