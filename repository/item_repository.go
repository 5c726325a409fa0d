package repository

import (
	"context"
	"fmt"

	"collector/database"
	"collector/models"
	"collector/service"
	"github.com/jackc/pgx/v5"
)

const itemColumns = `id, name, description, rarity, item_type, coin_cost, gold_cost, max_stack, is_stackable, is_active, created_at`

// ItemRepository implements the service.ItemRepository interface
type ItemRepository struct {
	q queryable
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{q: db.Pool}
}

// newItemRepositoryWithTx creates a new item repository with a transaction
func newItemRepositoryWithTx(tx queryable) *ItemRepository {
	return &ItemRepository{q: tx}
}

func scanItem(row pgx.Row) (*models.Item, error) {
	var i models.Item
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Rarity,
		&i.ItemType,
		&i.CoinCost,
		&i.GoldCost,
		&i.MaxStack,
		&i.IsStackable,
		&i.IsActive,
		&i.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// GetByID retrieves an item, nil when absent
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM items WHERE id = $1`, itemColumns)

	item, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}

	return item, nil
}

// ListActive returns all items available in the shop
func (r *ItemRepository) ListActive(ctx context.Context) ([]*models.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM items WHERE is_active ORDER BY coin_cost, name`, itemColumns)

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// GetInventory returns a player's inventory with item names joined
func (r *ItemRepository) GetInventory(ctx context.Context, playerID int64) ([]*models.InventoryItem, error) {
	query := `
		SELECT inv.id, inv.player_id, inv.item_id, inv.quantity, inv.acquired_at, inv.updated_at, i.name
		FROM inventory_items inv
		JOIN items i ON i.id = inv.item_id
		WHERE inv.player_id = $1 AND inv.quantity > 0
		ORDER BY i.name
	`

	rows, err := r.q.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory for player %d: %w", playerID, err)
	}
	defer rows.Close()

	var entries []*models.InventoryItem
	for rows.Next() {
		var e models.InventoryItem
		err := rows.Scan(&e.ID, &e.PlayerID, &e.ItemID, &e.Quantity, &e.AcquiredAt, &e.UpdatedAt, &e.ItemName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory: %w", err)
	}

	return entries, nil
}

// GetInventoryItem returns the (player, item) row, nil when absent
func (r *ItemRepository) GetInventoryItem(ctx context.Context, playerID, itemID int64) (*models.InventoryItem, error) {
	query := `
		SELECT inv.id, inv.player_id, inv.item_id, inv.quantity, inv.acquired_at, inv.updated_at, i.name
		FROM inventory_items inv
		JOIN items i ON i.id = inv.item_id
		WHERE inv.player_id = $1 AND inv.item_id = $2
	`

	var e models.InventoryItem
	err := r.q.QueryRow(ctx, query, playerID, itemID).
		Scan(&e.ID, &e.PlayerID, &e.ItemID, &e.Quantity, &e.AcquiredAt, &e.UpdatedAt, &e.ItemName)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item (%d, %d): %w", playerID, itemID, err)
	}

	return &e, nil
}

// AddQuantity adds amount to the stack, creating the row when absent.
// The conditional update keeps the stack within maxStack even under
// concurrent purchases; zero rows affected means the cap was hit.
func (r *ItemRepository) AddQuantity(ctx context.Context, playerID, itemID int64, amount, maxStack int) error {
	if amount > maxStack {
		return service.ErrStackLimit
	}

	query := `
		INSERT INTO inventory_items (player_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, item_id)
		DO UPDATE SET quantity = inventory_items.quantity + EXCLUDED.quantity,
		              updated_at = NOW()
		WHERE inventory_items.quantity + EXCLUDED.quantity <= $4
	`

	result, err := r.q.Exec(ctx, query, playerID, itemID, amount, maxStack)
	if err != nil {
		return fmt.Errorf("failed to add %d of item %d for player %d: %w", amount, itemID, playerID, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrStackLimit
	}

	return nil
}

// RemoveQuantity removes amount from the stack. The conditional update
// guards against going negative; zero rows affected means the stack was
// too small or absent.
func (r *ItemRepository) RemoveQuantity(ctx context.Context, playerID, itemID int64, amount int) error {
	query := `
		UPDATE inventory_items
		SET quantity = quantity - $3, updated_at = NOW()
		WHERE player_id = $1 AND item_id = $2 AND quantity >= $3
	`

	result, err := r.q.Exec(ctx, query, playerID, itemID, amount)
	if err != nil {
		return fmt.Errorf("failed to remove %d of item %d for player %d: %w", amount, itemID, playerID, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrInsufficientQuantity
	}

	return nil
}
