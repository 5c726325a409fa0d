package models

import (
	"time"
)

// ItemType categorizes catalog items
type ItemType string

const (
	ItemTypeConsumable  ItemType = "consumable"
	ItemTypeEquipment   ItemType = "equipment"
	ItemTypeCollectible ItemType = "collectible"
	ItemTypeCurrency    ItemType = "currency"
	ItemTypeOther       ItemType = "other"
)

// Item is a catalog entry for a stackable inventory item
type Item struct {
	ID          int64    `db:"id"`
	Name        string   `db:"name"`
	Description string   `db:"description"`
	Rarity      Rarity   `db:"rarity"`
	ItemType    ItemType `db:"item_type"`

	CoinCost int64 `db:"coin_cost"`
	GoldCost int64 `db:"gold_cost"`

	MaxStack    int  `db:"max_stack"`
	IsStackable bool `db:"is_stackable"`

	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// InventoryItem is the quantity of one item held by one player.
// There is exactly one row per (player, item) pair.
type InventoryItem struct {
	ID         int64     `db:"id"`
	PlayerID   int64     `db:"player_id"`
	ItemID     int64     `db:"item_id"`
	Quantity   int       `db:"quantity"`
	AcquiredAt time.Time `db:"acquired_at"`
	UpdatedAt  time.Time `db:"updated_at"`

	ItemName string `db:"-"`
}

// CanHold reports whether adding amount would stay within the item's stack cap
func (i *Item) CanHold(current, amount int) bool {
	if !i.IsStackable {
		return current == 0 && amount == 1
	}
	return current+amount <= i.MaxStack
}
