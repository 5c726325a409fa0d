package models

import (
	"time"
)

// Currency identifies which of the two balances a history entry touched
type Currency string

const (
	CurrencyCoins Currency = "coins"
	CurrencyGold  Currency = "gold"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial      TransactionType = "initial"
	TransactionTypeCardPurchase TransactionType = "card_purchase"
	TransactionTypeCardSale     TransactionType = "card_sale"
	TransactionTypeItemPurchase TransactionType = "item_purchase"
	TransactionTypeGameReward   TransactionType = "game_reward"
	TransactionTypeAdminAdjust  TransactionType = "admin_adjust"
)

// RelatedType represents what type of entity the related_id refers to
type RelatedType string

const (
	RelatedTypeCardInstance RelatedType = "card_instance"
	RelatedTypeCardTemplate RelatedType = "card_template"
	RelatedTypeItem         RelatedType = "item"
)

// BalanceHistory represents a historical balance change on one currency
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	PlayerID            int64           `db:"player_id"`
	Currency            Currency        `db:"currency"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	RelatedID           *int64          `db:"related_id"`
	RelatedType         *RelatedType    `db:"related_type"`
	CreatedAt           time.Time       `db:"created_at"`
}
