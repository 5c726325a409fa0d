package service

import (
	"context"

	"collector/events"
	"collector/models"
)

// PlayerRepository defines the interface for player data access
type PlayerRepository interface {
	// GetByTelegramID retrieves a player, nil when absent
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.Player, error)

	// GetForUpdate retrieves a player holding a row lock for the rest of
	// the transaction. Used to serialize a player's deck and currency
	// mutations against each other.
	GetForUpdate(ctx context.Context, telegramID int64) (*models.Player, error)

	// Create creates a new player with the given starting balances
	Create(ctx context.Context, telegramID int64, username string, coins, gold int64) (*models.Player, error)

	// DebitBalances decrements both balances atomically, failing with
	// ErrInsufficientFunds unless both balances cover their amount
	DebitBalances(ctx context.Context, telegramID int64, coins, gold int64) error

	// CreditCoins adds to the primary balance
	CreditCoins(ctx context.Context, telegramID int64, amount int64) error

	// CreditGold adds to the premium balance
	CreditGold(ctx context.Context, telegramID int64, amount int64) error

	// UpdateStats persists the aggregate game statistics fields
	UpdateStats(ctx context.Context, player *models.Player) error

	// GetLeaderboard returns the top players by total points
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// TemplateRepository defines read access to the card catalog
type TemplateRepository interface {
	// GetByID retrieves a template, nil when absent
	GetByID(ctx context.Context, id int64) (*models.CardTemplate, error)

	// ListActive returns all templates available for acquisition
	ListActive(ctx context.Context) ([]*models.CardTemplate, error)
}

// CardRepository defines the interface for card instance data access
type CardRepository interface {
	// Create inserts a new instance and fills its ID and acquired timestamp
	Create(ctx context.Context, card *models.CardInstance) error

	// GetByID retrieves an instance, nil when absent
	GetByID(ctx context.Context, id int64) (*models.CardInstance, error)

	// GetByOwner returns all instances of a player with template fields joined
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.CardInstance, error)

	// Update persists the mutable fields of an instance
	Update(ctx context.Context, card *models.CardInstance) error

	// Delete removes an instance
	Delete(ctx context.Context, id int64) error
}

// DeckRepository defines the interface for deck and slot data access
type DeckRepository interface {
	Create(ctx context.Context, deck *models.Deck) error
	GetByID(ctx context.Context, id int64) (*models.Deck, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]*models.Deck, error)

	// GetActiveByOwner returns the single active deck, nil when none
	GetActiveByOwner(ctx context.Context, ownerID int64) (*models.Deck, error)

	// GetSlots returns the filled slots of a deck ordered by position
	GetSlots(ctx context.Context, deckID int64) ([]*models.DeckCard, error)

	// GetSlot returns the slot at a position, nil when empty
	GetSlot(ctx context.Context, deckID int64, position int) (*models.DeckCard, error)

	// GetSlotByInstance returns the slot holding an instance anywhere
	// among the owner's decks, nil when the instance is unslotted
	GetSlotByInstance(ctx context.Context, instanceID int64) (*models.DeckCard, error)

	// UpsertSlot fills (deck, position), replacing any current occupant
	UpsertSlot(ctx context.Context, slot *models.DeckCard) error

	// DeleteSlot frees (deck, position)
	DeleteSlot(ctx context.Context, deckID int64, position int) error

	// DeleteSlotByInstance frees whichever slot holds the instance
	DeleteSlotByInstance(ctx context.Context, instanceID int64) error

	// DeactivateAllByOwner clears the active flag on every deck of a player
	DeactivateAllByOwner(ctx context.Context, ownerID int64) error

	// SetActive marks one deck active
	SetActive(ctx context.Context, deckID int64) error
}

// ItemRepository defines the interface for item and inventory data access
type ItemRepository interface {
	// GetByID retrieves an item, nil when absent
	GetByID(ctx context.Context, id int64) (*models.Item, error)

	// ListActive returns all items available in the shop
	ListActive(ctx context.Context) ([]*models.Item, error)

	// GetInventory returns a player's inventory with item names joined
	GetInventory(ctx context.Context, playerID int64) ([]*models.InventoryItem, error)

	// GetInventoryItem returns the (player, item) row, nil when absent
	GetInventoryItem(ctx context.Context, playerID, itemID int64) (*models.InventoryItem, error)

	// AddQuantity adds amount to the stack, failing with ErrStackLimit
	// when the result would exceed maxStack
	AddQuantity(ctx context.Context, playerID, itemID int64, amount, maxStack int) error

	// RemoveQuantity removes amount from the stack, failing with
	// ErrInsufficientQuantity when the stack is too small
	RemoveQuantity(ctx context.Context, playerID, itemID int64, amount int) error
}

// BalanceHistoryRepository defines the interface for balance audit records
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByPlayer returns recent balance history for a player
	GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*models.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// Repository getters
	PlayerRepository() PlayerRepository
	TemplateRepository() TemplateRepository
	CardRepository() CardRepository
	DeckRepository() DeckRepository
	ItemRepository() ItemRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// PlayerService defines the interface for player account operations
type PlayerService interface {
	// GetOrCreatePlayer retrieves an existing player or registers a new
	// one with the configured starting balances
	GetOrCreatePlayer(ctx context.Context, telegramID int64, username string) (*models.Player, error)

	// GetPlayer retrieves an existing player
	GetPlayer(ctx context.Context, telegramID int64) (*models.Player, error)

	// RecordGameResult updates a player's aggregate statistics after a game
	RecordGameResult(ctx context.Context, telegramID int64, won bool, points int) (*models.Player, error)

	// GetLeaderboard returns the top players by total points
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// CardService defines the interface for card instance operations
type CardService interface {
	// AcquireCard debits the template's cost and rolls a new instance
	AcquireCard(ctx context.Context, playerID, templateID int64) (*models.CardInstance, error)

	// SellCard credits the sell price, frees any deck slot the card
	// occupies and destroys it
	SellCard(ctx context.Context, playerID, instanceID int64) (*models.SellResult, error)

	// ToggleInDeck flips the card's in-deck flag
	ToggleInDeck(ctx context.Context, playerID, instanceID int64) (*models.CardInstance, error)

	// ResetCardHealth restores the card to full health
	ResetCardHealth(ctx context.Context, playerID, instanceID int64) (*models.CardInstance, error)

	// RegenerateStats re-rolls the card's stats from its template's
	// ranges. Administrative correction, not a player-facing operation.
	RegenerateStats(ctx context.Context, instanceID int64) (*models.CardInstance, error)

	// ListCards returns all of a player's card instances
	ListCards(ctx context.Context, playerID int64) ([]*models.CardInstance, error)

	// ListTemplates returns the acquirable card catalog
	ListTemplates(ctx context.Context) ([]*models.CardTemplate, error)
}

// DeckService defines the interface for deck composition and activation
type DeckService interface {
	// CreateDeck creates an empty deck for the player
	CreateDeck(ctx context.Context, playerID int64, name, description string) (*models.Deck, error)

	// ListDecks returns all of a player's decks
	ListDecks(ctx context.Context, playerID int64) ([]*models.Deck, error)

	// GetDeck returns a deck with its slots in position order
	GetDeck(ctx context.Context, playerID, deckID int64) (*models.DeckDetail, error)

	// AddCard binds a card instance to a deck position
	AddCard(ctx context.Context, playerID, deckID, instanceID int64, position int) (*models.DeckDetail, error)

	// RemoveCard frees a deck position
	RemoveCard(ctx context.Context, playerID, deckID int64, position int) (*models.DeckDetail, error)

	// ActivateDeck makes the deck the player's single active deck
	ActivateDeck(ctx context.Context, playerID, deckID int64) (*models.Deck, error)

	// GetActiveDeck returns the player's active deck, nil when none
	GetActiveDeck(ctx context.Context, playerID int64) (*models.DeckDetail, error)
}

// CollectionService defines the read-side collection rollups
type CollectionService interface {
	// GetSummary aggregates a player's instances by template, rarity and
	// element. Side-effect free.
	GetSummary(ctx context.Context, playerID int64) (*models.CollectionSummary, error)
}

// InventoryService defines the interface for item inventory operations
type InventoryService interface {
	// PurchaseItem debits the item's cost and adds it to the inventory
	PurchaseItem(ctx context.Context, playerID, itemID int64, quantity int) (*models.InventoryItem, error)

	// GrantItem adds items without charging, respecting the stack cap
	GrantItem(ctx context.Context, playerID, itemID int64, quantity int) error

	// ConsumeItem removes items from the inventory
	ConsumeItem(ctx context.Context, playerID, itemID int64, quantity int) error

	// ListInventory returns a player's inventory
	ListInventory(ctx context.Context, playerID int64) ([]*models.InventoryItem, error)

	// ListShop returns the purchasable item catalog
	ListShop(ctx context.Context) ([]*models.Item, error)
}
