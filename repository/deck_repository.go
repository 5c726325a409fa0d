package repository

import (
	"context"
	"fmt"

	"collector/database"
	"collector/models"
	"github.com/jackc/pgx/v5"
)

const deckColumns = `id, owner_id, name, description, is_active, created_at, updated_at`

// DeckRepository implements the service.DeckRepository interface
type DeckRepository struct {
	q queryable
}

// NewDeckRepository creates a new deck repository
func NewDeckRepository(db *database.DB) *DeckRepository {
	return &DeckRepository{q: db.Pool}
}

// newDeckRepositoryWithTx creates a new deck repository with a transaction
func newDeckRepositoryWithTx(tx queryable) *DeckRepository {
	return &DeckRepository{q: tx}
}

// Create inserts a new deck and fills its ID and timestamps
func (r *DeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	query := `
		INSERT INTO decks (owner_id, name, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		deck.OwnerID,
		deck.Name,
		deck.Description,
		deck.IsActive,
	).Scan(&deck.ID, &deck.CreatedAt, &deck.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}

	return nil
}

func scanDeck(row pgx.Row) (*models.Deck, error) {
	var d models.Deck
	err := row.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Name,
		&d.Description,
		&d.IsActive,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByID retrieves a deck, nil when absent
func (r *DeckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	query := fmt.Sprintf(`SELECT %s FROM decks WHERE id = $1`, deckColumns)

	deck, err := scanDeck(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck %d: %w", id, err)
	}

	return deck, nil
}

// GetByOwner returns all decks of a player, oldest first
func (r *DeckRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Deck, error) {
	query := fmt.Sprintf(`SELECT %s FROM decks WHERE owner_id = $1 ORDER BY created_at`, deckColumns)

	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get decks for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	var decks []*models.Deck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, deck)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decks: %w", err)
	}

	return decks, nil
}

// GetActiveByOwner returns the single active deck, nil when none
func (r *DeckRepository) GetActiveByOwner(ctx context.Context, ownerID int64) (*models.Deck, error) {
	query := fmt.Sprintf(`SELECT %s FROM decks WHERE owner_id = $1 AND is_active`, deckColumns)

	deck, err := scanDeck(r.q.QueryRow(ctx, query, ownerID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active deck for owner %d: %w", ownerID, err)
	}

	return deck, nil
}

const slotColumns = `id, deck_id, position, card_instance_id, template_id, added_at`

func scanSlot(row pgx.Row) (*models.DeckCard, error) {
	var s models.DeckCard
	err := row.Scan(
		&s.ID,
		&s.DeckID,
		&s.Position,
		&s.CardInstanceID,
		&s.TemplateID,
		&s.AddedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSlots returns the filled slots of a deck ordered by position
func (r *DeckRepository) GetSlots(ctx context.Context, deckID int64) ([]*models.DeckCard, error) {
	query := fmt.Sprintf(`SELECT %s FROM deck_cards WHERE deck_id = $1 ORDER BY position`, slotColumns)

	rows, err := r.q.Query(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get slots for deck %d: %w", deckID, err)
	}
	defer rows.Close()

	var slots []*models.DeckCard
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate slots: %w", err)
	}

	return slots, nil
}

// GetSlot returns the slot at a position, nil when empty
func (r *DeckRepository) GetSlot(ctx context.Context, deckID int64, position int) (*models.DeckCard, error) {
	query := fmt.Sprintf(`SELECT %s FROM deck_cards WHERE deck_id = $1 AND position = $2`, slotColumns)

	slot, err := scanSlot(r.q.QueryRow(ctx, query, deckID, position))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot %d of deck %d: %w", position, deckID, err)
	}

	return slot, nil
}

// GetSlotByInstance returns the slot holding an instance anywhere, nil when unslotted
func (r *DeckRepository) GetSlotByInstance(ctx context.Context, instanceID int64) (*models.DeckCard, error) {
	query := fmt.Sprintf(`SELECT %s FROM deck_cards WHERE card_instance_id = $1`, slotColumns)

	slot, err := scanSlot(r.q.QueryRow(ctx, query, instanceID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot for card %d: %w", instanceID, err)
	}

	return slot, nil
}

// UpsertSlot fills (deck, position), replacing any current occupant
func (r *DeckRepository) UpsertSlot(ctx context.Context, slot *models.DeckCard) error {
	query := `
		INSERT INTO deck_cards (deck_id, position, card_instance_id, template_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (deck_id, position)
		DO UPDATE SET card_instance_id = EXCLUDED.card_instance_id,
		              template_id = EXCLUDED.template_id,
		              added_at = NOW()
		RETURNING id, added_at
	`

	err := r.q.QueryRow(ctx, query,
		slot.DeckID,
		slot.Position,
		slot.CardInstanceID,
		slot.TemplateID,
	).Scan(&slot.ID, &slot.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to fill slot %d of deck %d: %w", slot.Position, slot.DeckID, err)
	}

	return nil
}

// DeleteSlot frees (deck, position)
func (r *DeckRepository) DeleteSlot(ctx context.Context, deckID int64, position int) error {
	_, err := r.q.Exec(ctx, `DELETE FROM deck_cards WHERE deck_id = $1 AND position = $2`, deckID, position)
	if err != nil {
		return fmt.Errorf("failed to clear slot %d of deck %d: %w", position, deckID, err)
	}
	return nil
}

// DeleteSlotByInstance frees whichever slot holds the instance
func (r *DeckRepository) DeleteSlotByInstance(ctx context.Context, instanceID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM deck_cards WHERE card_instance_id = $1`, instanceID)
	if err != nil {
		return fmt.Errorf("failed to unslot card %d: %w", instanceID, err)
	}
	return nil
}

// DeactivateAllByOwner clears the active flag on every deck of a player
func (r *DeckRepository) DeactivateAllByOwner(ctx context.Context, ownerID int64) error {
	query := `UPDATE decks SET is_active = FALSE, updated_at = NOW() WHERE owner_id = $1 AND is_active`

	_, err := r.q.Exec(ctx, query, ownerID)
	if err != nil {
		return fmt.Errorf("failed to deactivate decks for owner %d: %w", ownerID, err)
	}
	return nil
}

// SetActive marks one deck active
func (r *DeckRepository) SetActive(ctx context.Context, deckID int64) error {
	query := `UPDATE decks SET is_active = TRUE, updated_at = NOW() WHERE id = $1`

	result, err := r.q.Exec(ctx, query, deckID)
	if err != nil {
		return fmt.Errorf("failed to activate deck %d: %w", deckID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("deck %d not found", deckID)
	}

	return nil
}
