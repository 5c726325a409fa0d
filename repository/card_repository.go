package repository

import (
	"context"
	"fmt"

	"collector/database"
	"collector/models"
	"github.com/jackc/pgx/v5"
)

// CardRepository implements the service.CardRepository interface
type CardRepository struct {
	q queryable
}

// NewCardRepository creates a new card repository
func NewCardRepository(db *database.DB) *CardRepository {
	return &CardRepository{q: db.Pool}
}

// newCardRepositoryWithTx creates a new card repository with a transaction
func newCardRepositoryWithTx(tx queryable) *CardRepository {
	return &CardRepository{q: tx}
}

// Create inserts a new instance and fills its ID and acquired timestamp
func (r *CardRepository) Create(ctx context.Context, card *models.CardInstance) error {
	query := `
		INSERT INTO card_instances
			(template_id, owner_id, health, attack, defense, current_health, is_in_deck, level, experience)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, acquired_at
	`

	err := r.q.QueryRow(ctx, query,
		card.TemplateID,
		card.OwnerID,
		card.Health,
		card.Attack,
		card.Defense,
		card.CurrentHealth,
		card.IsInDeck,
		card.Level,
		card.Experience,
	).Scan(&card.ID, &card.AcquiredAt)
	if err != nil {
		return fmt.Errorf("failed to create card instance: %w", err)
	}

	return nil
}

// GetByID retrieves an instance with its template fields joined, nil when absent
func (r *CardRepository) GetByID(ctx context.Context, id int64) (*models.CardInstance, error) {
	query := `
		SELECT
			c.id, c.template_id, c.owner_id,
			c.health, c.attack, c.defense, c.current_health,
			c.is_in_deck, c.level, c.experience, c.acquired_at, c.last_used,
			t.name, t.rarity, t.element
		FROM card_instances c
		JOIN card_templates t ON t.id = c.template_id
		WHERE c.id = $1
	`

	card, err := scanCard(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card %d: %w", id, err)
	}

	return card, nil
}

func scanCard(row pgx.Row) (*models.CardInstance, error) {
	var c models.CardInstance
	err := row.Scan(
		&c.ID,
		&c.TemplateID,
		&c.OwnerID,
		&c.Health,
		&c.Attack,
		&c.Defense,
		&c.CurrentHealth,
		&c.IsInDeck,
		&c.Level,
		&c.Experience,
		&c.AcquiredAt,
		&c.LastUsed,
		&c.TemplateName,
		&c.TemplateRarity,
		&c.TemplateElement,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByOwner returns all instances of a player, most recent first
func (r *CardRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.CardInstance, error) {
	query := `
		SELECT
			c.id, c.template_id, c.owner_id,
			c.health, c.attack, c.defense, c.current_health,
			c.is_in_deck, c.level, c.experience, c.acquired_at, c.last_used,
			t.name, t.rarity, t.element
		FROM card_instances c
		JOIN card_templates t ON t.id = c.template_id
		WHERE c.owner_id = $1
		ORDER BY c.acquired_at DESC, c.id DESC
	`

	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	var cards []*models.CardInstance
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	return cards, nil
}

// Update persists the mutable fields of an instance. The rolled stats
// are included so RegenerateStats can rewrite them; gameplay paths only
// change current_health, flags and counters.
func (r *CardRepository) Update(ctx context.Context, card *models.CardInstance) error {
	query := `
		UPDATE card_instances
		SET health = $1, attack = $2, defense = $3, current_health = $4,
		    is_in_deck = $5, level = $6, experience = $7, last_used = $8
		WHERE id = $9
	`

	result, err := r.q.Exec(ctx, query,
		card.Health,
		card.Attack,
		card.Defense,
		card.CurrentHealth,
		card.IsInDeck,
		card.Level,
		card.Experience,
		card.LastUsed,
		card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card %d: %w", card.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("card %d not found", card.ID)
	}

	return nil
}

// Delete removes an instance
func (r *CardRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM card_instances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("card %d not found", id)
	}

	return nil
}
