package repository

import (
	"context"
	"fmt"

	"collector/database"
	"collector/models"
	"github.com/jackc/pgx/v5"
)

const templateColumns = `
	id, name, description, image_url, universe_id, season_id,
	element, rarity,
	health_min, health_max, attack_min, attack_max, defense_min, defense_max,
	coin_cost, gold_cost, sell_price, is_active, created_at, updated_at`

// TemplateRepository implements the service.TemplateRepository interface
type TemplateRepository struct {
	q queryable
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *database.DB) *TemplateRepository {
	return &TemplateRepository{q: db.Pool}
}

// newTemplateRepositoryWithTx creates a new template repository with a transaction
func newTemplateRepositoryWithTx(tx queryable) *TemplateRepository {
	return &TemplateRepository{q: tx}
}

func scanTemplate(row pgx.Row) (*models.CardTemplate, error) {
	var t models.CardTemplate
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.ImageURL,
		&t.UniverseID,
		&t.SeasonID,
		&t.Element,
		&t.Rarity,
		&t.HealthMin,
		&t.HealthMax,
		&t.AttackMin,
		&t.AttackMax,
		&t.DefenseMin,
		&t.DefenseMax,
		&t.CoinCost,
		&t.GoldCost,
		&t.SellPrice,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID retrieves a template by its ID, nil when absent
func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*models.CardTemplate, error) {
	query := `SELECT` + templateColumns + `
		FROM card_templates
		WHERE id = $1`

	tmpl, err := scanTemplate(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template %d: %w", id, err)
	}

	return tmpl, nil
}

// ListActive returns all templates available for acquisition
func (r *TemplateRepository) ListActive(ctx context.Context) ([]*models.CardTemplate, error) {
	query := `SELECT` + templateColumns + `
		FROM card_templates
		WHERE is_active
		ORDER BY coin_cost, name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.CardTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, tmpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate templates: %w", err)
	}

	return templates, nil
}
