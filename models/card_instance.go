package models

import (
	"time"
)

// CardInstance is a player-owned card rolled from a template. The three
// stats are sampled once at creation and frozen; only CurrentHealth
// moves, and it always stays within [0, Health].
type CardInstance struct {
	ID         int64 `db:"id"`
	TemplateID int64 `db:"template_id"`
	OwnerID    int64 `db:"owner_id"`

	Health  int `db:"health"`
	Attack  int `db:"attack"`
	Defense int `db:"defense"`

	CurrentHealth int `db:"current_health"`

	IsInDeck   bool `db:"is_in_deck"`
	Level      int  `db:"level"`
	Experience int  `db:"experience"`

	AcquiredAt time.Time  `db:"acquired_at"`
	LastUsed   *time.Time `db:"last_used"`

	// Joined template fields, populated by list queries
	TemplateName    string  `db:"-"`
	TemplateRarity  Rarity  `db:"-"`
	TemplateElement Element `db:"-"`
}

// TakeDamage applies raw damage reduced by defense and returns the
// damage actually dealt. Damage fully absorbed by defense returns 0.
func (c *CardInstance) TakeDamage(raw int) int {
	actual := raw - c.Defense
	if actual < 0 {
		actual = 0
	}
	c.CurrentHealth -= actual
	if c.CurrentHealth < 0 {
		c.CurrentHealth = 0
	}
	return actual
}

// Heal restores health up to the rolled maximum and returns the amount
// actually restored.
func (c *CardInstance) Heal(amount int) int {
	before := c.CurrentHealth
	c.CurrentHealth += amount
	if c.CurrentHealth > c.Health {
		c.CurrentHealth = c.Health
	}
	return c.CurrentHealth - before
}

// ResetHealth restores the card to full health
func (c *CardInstance) ResetHealth() {
	c.CurrentHealth = c.Health
}

// IsAlive reports whether the card still has health remaining
func (c *CardInstance) IsAlive() bool {
	return c.CurrentHealth > 0
}
