package models

import (
	"time"
)

// Element is the elemental affinity of a card template
type Element string

const (
	ElementFire    Element = "fire"
	ElementWater   Element = "water"
	ElementEarth   Element = "earth"
	ElementAir     Element = "air"
	ElementLight   Element = "light"
	ElementDark    Element = "dark"
	ElementNeutral Element = "neutral"
)

// Rarity is the rarity tier of a card template
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Universe represents a franchise the card catalog is grouped under
type Universe struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	LogoURL     string `db:"logo_url"`
	IsActive    bool   `db:"is_active"`
}

// Season represents a season within a universe
type Season struct {
	ID           int64  `db:"id"`
	UniverseID   int64  `db:"universe_id"`
	Name         string `db:"name"`
	SeasonNumber int    `db:"season_number"`
	IsActive     bool   `db:"is_active"`
}

// CardTemplate is an immutable catalog entry describing the stat ranges
// and costs of a card. Gameplay never mutates templates.
type CardTemplate struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	ImageURL    string `db:"image_url"`

	UniverseID int64 `db:"universe_id"`
	SeasonID   int64 `db:"season_id"`

	Element Element `db:"element"`
	Rarity  Rarity  `db:"rarity"`

	// Stat ranges sampled when an instance is created
	HealthMin  int `db:"health_min"`
	HealthMax  int `db:"health_max"`
	AttackMin  int `db:"attack_min"`
	AttackMax  int `db:"attack_max"`
	DefenseMin int `db:"defense_min"`
	DefenseMax int `db:"defense_max"`

	CoinCost  int64 `db:"coin_cost"`
	GoldCost  int64 `db:"gold_cost"`
	SellPrice int64 `db:"sell_price"`

	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// HasValidRanges reports whether every stat range satisfies min <= max
func (t *CardTemplate) HasValidRanges() bool {
	return t.HealthMin <= t.HealthMax &&
		t.AttackMin <= t.AttackMax &&
		t.DefenseMin <= t.DefenseMax
}

// AverageStats returns the midpoint of each stat range
func (t *CardTemplate) AverageStats() (health, attack, defense int) {
	return (t.HealthMin + t.HealthMax) / 2,
		(t.AttackMin + t.AttackMax) / 2,
		(t.DefenseMin + t.DefenseMax) / 2
}
