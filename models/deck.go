package models

import (
	"time"
)

// DeckSize is the number of slots every deck has
const DeckSize = 3

// Deck is a named set of up to three card slots owned by one player.
// At most one deck per player is active at a time.
type Deck struct {
	ID          int64     `db:"id"`
	OwnerID     int64     `db:"owner_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// DeckCard binds one card instance to a position in a deck. A card
// instance occupies at most one slot across all of its owner's decks,
// and a deck never holds two instances of the same template; both are
// enforced by unique constraints as well as by the deck service.
type DeckCard struct {
	ID             int64     `db:"id"`
	DeckID         int64     `db:"deck_id"`
	Position       int       `db:"position"`
	CardInstanceID int64     `db:"card_instance_id"`
	TemplateID     int64     `db:"template_id"`
	AddedAt        time.Time `db:"added_at"`
}

// ValidPosition reports whether p is a legal slot position
func ValidPosition(p int) bool {
	return p >= 1 && p <= DeckSize
}

// DeckSlot pairs a position with the instance occupying it, nil when empty
type DeckSlot struct {
	Position int
	Card     *CardInstance
}

// DeckDetail is a deck together with its slots in position order,
// empty positions included.
type DeckDetail struct {
	Deck  *Deck
	Slots [DeckSize]DeckSlot
}

// FilledSlots returns the number of occupied positions
func (d *DeckDetail) FilledSlots() int {
	n := 0
	for _, s := range d.Slots {
		if s.Card != nil {
			n++
		}
	}
	return n
}
