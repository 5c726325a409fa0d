package service

import (
	"errors"
)

// Lookup failures
var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrTemplateNotFound = errors.New("card template not found")
	ErrCardNotFound     = errors.New("card not found")
	ErrDeckNotFound     = errors.New("deck not found")
	ErrItemNotFound     = errors.New("item not found")
)

// Ownership failures
var (
	ErrNotOwned = errors.New("entity belongs to a different player")
)

// Input validation failures
var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidPosition  = errors.New("position must be between 1 and 3")
	ErrInvalidStatRange = errors.New("template stat range has min greater than max")
)

// Currency failures
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Deck and inventory invariant violations. These are always surfaced to
// the caller; swallowing one would corrupt the slot invariants.
var (
	ErrTemplateInactive        = errors.New("card template is not available")
	ErrCardAlreadySlotted      = errors.New("card already occupies a slot in a deck")
	ErrDuplicateTemplateInDeck = errors.New("deck already contains a card with this template")
	ErrSlotEmpty               = errors.New("no card at this position")
	ErrEmptyDeck               = errors.New("deck has no cards")
	ErrStackLimit              = errors.New("item stack limit exceeded")
	ErrInsufficientQuantity    = errors.New("insufficient item quantity")
)
