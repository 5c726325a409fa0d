package service

import (
	"context"
	"fmt"

	"collector/events"
	"collector/models"
)

type deckService struct {
	uowFactory UnitOfWorkFactory
}

// NewDeckService creates a new deck service
func NewDeckService(uowFactory UnitOfWorkFactory) DeckService {
	return &deckService{
		uowFactory: uowFactory,
	}
}

// CreateDeck creates an empty deck for the player
func (s *deckService) CreateDeck(ctx context.Context, playerID int64, name, description string) (*models.Deck, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	player, err := uow.PlayerRepository().GetByTelegramID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	deck := &models.Deck{
		OwnerID:     playerID,
		Name:        name,
		Description: description,
	}
	if err := uow.DeckRepository().Create(ctx, deck); err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return deck, nil
}

// ListDecks returns all of a player's decks
func (s *deckService) ListDecks(ctx context.Context, playerID int64) ([]*models.Deck, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	decks, err := uow.DeckRepository().GetByOwner(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}

	return decks, nil
}

// GetDeck returns a deck with its slots in position order
func (s *deckService) GetDeck(ctx context.Context, playerID, deckID int64) (*models.DeckDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deck, err := s.getOwnedDeck(ctx, uow, playerID, deckID)
	if err != nil {
		return nil, err
	}

	return s.buildDetail(ctx, uow, deck)
}

// getOwnedDeck looks up a deck and verifies it belongs to the player
func (s *deckService) getOwnedDeck(ctx context.Context, uow UnitOfWork, playerID, deckID int64) (*models.Deck, error) {
	deck, err := uow.DeckRepository().GetByID(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}
	if deck == nil {
		return nil, ErrDeckNotFound
	}
	if deck.OwnerID != playerID {
		return nil, ErrNotOwned
	}
	return deck, nil
}

// buildDetail assembles a deck with its three positions in order,
// empty positions included, regardless of slot insertion order.
func (s *deckService) buildDetail(ctx context.Context, uow UnitOfWork, deck *models.Deck) (*models.DeckDetail, error) {
	slots, err := uow.DeckRepository().GetSlots(ctx, deck.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck slots: %w", err)
	}

	detail := &models.DeckDetail{Deck: deck}
	for i := range detail.Slots {
		detail.Slots[i].Position = i + 1
	}
	for _, slot := range slots {
		card, err := uow.CardRepository().GetByID(ctx, slot.CardInstanceID)
		if err != nil {
			return nil, fmt.Errorf("failed to get slotted card: %w", err)
		}
		detail.Slots[slot.Position-1].Card = card
	}

	return detail, nil
}

// AddCard binds a card instance to a deck position. Validation order:
// position, ownership, slot exclusivity across all of the player's
// decks, template uniqueness within the deck. A card already slotted
// elsewhere is rejected rather than silently moved; the caller must
// remove it from its current slot first. Replacing the occupant of the
// target position is allowed and frees the old card.
func (s *deckService) AddCard(ctx context.Context, playerID, deckID, instanceID int64, position int) (*models.DeckDetail, error) {
	if !models.ValidPosition(position) {
		return nil, ErrInvalidPosition
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Lock the player row so concurrent slot assignments for the same
	// player see a consistent view of all their slots
	player, err := uow.PlayerRepository().GetForUpdate(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	deck, err := s.getOwnedDeck(ctx, uow, playerID, deckID)
	if err != nil {
		return nil, err
	}

	card, err := uow.CardRepository().GetByID(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	if card.OwnerID != playerID {
		return nil, ErrNotOwned
	}

	occupied, err := uow.DeckRepository().GetSlotByInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing slot: %w", err)
	}
	if occupied != nil && !(occupied.DeckID == deckID && occupied.Position == position) {
		return nil, ErrCardAlreadySlotted
	}

	slots, err := uow.DeckRepository().GetSlots(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck slots: %w", err)
	}
	for _, slot := range slots {
		if slot.TemplateID == card.TemplateID && slot.Position != position {
			return nil, ErrDuplicateTemplateInDeck
		}
	}

	if err := uow.DeckRepository().UpsertSlot(ctx, &models.DeckCard{
		DeckID:         deckID,
		Position:       position,
		CardInstanceID: instanceID,
		TemplateID:     card.TemplateID,
	}); err != nil {
		return nil, fmt.Errorf("failed to assign slot: %w", err)
	}

	detail, err := s.buildDetail(ctx, uow, deck)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return detail, nil
}

// RemoveCard frees a deck position. The card remains owned by the
// player, simply unslotted.
func (s *deckService) RemoveCard(ctx context.Context, playerID, deckID int64, position int) (*models.DeckDetail, error) {
	if !models.ValidPosition(position) {
		return nil, ErrInvalidPosition
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetForUpdate(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	deck, err := s.getOwnedDeck(ctx, uow, playerID, deckID)
	if err != nil {
		return nil, err
	}

	slot, err := uow.DeckRepository().GetSlot(ctx, deckID, position)
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	if slot == nil {
		return nil, ErrSlotEmpty
	}

	if err := uow.DeckRepository().DeleteSlot(ctx, deckID, position); err != nil {
		return nil, fmt.Errorf("failed to free slot: %w", err)
	}

	detail, err := s.buildDetail(ctx, uow, deck)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return detail, nil
}

// ActivateDeck makes the deck the player's single active deck. The
// deactivate-all-then-activate-one sequence runs inside one transaction
// under the player lock, so concurrent activations cannot leave two
// decks active.
func (s *deckService) ActivateDeck(ctx context.Context, playerID, deckID int64) (*models.Deck, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.PlayerRepository().GetForUpdate(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	deck, err := s.getOwnedDeck(ctx, uow, playerID, deckID)
	if err != nil {
		return nil, err
	}

	slots, err := uow.DeckRepository().GetSlots(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck slots: %w", err)
	}
	if len(slots) == 0 {
		return nil, ErrEmptyDeck
	}

	if err := uow.DeckRepository().DeactivateAllByOwner(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to deactivate decks: %w", err)
	}
	if err := uow.DeckRepository().SetActive(ctx, deckID); err != nil {
		return nil, fmt.Errorf("failed to activate deck: %w", err)
	}

	uow.EventBus().Publish(events.DeckActivatedEvent{
		PlayerID: playerID,
		DeckID:   deckID,
		DeckName: deck.Name,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	deck.IsActive = true
	return deck, nil
}

// GetActiveDeck returns the player's active deck with its slots, nil
// when no deck is active
func (s *deckService) GetActiveDeck(ctx context.Context, playerID int64) (*models.DeckDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deck, err := uow.DeckRepository().GetActiveByOwner(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active deck: %w", err)
	}
	if deck == nil {
		return nil, nil
	}

	return s.buildDetail(ctx, uow, deck)
}
