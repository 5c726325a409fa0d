package service

import (
	"context"
	"fmt"

	"collector/events"
	"collector/models"
)

type cardService struct {
	uowFactory UnitOfWorkFactory
	roller     Roller
}

// NewCardService creates a new card service. The roller is the only
// source of randomness for stat generation.
func NewCardService(uowFactory UnitOfWorkFactory, roller Roller) CardService {
	return &cardService{
		uowFactory: uowFactory,
		roller:     roller,
	}
}

// rollStats samples one value per stat from the template's closed
// ranges. Each stat is drawn independently.
func (s *cardService) rollStats(tmpl *models.CardTemplate) (health, attack, defense int, err error) {
	if !tmpl.HasValidRanges() {
		return 0, 0, 0, ErrInvalidStatRange
	}
	health = s.roller.IntBetween(tmpl.HealthMin, tmpl.HealthMax)
	attack = s.roller.IntBetween(tmpl.AttackMin, tmpl.AttackMax)
	defense = s.roller.IntBetween(tmpl.DefenseMin, tmpl.DefenseMax)
	return health, attack, defense, nil
}

// AcquireCard debits the template's cost and rolls a new instance.
// Debit and creation happen in one transaction; a failure leaves
// neither applied.
func (s *cardService) AcquireCard(ctx context.Context, playerID, templateID int64) (*models.CardInstance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	player, err := uow.PlayerRepository().GetForUpdate(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	tmpl, err := uow.TemplateRepository().GetByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}
	if !tmpl.IsActive {
		return nil, ErrTemplateInactive
	}

	health, attack, defense, err := s.rollStats(tmpl)
	if err != nil {
		return nil, err
	}

	if tmpl.CoinCost > 0 || tmpl.GoldCost > 0 {
		if err := uow.PlayerRepository().DebitBalances(ctx, playerID, tmpl.CoinCost, tmpl.GoldCost); err != nil {
			return nil, err
		}
	}

	card := &models.CardInstance{
		TemplateID:    templateID,
		OwnerID:       playerID,
		Health:        health,
		Attack:        attack,
		Defense:       defense,
		CurrentHealth: health,
		Level:         1,
		Experience:    0,
	}
	if err := uow.CardRepository().Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to create card instance: %w", err)
	}

	relatedID := card.ID
	relatedType := models.RelatedTypeCardInstance
	if tmpl.CoinCost > 0 {
		history := &models.BalanceHistory{
			PlayerID:        playerID,
			Currency:        models.CurrencyCoins,
			BalanceBefore:   player.Coins,
			BalanceAfter:    player.Coins - tmpl.CoinCost,
			ChangeAmount:    -tmpl.CoinCost,
			TransactionType: models.TransactionTypeCardPurchase,
			TransactionMetadata: map[string]any{
				"template_id":   templateID,
				"template_name": tmpl.Name,
			},
			RelatedID:   &relatedID,
			RelatedType: &relatedType,
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record coin debit: %w", err)
		}
	}
	if tmpl.GoldCost > 0 {
		history := &models.BalanceHistory{
			PlayerID:        playerID,
			Currency:        models.CurrencyGold,
			BalanceBefore:   player.Gold,
			BalanceAfter:    player.Gold - tmpl.GoldCost,
			ChangeAmount:    -tmpl.GoldCost,
			TransactionType: models.TransactionTypeCardPurchase,
			TransactionMetadata: map[string]any{
				"template_id":   templateID,
				"template_name": tmpl.Name,
			},
			RelatedID:   &relatedID,
			RelatedType: &relatedType,
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record gold debit: %w", err)
		}
	}

	uow.EventBus().Publish(events.CardAcquiredEvent{
		PlayerID:     playerID,
		InstanceID:   card.ID,
		TemplateID:   templateID,
		TemplateName: tmpl.Name,
		Health:       health,
		Attack:       attack,
		Defense:      defense,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	card.TemplateName = tmpl.Name
	card.TemplateRarity = tmpl.Rarity
	card.TemplateElement = tmpl.Element
	return card, nil
}

// SellCard credits the template's sell price, frees any deck slot the
// card occupies, and destroys the instance, all in one transaction.
func (s *cardService) SellCard(ctx context.Context, playerID, instanceID int64) (*models.SellResult, error) {
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

	tmpl, err := uow.TemplateRepository().GetByID(ctx, card.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}

	// The slot reference must never outlive the instance
	if err := uow.DeckRepository().DeleteSlotByInstance(ctx, instanceID); err != nil {
		return nil, fmt.Errorf("failed to free deck slot: %w", err)
	}

	if err := uow.CardRepository().Delete(ctx, instanceID); err != nil {
		return nil, fmt.Errorf("failed to delete card: %w", err)
	}

	if tmpl.SellPrice > 0 {
		if err := uow.PlayerRepository().CreditCoins(ctx, playerID, tmpl.SellPrice); err != nil {
			return nil, fmt.Errorf("failed to credit sale: %w", err)
		}

		relatedID := card.TemplateID
		relatedType := models.RelatedTypeCardTemplate
		history := &models.BalanceHistory{
			PlayerID:        playerID,
			Currency:        models.CurrencyCoins,
			BalanceBefore:   player.Coins,
			BalanceAfter:    player.Coins + tmpl.SellPrice,
			ChangeAmount:    tmpl.SellPrice,
			TransactionType: models.TransactionTypeCardSale,
			TransactionMetadata: map[string]any{
				"template_name": tmpl.Name,
			},
			RelatedID:   &relatedID,
			RelatedType: &relatedType,
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record sale: %w", err)
		}
	}

	uow.EventBus().Publish(events.CardSoldEvent{
		PlayerID:     playerID,
		TemplateName: tmpl.Name,
		Price:        tmpl.SellPrice,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.SellResult{
		Price:    tmpl.SellPrice,
		NewCoins: player.Coins + tmpl.SellPrice,
	}, nil
}

// ToggleInDeck flips the card's in-deck flag
func (s *cardService) ToggleInDeck(ctx context.Context, playerID, instanceID int64) (*models.CardInstance, error) {
	return s.updateOwnedCard(ctx, playerID, instanceID, func(card *models.CardInstance) {
		card.IsInDeck = !card.IsInDeck
	})
}

// ResetCardHealth restores the card to full health
func (s *cardService) ResetCardHealth(ctx context.Context, playerID, instanceID int64) (*models.CardInstance, error) {
	return s.updateOwnedCard(ctx, playerID, instanceID, func(card *models.CardInstance) {
		card.ResetHealth()
	})
}

// updateOwnedCard looks up a card, verifies ownership, applies mutate
// and persists the result in one transaction.
func (s *cardService) updateOwnedCard(ctx context.Context, playerID, instanceID int64, mutate func(*models.CardInstance)) (*models.CardInstance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

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

	mutate(card)

	if err := uow.CardRepository().Update(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return card, nil
}

// RegenerateStats re-rolls the card's stats from its template's ranges
// and restores it to the new full health. Administrative operation.
func (s *cardService) RegenerateStats(ctx context.Context, instanceID int64) (*models.CardInstance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	card, err := uow.CardRepository().GetByID(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if card == nil {
		return nil, ErrCardNotFound
	}

	tmpl, err := uow.TemplateRepository().GetByID(ctx, card.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tmpl == nil {
		return nil, ErrTemplateNotFound
	}

	health, attack, defense, err := s.rollStats(tmpl)
	if err != nil {
		return nil, err
	}

	card.Health = health
	card.Attack = attack
	card.Defense = defense
	card.CurrentHealth = health

	if err := uow.CardRepository().Update(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return card, nil
}

// ListCards returns all of a player's card instances
func (s *cardService) ListCards(ctx context.Context, playerID int64) ([]*models.CardInstance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cards, err := uow.CardRepository().GetByOwner(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	return cards, nil
}

// ListTemplates returns the acquirable card catalog
func (s *cardService) ListTemplates(ctx context.Context) ([]*models.CardTemplate, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	templates, err := uow.TemplateRepository().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return templates, nil
}
