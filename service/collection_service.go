package service

import (
	"context"
	"fmt"

	"collector/models"
)

type collectionService struct {
	uowFactory UnitOfWorkFactory
}

// NewCollectionService creates a new collection service
func NewCollectionService(uowFactory UnitOfWorkFactory) CollectionService {
	return &collectionService{
		uowFactory: uowFactory,
	}
}

// GetSummary aggregates a player's instances by template name, rarity
// and element. Pure projection, no side effects.
func (s *collectionService) GetSummary(ctx context.Context, playerID int64) (*models.CollectionSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cards, err := uow.CardRepository().GetByOwner(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}

	summary := &models.CollectionSummary{
		ByTemplate: make(map[string]int),
		ByRarity:   make(map[models.Rarity]int),
		ByElement:  make(map[models.Element]int),
	}

	for _, card := range cards {
		summary.TotalCards++
		summary.ByTemplate[card.TemplateName]++
		summary.ByRarity[card.TemplateRarity]++
		summary.ByElement[card.TemplateElement]++
		if card.IsInDeck {
			summary.InDeck++
		}
	}
	summary.UniqueTemplates = len(summary.ByTemplate)

	return summary, nil
}
