package service

import (
	"context"
	"fmt"

	"collector/models"
)

type inventoryService struct {
	uowFactory UnitOfWorkFactory
}

// NewInventoryService creates a new inventory service
func NewInventoryService(uowFactory UnitOfWorkFactory) InventoryService {
	return &inventoryService{
		uowFactory: uowFactory,
	}
}

func stackCap(item *models.Item) int {
	if !item.IsStackable {
		return 1
	}
	return item.MaxStack
}

// PurchaseItem debits the item's cost and adds it to the player's
// inventory in one transaction
func (s *inventoryService) PurchaseItem(ctx context.Context, playerID, itemID int64, quantity int) (*models.InventoryItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidAmount
	}

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

	item, err := uow.ItemRepository().GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil || !item.IsActive {
		return nil, ErrItemNotFound
	}

	if err := uow.ItemRepository().AddQuantity(ctx, playerID, itemID, quantity, stackCap(item)); err != nil {
		return nil, err
	}

	coinCost := item.CoinCost * int64(quantity)
	goldCost := item.GoldCost * int64(quantity)
	if coinCost > 0 || goldCost > 0 {
		if err := uow.PlayerRepository().DebitBalances(ctx, playerID, coinCost, goldCost); err != nil {
			return nil, err
		}
	}

	relatedID := itemID
	relatedType := models.RelatedTypeItem
	if coinCost > 0 {
		history := &models.BalanceHistory{
			PlayerID:        playerID,
			Currency:        models.CurrencyCoins,
			BalanceBefore:   player.Coins,
			BalanceAfter:    player.Coins - coinCost,
			ChangeAmount:    -coinCost,
			TransactionType: models.TransactionTypeItemPurchase,
			TransactionMetadata: map[string]any{
				"item_name": item.Name,
				"quantity":  quantity,
			},
			RelatedID:   &relatedID,
			RelatedType: &relatedType,
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record coin debit: %w", err)
		}
	}
	if goldCost > 0 {
		history := &models.BalanceHistory{
			PlayerID:        playerID,
			Currency:        models.CurrencyGold,
			BalanceBefore:   player.Gold,
			BalanceAfter:    player.Gold - goldCost,
			ChangeAmount:    -goldCost,
			TransactionType: models.TransactionTypeItemPurchase,
			TransactionMetadata: map[string]any{
				"item_name": item.Name,
				"quantity":  quantity,
			},
			RelatedID:   &relatedID,
			RelatedType: &relatedType,
		}
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record gold debit: %w", err)
		}
	}

	entry, err := uow.ItemRepository().GetInventoryItem(ctx, playerID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory entry: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

// GrantItem adds items without charging, respecting the stack cap
func (s *inventoryService) GrantItem(ctx context.Context, playerID, itemID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	item, err := uow.ItemRepository().GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return ErrItemNotFound
	}

	if err := uow.ItemRepository().AddQuantity(ctx, playerID, itemID, quantity, stackCap(item)); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ConsumeItem removes items from the inventory
func (s *inventoryService) ConsumeItem(ctx context.Context, playerID, itemID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ItemRepository().RemoveQuantity(ctx, playerID, itemID, quantity); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListInventory returns a player's inventory
func (s *inventoryService) ListInventory(ctx context.Context, playerID int64) ([]*models.InventoryItem, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	items, err := uow.ItemRepository().GetInventory(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}

	return items, nil
}

// ListShop returns the purchasable item catalog
func (s *inventoryService) ListShop(ctx context.Context) ([]*models.Item, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	items, err := uow.ItemRepository().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}
