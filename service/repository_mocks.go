package service

import (
	"context"

	"collector/events"
	"collector/models"

	"github.com/stretchr/testify/mock"
)

// MockPlayerRepository is a mock implementation of PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Player, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetForUpdate(ctx context.Context, telegramID int64) (*models.Player, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) Create(ctx context.Context, telegramID int64, username string, coins, gold int64) (*models.Player, error) {
	args := m.Called(ctx, telegramID, username, coins, gold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Player), args.Error(1)
}

func (m *MockPlayerRepository) DebitBalances(ctx context.Context, telegramID int64, coins, gold int64) error {
	args := m.Called(ctx, telegramID, coins, gold)
	return args.Error(0)
}

func (m *MockPlayerRepository) CreditCoins(ctx context.Context, telegramID int64, amount int64) error {
	args := m.Called(ctx, telegramID, amount)
	return args.Error(0)
}

func (m *MockPlayerRepository) CreditGold(ctx context.Context, telegramID int64, amount int64) error {
	args := m.Called(ctx, telegramID, amount)
	return args.Error(0)
}

func (m *MockPlayerRepository) UpdateStats(ctx context.Context, player *models.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

// MockTemplateRepository is a mock implementation of TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) GetByID(ctx context.Context, id int64) (*models.CardTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardTemplate), args.Error(1)
}

func (m *MockTemplateRepository) ListActive(ctx context.Context) ([]*models.CardTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CardTemplate), args.Error(1)
}

// MockCardRepository is a mock implementation of CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Create(ctx context.Context, card *models.CardInstance) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) GetByID(ctx context.Context, id int64) (*models.CardInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardInstance), args.Error(1)
}

func (m *MockCardRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.CardInstance, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CardInstance), args.Error(1)
}

func (m *MockCardRepository) Update(ctx context.Context, card *models.CardInstance) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDeckRepository is a mock implementation of DeckRepository
type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) Create(ctx context.Context, deck *models.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *MockDeckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) GetByOwner(ctx context.Context, ownerID int64) ([]*models.Deck, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) GetActiveByOwner(ctx context.Context, ownerID int64) (*models.Deck, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deck), args.Error(1)
}

func (m *MockDeckRepository) GetSlots(ctx context.Context, deckID int64) ([]*models.DeckCard, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DeckCard), args.Error(1)
}

func (m *MockDeckRepository) GetSlot(ctx context.Context, deckID int64, position int) (*models.DeckCard, error) {
	args := m.Called(ctx, deckID, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckCard), args.Error(1)
}

func (m *MockDeckRepository) GetSlotByInstance(ctx context.Context, instanceID int64) (*models.DeckCard, error) {
	args := m.Called(ctx, instanceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckCard), args.Error(1)
}

func (m *MockDeckRepository) UpsertSlot(ctx context.Context, slot *models.DeckCard) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockDeckRepository) DeleteSlot(ctx context.Context, deckID int64, position int) error {
	args := m.Called(ctx, deckID, position)
	return args.Error(0)
}

func (m *MockDeckRepository) DeleteSlotByInstance(ctx context.Context, instanceID int64) error {
	args := m.Called(ctx, instanceID)
	return args.Error(0)
}

func (m *MockDeckRepository) DeactivateAllByOwner(ctx context.Context, ownerID int64) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockDeckRepository) SetActive(ctx context.Context, deckID int64) error {
	args := m.Called(ctx, deckID)
	return args.Error(0)
}

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) ListActive(ctx context.Context) ([]*models.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *MockItemRepository) GetInventory(ctx context.Context, playerID int64) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) GetInventoryItem(ctx context.Context, playerID, itemID int64) (*models.InventoryItem, error) {
	args := m.Called(ctx, playerID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) AddQuantity(ctx context.Context, playerID, itemID int64, amount, maxStack int) error {
	args := m.Called(ctx, playerID, itemID, amount, maxStack)
	return args.Error(0)
}

func (m *MockItemRepository) RemoveQuantity(ctx context.Context, playerID, itemID int64, amount int) error {
	args := m.Called(ctx, playerID, itemID, amount)
	return args.Error(0)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByPlayer(ctx context.Context, playerID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// recordingPublisher captures published events without expectations,
// for tests that only care about the final set of events.
type recordingPublisher struct {
	Events []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) {
	p.Events = append(p.Events, event)
}

// MockUnitOfWork is a fake UnitOfWork backed by the repository mocks.
// Begin, Commit and Rollback never fail; the outcomes are counted so
// tests can assert the transaction boundary was respected.
type MockUnitOfWork struct {
	playerRepo   PlayerRepository
	templateRepo TemplateRepository
	cardRepo     CardRepository
	deckRepo     DeckRepository
	itemRepo     ItemRepository
	historyRepo  BalanceHistoryRepository
	publisher    *recordingPublisher

	Begun      int
	Committed  int
	RolledBack int
}

// SetRepositories wires the mocks this unit of work hands out. Nil is
// fine for repositories the code under test never touches.
func (u *MockUnitOfWork) SetRepositories(
	playerRepo PlayerRepository,
	templateRepo TemplateRepository,
	cardRepo CardRepository,
	deckRepo DeckRepository,
	itemRepo ItemRepository,
	historyRepo BalanceHistoryRepository,
) {
	u.playerRepo = playerRepo
	u.templateRepo = templateRepo
	u.cardRepo = cardRepo
	u.deckRepo = deckRepo
	u.itemRepo = itemRepo
	u.historyRepo = historyRepo
	u.publisher = &recordingPublisher{}
}

func (u *MockUnitOfWork) Begin(ctx context.Context) error {
	u.Begun++
	return nil
}

func (u *MockUnitOfWork) Commit() error {
	u.Committed++
	return nil
}

func (u *MockUnitOfWork) Rollback() error {
	// Rollback after commit is a no-op, mirroring the real implementation
	if u.Committed == 0 {
		u.RolledBack++
	}
	return nil
}

func (u *MockUnitOfWork) PlayerRepository() PlayerRepository                 { return u.playerRepo }
func (u *MockUnitOfWork) TemplateRepository() TemplateRepository             { return u.templateRepo }
func (u *MockUnitOfWork) CardRepository() CardRepository                     { return u.cardRepo }
func (u *MockUnitOfWork) DeckRepository() DeckRepository                     { return u.deckRepo }
func (u *MockUnitOfWork) ItemRepository() ItemRepository                     { return u.itemRepo }
func (u *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository { return u.historyRepo }
func (u *MockUnitOfWork) EventBus() EventPublisher                           { return u.publisher }

// PublishedEvents returns the events published through this unit of work
func (u *MockUnitOfWork) PublishedEvents() []events.Event {
	if u.publisher == nil {
		return nil
	}
	return u.publisher.Events
}

// MockUnitOfWorkFactory hands out the same MockUnitOfWork on every Create
type MockUnitOfWorkFactory struct {
	UnitOfWork *MockUnitOfWork
}

func (f *MockUnitOfWorkFactory) Create() UnitOfWork {
	return f.UnitOfWork
}
