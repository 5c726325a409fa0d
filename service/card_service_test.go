package service

import (
	"context"
	"testing"

	"collector/events"
	"collector/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// minRoller always returns the lower bound, making rolled stats
// deterministic in tests
type minRoller struct{}

func (minRoller) IntBetween(min, max int) int { return min }

// maxRoller always returns the upper bound
type maxRoller struct{}

func (maxRoller) IntBetween(min, max int) int { return max }

func newCardServiceMocks() (*MockUnitOfWork, *MockPlayerRepository, *MockTemplateRepository, *MockCardRepository, *MockDeckRepository, *MockBalanceHistoryRepository) {
	mockUoW := new(MockUnitOfWork)
	mockPlayerRepo := new(MockPlayerRepository)
	mockTemplateRepo := new(MockTemplateRepository)
	mockCardRepo := new(MockCardRepository)
	mockDeckRepo := new(MockDeckRepository)
	mockHistoryRepo := new(MockBalanceHistoryRepository)
	mockUoW.SetRepositories(mockPlayerRepo, mockTemplateRepo, mockCardRepo, mockDeckRepo, nil, mockHistoryRepo)
	return mockUoW, mockPlayerRepo, mockTemplateRepo, mockCardRepo, mockDeckRepo, mockHistoryRepo
}

func testTemplate() *models.CardTemplate {
	return &models.CardTemplate{
		ID:         7,
		Name:       "Alpha",
		Element:    models.ElementFire,
		Rarity:     models.RarityRare,
		HealthMin:  80,
		HealthMax:  120,
		AttackMin:  10,
		AttackMax:  20,
		DefenseMin: 5,
		DefenseMax: 9,
		CoinCost:   50,
		SellPrice:  25,
		IsActive:   true,
	}
}

func TestCardService_AcquireCard_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockPlayerRepo, mockTemplateRepo, mockCardRepo, _, mockHistoryRepo := newCardServiceMocks()
	service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

	player := &models.Player{TelegramID: 100, Coins: 200}
	tmpl := testTemplate()

	mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(player, nil)
	mockTemplateRepo.On("GetByID", ctx, int64(7)).Return(tmpl, nil)
	mockPlayerRepo.On("DebitBalances", ctx, int64(100), int64(50), int64(0)).Return(nil)
	mockCardRepo.On("Create", ctx, mock.AnythingOfType("*models.CardInstance")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.CardInstance).ID = 42
	}).Return(nil)
	mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.Currency == models.CurrencyCoins &&
			h.ChangeAmount == -50 &&
			h.BalanceAfter == 150 &&
			h.TransactionType == models.TransactionTypeCardPurchase
	})).Return(nil)

	card, err := service.AcquireCard(ctx, 100, 7)
	require.NoError(t, err)
	require.NotNil(t, card)

	// minRoller pins every stat to the lower bound
	assert.Equal(t, 80, card.Health)
	assert.Equal(t, 10, card.Attack)
	assert.Equal(t, 5, card.Defense)
	assert.Equal(t, 80, card.CurrentHealth)
	assert.Equal(t, 1, card.Level)
	assert.Equal(t, "Alpha", card.TemplateName)
	assert.Equal(t, 1, mockUoW.Committed)

	// Balance change plus acquisition are both announced
	published := mockUoW.PublishedEvents()
	require.Len(t, published, 2)
	acquired, ok := published[1].(events.CardAcquiredEvent)
	require.True(t, ok)
	assert.Equal(t, int64(42), acquired.InstanceID)

	mockPlayerRepo.AssertExpectations(t)
	mockTemplateRepo.AssertExpectations(t)
	mockCardRepo.AssertExpectations(t)
	mockHistoryRepo.AssertExpectations(t)
}

func TestCardService_AcquireCard_FreeTemplateSkipsDebit(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockPlayerRepo, mockTemplateRepo, mockCardRepo, _, _ := newCardServiceMocks()
	service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

	tmpl := testTemplate()
	tmpl.CoinCost = 0
	tmpl.GoldCost = 0

	mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
	mockTemplateRepo.On("GetByID", ctx, int64(7)).Return(tmpl, nil)
	mockCardRepo.On("Create", ctx, mock.AnythingOfType("*models.CardInstance")).Return(nil)

	card, err := service.AcquireCard(ctx, 100, 7)
	require.NoError(t, err)
	require.NotNil(t, card)

	mockPlayerRepo.AssertNotCalled(t, "DebitBalances", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCardService_AcquireCard_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown player", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, _, _, _ := newCardServiceMocks()
		service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(nil, nil)

		card, err := service.AcquireCard(ctx, 100, 7)
		assert.ErrorIs(t, err, ErrPlayerNotFound)
		assert.Nil(t, card)
		assert.Zero(t, mockUoW.Committed)
	})

	t.Run("unknown template", func(t *testing.T) {
		mockUoW, mockPlayerRepo, mockTemplateRepo, _, _, _ := newCardServiceMocks()
		service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockTemplateRepo.On("GetByID", ctx, int64(7)).Return(nil, nil)

		_, err := service.AcquireCard(ctx, 100, 7)
		assert.ErrorIs(t, err, ErrTemplateNotFound)
	})

	t.Run("inactive template", func(t *testing.T) {
		mockUoW, mockPlayerRepo, mockTemplateRepo, _, _, _ := newCardServiceMocks()
		service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

		tmpl := testTemplate()
		tmpl.IsActive = false
		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockTemplateRepo.On("GetByID", ctx, int64(7)).Return(tmpl, nil)

		_, err := service.AcquireCard(ctx, 100, 7)
		assert.ErrorIs(t, err, ErrTemplateInactive)
	})

	t.Run("inverted stat range", func(t *testing.T) {
		mockUoW, mockPlayerRepo, mockTemplateRepo, mockCardRepo, _, _ := newCardServiceMocks()
		service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

		tmpl := testTemplate()
		tmpl.AttackMin = 30
		tmpl.AttackMax = 20
		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockTemplateRepo.On("GetByID", ctx, int64(7)).Return(tmpl, nil)

		_, err := service.AcquireCard(ctx, 100, 7)
		assert.ErrorIs(t, err, ErrInvalidStatRange)
		mockCardRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insufficient funds leaves no card behind", func(t *testing.T) {
		mockUoW, mockPlayerRepo, mockTemplateRepo, mockCardRepo, _, _ := newCardServiceMocks()
		service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100, Coins: 10}, nil)
		mockTemplateRepo.On("GetByID", ctx, int64(7)).Return(testTemplate(), nil)
		mockPlayerRepo.On("DebitBalances", ctx, int64(100), int64(50), int64(0)).Return(ErrInsufficientFunds)

		_, err := service.AcquireCard(ctx, 100, 7)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, 1, mockUoW.RolledBack)
		mockCardRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCardService_SellCard(t *testing.T) {
	ctx := context.Background()

	t.Run("credits sell price and frees the slot", func(t *testing.T) {
		mockUoW, mockPlayerRepo, mockTemplateRepo, mockCardRepo, mockDeckRepo, mockHistoryRepo := newCardServiceMocks()
		service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

		player := &models.Player{TelegramID: 100, Coins: 30}
		card := &models.CardInstance{ID: 42, TemplateID: 7, OwnerID: 100}
		tmpl := testTemplate()

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(player, nil)
		mockCardRepo.On("GetByID", ctx, int64(42)).Return(card, nil)
		mockTemplateRepo.On("GetByID", ctx, int64(7)).Return(tmpl, nil)
		mockDeckRepo.On("DeleteSlotByInstance", ctx, int64(42)).Return(nil)
		mockCardRepo.On("Delete", ctx, int64(42)).Return(nil)
		mockPlayerRepo.On("CreditCoins", ctx, int64(100), int64(25)).Return(nil)
		mockHistoryRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
			return h.TransactionType == models.TransactionTypeCardSale && h.ChangeAmount == 25
		})).Return(nil)

		result, err := service.SellCard(ctx, 100, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(25), result.Price)
		assert.Equal(t, int64(55), result.NewCoins)
		assert.Equal(t, 1, mockUoW.Committed)

		mockDeckRepo.AssertExpectations(t)
		mockCardRepo.AssertExpectations(t)
	})

	t.Run("selling someone else's card", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, mockCardRepo, mockDeckRepo, _ := newCardServiceMocks()
		service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockCardRepo.On("GetByID", ctx, int64(42)).Return(&models.CardInstance{ID: 42, OwnerID: 999}, nil)

		_, err := service.SellCard(ctx, 100, 42)
		assert.ErrorIs(t, err, ErrNotOwned)
		mockDeckRepo.AssertNotCalled(t, "DeleteSlotByInstance", mock.Anything, mock.Anything)
		mockCardRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unknown card", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, mockCardRepo, _, _ := newCardServiceMocks()
		service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockCardRepo.On("GetByID", ctx, int64(42)).Return(nil, nil)

		_, err := service.SellCard(ctx, 100, 42)
		assert.ErrorIs(t, err, ErrCardNotFound)
	})
}

func TestCardService_RegenerateStats(t *testing.T) {
	ctx := context.Background()

	mockUoW, _, mockTemplateRepo, mockCardRepo, _, _ := newCardServiceMocks()
	service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, maxRoller{})

	card := &models.CardInstance{ID: 42, TemplateID: 7, OwnerID: 100, Health: 80, Attack: 10, Defense: 5, CurrentHealth: 12}
	mockCardRepo.On("GetByID", ctx, int64(42)).Return(card, nil)
	mockTemplateRepo.On("GetByID", ctx, int64(7)).Return(testTemplate(), nil)
	mockCardRepo.On("Update", ctx, card).Return(nil)

	updated, err := service.RegenerateStats(ctx, 42)
	require.NoError(t, err)

	// maxRoller pins every stat to the upper bound, health fully restored
	assert.Equal(t, 120, updated.Health)
	assert.Equal(t, 20, updated.Attack)
	assert.Equal(t, 9, updated.Defense)
	assert.Equal(t, 120, updated.CurrentHealth)
}

func TestCardService_ResetCardHealth(t *testing.T) {
	ctx := context.Background()

	mockUoW, _, _, mockCardRepo, _, _ := newCardServiceMocks()
	service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

	card := &models.CardInstance{ID: 42, OwnerID: 100, Health: 80, CurrentHealth: 3}
	mockCardRepo.On("GetByID", ctx, int64(42)).Return(card, nil)
	mockCardRepo.On("Update", ctx, card).Return(nil)

	updated, err := service.ResetCardHealth(ctx, 100, 42)
	require.NoError(t, err)
	assert.Equal(t, 80, updated.CurrentHealth)
}

func TestCardService_ToggleInDeck(t *testing.T) {
	ctx := context.Background()

	mockUoW, _, _, mockCardRepo, _, _ := newCardServiceMocks()
	service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

	card := &models.CardInstance{ID: 42, OwnerID: 100, IsInDeck: false}
	mockCardRepo.On("GetByID", ctx, int64(42)).Return(card, nil)
	mockCardRepo.On("Update", ctx, card).Return(nil)

	updated, err := service.ToggleInDeck(ctx, 100, 42)
	require.NoError(t, err)
	assert.True(t, updated.IsInDeck)

	t.Run("not owned", func(t *testing.T) {
		mockUoW, _, _, mockCardRepo, _, _ := newCardServiceMocks()
		service := NewCardService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW}, minRoller{})

		mockCardRepo.On("GetByID", ctx, int64(42)).Return(&models.CardInstance{ID: 42, OwnerID: 999}, nil)

		_, err := service.ToggleInDeck(ctx, 100, 42)
		assert.ErrorIs(t, err, ErrNotOwned)
		mockCardRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
