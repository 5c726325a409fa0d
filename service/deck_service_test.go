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

func newDeckServiceMocks() (*MockUnitOfWork, *MockPlayerRepository, *MockCardRepository, *MockDeckRepository) {
	mockUoW := new(MockUnitOfWork)
	mockPlayerRepo := new(MockPlayerRepository)
	mockCardRepo := new(MockCardRepository)
	mockDeckRepo := new(MockDeckRepository)
	mockUoW.SetRepositories(mockPlayerRepo, nil, mockCardRepo, mockDeckRepo, nil, nil)
	return mockUoW, mockPlayerRepo, mockCardRepo, mockDeckRepo
}

func TestDeckService_AddCard_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockPlayerRepo, mockCardRepo, mockDeckRepo := newDeckServiceMocks()
	service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

	deck := &models.Deck{ID: 5, OwnerID: 100, Name: "Main"}
	card := &models.CardInstance{ID: 42, TemplateID: 7, OwnerID: 100}

	mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
	mockDeckRepo.On("GetByID", ctx, int64(5)).Return(deck, nil)
	mockCardRepo.On("GetByID", ctx, int64(42)).Return(card, nil)
	mockDeckRepo.On("GetSlotByInstance", ctx, int64(42)).Return(nil, nil)
	// First call validates template uniqueness, second builds the detail
	mockDeckRepo.On("GetSlots", ctx, int64(5)).Return([]*models.DeckCard{}, nil).Once()
	mockDeckRepo.On("UpsertSlot", ctx, mock.MatchedBy(func(s *models.DeckCard) bool {
		return s.DeckID == 5 && s.Position == 2 && s.CardInstanceID == 42 && s.TemplateID == 7
	})).Return(nil)
	mockDeckRepo.On("GetSlots", ctx, int64(5)).Return([]*models.DeckCard{
		{DeckID: 5, Position: 2, CardInstanceID: 42, TemplateID: 7},
	}, nil).Once()

	detail, err := service.AddCard(ctx, 100, 5, 42, 2)
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, 1, detail.FilledSlots())
	assert.Nil(t, detail.Slots[0].Card)
	require.NotNil(t, detail.Slots[1].Card)
	assert.Equal(t, int64(42), detail.Slots[1].Card.ID)
	assert.Nil(t, detail.Slots[2].Card)
	assert.Equal(t, 1, mockUoW.Committed)

	mockDeckRepo.AssertExpectations(t)
}

func TestDeckService_AddCard_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("position out of range", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, _ := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		for _, position := range []int{0, 4, -1} {
			_, err := service.AddCard(ctx, 100, 5, 42, position)
			assert.ErrorIs(t, err, ErrInvalidPosition)
		}

		// Rejected before any data access
		mockPlayerRepo.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("deck owned by someone else", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("GetByID", ctx, int64(5)).Return(&models.Deck{ID: 5, OwnerID: 999}, nil)

		_, err := service.AddCard(ctx, 100, 5, 42, 1)
		assert.ErrorIs(t, err, ErrNotOwned)
	})

	t.Run("card owned by someone else", func(t *testing.T) {
		mockUoW, mockPlayerRepo, mockCardRepo, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("GetByID", ctx, int64(5)).Return(&models.Deck{ID: 5, OwnerID: 100}, nil)
		mockCardRepo.On("GetByID", ctx, int64(42)).Return(&models.CardInstance{ID: 42, OwnerID: 999}, nil)

		_, err := service.AddCard(ctx, 100, 5, 42, 1)
		assert.ErrorIs(t, err, ErrNotOwned)
	})

	t.Run("card already slotted in another deck", func(t *testing.T) {
		mockUoW, mockPlayerRepo, mockCardRepo, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("GetByID", ctx, int64(5)).Return(&models.Deck{ID: 5, OwnerID: 100}, nil)
		mockCardRepo.On("GetByID", ctx, int64(42)).Return(&models.CardInstance{ID: 42, TemplateID: 7, OwnerID: 100}, nil)
		mockDeckRepo.On("GetSlotByInstance", ctx, int64(42)).Return(&models.DeckCard{DeckID: 9, Position: 1, CardInstanceID: 42}, nil)

		_, err := service.AddCard(ctx, 100, 5, 42, 1)
		assert.ErrorIs(t, err, ErrCardAlreadySlotted)
		mockDeckRepo.AssertNotCalled(t, "UpsertSlot", mock.Anything, mock.Anything)
	})

	t.Run("card already slotted elsewhere in the same deck", func(t *testing.T) {
		mockUoW, mockPlayerRepo, mockCardRepo, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("GetByID", ctx, int64(5)).Return(&models.Deck{ID: 5, OwnerID: 100}, nil)
		mockCardRepo.On("GetByID", ctx, int64(42)).Return(&models.CardInstance{ID: 42, TemplateID: 7, OwnerID: 100}, nil)
		mockDeckRepo.On("GetSlotByInstance", ctx, int64(42)).Return(&models.DeckCard{DeckID: 5, Position: 3, CardInstanceID: 42}, nil)

		_, err := service.AddCard(ctx, 100, 5, 42, 1)
		assert.ErrorIs(t, err, ErrCardAlreadySlotted)
	})

	t.Run("duplicate template in deck", func(t *testing.T) {
		mockUoW, mockPlayerRepo, mockCardRepo, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("GetByID", ctx, int64(5)).Return(&models.Deck{ID: 5, OwnerID: 100}, nil)
		mockCardRepo.On("GetByID", ctx, int64(42)).Return(&models.CardInstance{ID: 42, TemplateID: 7, OwnerID: 100}, nil)
		mockDeckRepo.On("GetSlotByInstance", ctx, int64(42)).Return(nil, nil)
		mockDeckRepo.On("GetSlots", ctx, int64(5)).Return([]*models.DeckCard{
			{DeckID: 5, Position: 1, CardInstanceID: 41, TemplateID: 7},
		}, nil)

		_, err := service.AddCard(ctx, 100, 5, 42, 2)
		assert.ErrorIs(t, err, ErrDuplicateTemplateInDeck)
		mockDeckRepo.AssertNotCalled(t, "UpsertSlot", mock.Anything, mock.Anything)
	})

	t.Run("replacing the occupant of the target position is allowed", func(t *testing.T) {
		mockUoW, mockPlayerRepo, mockCardRepo, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("GetByID", ctx, int64(5)).Return(&models.Deck{ID: 5, OwnerID: 100}, nil)
		mockCardRepo.On("GetByID", ctx, int64(42)).Return(&models.CardInstance{ID: 42, TemplateID: 8, OwnerID: 100}, nil)
		mockDeckRepo.On("GetSlotByInstance", ctx, int64(42)).Return(nil, nil)
		// Position 1 currently holds a different template; replacement is fine
		mockDeckRepo.On("GetSlots", ctx, int64(5)).Return([]*models.DeckCard{
			{DeckID: 5, Position: 1, CardInstanceID: 41, TemplateID: 7},
		}, nil).Once()
		mockDeckRepo.On("UpsertSlot", ctx, mock.AnythingOfType("*models.DeckCard")).Return(nil)
		mockDeckRepo.On("GetSlots", ctx, int64(5)).Return([]*models.DeckCard{
			{DeckID: 5, Position: 1, CardInstanceID: 42, TemplateID: 8},
		}, nil).Once()
		mockCardRepo.On("GetByID", ctx, int64(42)).Return(&models.CardInstance{ID: 42, TemplateID: 8, OwnerID: 100}, nil)

		detail, err := service.AddCard(ctx, 100, 5, 42, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(42), detail.Slots[0].Card.ID)
	})
}

func TestDeckService_RemoveCard(t *testing.T) {
	ctx := context.Background()

	t.Run("frees the slot", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("GetByID", ctx, int64(5)).Return(&models.Deck{ID: 5, OwnerID: 100}, nil)
		mockDeckRepo.On("GetSlot", ctx, int64(5), 2).Return(&models.DeckCard{DeckID: 5, Position: 2, CardInstanceID: 42}, nil)
		mockDeckRepo.On("DeleteSlot", ctx, int64(5), 2).Return(nil)
		mockDeckRepo.On("GetSlots", ctx, int64(5)).Return([]*models.DeckCard{}, nil)

		detail, err := service.RemoveCard(ctx, 100, 5, 2)
		require.NoError(t, err)
		assert.Zero(t, detail.FilledSlots())
		assert.Equal(t, 1, mockUoW.Committed)
	})

	t.Run("empty slot", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("GetByID", ctx, int64(5)).Return(&models.Deck{ID: 5, OwnerID: 100}, nil)
		mockDeckRepo.On("GetSlot", ctx, int64(5), 2).Return(nil, nil)

		_, err := service.RemoveCard(ctx, 100, 5, 2)
		assert.ErrorIs(t, err, ErrSlotEmpty)
		mockDeckRepo.AssertNotCalled(t, "DeleteSlot", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid position", func(t *testing.T) {
		mockUoW, _, _, _ := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		_, err := service.RemoveCard(ctx, 100, 5, 0)
		assert.ErrorIs(t, err, ErrInvalidPosition)
	})
}

func TestDeckService_ActivateDeck(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivates the rest then activates", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("GetByID", ctx, int64(5)).Return(&models.Deck{ID: 5, OwnerID: 100, Name: "Main"}, nil)
		mockDeckRepo.On("GetSlots", ctx, int64(5)).Return([]*models.DeckCard{
			{DeckID: 5, Position: 1, CardInstanceID: 42, TemplateID: 7},
		}, nil)
		mockDeckRepo.On("DeactivateAllByOwner", ctx, int64(100)).Return(nil)
		mockDeckRepo.On("SetActive", ctx, int64(5)).Return(nil)

		deck, err := service.ActivateDeck(ctx, 100, 5)
		require.NoError(t, err)
		assert.True(t, deck.IsActive)
		assert.Equal(t, 1, mockUoW.Committed)

		published := mockUoW.PublishedEvents()
		require.Len(t, published, 1)
		activated, ok := published[0].(events.DeckActivatedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(5), activated.DeckID)

		mockDeckRepo.AssertExpectations(t)
	})

	t.Run("empty deck cannot be activated", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("GetByID", ctx, int64(5)).Return(&models.Deck{ID: 5, OwnerID: 100}, nil)
		mockDeckRepo.On("GetSlots", ctx, int64(5)).Return([]*models.DeckCard{}, nil)

		_, err := service.ActivateDeck(ctx, 100, 5)
		assert.ErrorIs(t, err, ErrEmptyDeck)
		mockDeckRepo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything)
		assert.Zero(t, mockUoW.Committed)
	})

	t.Run("someone else's deck", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetForUpdate", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("GetByID", ctx, int64(5)).Return(&models.Deck{ID: 5, OwnerID: 999}, nil)

		_, err := service.ActivateDeck(ctx, 100, 5)
		assert.ErrorIs(t, err, ErrNotOwned)
	})
}

func TestDeckService_GetActiveDeck(t *testing.T) {
	ctx := context.Background()

	t.Run("no active deck returns nil", func(t *testing.T) {
		mockUoW, _, _, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockDeckRepo.On("GetActiveByOwner", ctx, int64(100)).Return(nil, nil)

		detail, err := service.GetActiveDeck(ctx, 100)
		require.NoError(t, err)
		assert.Nil(t, detail)
	})

	t.Run("active deck with slots in order", func(t *testing.T) {
		mockUoW, _, mockCardRepo, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockDeckRepo.On("GetActiveByOwner", ctx, int64(100)).Return(&models.Deck{ID: 5, OwnerID: 100, IsActive: true}, nil)
		mockDeckRepo.On("GetSlots", ctx, int64(5)).Return([]*models.DeckCard{
			{DeckID: 5, Position: 1, CardInstanceID: 41, TemplateID: 7},
			{DeckID: 5, Position: 3, CardInstanceID: 43, TemplateID: 9},
		}, nil)
		mockCardRepo.On("GetByID", ctx, int64(41)).Return(&models.CardInstance{ID: 41}, nil)
		mockCardRepo.On("GetByID", ctx, int64(43)).Return(&models.CardInstance{ID: 43}, nil)

		detail, err := service.GetActiveDeck(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, detail)
		assert.Equal(t, 2, detail.FilledSlots())
		assert.Equal(t, int64(41), detail.Slots[0].Card.ID)
		assert.Nil(t, detail.Slots[1].Card)
		assert.Equal(t, int64(43), detail.Slots[2].Card.ID)
	})
}

func TestDeckService_CreateDeck(t *testing.T) {
	ctx := context.Background()

	t.Run("creates for existing player", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetByTelegramID", ctx, int64(100)).Return(&models.Player{TelegramID: 100}, nil)
		mockDeckRepo.On("Create", ctx, mock.MatchedBy(func(d *models.Deck) bool {
			return d.OwnerID == 100 && d.Name == "Main" && !d.IsActive
		})).Return(nil)

		deck, err := service.CreateDeck(ctx, 100, "Main", "primary deck")
		require.NoError(t, err)
		assert.Equal(t, "Main", deck.Name)
	})

	t.Run("unknown player", func(t *testing.T) {
		mockUoW, mockPlayerRepo, _, mockDeckRepo := newDeckServiceMocks()
		service := NewDeckService(&MockUnitOfWorkFactory{UnitOfWork: mockUoW})

		mockPlayerRepo.On("GetByTelegramID", ctx, int64(100)).Return(nil, nil)

		_, err := service.CreateDeck(ctx, 100, "Main", "")
		assert.ErrorIs(t, err, ErrPlayerNotFound)
		mockDeckRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
