package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"collector/events"
	"collector/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Config holds bot configuration
type Config struct {
	Token string
}

type Bot struct {
	config            Config
	api               *tgbotapi.BotAPI
	playerService     service.PlayerService
	cardService       service.CardService
	deckService       service.DeckService
	collectionService service.CollectionService
	inventoryService  service.InventoryService
	eventBus          *events.Bus
}

func New(config Config, playerService service.PlayerService, cardService service.CardService, deckService service.DeckService, collectionService service.CollectionService, inventoryService service.InventoryService, eventBus *events.Bus) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram session: %w", err)
	}

	bot := &Bot{
		config:            config,
		api:               api,
		playerService:     playerService,
		cardService:       cardService,
		deckService:       deckService,
		collectionService: collectionService,
		inventoryService:  inventoryService,
		eventBus:          eventBus,
	}

	// Push notifications ride on the domain event bus; commands never
	// wait on them
	eventBus.Subscribe(events.EventTypeCardAcquired, bot.notifyCardAcquired)
	eventBus.Subscribe(events.EventTypeDeckActivated, bot.notifyDeckActivated)

	log.WithField("username", api.Self.UserName).Info("Telegram bot authorized")

	return bot, nil
}

// Run consumes updates with long polling until the context is cancelled
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"command": msg.Command(),
				"panic":   r,
			}).Error("Command handler panicked")
		}
	}()

	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
	case "balance":
		b.handleBalance(ctx, msg)
	case "collection":
		b.handleCollection(ctx, msg)
	case "shop":
		b.handleShop(ctx, msg)
	case "buy":
		b.handleBuy(ctx, msg)
	case "sell":
		b.handleSell(ctx, msg)
	case "decks":
		b.handleDecks(ctx, msg)
	case "deck":
		b.handleDeck(ctx, msg)
	case "inventory":
		b.handleInventory(ctx, msg)
	case "top":
		b.handleLeaderboard(ctx, msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Try /shop, /collection or /deck.")
	}
}

// reply sends a Markdown message to a chat
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chatID", chatID).Error("Failed to send message")
	}
}

// notifyCardAcquired pushes the rolled stats to the player after the
// acquisition commits
func (b *Bot) notifyCardAcquired(ctx context.Context, event events.Event) {
	e, ok := event.(events.CardAcquiredEvent)
	if !ok {
		return
	}
	b.reply(e.PlayerID, fmt.Sprintf("🃏 You pulled *%s*!\n❤️ %d  ⚔️ %d  🛡 %d", e.TemplateName, e.Health, e.Attack, e.Defense))
}

// notifyDeckActivated confirms the active deck switch
func (b *Bot) notifyDeckActivated(ctx context.Context, event events.Event) {
	e, ok := event.(events.DeckActivatedEvent)
	if !ok {
		return
	}
	b.reply(e.PlayerID, fmt.Sprintf("✅ *%s* is now your active deck.", e.DeckName))
}
