package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"collector/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	player, err := b.playerService.GetOrCreatePlayer(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		log.WithError(err).WithField("playerID", msg.From.ID).Error("Failed to register player")
		b.reply(msg.Chat.ID, "Something went wrong. Please try again.")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf(
		"Welcome, %s! You start with %s coins and %s gold.\n\n"+
			"/shop — browse cards and items\n"+
			"/buy — acquire a card\n"+
			"/collection — see what you own\n"+
			"/deck — build and activate a deck",
		displayName(msg.From), FormatAmount(player.Coins), FormatAmount(player.Gold)))
}

func (b *Bot) handleBalance(ctx context.Context, msg *tgbotapi.Message) {
	player, err := b.playerService.GetOrCreatePlayer(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		log.WithError(err).WithField("playerID", msg.From.ID).Error("Failed to get player")
		b.reply(msg.Chat.ID, "Unable to retrieve your balance. Please try again.")
		return
	}

	text := fmt.Sprintf("💰 *%s coins*  ✨ *%s gold*", FormatAmount(player.Coins), FormatAmount(player.Gold))
	if player.TotalGames > 0 {
		text += fmt.Sprintf("\n🎮 %d games, %d won (%.0f%%), streak %d (best %d)",
			player.TotalGames, player.GamesWon, player.WinRate(), player.CurrentStreak, player.BestStreak)
	}
	b.reply(msg.Chat.ID, text)
}

func (b *Bot) handleCollection(ctx context.Context, msg *tgbotapi.Message) {
	summary, err := b.collectionService.GetSummary(ctx, msg.From.ID)
	if err != nil {
		log.WithError(err).WithField("playerID", msg.From.ID).Error("Failed to get collection summary")
		b.reply(msg.Chat.ID, "Unable to load your collection. Please try again.")
		return
	}
	if summary.TotalCards == 0 {
		b.reply(msg.Chat.ID, "Your collection is empty. Browse the /shop to get started.")
		return
	}

	cards, err := b.cardService.ListCards(ctx, msg.From.ID)
	if err != nil {
		log.WithError(err).WithField("playerID", msg.From.ID).Error("Failed to list cards")
		b.reply(msg.Chat.ID, "Unable to load your collection. Please try again.")
		return
	}

	b.reply(msg.Chat.ID, FormatCollection(summary, cards))
}

func (b *Bot) handleShop(ctx context.Context, msg *tgbotapi.Message) {
	templates, err := b.cardService.ListTemplates(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list templates")
		b.reply(msg.Chat.ID, "The shop is unavailable. Please try again.")
		return
	}

	items, err := b.inventoryService.ListShop(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list shop items")
		b.reply(msg.Chat.ID, "The shop is unavailable. Please try again.")
		return
	}

	b.reply(msg.Chat.ID, FormatShop(templates, items))
}

// handleBuy acquires a card by template ID, or an item with
// "/buy item <id> [qty]"
func (b *Bot) handleBuy(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.reply(msg.Chat.ID, "Usage: /buy <card id> or /buy item <item id> [quantity]")
		return
	}

	if _, err := b.playerService.GetOrCreatePlayer(ctx, msg.From.ID, msg.From.UserName); err != nil {
		log.WithError(err).WithField("playerID", msg.From.ID).Error("Failed to register player")
		b.reply(msg.Chat.ID, "Something went wrong. Please try again.")
		return
	}

	if args[0] == "item" {
		b.buyItem(ctx, msg, args[1:])
		return
	}

	templateID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Card IDs are numbers. Check /shop for the list.")
		return
	}

	card, err := b.cardService.AcquireCard(ctx, msg.From.ID, templateID)
	if err != nil {
		b.replyServiceError(msg.Chat.ID, err)
		return
	}

	b.reply(msg.Chat.ID, FormatCard(card))
}

func (b *Bot) buyItem(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.reply(msg.Chat.ID, "Usage: /buy item <item id> [quantity]")
		return
	}

	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Item IDs are numbers. Check /shop for the list.")
		return
	}

	quantity := 1
	if len(args) > 1 {
		quantity, err = strconv.Atoi(args[1])
		if err != nil {
			b.reply(msg.Chat.ID, "Quantity must be a number.")
			return
		}
	}

	entry, err := b.inventoryService.PurchaseItem(ctx, msg.From.ID, itemID, quantity)
	if err != nil {
		b.replyServiceError(msg.Chat.ID, err)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("🎒 Bought *%s* ×%d. You now hold %d.", entry.ItemName, quantity, entry.Quantity))
}

func (b *Bot) handleSell(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 1 {
		b.reply(msg.Chat.ID, "Usage: /sell <card number from /collection>")
		return
	}

	instanceID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Card numbers are listed in /collection.")
		return
	}

	result, err := b.cardService.SellCard(ctx, msg.From.ID, instanceID)
	if err != nil {
		b.replyServiceError(msg.Chat.ID, err)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("💰 Sold for *%s coins*. New balance: *%s coins*.",
		FormatAmount(result.Price), FormatAmount(result.NewCoins)))
}

func (b *Bot) handleDecks(ctx context.Context, msg *tgbotapi.Message) {
	decks, err := b.deckService.ListDecks(ctx, msg.From.ID)
	if err != nil {
		log.WithError(err).WithField("playerID", msg.From.ID).Error("Failed to list decks")
		b.reply(msg.Chat.ID, "Unable to load your decks. Please try again.")
		return
	}
	if len(decks) == 0 {
		b.reply(msg.Chat.ID, "You have no decks yet. Create one with /deck new <name>.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🗂 *Your decks*\n")
	for _, deck := range decks {
		marker := " "
		if deck.IsActive {
			marker = "⭐"
		}
		fmt.Fprintf(&sb, "%s #%d %s\n", marker, deck.ID, deck.Name)
	}
	sb.WriteString("\n/deck show <id> for details, /deck use <id> to activate.")
	b.reply(msg.Chat.ID, sb.String())
}

// handleDeck routes the deck subcommands:
//
//	/deck new <name>
//	/deck show <id>
//	/deck add <deck id> <card id> <position>
//	/deck remove <deck id> <position>
//	/deck use <id>
//	/deck active
func (b *Bot) handleDeck(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.reply(msg.Chat.ID, "Usage: /deck new|show|add|remove|use|active")
		return
	}

	switch args[0] {
	case "new":
		b.deckNew(ctx, msg, args[1:])
	case "show":
		b.deckShow(ctx, msg, args[1:])
	case "add":
		b.deckAdd(ctx, msg, args[1:])
	case "remove":
		b.deckRemove(ctx, msg, args[1:])
	case "use":
		b.deckUse(ctx, msg, args[1:])
	case "active":
		b.deckActive(ctx, msg)
	default:
		b.reply(msg.Chat.ID, "Usage: /deck new|show|add|remove|use|active")
	}
}

func (b *Bot) deckNew(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.reply(msg.Chat.ID, "Usage: /deck new <name>")
		return
	}
	name := strings.Join(args, " ")

	if _, err := b.playerService.GetOrCreatePlayer(ctx, msg.From.ID, msg.From.UserName); err != nil {
		log.WithError(err).WithField("playerID", msg.From.ID).Error("Failed to register player")
		b.reply(msg.Chat.ID, "Something went wrong. Please try again.")
		return
	}

	deck, err := b.deckService.CreateDeck(ctx, msg.From.ID, name, "")
	if err != nil {
		b.replyServiceError(msg.Chat.ID, err)
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("🗂 Created deck *%s* (#%d). Fill it with /deck add %d <card id> <1-3>.", deck.Name, deck.ID, deck.ID))
}

func (b *Bot) deckShow(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 1 {
		b.reply(msg.Chat.ID, "Usage: /deck show <id>")
		return
	}
	deckID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Deck IDs are numbers. Check /decks for the list.")
		return
	}

	detail, err := b.deckService.GetDeck(ctx, msg.From.ID, deckID)
	if err != nil {
		b.replyServiceError(msg.Chat.ID, err)
		return
	}

	b.reply(msg.Chat.ID, FormatDeckDetail(detail))
}

func (b *Bot) deckAdd(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 3 {
		b.reply(msg.Chat.ID, "Usage: /deck add <deck id> <card id> <position 1-3>")
		return
	}
	deckID, err1 := strconv.ParseInt(args[0], 10, 64)
	cardID, err2 := strconv.ParseInt(args[1], 10, 64)
	position, err3 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil || err3 != nil {
		b.reply(msg.Chat.ID, "Usage: /deck add <deck id> <card id> <position 1-3>")
		return
	}

	detail, err := b.deckService.AddCard(ctx, msg.From.ID, deckID, cardID, position)
	if err != nil {
		b.replyServiceError(msg.Chat.ID, err)
		return
	}

	b.reply(msg.Chat.ID, FormatDeckDetail(detail))
}

func (b *Bot) deckRemove(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 2 {
		b.reply(msg.Chat.ID, "Usage: /deck remove <deck id> <position 1-3>")
		return
	}
	deckID, err1 := strconv.ParseInt(args[0], 10, 64)
	position, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		b.reply(msg.Chat.ID, "Usage: /deck remove <deck id> <position 1-3>")
		return
	}

	detail, err := b.deckService.RemoveCard(ctx, msg.From.ID, deckID, position)
	if err != nil {
		b.replyServiceError(msg.Chat.ID, err)
		return
	}

	b.reply(msg.Chat.ID, FormatDeckDetail(detail))
}

func (b *Bot) deckUse(ctx context.Context, msg *tgbotapi.Message, args []string) {
	if len(args) != 1 {
		b.reply(msg.Chat.ID, "Usage: /deck use <id>")
		return
	}
	deckID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Deck IDs are numbers. Check /decks for the list.")
		return
	}

	// The activation event handles the confirmation message
	if _, err := b.deckService.ActivateDeck(ctx, msg.From.ID, deckID); err != nil {
		b.replyServiceError(msg.Chat.ID, err)
	}
}

func (b *Bot) deckActive(ctx context.Context, msg *tgbotapi.Message) {
	detail, err := b.deckService.GetActiveDeck(ctx, msg.From.ID)
	if err != nil {
		log.WithError(err).WithField("playerID", msg.From.ID).Error("Failed to get active deck")
		b.reply(msg.Chat.ID, "Unable to load your active deck. Please try again.")
		return
	}
	if detail == nil {
		b.reply(msg.Chat.ID, "No active deck. Activate one with /deck use <id>.")
		return
	}

	b.reply(msg.Chat.ID, FormatDeckDetail(detail))
}

func (b *Bot) handleInventory(ctx context.Context, msg *tgbotapi.Message) {
	entries, err := b.inventoryService.ListInventory(ctx, msg.From.ID)
	if err != nil {
		log.WithError(err).WithField("playerID", msg.From.ID).Error("Failed to list inventory")
		b.reply(msg.Chat.ID, "Unable to load your inventory. Please try again.")
		return
	}
	if len(entries) == 0 {
		b.reply(msg.Chat.ID, "Your bag is empty. Items are in the /shop.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🎒 *Your items*\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "• %s ×%d\n", e.ItemName, e.Quantity)
	}
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleLeaderboard(ctx context.Context, msg *tgbotapi.Message) {
	entries, err := b.playerService.GetLeaderboard(ctx, 10)
	if err != nil {
		log.WithError(err).Error("Failed to get leaderboard")
		b.reply(msg.Chat.ID, "Unable to load the leaderboard. Please try again.")
		return
	}
	if len(entries) == 0 {
		b.reply(msg.Chat.ID, "Nobody on the board yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 *Top players*\n")
	for i, e := range entries {
		name := e.Username
		if name == "" {
			name = fmt.Sprintf("player %d", e.TelegramID)
		}
		fmt.Fprintf(&sb, "%d. %s — %d points (%d/%d won)\n", i+1, name, e.TotalPoints, e.GamesWon, e.TotalGames)
	}
	b.reply(msg.Chat.ID, sb.String())
}

// replyServiceError maps sentinel errors to player-facing messages.
// Unexpected errors are logged and answered generically.
func (b *Bot) replyServiceError(chatID int64, err error) {
	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		b.reply(chatID, "You can't afford that. Check your /balance.")
	case errors.Is(err, service.ErrTemplateNotFound), errors.Is(err, service.ErrTemplateInactive):
		b.reply(chatID, "That card isn't available. Check /shop for the current list.")
	case errors.Is(err, service.ErrCardNotFound), errors.Is(err, service.ErrNotOwned):
		b.reply(chatID, "That card isn't in your collection.")
	case errors.Is(err, service.ErrDeckNotFound):
		b.reply(chatID, "That deck doesn't exist. Check /decks for the list.")
	case errors.Is(err, service.ErrItemNotFound):
		b.reply(chatID, "That item isn't available. Check /shop for the current list.")
	case errors.Is(err, service.ErrInvalidPosition):
		b.reply(chatID, "Positions go from 1 to 3.")
	case errors.Is(err, service.ErrCardAlreadySlotted):
		b.reply(chatID, "That card is already in a deck. Remove it from its slot first.")
	case errors.Is(err, service.ErrDuplicateTemplateInDeck):
		b.reply(chatID, "A deck can hold only one card per template.")
	case errors.Is(err, service.ErrSlotEmpty):
		b.reply(chatID, "That slot is already empty.")
	case errors.Is(err, service.ErrEmptyDeck):
		b.reply(chatID, "You can't activate an empty deck. Add a card first.")
	case errors.Is(err, service.ErrStackLimit):
		b.reply(chatID, "You can't carry any more of that item.")
	case errors.Is(err, service.ErrInsufficientQuantity):
		b.reply(chatID, "You don't have that many.")
	case errors.Is(err, service.ErrInvalidAmount):
		b.reply(chatID, "The amount must be positive.")
	case errors.Is(err, service.ErrPlayerNotFound):
		b.reply(chatID, "You're not registered yet. Send /start first.")
	default:
		log.WithError(err).Error("Command failed")
		b.reply(chatID, "Something went wrong. Please try again.")
	}
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return user.FirstName
}
