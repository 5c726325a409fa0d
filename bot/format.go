package bot

import (
	"fmt"
	"strings"

	"collector/models"
)

// FormatAmount formats a currency amount with thousand separators
func FormatAmount(amount int64) string {
	str := fmt.Sprintf("%d", amount)

	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

var elementIcons = map[models.Element]string{
	models.ElementFire:    "🔥",
	models.ElementWater:   "💧",
	models.ElementEarth:   "🪨",
	models.ElementAir:     "🌪",
	models.ElementLight:   "☀️",
	models.ElementDark:    "🌑",
	models.ElementNeutral: "⚪",
}

func elementIcon(e models.Element) string {
	if icon, ok := elementIcons[e]; ok {
		return icon
	}
	return "⚪"
}

// FormatCard renders one owned card with its rolled stats
func FormatCard(card *models.CardInstance) string {
	return fmt.Sprintf("🃏 *%s* (#%d) %s %s\n❤️ %d/%d  ⚔️ %d  🛡 %d",
		card.TemplateName, card.ID, elementIcon(card.TemplateElement), card.TemplateRarity,
		card.CurrentHealth, card.Health, card.Attack, card.Defense)
}

// FormatCollection renders the collection summary followed by the card list
func FormatCollection(summary *models.CollectionSummary, cards []*models.CardInstance) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 *Your collection* — %d cards, %d unique, %d in decks\n\n",
		summary.TotalCards, summary.UniqueTemplates, summary.InDeck)

	for _, card := range cards {
		slotted := ""
		if card.IsInDeck {
			slotted = " 🗂"
		}
		fmt.Fprintf(&sb, "#%d %s %s — ❤️ %d/%d ⚔️ %d 🛡 %d%s\n",
			card.ID, elementIcon(card.TemplateElement), card.TemplateName,
			card.CurrentHealth, card.Health, card.Attack, card.Defense, slotted)
	}

	sb.WriteString("\n/sell <number> to sell a card.")
	return sb.String()
}

// FormatShop renders the card catalog and the item catalog
func FormatShop(templates []*models.CardTemplate, items []*models.Item) string {
	var sb strings.Builder
	sb.WriteString("🏪 *Card shop*\n")
	for _, t := range templates {
		health, attack, defense := t.AverageStats()
		fmt.Fprintf(&sb, "#%d %s %s (%s) — ~❤️ %d ⚔️ %d 🛡 %d — %s coins",
			t.ID, elementIcon(t.Element), t.Name, t.Rarity, health, attack, defense,
			FormatAmount(t.CoinCost))
		if t.GoldCost > 0 {
			fmt.Fprintf(&sb, " + %s gold", FormatAmount(t.GoldCost))
		}
		sb.WriteString("\n")
	}

	if len(items) > 0 {
		sb.WriteString("\n🎒 *Items*\n")
		for _, item := range items {
			fmt.Fprintf(&sb, "#%d %s — %s coins", item.ID, item.Name, FormatAmount(item.CoinCost))
			if item.IsStackable {
				fmt.Fprintf(&sb, " (stack of %d)", item.MaxStack)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n/buy <card id> or /buy item <item id> [quantity]")
	return sb.String()
}

// FormatDeckDetail renders a deck with all three positions, empty ones included
func FormatDeckDetail(detail *models.DeckDetail) string {
	var sb strings.Builder
	marker := ""
	if detail.Deck.IsActive {
		marker = " ⭐"
	}
	fmt.Fprintf(&sb, "🗂 *%s* (#%d)%s — %d/%d slots\n",
		detail.Deck.Name, detail.Deck.ID, marker, detail.FilledSlots(), models.DeckSize)

	for _, slot := range detail.Slots {
		if slot.Card == nil {
			fmt.Fprintf(&sb, "%d. _empty_\n", slot.Position)
			continue
		}
		fmt.Fprintf(&sb, "%d. #%d %s %s — ❤️ %d/%d ⚔️ %d 🛡 %d\n",
			slot.Position, slot.Card.ID, elementIcon(slot.Card.TemplateElement),
			slot.Card.TemplateName, slot.Card.CurrentHealth, slot.Card.Health,
			slot.Card.Attack, slot.Card.Defense)
	}

	return sb.String()
}
