package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/brushtyler/pricesdropbot/internal/models"
)

// FormatDrop renders the price-drop message for one accepted offer: product
// name, condition, price (per piece for multi-item listings), optional
// delivery cost and the product link.
func FormatDrop(name string, offer models.Offer, itemsCount int, productURL string) string {
	p := message.NewPrinter(language.Italian)

	condition := offer.RawConditionText
	if condition == "" {
		condition = string(offer.State)
	}

	text := p.Sprintf("📉 Price drop: %s\n", name)
	text += p.Sprintf("Condition: %s\n", condition)
	text += p.Sprintf("Price: %.2f €", offer.Price)
	if itemsCount > 1 {
		text += p.Sprintf(" (%d pieces, %.2f € each)", itemsCount, offer.Price/float64(itemsCount))
	}
	text += "\n"
	if offer.DeliveryCost > 0 {
		text += p.Sprintf("Delivery: %.2f €\n", offer.DeliveryCost)
	}
	if offer.SoldBy != "" {
		text += p.Sprintf("Sold by: %s\n", offer.SoldBy)
	}
	text += productURL
	return text
}
