package bot

import (
	"fmt"
	"strings"

	"github.com/Fi44er/storefront/internal/models"
)

func (b *Bot) TopupCreated(topup *models.TopupRequest) {
	msg := fmt.Sprintf(
		"🆕 New topup request\n\n"+
			"👤 *User:* `%s`\n"+
			"💰 *Amount:* `%s`\n"+
			"🏦 *Account:* `%s`\n"+
			"🧾 *Request:* `%s`",
		username(topup.User, topup.UserID),
		topup.Amount.String(),
		accountLabel(topup.CryptoAccount),
		topup.ID,
	)
	if topup.PaymentProofURL != nil {
		msg += fmt.Sprintf("\n📎 *Proof:* `%s`", *topup.PaymentProofURL)
	}
	b.sendMessage(msg)
}

func (b *Bot) TopupProcessed(topup *models.TopupRequest) {
	icon := "❌"
	if topup.Status == models.TopupApproved {
		icon = "✅"
	}
	msg := fmt.Sprintf(
		"%s Topup request %s\n\n"+
			"👤 *User:* `%s`\n"+
			"💰 *Amount:* `%s`\n"+
			"🧾 *Request:* `%s`",
		icon,
		strings.ToLower(string(topup.Status)),
		username(topup.User, topup.UserID),
		topup.Amount.String(),
		topup.ID,
	)
	b.sendMessage(msg)
}

func (b *Bot) PaymentProofUploaded(order *models.Order) {
	proof := ""
	if order.PaymentProof != nil {
		proof = *order.PaymentProof
	}
	msg := fmt.Sprintf(
		"📎 Payment proof uploaded\n\n"+
			"🧾 *Order:* `%s`\n"+
			"👤 *User:* `%s`\n"+
			"💰 *Total:* `%s`\n"+
			"💳 *Method:* `%s`\n"+
			"🔗 *Proof:* `%s`",
		order.OrderNumber,
		username(order.User, order.UserID),
		order.TotalAmount.String(),
		order.PaymentMethod,
		proof,
	)
	b.sendMessage(msg)
}

func username(u *models.User, fallback string) string {
	if u == nil {
		return fallback
	}
	return u.Username
}

func accountLabel(a *models.CryptoAccount) string {
	if a == nil {
		return "unknown"
	}
	if a.Network != nil {
		return fmt.Sprintf("%s (%s)", a.Symbol, *a.Network)
	}
	return a.Symbol
}
