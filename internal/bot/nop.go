package bot

import (
	"github.com/Fi44er/storefront/internal/models"
	"github.com/Fi44er/storefront/utils"
)

// LogNotifier only logs; it is used when no bot token is configured.
type LogNotifier struct {
	logger *utils.Logger
}

func NewLogNotifier(logger *utils.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) TopupCreated(topup *models.TopupRequest) {
	n.logger.Infof("NOTIFY: topup %s created for %s", topup.ID, topup.Amount)
}

func (n *LogNotifier) TopupProcessed(topup *models.TopupRequest) {
	n.logger.Infof("NOTIFY: topup %s %s", topup.ID, topup.Status)
}

func (n *LogNotifier) PaymentProofUploaded(order *models.Order) {
	n.logger.Infof("NOTIFY: payment proof uploaded for order %s", order.OrderNumber)
}
