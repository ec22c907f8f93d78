package bot

import (
	"sync"

	"github.com/Fi44er/storefront/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const queueSize = 64

// Sender is the part of tgbotapi.BotAPI the bot needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot delivers admin notifications to one Telegram chat. Messages are queued
// and sent from a single goroutine so callers never wait on the network.
type Bot struct {
	api         Sender
	adminChatID int64
	logger      *utils.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan tgbotapi.MessageConfig
	wg     sync.WaitGroup
}

func NewBot(api Sender, adminChatID int64, logger *utils.Logger) *Bot {
	return &Bot{
		api:         api,
		adminChatID: adminChatID,
		logger:      logger,
		queue:       make(chan tgbotapi.MessageConfig, queueSize),
	}
}

func (b *Bot) Start() {
	b.logger.Info("Starting notification bot...")
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for msg := range b.queue {
			if _, err := b.api.Send(msg); err != nil {
				b.logger.Errorf("Failed to send message: %v", err)
			}
		}
	}()
}

// Stop flushes queued messages and waits for the sender to exit.
func (b *Bot) Stop() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	b.wg.Wait()
	b.logger.Info("Notification bot stopped")
}

func (b *Bot) sendMessage(text string) {
	msg := tgbotapi.NewMessage(b.adminChatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		b.logger.Warnf("Notification bot stopped, dropping message: %s", text)
		return
	}
	select {
	case b.queue <- msg:
	default:
		b.logger.Warnf("Notification queue full, dropping message: %s", text)
	}
}
