package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/couchcryptid/storm-alert-relay/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Publisher posts plain-text alerts to one Telegram chat.
// It implements relay.Publisher.
type Publisher struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

// NewPublisher authenticates the bot token against the Bot API. An empty
// endpoint uses the public API; otherwise it is a format string of the form
// "https://host/bot%s/%s".
func NewPublisher(token, endpoint, chatID string, logger *slog.Logger) (*Publisher, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse telegram chat id %q: %w", chatID, err)
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	logger.Info("telegram bot authorized", "username", api.Self.UserName, "chat_id", id)

	return &Publisher{api: api, chatID: id, logger: logger}, nil
}

// Publish sends text without a parse mode so markup stays literal.
// Failures are wrapped in domain.ErrPublish.
func (p *Publisher) Publish(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(p.chatID, text)
	msg.ParseMode = ""
	msg.DisableWebPagePreview = true

	sent, err := p.api.Send(msg)
	if err != nil {
		return fmt.Errorf("%w: telegram chat %d: %w", domain.ErrPublish, p.chatID, err)
	}
	p.logger.Debug("telegram message sent", "chat_id", p.chatID, "message_id", sent.MessageID)
	return nil
}

// Close only logs; bot tokens carry no session to tear down.
func (p *Publisher) Close(_ context.Context) error {
	p.logger.Info("telegram publisher closed", "chat_id", p.chatID)
	return nil
}
