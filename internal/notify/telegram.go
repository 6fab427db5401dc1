// Package notify publishes rendered reports to a Telegram chat.
package notify

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrDisabled is returned by Publish when no bot token is configured.
var ErrDisabled = errors.New("telegram publishing disabled")

// Sender is the part of tgbotapi.BotAPI used for publishing.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends Markdown messages to one chat.
type Telegram struct {
	sender Sender
	chatID int64
	logger zerolog.Logger
}

// NewTelegram connects to the bot API. An empty token yields a disabled
// publisher rather than an error.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	logger := log.With().Str("component", "telegram").Logger()
	if token == "" {
		return &Telegram{logger: logger}, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("initializing telegram bot: %w", err)
	}
	logger.Info().Str("bot", bot.Self.UserName).Msg("Authorized on Telegram")

	return NewTelegramWithSender(bot, chatID), nil
}

// NewTelegramWithSender wraps an existing sender.
func NewTelegramWithSender(sender Sender, chatID int64) *Telegram {
	return &Telegram{
		sender: sender,
		chatID: chatID,
		logger: log.With().Str("component", "telegram").Logger(),
	}
}

// Enabled reports whether Publish will send anything.
func (t *Telegram) Enabled() bool {
	return t.sender != nil && t.chatID != 0
}

// Publish sends text as a Markdown message.
func (t *Telegram) Publish(ctx context.Context, text string) error {
	if !t.Enabled() {
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	sent, err := t.sender.Send(msg)
	if err != nil {
		t.logger.Error().Err(err).Int64("chat_id", t.chatID).Msg("Failed to send message")
		return fmt.Errorf("sending telegram message: %w", err)
	}

	t.logger.Info().Int64("chat_id", t.chatID).Int("message_id", sent.MessageID).Msg("Message sent")
	return nil
}
