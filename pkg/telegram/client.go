package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier defines the interface for operator notifications.
type Notifier interface {
	SendMessage(text string) error
}

// client is an implementation of Notifier backed by a Telegram bot.
type client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewClient creates a new Telegram notifier client.
func NewClient(botToken string, chatID int64) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &client{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// SendMessage sends a message to the configured Telegram chat.
func (c *client) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := c.bot.Send(msg)
	return err
}

// noopClient is used when notifications are disabled in config.
type noopClient struct{}

// NewNoopClient returns a Notifier that discards every message.
func NewNoopClient() Notifier {
	return noopClient{}
}

func (noopClient) SendMessage(string) error { return nil }
