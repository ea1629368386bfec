// Package client wraps the Telegram Bot API behind the narrow messaging
// capabilities the rest of the system depends on.
package client

import (
	"context"
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Telegram struct {
	api *tgbotapi.BotAPI
}

func NewTelegram(token string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Telegram{api: api}, nil
}

// NewTelegramWithAPI wraps an already-constructed bot, used by tests that
// point the API at a local server.
func NewTelegramWithAPI(api *tgbotapi.BotAPI) *Telegram {
	return &Telegram{api: api}
}

func (t *Telegram) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendDocument uploads the file at path under fileName, so the delivered
// name follows the report naming convention rather than the temp name.
func (t *Telegram) SendDocument(ctx context.Context, chatID int64, path, fileName, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open report file: %w", err)
	}
	defer f.Close()

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileReader{Name: fileName, Reader: f})
	doc.Caption = caption

	_, err = t.api.Send(doc)
	return err
}

// Updates returns a long-polling update channel for the command surface.
func (t *Telegram) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return t.api.GetUpdatesChan(u)
}
