package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// commandTimeout bounds one on-demand report request; a user command must
// never hold resources indefinitely.
const commandTimeout = 2 * time.Minute

// Run consumes Telegram updates until ctx is cancelled or the channel
// closes. Commands run sequentially; the pipeline is safe for concurrent
// callers, so the scheduler's deliveries are unaffected.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	slog.Info("bot command loop started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("bot command loop stopping")
			return
		case update, ok := <-updates:
			if !ok {
				slog.Info("bot update channel closed")
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			chatID := update.Message.Chat.ID
			command := update.Message.Command()
			args := update.Message.CommandArguments()

			cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
			if err := b.HandleCommand(cmdCtx, chatID, command, args); err != nil {
				slog.Error("command failed",
					"command", command,
					"chat_id", chatID,
					"error", err,
				)
			}
			cancel()
		}
	}
}
