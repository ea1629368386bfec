// Package bot implements the on-demand command surface: thin glue that
// parses commands and hands a date range to the report pipeline.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nurlansk/conversation-reports/internal/service"
)

// Messenger is what the command surface needs from the messaging platform.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, path, fileName, caption string) error
}

const (
	replyStart        = "Hello! I’m your bot 🤖"
	replyNoConvs      = "No conversations found."
	replyPeriodUsage  = "Пожалуйста, укажите период в формате: /period DD-MM-YYYY DD-MM-YYYY"
	replyBadDate      = "Неверный формат даты. Используйте DD-MM-YYYY."
	replyPeriodEmpty  = "Сообщения за указанный период не найдены."
	replyReportFailed = "Не удалось сформировать отчёт, попробуйте позже."
)

type Bot struct {
	messenger Messenger
	reporter  *service.Reporter
	deliverer *service.Deliverer
	loc       *time.Location

	now func() time.Time
}

func New(m Messenger, r *service.Reporter, d *service.Deliverer, loc *time.Location) *Bot {
	return &Bot{
		messenger: m,
		reporter:  r,
		deliverer: d,
		loc:       loc,
		now:       time.Now,
	}
}

// HandleCommand dispatches one command. Malformed user input is answered
// with a hint and is not an error; only system failures come back as one.
func (b *Bot) HandleCommand(ctx context.Context, chatID int64, command, args string) error {
	switch command {
	case "start":
		return b.messenger.SendText(ctx, chatID, replyStart)
	case "echo":
		return b.messenger.SendText(ctx, chatID, "You said: "+args)
	case "today":
		day := b.now().In(b.loc)
		return b.sendReport(ctx, chatID, day, day, replyNoConvs)
	case "yesterday":
		day := b.now().In(b.loc).AddDate(0, 0, -1)
		return b.sendReport(ctx, chatID, day, day, replyNoConvs)
	case "period":
		start, end, err := ParsePeriodArgs(args)
		if err != nil {
			var hint string
			switch {
			case errors.Is(err, errWrongArgCount):
				hint = replyPeriodUsage
			default:
				hint = replyBadDate
			}
			return b.messenger.SendText(ctx, chatID, hint)
		}
		return b.sendReport(ctx, chatID, start, end, replyPeriodEmpty)
	default:
		// Unknown commands are ignored, matching the platform convention.
		return nil
	}
}

func (b *Bot) sendReport(ctx context.Context, chatID int64, start, end time.Time, emptyReply string) error {
	rep, err := b.reporter.Generate(ctx, start, end)
	if errors.Is(err, service.ErrNoConversations) {
		return b.messenger.SendText(ctx, chatID, emptyReply)
	}
	if err != nil {
		if sendErr := b.messenger.SendText(ctx, chatID, replyReportFailed); sendErr != nil {
			return errors.Join(err, sendErr)
		}
		return fmt.Errorf("generate report for chat %d: %w", chatID, err)
	}

	return b.deliverer.Deliver(ctx, chatID, rep)
}

var errWrongArgCount = errors.New("period expects exactly two dates")

// ParsePeriodArgs parses "/period DD-MM-YYYY DD-MM-YYYY" arguments into an
// inclusive date range.
func ParsePeriodArgs(args string) (start, end time.Time, err error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return time.Time{}, time.Time{}, errWrongArgCount
	}

	start, err = service.ParseDate(fields[0])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = service.ParseDate(fields[1])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
