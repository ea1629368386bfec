package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nurlansk/conversation-reports/internal/cache"
)

// DailyReportJob produces the previous day's report and sends it to the
// admin chat. It is the scheduler's run function.
type DailyReportJob struct {
	reporter    *Reporter
	deliverer   *Deliverer
	ledger      cache.DeliveryLedger // nil disables restart dedupe
	adminChatID int64
}

func NewDailyReportJob(r *Reporter, d *Deliverer, ledger cache.DeliveryLedger, adminChatID int64) *DailyReportJob {
	return &DailyReportJob{
		reporter:    r,
		deliverer:   d,
		ledger:      ledger,
		adminChatID: adminChatID,
	}
}

// Run generates and delivers the report for day. Every failure is logged
// and swallowed here: the scheduler loop must outlive any one iteration.
func (j *DailyReportJob) Run(ctx context.Context, day time.Time) {
	dayKey := day.Format("2006-01-02")

	if j.ledger != nil {
		delivered, err := j.ledger.AlreadyDelivered(ctx, dayKey)
		if err != nil {
			slog.Warn("delivery ledger check failed", "day", dayKey, "error", err)
		} else if delivered {
			slog.Info("report already delivered, skipping", "day", dayKey)
			return
		}
	}

	rep, err := j.reporter.Generate(ctx, day, day)
	if errors.Is(err, ErrNoConversations) {
		slog.Info("no messages for yesterday to send", "day", dayKey)
		return
	}
	if err != nil {
		slog.Error("daily report generation failed", "day", dayKey, "error", err)
		return
	}

	if err := j.deliverer.Deliver(ctx, j.adminChatID, rep); err != nil {
		slog.Error("daily report delivery failed", "day", dayKey, "error", err)
		return
	}
	slog.Info("sent daily report to admin",
		"day", dayKey,
		"chat_id", j.adminChatID,
		"conversations", rep.Conversations,
	)

	if j.ledger != nil {
		if err := j.ledger.StoreDelivered(ctx, dayKey, rep.FileName, time.Now()); err != nil {
			slog.Warn("failed to record delivery in ledger", "day", dayKey, "error", err)
		}
	}
}
