package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// DocumentSender is the one messaging capability the pipeline depends on.
type DocumentSender interface {
	SendDocument(ctx context.Context, chatID int64, path, fileName, caption string) error
}

// Deliverer sends a rendered report with bounded retries and cleans up the
// temporary file afterwards. A report represents business data, so send
// failures surface as errors rather than disappearing into logs.
type Deliverer struct {
	sender      DocumentSender
	maxAttempts int
	backoff     time.Duration
}

func NewDeliverer(sender DocumentSender, maxAttempts int) *Deliverer {
	return &Deliverer{
		sender:      sender,
		maxAttempts: maxAttempts,
		backoff:     2 * time.Second,
	}
}

// WithBackoff overrides the pause between delivery attempts.
func (d *Deliverer) WithBackoff(b time.Duration) *Deliverer {
	d.backoff = b
	return d
}

func (d *Deliverer) Deliver(ctx context.Context, chatID int64, rep *Report) error {
	defer func() {
		if err := os.Remove(rep.Path); err != nil {
			slog.Warn("failed to delete temporary report file", "path", rep.Path, "error", err)
		} else {
			slog.Info("deleted temporary report file", "path", rep.Path)
		}
	}()

	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		err := d.sender.SendDocument(ctx, chatID, rep.Path, rep.FileName, rep.Caption)
		if err == nil {
			return nil
		}
		lastErr = err
		slog.Warn("report delivery attempt failed",
			"attempt", attempt,
			"chat_id", chatID,
			"file", rep.FileName,
			"error", err,
		)

		if attempt == d.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("deliver report: %w", ctx.Err())
		case <-time.After(d.backoff):
		}
	}
	return fmt.Errorf("deliver report after %d attempts: %w", d.maxAttempts, lastErr)
}
