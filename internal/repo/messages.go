package repo

import (
	"context"
	"time"

	"github.com/nurlansk/conversation-reports/internal/model"
)

type MessageRepository interface {
	// ListBetween returns every message whose timestamp's calendar date
	// falls within [start, end], inclusive both ends, ascending by ID.
	// Equal start and end select a single day. Failures are returned,
	// never masked as an empty result.
	ListBetween(ctx context.Context, start, end time.Time) ([]model.Message, error)

	// CountBetween reports how many messages ListBetween would return.
	CountBetween(ctx context.Context, start, end time.Time) (int, error)
}
