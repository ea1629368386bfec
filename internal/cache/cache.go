package cache

import (
	"context"
	"time"
)

// DeliveryLedger records which daily reports have already been delivered,
// so a process restart after the morning trigger does not re-send the same
// report.
type DeliveryLedger interface {
	StoreDelivered(ctx context.Context, day string, fileName string, deliveredAt time.Time) error
	AlreadyDelivered(ctx context.Context, day string) (bool, error)
}
