package port

import (
	"context"

	"summerschool.lol/lolcoin/internal/domain/entity"
)

// Notifier is the port for the operator-facing toast sink
type Notifier interface {
	Notify(ctx context.Context, n entity.Notification)
}

// NotificationFeed exposes what was shown to the operator
type NotificationFeed interface {
	Recent(ctx context.Context, limit int) []entity.Notification
}
