package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

// Notifier creates client notifications as a side effect of job and
// session mutations. When a broker URL is configured events go through
// the queue; otherwise they are written straight to the store. Delivery
// failures are logged and swallowed so the triggering request is never
// failed by a notification.
type Notifier struct {
	AMQPURL string
	Store   store.Store
	Log     *zap.Logger
}

// NewNotifier returns a Notifier. url may be empty to disable the broker.
func NewNotifier(url string, st store.Store, log *zap.Logger) *Notifier {
	return &Notifier{AMQPURL: url, Store: st, Log: log}
}

// Notify records a notification for the given client. Best effort.
func (n *Notifier) Notify(ctx context.Context, clientID, typ, message string) {
	now := time.Now().UTC()
	id := uuid.NewString()

	if n.AMQPURL != "" {
		ev := NotificationEvent{
			ID:        id,
			ClientID:  clientID,
			Type:      typ,
			Message:   message,
			CreatedAt: now.Format(time.RFC3339),
		}
		err := PublishNotification(ctx, n.AMQPURL, ev)
		if err == nil {
			return
		}
		n.Log.Warn("notify: publish failed, falling back to store",
			zap.String("client_id", clientID), zap.Error(err))
	}

	rec := model.Notification{
		ID:        id,
		ClientID:  clientID,
		Type:      typ,
		Message:   message,
		CreatedAt: now,
	}
	if err := n.Store.CreateNotification(ctx, rec); err != nil {
		n.Log.Warn("notify: store write failed",
			zap.String("client_id", clientID), zap.Error(err))
	}
}
