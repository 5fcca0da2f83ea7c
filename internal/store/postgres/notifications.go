package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

const notificationCols = "id, client_id, type, message, read, created_at"

func scanNotification(row interface{ Scan(...any) error }) (model.Notification, error) {
	var n model.Notification
	err := row.Scan(&n.ID, &n.ClientID, &n.Type, &n.Message, &n.Read, &n.CreatedAt)
	return n, wrap(err)
}

func (s *Store) ListNotifications(ctx context.Context, f store.NotificationFilter) ([]model.Notification, error) {
	conds, args := []string{"1=1"}, []any{}
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, col+"="+arg(len(args)))
	}
	if f.ClientID != "" {
		add("client_id", f.ClientID)
	}
	if f.Read != nil {
		add("read", *f.Read)
	}
	q := "SELECT " + notificationCols + " FROM notifications WHERE " + strings.Join(conds, " AND ") + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += " LIMIT " + arg(len(args))
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()
	out := []model.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, wrap(rows.Err())
}

func (s *Store) CreateNotification(ctx context.Context, n model.Notification) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, client_id, type, message, read, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		n.ID, n.ClientID, n.Type, n.Message, n.Read, n.CreatedAt)
	return wrap(err)
}

func (s *Store) UpsertNotifications(ctx context.Context, ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, n := range ns {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO notifications (id, client_id, type, message, read, created_at)
				 VALUES ($1,$2,$3,$4,$5,$6)
				 ON CONFLICT (id) DO UPDATE SET read = EXCLUDED.read`,
				n.ID, n.ClientID, n.Type, n.Message, n.Read, n.CreatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// MarkNotificationRead flips read for a single notification owned by the client.
func (s *Store) MarkNotificationRead(ctx context.Context, id, clientID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = TRUE WHERE id=$1 AND client_id=$2", id, clientID)
	if err != nil {
		return wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, clientID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = TRUE WHERE client_id=$1 AND read = FALSE", clientID)
	return wrap(err)
}
