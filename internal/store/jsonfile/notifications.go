package jsonfile

import (
	"context"
	"sort"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

func (s *Store) ListNotifications(ctx context.Context, f store.NotificationFilter) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Notification{}
	for _, n := range s.data.Notifications {
		if f.ClientID != "" && n.ClientID != f.ClientID {
			continue
		}
		if f.Read != nil && n.Read != *f.Read {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) CreateNotification(ctx context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Notifications = append(s.data.Notifications, n)
	return s.saveNotifications()
}

func (s *Store) UpsertNotifications(ctx context.Context, ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range ns {
		replaced := false
		for i := range s.data.Notifications {
			if s.data.Notifications[i].ID == n.ID {
				s.data.Notifications[i] = n
				replaced = true
				break
			}
		}
		if !replaced {
			s.data.Notifications = append(s.data.Notifications, n)
		}
	}
	return s.saveNotifications()
}

func (s *Store) MarkNotificationRead(ctx context.Context, id, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Notifications {
		n := &s.data.Notifications[i]
		if n.ID == id && n.ClientID == clientID {
			if !n.Read {
				n.Read = true
				return s.saveNotifications()
			}
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for i := range s.data.Notifications {
		n := &s.data.Notifications[i]
		if n.ClientID == clientID && !n.Read {
			n.Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.saveNotifications()
}
