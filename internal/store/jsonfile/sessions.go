package jsonfile

import (
	"context"
	"sort"
	"time"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

func sessionMatches(sess model.Session, f store.SessionFilter) bool {
	if f.ClientID != "" && sess.ClientID != f.ClientID {
		return false
	}
	if f.RecruiterID != "" && sess.RecruiterID != f.RecruiterID {
		return false
	}
	if f.Status != "" && sess.Status != f.Status {
		return false
	}
	return true
}

func (s *Store) ListSessions(ctx context.Context, f store.SessionFilter) ([]model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Session{}
	for _, sess := range s.data.Sessions {
		if sessionMatches(sess, f) {
			out = append(out, sess)
		}
	}
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].StartTime.After(out[k].StartTime)
	})
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) CreateSession(ctx context.Context, sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Sessions = append(s.data.Sessions, sess)
	return s.saveSessions()
}

// UpdateSession applies the patch.  End time is write-once and a
// completed session cannot go back to active; both violations return
// ErrConflict.
func (s *Store) UpdateSession(ctx context.Context, id string, p store.SessionPatch) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Sessions {
		sess := &s.data.Sessions[i]
		if sess.ID != id {
			continue
		}
		if p.EndTime != nil && sess.EndTime != nil {
			return model.Session{}, store.ErrConflict
		}
		if p.Status != nil && sess.Status == model.SessionCompleted && *p.Status != model.SessionCompleted {
			return model.Session{}, store.ErrConflict
		}
		if p.Status != nil {
			sess.Status = *p.Status
		}
		if p.EndTime != nil {
			t := *p.EndTime
			sess.EndTime = &t
		}
		sess.UpdatedAt = time.Now().UTC()
		if err := s.saveSessions(); err != nil {
			return model.Session{}, err
		}
		return *sess, nil
	}
	return model.Session{}, store.ErrNotFound
}

func (s *Store) UpsertSessions(ctx context.Context, ss []model.Session) error {
	if len(ss) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range ss {
		replaced := false
		for i := range s.data.Sessions {
			if s.data.Sessions[i].ID == sess.ID {
				s.data.Sessions[i] = sess
				replaced = true
				break
			}
		}
		if !replaced {
			s.data.Sessions = append(s.data.Sessions, sess)
		}
	}
	return s.saveSessions()
}
