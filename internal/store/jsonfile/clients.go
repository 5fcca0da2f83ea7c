package jsonfile

import (
	"context"
	"strings"
	"time"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

func (r clientRec) toModel() model.Client {
	c := r.Client
	c.PasswordHash = r.PasswordHash
	return c
}

func (s *Store) ListClients(ctx context.Context) ([]model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Client, 0, len(s.data.Clients))
	for _, rec := range s.data.Clients {
		out = append(out, rec.toModel())
	}
	return out, nil
}

func (s *Store) GetClientByID(ctx context.Context, id string) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.data.Clients {
		if rec.ID == id {
			return rec.toModel(), nil
		}
	}
	return model.Client{}, store.ErrNotFound
}

func (s *Store) GetClientByEmail(ctx context.Context, email string) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = normEmail(email)
	for _, rec := range s.data.Clients {
		if strings.EqualFold(rec.Email, email) {
			return rec.toModel(), nil
		}
	}
	return model.Client{}, store.ErrNotFound
}

func (s *Store) CreateClient(ctx context.Context, c model.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Email = normEmail(c.Email)
	for _, rec := range s.data.Clients {
		if strings.EqualFold(rec.Email, c.Email) {
			return store.ErrEmailExists
		}
	}
	rec := clientRec{Client: c, PasswordHash: c.PasswordHash}
	rec.Client.PasswordHash = ""
	s.data.Clients = append(s.data.Clients, rec)
	return s.saveClients()
}

func (s *Store) UpdateClient(ctx context.Context, id string, p store.ClientPatch) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Clients {
		rec := &s.data.Clients[i]
		if rec.ID != id {
			continue
		}
		if p.Email != nil {
			if email := normEmail(*p.Email); email != rec.Email {
				for _, other := range s.data.Clients {
					if other.ID != id && strings.EqualFold(other.Email, email) {
						return model.Client{}, store.ErrEmailExists
					}
				}
				rec.Email = email
			}
		}
		if p.Name != nil {
			rec.Name = *p.Name
		}
		if p.PasswordHash != nil {
			rec.PasswordHash = *p.PasswordHash
		}
		if p.AssignedRecruiter != nil {
			rec.AssignedRecruiter = *p.AssignedRecruiter
		}
		if p.MonthlyTarget != nil {
			rec.MonthlyTarget = *p.MonthlyTarget
		}
		if p.DailyTarget != nil {
			rec.DailyTarget = *p.DailyTarget
		}
		if p.Instructions != nil {
			rec.Instructions = *p.Instructions
		}
		rec.UpdatedAt = time.Now().UTC()
		if err := s.saveClients(); err != nil {
			return model.Client{}, err
		}
		return rec.toModel(), nil
	}
	return model.Client{}, store.ErrNotFound
}

func (s *Store) UpsertClients(ctx context.Context, cs []model.Client) error {
	if len(cs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cs {
		c.Email = normEmail(c.Email)
		rec := clientRec{Client: c, PasswordHash: c.PasswordHash}
		rec.Client.PasswordHash = ""
		replaced := false
		for i := range s.data.Clients {
			if s.data.Clients[i].ID == c.ID {
				s.data.Clients[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			s.data.Clients = append(s.data.Clients, rec)
		}
	}
	return s.saveClients()
}

// AssignClients replaces the recruiter's whole client set: every client
// currently assigned to the recruiter is released, then the given ids are
// attached.  Unknown ids are skipped rather than failing the batch.
func (s *Store) AssignClients(ctx context.Context, recruiterID string, clientIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for i := range s.data.Clients {
		if s.data.Clients[i].AssignedRecruiter == recruiterID {
			s.data.Clients[i].AssignedRecruiter = ""
			s.data.Clients[i].UpdatedAt = now
		}
	}
	for _, id := range clientIDs {
		for i := range s.data.Clients {
			if s.data.Clients[i].ID == id {
				s.data.Clients[i].AssignedRecruiter = recruiterID
				s.data.Clients[i].UpdatedAt = now
				break
			}
		}
	}
	return s.saveClients()
}

// DeleteClient removes the client record only.  Jobs and sessions are
// kept for reporting; callers render "Unknown" for the missing name.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Clients {
		if s.data.Clients[i].ID == id {
			s.data.Clients = append(s.data.Clients[:i], s.data.Clients[i+1:]...)
			return s.saveClients()
		}
	}
	return store.ErrNotFound
}
