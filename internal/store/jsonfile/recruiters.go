package jsonfile

import (
	"context"
	"strings"
	"time"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

// toModel reattaches the password hash and derives AssignedClients from
// the clients collection.  Called with the store lock held.
func (s *Store) recruiterModel(rec recruiterRec) model.Recruiter {
	r := rec.Recruiter
	r.PasswordHash = rec.PasswordHash
	r.AssignedClients = []string{}
	for _, c := range s.data.Clients {
		if c.AssignedRecruiter == r.ID {
			r.AssignedClients = append(r.AssignedClients, c.ID)
		}
	}
	return r
}

func (s *Store) ListRecruiters(ctx context.Context) ([]model.Recruiter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Recruiter, 0, len(s.data.Recruiters))
	for _, rec := range s.data.Recruiters {
		out = append(out, s.recruiterModel(rec))
	}
	return out, nil
}

func (s *Store) GetRecruiterByID(ctx context.Context, id string) (model.Recruiter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.data.Recruiters {
		if rec.ID == id {
			return s.recruiterModel(rec), nil
		}
	}
	return model.Recruiter{}, store.ErrNotFound
}

func (s *Store) GetRecruiterByEmail(ctx context.Context, email string) (model.Recruiter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = normEmail(email)
	for _, rec := range s.data.Recruiters {
		if strings.EqualFold(rec.Email, email) {
			return s.recruiterModel(rec), nil
		}
	}
	return model.Recruiter{}, store.ErrNotFound
}

func (s *Store) CreateRecruiter(ctx context.Context, r model.Recruiter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Email = normEmail(r.Email)
	for _, rec := range s.data.Recruiters {
		if strings.EqualFold(rec.Email, r.Email) {
			return store.ErrEmailExists
		}
	}
	rec := recruiterRec{Recruiter: r, PasswordHash: r.PasswordHash}
	rec.Recruiter.PasswordHash = ""
	rec.Recruiter.AssignedClients = nil
	s.data.Recruiters = append(s.data.Recruiters, rec)
	return s.saveRecruiters()
}

func (s *Store) UpdateRecruiter(ctx context.Context, id string, p store.RecruiterPatch) (model.Recruiter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Recruiters {
		rec := &s.data.Recruiters[i]
		if rec.ID != id {
			continue
		}
		if p.Email != nil {
			if email := normEmail(*p.Email); email != rec.Email {
				for _, other := range s.data.Recruiters {
					if other.ID != id && strings.EqualFold(other.Email, email) {
						return model.Recruiter{}, store.ErrEmailExists
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
		rec.UpdatedAt = time.Now().UTC()
		if err := s.saveRecruiters(); err != nil {
			return model.Recruiter{}, err
		}
		return s.recruiterModel(*rec), nil
	}
	return model.Recruiter{}, store.ErrNotFound
}

func (s *Store) UpsertRecruiters(ctx context.Context, rs []model.Recruiter) error {
	if len(rs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		r.Email = normEmail(r.Email)
		rec := recruiterRec{Recruiter: r, PasswordHash: r.PasswordHash}
		rec.Recruiter.PasswordHash = ""
		rec.Recruiter.AssignedClients = nil
		replaced := false
		for i := range s.data.Recruiters {
			if s.data.Recruiters[i].ID == r.ID {
				s.data.Recruiters[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			s.data.Recruiters = append(s.data.Recruiters, rec)
		}
	}
	return s.saveRecruiters()
}

// DeleteRecruiter removes the recruiter and unassigns its clients so no
// client keeps a dangling recruiter reference.
func (s *Store) DeleteRecruiter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.data.Recruiters {
		if s.data.Recruiters[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}
	changed := false
	for i := range s.data.Clients {
		if s.data.Clients[i].AssignedRecruiter == id {
			s.data.Clients[i].AssignedRecruiter = ""
			s.data.Clients[i].UpdatedAt = time.Now().UTC()
			changed = true
		}
	}
	s.data.Recruiters = append(s.data.Recruiters[:idx], s.data.Recruiters[idx+1:]...)
	if changed {
		if err := s.saveClients(); err != nil {
			return err
		}
	}
	return s.saveRecruiters()
}
