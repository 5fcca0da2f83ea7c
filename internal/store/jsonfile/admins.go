package jsonfile

import (
	"context"
	"strings"
	"time"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

func (r adminRec) toModel() model.Admin {
	a := r.Admin
	a.PasswordHash = r.PasswordHash
	return a
}

func (s *Store) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Admin, 0, len(s.data.Admins))
	for _, rec := range s.data.Admins {
		out = append(out, rec.toModel())
	}
	return out, nil
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.data.Admins {
		if rec.ID == id {
			return rec.toModel(), nil
		}
	}
	return model.Admin{}, store.ErrNotFound
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = normEmail(email)
	for _, rec := range s.data.Admins {
		if strings.EqualFold(rec.Email, email) {
			return rec.toModel(), nil
		}
	}
	return model.Admin{}, store.ErrNotFound
}

func (s *Store) CreateAdmin(ctx context.Context, a model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Email = normEmail(a.Email)
	for _, rec := range s.data.Admins {
		if strings.EqualFold(rec.Email, a.Email) {
			return store.ErrEmailExists
		}
	}
	rec := adminRec{Admin: a, PasswordHash: a.PasswordHash}
	rec.Admin.PasswordHash = ""
	s.data.Admins = append(s.data.Admins, rec)
	return s.saveAdmins()
}

func (s *Store) UpdateAdmin(ctx context.Context, id string, p store.AdminPatch) (model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Admins {
		rec := &s.data.Admins[i]
		if rec.ID != id {
			continue
		}
		if p.Email != nil {
			if email := normEmail(*p.Email); email != rec.Email {
				for _, other := range s.data.Admins {
					if other.ID != id && strings.EqualFold(other.Email, email) {
						return model.Admin{}, store.ErrEmailExists
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
		if err := s.saveAdmins(); err != nil {
			return model.Admin{}, err
		}
		return rec.toModel(), nil
	}
	return model.Admin{}, store.ErrNotFound
}

func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Admins {
		if s.data.Admins[i].ID == id {
			s.data.Admins = append(s.data.Admins[:i], s.data.Admins[i+1:]...)
			return s.saveAdmins()
		}
	}
	return store.ErrNotFound
}
