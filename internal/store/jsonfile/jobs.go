package jsonfile

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

func jobMatches(j model.Job, f store.JobFilter) bool {
	if f.ClientID != "" && j.ClientID != f.ClientID {
		return false
	}
	if f.RecruiterID != "" && j.RecruiterID != f.RecruiterID {
		return false
	}
	if f.Status != "" && j.Status != f.Status {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(j.CompanyName), q) &&
			!strings.Contains(strings.ToLower(j.JobTitle), q) &&
			!strings.Contains(strings.ToLower(j.Location), q) {
			return false
		}
	}
	if f.DateFrom != "" && j.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && j.Date > f.DateTo {
		return false
	}
	return true
}

func (s *Store) ListJobs(ctx context.Context, f store.JobFilter) ([]model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Job{}
	for _, j := range s.data.Jobs {
		if jobMatches(j, f) {
			out = append(out, j)
		}
	}
	// Newest application date first, ties broken by insertion time.
	sort.SliceStable(out, func(i, k int) bool {
		if out[i].Date != out[k].Date {
			return out[i].Date > out[k].Date
		}
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []model.Job{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) CountJobs(ctx context.Context, f store.JobFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, j := range s.data.Jobs {
		if jobMatches(j, f) {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetJobByID(ctx context.Context, id string) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.data.Jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return model.Job{}, store.ErrNotFound
}

func (s *Store) CreateJob(ctx context.Context, j model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Jobs = append(s.data.Jobs, j)
	return s.saveJobs()
}

func (s *Store) UpdateJob(ctx context.Context, id string, p store.JobPatch) (model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Jobs {
		j := &s.data.Jobs[i]
		if j.ID != id {
			continue
		}
		if p.CompanyName != nil {
			j.CompanyName = *p.CompanyName
		}
		if p.JobTitle != nil {
			j.JobTitle = *p.JobTitle
		}
		if p.JobLink != nil {
			j.JobLink = *p.JobLink
		}
		if p.Location != nil {
			j.Location = *p.Location
		}
		if p.Status != nil {
			j.Status = *p.Status
		}
		if p.Notes != nil {
			j.Notes = *p.Notes
		}
		j.UpdatedAt = time.Now().UTC()
		if err := s.saveJobs(); err != nil {
			return model.Job{}, err
		}
		return *j, nil
	}
	return model.Job{}, store.ErrNotFound
}

func (s *Store) UpsertJobs(ctx context.Context, js []model.Job) error {
	if len(js) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range js {
		replaced := false
		for i := range s.data.Jobs {
			if s.data.Jobs[i].ID == j.ID {
				s.data.Jobs[i] = j
				replaced = true
				break
			}
		}
		if !replaced {
			s.data.Jobs = append(s.data.Jobs, j)
		}
	}
	return s.saveJobs()
}

func (s *Store) DeleteJob(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.Jobs {
		if s.data.Jobs[i].ID == id {
			s.data.Jobs = append(s.data.Jobs[:i], s.data.Jobs[i+1:]...)
			return s.saveJobs()
		}
	}
	return store.ErrNotFound
}
