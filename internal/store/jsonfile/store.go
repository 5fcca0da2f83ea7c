// Package jsonfile implements store.Store over flat JSON files, one per
// collection, for deployments without a database.  The full data set is
// held in memory under a single mutex and written back atomically after
// every mutation, so a crash never leaves a half-written file.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/msadki/applytrack/internal/model"
)

// Persisted record types.  The model structs hide PasswordHash from JSON
// responses, so the accounts that carry one are wrapped with a field that
// does serialize.
type adminRec struct {
	model.Admin
	PasswordHash string `json:"passwordHash,omitempty"`
}

type recruiterRec struct {
	model.Recruiter
	PasswordHash string `json:"passwordHash,omitempty"`
}

type clientRec struct {
	model.Client
	PasswordHash string `json:"passwordHash,omitempty"`
}

type dataset struct {
	Admins        []adminRec           `json:"admins"`
	Recruiters    []recruiterRec       `json:"recruiters"`
	Clients       []clientRec          `json:"clients"`
	Jobs          []model.Job          `json:"jobs"`
	Sessions      []model.Session      `json:"sessions"`
	Notifications []model.Notification `json:"notifications"`
}

// Emails are stored lowercased so lookups and duplicate checks behave
// the same as the database backend, where writes lowercase the column.
func normEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Store keeps every collection in memory and persists each to
// <dir>/<collection>.json.
type Store struct {
	mu   sync.Mutex
	dir  string
	data dataset
}

// Open loads the data files from dir, creating dir and empty collections
// on first run.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: create data dir: %w", err)
	}
	s := &Store{dir: dir}
	if err := s.load("admins.json", &s.data.Admins); err != nil {
		return nil, err
	}
	if err := s.load("recruiters.json", &s.data.Recruiters); err != nil {
		return nil, err
	}
	if err := s.load("clients.json", &s.data.Clients); err != nil {
		return nil, err
	}
	if err := s.load("jobs.json", &s.data.Jobs); err != nil {
		return nil, err
	}
	if err := s.load("sessions.json", &s.data.Sessions); err != nil {
		return nil, err
	}
	if err := s.load("notifications.json", &s.data.Notifications); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(name string, into any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("jsonfile: read %s: %w", name, err)
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, into); err != nil {
		return fmt.Errorf("jsonfile: parse %s: %w", name, err)
	}
	return nil
}

// save writes one collection through a temp file and rename.
func (s *Store) save(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("jsonfile: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("jsonfile: replace %s: %w", name, err)
	}
	return nil
}

func (s *Store) saveAdmins() error     { return s.save("admins.json", s.data.Admins) }
func (s *Store) saveRecruiters() error { return s.save("recruiters.json", s.data.Recruiters) }
func (s *Store) saveClients() error    { return s.save("clients.json", s.data.Clients) }
func (s *Store) saveJobs() error       { return s.save("jobs.json", s.data.Jobs) }
func (s *Store) saveSessions() error   { return s.save("sessions.json", s.data.Sessions) }
func (s *Store) saveNotifications() error {
	return s.save("notifications.json", s.data.Notifications)
}

// SeedDefaultAdmin creates a bootstrap admin account when no admins exist,
// so a fresh deployment is reachable.
func (s *Store) SeedDefaultAdmin(ctx context.Context, email, password string, cost int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data.Admins) > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	s.data.Admins = append(s.data.Admins, adminRec{
		Admin: model.Admin{
			ID:        uuid.NewString(),
			Name:      "Admin User",
			Email:     normEmail(email),
			Role:      "admin",
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: string(hash),
	})
	return s.saveAdmins()
}
