package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

const clientCols = "id, name, email, COALESCE(password,''), COALESCE(assigned_recruiter,''), monthly_target, daily_target, COALESCE(instructions,''), created_at, updated_at"

func scanClient(row interface{ Scan(...any) error }) (model.Client, error) {
	var c model.Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.AssignedRecruiter,
		&c.MonthlyTarget, &c.DailyTarget, &c.Instructions, &c.CreatedAt, &c.UpdatedAt)
	return c, wrap(err)
}

func (s *Store) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+clientCols+" FROM clients ORDER BY created_at ASC")
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()
	out := []model.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, wrap(rows.Err())
}

func (s *Store) GetClientByID(ctx context.Context, id string) (model.Client, error) {
	return scanClient(s.db.QueryRowContext(ctx,
		"SELECT "+clientCols+" FROM clients WHERE id=$1", id))
}

func (s *Store) GetClientByEmail(ctx context.Context, email string) (model.Client, error) {
	return scanClient(s.db.QueryRowContext(ctx,
		"SELECT "+clientCols+" FROM clients WHERE email=$1", strings.ToLower(strings.TrimSpace(email))))
}

func (s *Store) CreateClient(ctx context.Context, c model.Client) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, email, password, assigned_recruiter, monthly_target, daily_target, instructions, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.Name, strings.ToLower(strings.TrimSpace(c.Email)), nullable(c.PasswordHash),
		nullable(c.AssignedRecruiter), c.MonthlyTarget, c.DailyTarget, nullable(c.Instructions),
		c.CreatedAt, c.UpdatedAt)
	return wrap(err)
}

func (s *Store) UpdateClient(ctx context.Context, id string, p store.ClientPatch) (model.Client, error) {
	sets, args := []string{}, []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+"="+arg(len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Email != nil {
		add("email", strings.ToLower(strings.TrimSpace(*p.Email)))
	}
	if p.PasswordHash != nil {
		add("password", *p.PasswordHash)
	}
	if p.AssignedRecruiter != nil {
		add("assigned_recruiter", nullable(*p.AssignedRecruiter))
	}
	if p.MonthlyTarget != nil {
		add("monthly_target", *p.MonthlyTarget)
	}
	if p.DailyTarget != nil {
		add("daily_target", *p.DailyTarget)
	}
	if p.Instructions != nil {
		add("instructions", nullable(*p.Instructions))
	}
	add("updated_at", time.Now().UTC())
	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE clients SET "+strings.Join(sets, ", ")+" WHERE id="+arg(len(args)), args...)
	if err != nil {
		return model.Client{}, wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Client{}, store.ErrNotFound
	}
	return s.GetClientByID(ctx, id)
}

func (s *Store) UpsertClients(ctx context.Context, cs []model.Client) error {
	if len(cs) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, c := range cs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO clients (id, name, email, password, assigned_recruiter, monthly_target, daily_target, instructions, created_at, updated_at)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
				 ON CONFLICT (id) DO UPDATE SET
				   name = EXCLUDED.name,
				   email = EXCLUDED.email,
				   password = EXCLUDED.password,
				   assigned_recruiter = EXCLUDED.assigned_recruiter,
				   monthly_target = EXCLUDED.monthly_target,
				   daily_target = EXCLUDED.daily_target,
				   instructions = EXCLUDED.instructions,
				   updated_at = EXCLUDED.updated_at`,
				c.ID, c.Name, strings.ToLower(strings.TrimSpace(c.Email)), nullable(c.PasswordHash),
				nullable(c.AssignedRecruiter), c.MonthlyTarget, c.DailyTarget, nullable(c.Instructions),
				c.CreatedAt, c.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteClient removes only the client row.  Historical jobs keep their
// clientId on purpose; listings render "Unknown" for the missing name.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM clients WHERE id=$1", id)
	if err != nil {
		return wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AssignClients replaces the recruiter's client set atomically:
// unassign everything currently pointing at the recruiter, then assign
// the given ids.  Partial states are never observable.
func (s *Store) AssignClients(ctx context.Context, recruiterID string, clientIDs []string) error {
	now := time.Now().UTC()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE clients SET assigned_recruiter=NULL, updated_at=$1 WHERE assigned_recruiter=$2",
			now, recruiterID); err != nil {
			return err
		}
		for _, id := range clientIDs {
			if _, err := tx.ExecContext(ctx,
				"UPDATE clients SET assigned_recruiter=$1, updated_at=$2 WHERE id=$3",
				recruiterID, now, id); err != nil {
				return err
			}
		}
		return nil
	})
}
