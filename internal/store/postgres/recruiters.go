package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

const recruiterCols = "id, name, email, COALESCE(password,''), created_at, updated_at"

func scanRecruiter(row interface{ Scan(...any) error }) (model.Recruiter, error) {
	var r model.Recruiter
	err := row.Scan(&r.ID, &r.Name, &r.Email, &r.PasswordHash, &r.CreatedAt, &r.UpdatedAt)
	return r, wrap(err)
}

// assignedClientIDs derives the recruiter's client set from the single
// source of truth, clients.assigned_recruiter.
func (s *Store) assignedClientIDs(ctx context.Context, recruiterID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM clients WHERE assigned_recruiter=$1 ORDER BY created_at ASC", recruiterID)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, wrap(err)
		}
		ids = append(ids, id)
	}
	return ids, wrap(rows.Err())
}

func (s *Store) ListRecruiters(ctx context.Context) ([]model.Recruiter, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+recruiterCols+" FROM recruiters ORDER BY created_at ASC")
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()
	out := []model.Recruiter{}
	for rows.Next() {
		r, err := scanRecruiter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err)
	}
	for i := range out {
		ids, err := s.assignedClientIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].AssignedClients = ids
	}
	return out, nil
}

func (s *Store) GetRecruiterByID(ctx context.Context, id string) (model.Recruiter, error) {
	r, err := scanRecruiter(s.db.QueryRowContext(ctx,
		"SELECT "+recruiterCols+" FROM recruiters WHERE id=$1", strings.TrimSpace(id)))
	if err != nil {
		return model.Recruiter{}, err
	}
	r.AssignedClients, err = s.assignedClientIDs(ctx, r.ID)
	return r, err
}

func (s *Store) GetRecruiterByEmail(ctx context.Context, email string) (model.Recruiter, error) {
	r, err := scanRecruiter(s.db.QueryRowContext(ctx,
		"SELECT "+recruiterCols+" FROM recruiters WHERE email=$1", strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return model.Recruiter{}, err
	}
	r.AssignedClients, err = s.assignedClientIDs(ctx, r.ID)
	return r, err
}

func (s *Store) CreateRecruiter(ctx context.Context, r model.Recruiter) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recruiters (id, name, email, password, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		r.ID, r.Name, strings.ToLower(strings.TrimSpace(r.Email)), nullable(r.PasswordHash), r.CreatedAt, r.UpdatedAt)
	return wrap(err)
}

func (s *Store) UpdateRecruiter(ctx context.Context, id string, p store.RecruiterPatch) (model.Recruiter, error) {
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
	add("updated_at", time.Now().UTC())
	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE recruiters SET "+strings.Join(sets, ", ")+" WHERE id="+arg(len(args)), args...)
	if err != nil {
		return model.Recruiter{}, wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Recruiter{}, store.ErrNotFound
	}
	return s.GetRecruiterByID(ctx, id)
}

// UpsertRecruiters writes the batch inside one transaction; used by the
// migration path.  Assigned clients are not written, they are a derived
// view.
func (s *Store) UpsertRecruiters(ctx context.Context, rs []model.Recruiter) error {
	if len(rs) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, r := range rs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO recruiters (id, name, email, password, created_at, updated_at)
				 VALUES ($1,$2,$3,$4,$5,$6)
				 ON CONFLICT (id) DO UPDATE SET
				   name = EXCLUDED.name,
				   email = EXCLUDED.email,
				   password = EXCLUDED.password,
				   updated_at = EXCLUDED.updated_at`,
				r.ID, r.Name, strings.ToLower(strings.TrimSpace(r.Email)), nullable(r.PasswordHash), r.CreatedAt, r.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteRecruiter removes the recruiter and unassigns its clients in the
// same transaction so the back-reference never dangles.
func (s *Store) DeleteRecruiter(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE clients SET assigned_recruiter=NULL, updated_at=$1 WHERE assigned_recruiter=$2",
			time.Now().UTC(), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM recruiters WHERE id=$1", id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// nullable maps the empty string to SQL NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
