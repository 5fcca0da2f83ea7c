package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

const adminCols = "id, name, email, password, role, created_at, updated_at"

func scanAdmin(row interface{ Scan(...any) error }) (model.Admin, error) {
	var a model.Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	return a, wrap(err)
}

func (s *Store) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+adminCols+" FROM admins ORDER BY created_at ASC")
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()
	out := []model.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, wrap(rows.Err())
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (model.Admin, error) {
	return scanAdmin(s.db.QueryRowContext(ctx,
		"SELECT "+adminCols+" FROM admins WHERE id=$1", id))
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	return scanAdmin(s.db.QueryRowContext(ctx,
		"SELECT "+adminCols+" FROM admins WHERE email=$1", strings.ToLower(strings.TrimSpace(email))))
}

func (s *Store) CreateAdmin(ctx context.Context, a model.Admin) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO admins ("+adminCols+") VALUES ($1,$2,$3,$4,$5,$6,$7)",
		a.ID, a.Name, strings.ToLower(strings.TrimSpace(a.Email)), a.PasswordHash, a.Role, a.CreatedAt, a.UpdatedAt)
	return wrap(err)
}

func (s *Store) UpdateAdmin(ctx context.Context, id string, p store.AdminPatch) (model.Admin, error) {
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
		"UPDATE admins SET "+strings.Join(sets, ", ")+" WHERE id="+arg(len(args)), args...)
	if err != nil {
		return model.Admin{}, wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Admin{}, store.ErrNotFound
	}
	return s.GetAdminByID(ctx, id)
}

func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM admins WHERE id=$1", id)
	if err != nil {
		return wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// arg returns the positional placeholder for the n-th bound argument.
func arg(n int) string { return "$" + strconv.Itoa(n) }
