package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

const sessionCols = "id, client_id, recruiter_id, status, start_time, end_time, created_at, updated_at"

func scanSession(row interface{ Scan(...any) error }) (model.Session, error) {
	var s model.Session
	var end sql.NullTime
	err := row.Scan(&s.ID, &s.ClientID, &s.RecruiterID, &s.Status, &s.StartTime, &end, &s.CreatedAt, &s.UpdatedAt)
	if end.Valid {
		t := end.Time
		s.EndTime = &t
	}
	return s, wrap(err)
}

func (s *Store) ListSessions(ctx context.Context, f store.SessionFilter) ([]model.Session, error) {
	conds, args := []string{"1=1"}, []any{}
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, col+"="+arg(len(args)))
	}
	if f.ClientID != "" {
		add("client_id", f.ClientID)
	}
	if f.RecruiterID != "" {
		add("recruiter_id", f.RecruiterID)
	}
	if f.Status != "" {
		add("status", f.Status)
	}
	q := "SELECT " + sessionCols + " FROM sessions WHERE " + strings.Join(conds, " AND ") + " ORDER BY start_time DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += " LIMIT " + arg(len(args))
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()
	out := []model.Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, wrap(rows.Err())
}

func (s *Store) CreateSession(ctx context.Context, sess model.Session) error {
	var end any
	if sess.EndTime != nil {
		end = *sess.EndTime
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, client_id, recruiter_id, status, start_time, end_time, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		sess.ID, sess.ClientID, sess.RecruiterID, sess.Status, sess.StartTime, end, sess.CreatedAt, sess.UpdatedAt)
	return wrap(err)
}

// UpdateSession applies the patch.  End time is write-once: a session
// whose end_time is already set rejects any further end_time change, and
// status may only move from active to completed.
func (s *Store) UpdateSession(ctx context.Context, id string, p store.SessionPatch) (model.Session, error) {
	cur, err := scanSession(s.db.QueryRowContext(ctx, "SELECT "+sessionCols+" FROM sessions WHERE id=$1", id))
	if err != nil {
		return model.Session{}, err
	}
	if p.EndTime != nil && cur.EndTime != nil {
		return model.Session{}, store.ErrConflict
	}
	if p.Status != nil && cur.Status == model.SessionCompleted && *p.Status != model.SessionCompleted {
		return model.Session{}, store.ErrConflict
	}
	sets, args := []string{}, []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+"="+arg(len(args)))
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.EndTime != nil {
		add("end_time", *p.EndTime)
	}
	add("updated_at", time.Now().UTC())
	args = append(args, id)
	if _, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET "+strings.Join(sets, ", ")+" WHERE id="+arg(len(args)), args...); err != nil {
		return model.Session{}, wrap(err)
	}
	return scanSession(s.db.QueryRowContext(ctx, "SELECT "+sessionCols+" FROM sessions WHERE id=$1", id))
}

func (s *Store) UpsertSessions(ctx context.Context, ss []model.Session) error {
	if len(ss) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, sess := range ss {
			var end any
			if sess.EndTime != nil {
				end = *sess.EndTime
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO sessions (id, client_id, recruiter_id, status, start_time, end_time, created_at, updated_at)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
				 ON CONFLICT (id) DO UPDATE SET
				   status = EXCLUDED.status,
				   start_time = EXCLUDED.start_time,
				   end_time = EXCLUDED.end_time,
				   updated_at = EXCLUDED.updated_at`,
				sess.ID, sess.ClientID, sess.RecruiterID, sess.Status, sess.StartTime, end, sess.CreatedAt, sess.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
