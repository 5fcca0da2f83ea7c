package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/msadki/applytrack/internal/model"
	"github.com/msadki/applytrack/internal/store"
)

const jobCols = "id, client_id, recruiter_id, company_name, job_title, job_link, COALESCE(location,''), status, COALESCE(notes,''), date, created_at, updated_at"

func scanJob(row interface{ Scan(...any) error }) (model.Job, error) {
	var j model.Job
	err := row.Scan(&j.ID, &j.ClientID, &j.RecruiterID, &j.CompanyName, &j.JobTitle, &j.JobLink,
		&j.Location, &j.Status, &j.Notes, &j.Date, &j.CreatedAt, &j.UpdatedAt)
	return j, wrap(err)
}

// jobWhere builds the WHERE clause shared by ListJobs and CountJobs.
func jobWhere(f store.JobFilter) (string, []any) {
	conds, args := []string{"1=1"}, []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.Replace(cond, "?", arg(len(args)), 1))
	}
	if f.ClientID != "" {
		add("client_id=?", f.ClientID)
	}
	if f.RecruiterID != "" {
		add("recruiter_id=?", f.RecruiterID)
	}
	if f.Status != "" {
		add("status=?", f.Status)
	}
	if f.Search != "" {
		pat := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, pat)
		p := arg(len(args))
		conds = append(conds,
			"(LOWER(company_name) LIKE "+p+" OR LOWER(job_title) LIKE "+p+" OR LOWER(COALESCE(location,'')) LIKE "+p+")")
	}
	if f.DateFrom != "" {
		add("date >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		add("date <= ?", f.DateTo)
	}
	return strings.Join(conds, " AND "), args
}

func (s *Store) ListJobs(ctx context.Context, f store.JobFilter) ([]model.Job, error) {
	where, args := jobWhere(f)
	q := "SELECT " + jobCols + " FROM jobs WHERE " + where + " ORDER BY date DESC, created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += " LIMIT " + arg(len(args))
		if f.Offset > 0 {
			args = append(args, f.Offset)
			q += " OFFSET " + arg(len(args))
		}
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()
	out := []model.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, wrap(rows.Err())
}

func (s *Store) CountJobs(ctx context.Context, f store.JobFilter) (int, error) {
	where, args := jobWhere(f)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs WHERE "+where, args...).Scan(&n)
	return n, wrap(err)
}

func (s *Store) GetJobByID(ctx context.Context, id string) (model.Job, error) {
	return scanJob(s.db.QueryRowContext(ctx, "SELECT "+jobCols+" FROM jobs WHERE id=$1", id))
}

func (s *Store) CreateJob(ctx context.Context, j model.Job) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, client_id, recruiter_id, company_name, job_title, job_link, location, status, notes, date, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		j.ID, j.ClientID, j.RecruiterID, j.CompanyName, j.JobTitle, j.JobLink, nullable(j.Location),
		j.Status, nullable(j.Notes), j.Date, j.CreatedAt, j.UpdatedAt)
	return wrap(err)
}

func (s *Store) UpdateJob(ctx context.Context, id string, p store.JobPatch) (model.Job, error) {
	sets, args := []string{}, []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+"="+arg(len(args)))
	}
	if p.CompanyName != nil {
		add("company_name", *p.CompanyName)
	}
	if p.JobTitle != nil {
		add("job_title", *p.JobTitle)
	}
	if p.JobLink != nil {
		add("job_link", *p.JobLink)
	}
	if p.Location != nil {
		add("location", nullable(*p.Location))
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.Notes != nil {
		add("notes", nullable(*p.Notes))
	}
	add("updated_at", time.Now().UTC())
	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		"UPDATE jobs SET "+strings.Join(sets, ", ")+" WHERE id="+arg(len(args)), args...)
	if err != nil {
		return model.Job{}, wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Job{}, store.ErrNotFound
	}
	return s.GetJobByID(ctx, id)
}

func (s *Store) UpsertJobs(ctx context.Context, js []model.Job) error {
	if len(js) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, j := range js {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO jobs (id, client_id, recruiter_id, company_name, job_title, job_link, location, status, notes, date, created_at, updated_at)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
				 ON CONFLICT (id) DO UPDATE SET
				   company_name = EXCLUDED.company_name,
				   job_title = EXCLUDED.job_title,
				   job_link = EXCLUDED.job_link,
				   location = EXCLUDED.location,
				   status = EXCLUDED.status,
				   notes = EXCLUDED.notes,
				   date = EXCLUDED.date,
				   updated_at = EXCLUDED.updated_at`,
				j.ID, j.ClientID, j.RecruiterID, j.CompanyName, j.JobTitle, j.JobLink, nullable(j.Location),
				j.Status, nullable(j.Notes), j.Date, j.CreatedAt, j.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) DeleteJob(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id=$1", id)
	if err != nil {
		return wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
