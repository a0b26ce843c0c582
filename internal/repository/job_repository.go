package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobmate/internal/database"
	"jobmate/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresJobRepository stores scraped postings keyed by their source URL and
// the match results computed against them.
type PostgresJobRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *PostgresJobRepository) UpsertExtracted(ctx context.Context, sourceURL string, rec job.ExtractedJobRecord) (uuid.UUID, error) {
	if r == nil || r.db == nil {
		return uuid.Nil, fmt.Errorf("nil db")
	}
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return uuid.Nil, fmt.Errorf("empty source url")
	}

	skills := rec.Skills
	if skills == nil {
		skills = []string{}
	}
	now := r.now()

	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (id, url, title, company, location, description, job_type, work_mode, skills,
			salary_min, salary_max, salary_currency, scraped_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
		 ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			company = EXCLUDED.company,
			location = EXCLUDED.location,
			description = EXCLUDED.description,
			job_type = EXCLUDED.job_type,
			work_mode = EXCLUDED.work_mode,
			skills = EXCLUDED.skills,
			salary_min = EXCLUDED.salary_min,
			salary_max = EXCLUDED.salary_max,
			salary_currency = EXCLUDED.salary_currency,
			scraped_at = EXCLUDED.scraped_at,
			updated_at = EXCLUDED.updated_at
		 RETURNING id`,
		uuid.New(),
		sourceURL,
		rec.Title,
		rec.Company,
		rec.Location,
		rec.Description,
		string(rec.JobType),
		string(rec.WorkMode),
		skills,
		rec.SalaryMin,
		rec.SalaryMax,
		nullableText(rec.SalaryCurrency),
		now,
	)

	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// SaveMatch records the score for a user and mirrors it onto the job row.
func (r *PostgresJobRepository) SaveMatch(ctx context.Context, m job.MatchRecord) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("nil db")
	}
	if m.UserID == uuid.Nil || m.JobID == uuid.Nil {
		return fmt.Errorf("match requires user and job ids")
	}

	now := r.now()
	return database.InTx(ctx, r.db, func(q database.Querier) error {
		_, err := q.Exec(ctx,
			`INSERT INTO job_matches (user_id, job_id, match_score, matched_skills, missing_skills, matched_at)
			 VALUES ($1,$2,$3,$4,$5,$6)
			 ON CONFLICT (user_id, job_id) DO UPDATE SET
				match_score = EXCLUDED.match_score,
				matched_skills = EXCLUDED.matched_skills,
				missing_skills = EXCLUDED.missing_skills,
				matched_at = EXCLUDED.matched_at`,
			m.UserID, m.JobID, m.Score, nonNil(m.MatchedSkills), nonNil(m.MissingSkills), now,
		)
		if err != nil {
			return err
		}

		n, err := q.Exec(ctx, `UPDATE jobs SET match_score = $2, updated_at = $3 WHERE id = $1`, m.JobID, m.Score, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return job.ErrNotFound
		}
		return nil
	})
}

func (r *PostgresJobRepository) FindByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	if r == nil || r.db == nil {
		return job.Job{}, fmt.Errorf("nil db")
	}
	row := r.db.QueryRow(ctx,
		`SELECT id, url, COALESCE(title, ''), COALESCE(company, ''), COALESCE(description, ''), match_score, updated_at
		 FROM jobs WHERE id = $1`,
		id,
	)

	var j job.Job
	if err := row.Scan(&j.ID, &j.URL, &j.Title, &j.Company, &j.Description, &j.MatchScore, &j.UpdatedAt); err != nil {
		if isNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func nullableText(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

var (
	_ job.RecordWriter = (*PostgresJobRepository)(nil)
	_ job.Reader       = (*PostgresJobRepository)(nil)
)
