package database

import (
	"context"
	"fmt"
)

// RequiredColumns lists the columns the repositories read and write. The
// schema itself is owned by the application's migrations.
var RequiredColumns = map[string][]string{
	"jobs": {
		"id", "url", "title", "company", "location", "description", "job_type",
		"work_mode", "skills", "salary_min", "salary_max", "salary_currency",
		"match_score", "scraped_at", "updated_at",
	},
	"job_matches": {"user_id", "job_id", "match_score", "matched_skills", "missing_skills", "matched_at"},
	"users":       {"id", "full_name", "target_role", "skills", "location_preference", "updated_at"},
}

// VerifySchema fails fast at startup when a table the repositories rely on is
// missing a column.
func VerifySchema(ctx context.Context, db DB) error {
	for _, table := range []string{"jobs", "job_matches", "users"} {
		if err := EnsureTableColumns(ctx, db, table, RequiredColumns[table]...); err != nil {
			return err
		}
	}
	return nil
}

func EnsureTableColumns(ctx context.Context, db DB, table string, columns ...string) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	if table == "" {
		return fmt.Errorf("empty table")
	}

	rows, err := db.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema='public' AND table_name=$1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, col := range columns {
		if _, ok := existing[col]; !ok {
			return fmt.Errorf("schema mismatch: missing column %s.%s", table, col)
		}
	}
	return nil
}
