package repository

import (
	"context"
	"fmt"

	"jobmate/internal/database"
	"jobmate/internal/domain/user"

	"github.com/google/uuid"
)

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetProfile(ctx context.Context, id uuid.UUID) (user.Profile, error) {
	if r == nil || r.db == nil {
		return user.Profile{}, fmt.Errorf("nil db")
	}
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(full_name, ''), COALESCE(target_role, ''), COALESCE(skills, '{}'), COALESCE(location_preference, '')
		 FROM users WHERE id = $1`,
		id,
	)

	var p user.Profile
	if err := row.Scan(&p.ID, &p.FullName, &p.TargetRole, &p.Skills, &p.LocationPreference); err != nil {
		if isNoRows(err) {
			return user.Profile{}, user.ErrNotFound
		}
		return user.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) UpdateProfile(ctx context.Context, p user.Profile) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("nil db")
	}
	n, err := r.db.Exec(ctx,
		`UPDATE users SET
			full_name = $2,
			target_role = $3,
			skills = $4,
			location_preference = $5,
			updated_at = NOW()
		 WHERE id = $1`,
		p.ID,
		nullableText(p.FullName),
		nullableText(p.TargetRole),
		nonNil(p.Skills),
		nullableText(p.LocationPreference),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

var (
	_ user.ProfileReader = (*PostgresProfileRepository)(nil)
	_ user.ProfileWriter = (*PostgresProfileRepository)(nil)
)
