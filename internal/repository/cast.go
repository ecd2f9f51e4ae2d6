package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/meetcast/matching-server-go/internal/model"
)

type CastRepository interface {
	FindByID(ctx context.Context, id string) (*model.Cast, error)
	// FindEligibleIDs snapshots the ids of active casts whose age at `now`
	// falls within the filter. The snapshot is taken once, outside the
	// fan-out transaction, so offer creation is deterministic.
	FindEligibleIDs(ctx context.Context, filter model.AgeFilter, now time.Time) ([]string, error)
	// BaseHourlyRate is the lowest cast rank's rate. Returns 0 when no ranks
	// are configured; callers fall back to the configured platform rate.
	BaseHourlyRate(ctx context.Context) (int, error)
}

type castRepo struct {
	db *sqlx.DB
}

func NewCastRepository(db *sqlx.DB) CastRepository {
	return &castRepo{db: db}
}

func (r *castRepo) FindByID(ctx context.Context, id string) (*model.Cast, error) {
	var c model.Cast
	err := r.db.GetContext(ctx, &c, `
		SELECT * FROM casts WHERE id = $1
	`, id)
	return HandleNotFound(&c, err)
}

func (r *castRepo) FindEligibleIDs(ctx context.Context, filter model.AgeFilter, now time.Time) ([]string, error) {
	query := `SELECT id FROM casts WHERE is_active = TRUE`
	args := []any{}

	// age >= minAge: born on or before now minus minAge years
	if filter.MinAge != nil {
		args = append(args, now.AddDate(-*filter.MinAge, 0, 0))
		query += ` AND birth_date <= $` + strconv.Itoa(len(args))
	}
	// age <= maxAge: born after now minus (maxAge+1) years
	if filter.MaxAge != nil {
		args = append(args, now.AddDate(-(*filter.MaxAge + 1), 0, 0))
		query += ` AND birth_date > $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at`

	var ids []string
	err := r.db.SelectContext(ctx, &ids, query, args...)
	return ids, err
}

func (r *castRepo) BaseHourlyRate(ctx context.Context) (int, error) {
	var rate sql.NullInt64
	err := r.db.GetContext(ctx, &rate, `
		SELECT MIN(hourly_rate) FROM cast_ranks
	`)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !rate.Valid) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(rate.Int64), nil
}
