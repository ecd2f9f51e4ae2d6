package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/meetcast/matching-server-go/internal/model"
)

// GroupMatchingRepository persists one-to-many offers. Lifecycle transitions
// follow the same conditional-update discipline as solo matchings. A group
// offer is allowed to start from 'pending' because individual cast responses
// never flip the parent status; recruiting closes when the session starts.
type GroupMatchingRepository interface {
	FindByID(ctx context.Context, id string) (*model.GroupMatching, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.GroupMatching, error)
	Create(ctx context.Context, params model.CreateGroupMatchingParams) (*model.GroupMatching, error)
	Start(ctx context.Context, id string, startedAt time.Time) (*model.GroupMatching, error)
	Extend(ctx context.Context, id string, minutes, points int, now time.Time) (*model.GroupMatching, error)
	Complete(ctx context.Context, id string, endedAt time.Time) (*model.GroupMatching, error)
	FindActiveByGuestID(ctx context.Context, guestID string) ([]model.GroupMatching, error)
	FindCompletedByGuestID(ctx context.Context, guestID string) ([]model.GroupMatching, error)
	CancelStalePending(ctx context.Context, before time.Time) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) GroupMatchingRepository
}

// groupDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type groupDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type groupMatchingRepo struct {
	db groupDB
}

func NewGroupMatchingRepository(db *sqlx.DB) GroupMatchingRepository {
	return &groupMatchingRepo{db: db}
}

func (r *groupMatchingRepo) WithTx(tx *sqlx.Tx) GroupMatchingRepository {
	return &groupMatchingRepo{db: tx}
}

func (r *groupMatchingRepo) FindByID(ctx context.Context, id string) (*model.GroupMatching, error) {
	var m model.GroupMatching
	err := r.db.GetContext(ctx, &m, `
		SELECT * FROM group_matchings WHERE id = $1
	`, id)
	return HandleNotFound(&m, err)
}

func (r *groupMatchingRepo) FindByIDs(ctx context.Context, ids []string) ([]model.GroupMatching, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var matchings []model.GroupMatching
	err := r.db.SelectContext(ctx, &matchings, `
		SELECT * FROM group_matchings WHERE id = ANY($1)
	`, pq.Array(ids))
	return matchings, err
}

func (r *groupMatchingRepo) Create(ctx context.Context, params model.CreateGroupMatchingParams) (*model.GroupMatching, error) {
	var m model.GroupMatching
	err := r.db.GetContext(ctx, &m, `
		INSERT INTO group_matchings (
			id, guest_id, proposed_date, proposed_duration_minutes,
			proposed_location, requested_cast_count, base_hourly_rate, total_points
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`, params.ID, params.GuestID, params.ProposedDate,
		params.ProposedDurationMinutes, params.ProposedLocation,
		params.RequestedCastCount, params.BaseHourlyRate, params.TotalPoints)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *groupMatchingRepo) Start(ctx context.Context, id string, startedAt time.Time) (*model.GroupMatching, error) {
	var m model.GroupMatching
	err := r.db.GetContext(ctx, &m, `
		UPDATE group_matchings SET
			status = 'in_progress',
			started_at = $2,
			scheduled_end_at = $2 + make_interval(mins => proposed_duration_minutes + extension_minutes),
			recruiting_ended_at = COALESCE(recruiting_ended_at, $2),
			updated_at = $2
		WHERE id = $1 AND status IN ('pending', 'accepted', 'meeting')
		RETURNING *
	`, id, startedAt)
	return HandleNotFound(&m, err)
}

func (r *groupMatchingRepo) Extend(ctx context.Context, id string, minutes, points int, now time.Time) (*model.GroupMatching, error) {
	var m model.GroupMatching
	err := r.db.GetContext(ctx, &m, `
		UPDATE group_matchings SET
			extension_minutes = extension_minutes + $2,
			extension_points = extension_points + $3,
			scheduled_end_at = scheduled_end_at + make_interval(mins => $2),
			updated_at = $4
		WHERE id = $1 AND status = 'in_progress' AND started_at IS NOT NULL
		RETURNING *
	`, id, minutes, points, now)
	return HandleNotFound(&m, err)
}

func (r *groupMatchingRepo) Complete(ctx context.Context, id string, endedAt time.Time) (*model.GroupMatching, error) {
	var m model.GroupMatching
	err := r.db.GetContext(ctx, &m, `
		UPDATE group_matchings SET
			status = 'completed',
			actual_end_at = $2,
			updated_at = $2
		WHERE id = $1 AND status = 'in_progress'
		RETURNING *
	`, id, endedAt)
	return HandleNotFound(&m, err)
}

func (r *groupMatchingRepo) FindActiveByGuestID(ctx context.Context, guestID string) ([]model.GroupMatching, error) {
	var matchings []model.GroupMatching
	err := r.db.SelectContext(ctx, &matchings, `
		SELECT * FROM group_matchings
		WHERE guest_id = $1 AND status <> 'completed'
		ORDER BY created_at DESC
	`, guestID)
	return matchings, err
}

func (r *groupMatchingRepo) FindCompletedByGuestID(ctx context.Context, guestID string) ([]model.GroupMatching, error) {
	var matchings []model.GroupMatching
	err := r.db.SelectContext(ctx, &matchings, `
		SELECT * FROM group_matchings
		WHERE guest_id = $1 AND status = 'completed'
		ORDER BY actual_end_at DESC
	`, guestID)
	return matchings, err
}

func (r *groupMatchingRepo) CancelStalePending(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE group_matchings SET
			status = 'cancelled',
			recruiting_ended_at = COALESCE(recruiting_ended_at, NOW()),
			updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1
	`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
