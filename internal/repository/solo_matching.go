package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/meetcast/matching-server-go/internal/model"
)

// SoloMatchingRepository persists one-to-one offers. Every status transition
// is a single conditional UPDATE guarded by the expected prior status; a nil
// result with nil error means the guard did not hold (already transitioned),
// which services surface as an invalid-state error.
type SoloMatchingRepository interface {
	FindByID(ctx context.Context, id string) (*model.SoloMatching, error)
	Create(ctx context.Context, params model.CreateSoloMatchingParams) (*model.SoloMatching, error)
	UpdateResponse(ctx context.Context, id string, status model.MatchingStatus, respondedAt time.Time) (*model.SoloMatching, error)
	Start(ctx context.Context, id string, startedAt time.Time) (*model.SoloMatching, error)
	Extend(ctx context.Context, id string, minutes, points int, now time.Time) (*model.SoloMatching, error)
	Complete(ctx context.Context, id string, endedAt time.Time) (*model.SoloMatching, error)
	FindActiveByGuestID(ctx context.Context, guestID string) ([]model.SoloMatching, error)
	FindCompletedByGuestID(ctx context.Context, guestID string) ([]model.SoloMatching, error)
	FindOpenByCastID(ctx context.Context, castID string) ([]model.SoloMatching, error)
	CancelStalePending(ctx context.Context, before time.Time) (int64, error)
}

type soloMatchingRepo struct {
	db *sqlx.DB
}

func NewSoloMatchingRepository(db *sqlx.DB) SoloMatchingRepository {
	return &soloMatchingRepo{db: db}
}

func (r *soloMatchingRepo) FindByID(ctx context.Context, id string) (*model.SoloMatching, error) {
	var m model.SoloMatching
	err := r.db.GetContext(ctx, &m, `
		SELECT * FROM solo_matchings WHERE id = $1
	`, id)
	return HandleNotFound(&m, err)
}

func (r *soloMatchingRepo) Create(ctx context.Context, params model.CreateSoloMatchingParams) (*model.SoloMatching, error) {
	var m model.SoloMatching
	err := r.db.GetContext(ctx, &m, `
		INSERT INTO solo_matchings (
			id, guest_id, cast_id, proposed_date, proposed_duration_minutes,
			proposed_location, hourly_rate, total_points
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING *
	`, params.ID, params.GuestID, params.CastID, params.ProposedDate,
		params.ProposedDurationMinutes, params.ProposedLocation,
		params.HourlyRate, params.TotalPoints)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *soloMatchingRepo) UpdateResponse(ctx context.Context, id string, status model.MatchingStatus, respondedAt time.Time) (*model.SoloMatching, error) {
	var m model.SoloMatching
	err := r.db.GetContext(ctx, &m, `
		UPDATE solo_matchings SET
			status = $2,
			cast_responded_at = $3,
			updated_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING *
	`, id, status, respondedAt)
	return HandleNotFound(&m, err)
}

func (r *soloMatchingRepo) Start(ctx context.Context, id string, startedAt time.Time) (*model.SoloMatching, error) {
	var m model.SoloMatching
	err := r.db.GetContext(ctx, &m, `
		UPDATE solo_matchings SET
			status = 'in_progress',
			started_at = $2,
			scheduled_end_at = $2 + make_interval(mins => proposed_duration_minutes + extension_minutes),
			updated_at = $2
		WHERE id = $1 AND status IN ('accepted', 'meeting')
		RETURNING *
	`, id, startedAt)
	return HandleNotFound(&m, err)
}

func (r *soloMatchingRepo) Extend(ctx context.Context, id string, minutes, points int, now time.Time) (*model.SoloMatching, error) {
	var m model.SoloMatching
	err := r.db.GetContext(ctx, &m, `
		UPDATE solo_matchings SET
			extension_minutes = extension_minutes + $2,
			extension_points = extension_points + $3,
			scheduled_end_at = scheduled_end_at + make_interval(mins => $2),
			updated_at = $4
		WHERE id = $1 AND status = 'in_progress' AND started_at IS NOT NULL
		RETURNING *
	`, id, minutes, points, now)
	return HandleNotFound(&m, err)
}

func (r *soloMatchingRepo) Complete(ctx context.Context, id string, endedAt time.Time) (*model.SoloMatching, error) {
	var m model.SoloMatching
	err := r.db.GetContext(ctx, &m, `
		UPDATE solo_matchings SET
			status = 'completed',
			actual_end_at = $2,
			updated_at = $2
		WHERE id = $1 AND status = 'in_progress'
		RETURNING *
	`, id, endedAt)
	return HandleNotFound(&m, err)
}

func (r *soloMatchingRepo) FindActiveByGuestID(ctx context.Context, guestID string) ([]model.SoloMatching, error) {
	var matchings []model.SoloMatching
	err := r.db.SelectContext(ctx, &matchings, `
		SELECT * FROM solo_matchings
		WHERE guest_id = $1 AND status <> 'completed'
		ORDER BY created_at DESC
	`, guestID)
	return matchings, err
}

func (r *soloMatchingRepo) FindCompletedByGuestID(ctx context.Context, guestID string) ([]model.SoloMatching, error) {
	var matchings []model.SoloMatching
	err := r.db.SelectContext(ctx, &matchings, `
		SELECT * FROM solo_matchings
		WHERE guest_id = $1 AND status = 'completed'
		ORDER BY actual_end_at DESC
	`, guestID)
	return matchings, err
}

func (r *soloMatchingRepo) FindOpenByCastID(ctx context.Context, castID string) ([]model.SoloMatching, error) {
	var matchings []model.SoloMatching
	err := r.db.SelectContext(ctx, &matchings, `
		SELECT * FROM solo_matchings
		WHERE cast_id = $1 AND status IN ('pending', 'accepted')
		ORDER BY created_at DESC
	`, castID)
	return matchings, err
}

func (r *soloMatchingRepo) CancelStalePending(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE solo_matchings SET
			status = 'cancelled',
			updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1
	`, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
