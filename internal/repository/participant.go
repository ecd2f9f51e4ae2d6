package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/meetcast/matching-server-go/internal/model"
)

// ParticipantRepository persists per-cast standings within group offers.
// Response and join transitions are guarded per row; many casts responding to
// the same matching touch disjoint rows and need no cross-row locking.
type ParticipantRepository interface {
	FindByMatchingAndCast(ctx context.Context, matchingID, castID string) (*model.MatchingParticipant, error)
	CreateBatch(ctx context.Context, params []model.CreateParticipantParams) error
	UpdateResponse(ctx context.Context, matchingID, castID string, status model.ParticipantStatus, respondedAt time.Time) (*model.MatchingParticipant, error)
	MarkJoined(ctx context.Context, matchingID, castID string, joinedAt time.Time) (*model.MatchingParticipant, error)
	MarkCompleted(ctx context.Context, matchingID, castID string, now time.Time) (*model.MatchingParticipant, error)
	CountsByMatchingID(ctx context.Context, matchingID string) (model.ParticipantCounts, error)
	FindOpenByCastID(ctx context.Context, castID string) ([]model.MatchingParticipant, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) ParticipantRepository
}

type participantDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type participantRepo struct {
	db participantDB
}

func NewParticipantRepository(db *sqlx.DB) ParticipantRepository {
	return &participantRepo{db: db}
}

func (r *participantRepo) WithTx(tx *sqlx.Tx) ParticipantRepository {
	return &participantRepo{db: tx}
}

func (r *participantRepo) FindByMatchingAndCast(ctx context.Context, matchingID, castID string) (*model.MatchingParticipant, error) {
	var p model.MatchingParticipant
	err := r.db.GetContext(ctx, &p, `
		SELECT * FROM matching_participants
		WHERE matching_id = $1 AND cast_id = $2
	`, matchingID, castID)
	return HandleNotFound(&p, err)
}

func (r *participantRepo) CreateBatch(ctx context.Context, params []model.CreateParticipantParams) error {
	for _, p := range params {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO matching_participants (id, matching_id, cast_id)
			VALUES ($1, $2, $3)
		`, p.ID, p.MatchingID, p.CastID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *participantRepo) UpdateResponse(ctx context.Context, matchingID, castID string, status model.ParticipantStatus, respondedAt time.Time) (*model.MatchingParticipant, error) {
	var p model.MatchingParticipant
	err := r.db.GetContext(ctx, &p, `
		UPDATE matching_participants SET
			status = $3,
			responded_at = $4,
			updated_at = $4
		WHERE matching_id = $1 AND cast_id = $2 AND status = 'pending'
		RETURNING *
	`, matchingID, castID, status, respondedAt)
	return HandleNotFound(&p, err)
}

func (r *participantRepo) MarkJoined(ctx context.Context, matchingID, castID string, joinedAt time.Time) (*model.MatchingParticipant, error) {
	var p model.MatchingParticipant
	err := r.db.GetContext(ctx, &p, `
		UPDATE matching_participants SET
			status = 'joined',
			joined_at = $3,
			updated_at = $3
		WHERE matching_id = $1 AND cast_id = $2 AND status = 'accepted'
		RETURNING *
	`, matchingID, castID, joinedAt)
	return HandleNotFound(&p, err)
}

func (r *participantRepo) MarkCompleted(ctx context.Context, matchingID, castID string, now time.Time) (*model.MatchingParticipant, error) {
	var p model.MatchingParticipant
	err := r.db.GetContext(ctx, &p, `
		UPDATE matching_participants SET
			status = 'completed',
			updated_at = $3
		WHERE matching_id = $1 AND cast_id = $2 AND status = 'joined'
		RETURNING *
	`, matchingID, castID, now)
	return HandleNotFound(&p, err)
}

func (r *participantRepo) CountsByMatchingID(ctx context.Context, matchingID string) (model.ParticipantCounts, error) {
	rows := []struct {
		Status model.ParticipantStatus `db:"status"`
		Count  int                     `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT status, COUNT(*) AS count
		FROM matching_participants
		WHERE matching_id = $1
		GROUP BY status
	`, matchingID)
	if err != nil {
		return model.ParticipantCounts{}, err
	}

	var counts model.ParticipantCounts
	for _, row := range rows {
		switch row.Status {
		case model.ParticipantStatusPending:
			counts.Pending = row.Count
		case model.ParticipantStatusAccepted:
			counts.Accepted = row.Count
		case model.ParticipantStatusRejected:
			counts.Rejected = row.Count
		case model.ParticipantStatusJoined:
			counts.Joined = row.Count
		case model.ParticipantStatusCompleted:
			counts.Completed = row.Count
		}
	}
	return counts, nil
}

func (r *participantRepo) FindOpenByCastID(ctx context.Context, castID string) ([]model.MatchingParticipant, error) {
	var participants []model.MatchingParticipant
	err := r.db.SelectContext(ctx, &participants, `
		SELECT * FROM matching_participants
		WHERE cast_id = $1 AND status IN ('pending', 'accepted')
		ORDER BY created_at DESC
	`, castID)
	return participants, err
}
