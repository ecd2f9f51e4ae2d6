package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/meetcast/matching-server-go/internal/config"
	"github.com/meetcast/matching-server-go/internal/database"
	apperrors "github.com/meetcast/matching-server-go/internal/errors"
	"github.com/meetcast/matching-server-go/internal/model"
	"github.com/meetcast/matching-server-go/internal/points"
	"github.com/meetcast/matching-server-go/internal/repository"
)

type CreateGroupMatchingInput struct {
	RequestedCastCount int             `json:"requestedCastCount"`
	ProposedDate       *time.Time      `json:"proposedDate,omitempty"`
	OffsetMinutes      *int            `json:"offsetMinutes,omitempty"`
	DurationMinutes    int             `json:"durationMinutes"`
	Location           string          `json:"location"`
	AgeFilter          model.AgeFilter `json:"ageFilter"`
}

// CreateGroupMatchingResult reports the eligible-cast count at creation time,
// which may differ from requestedCastCount; the caller messages that gap to
// the guest.
type CreateGroupMatchingResult struct {
	Matching         *model.GroupMatching `json:"matching"`
	ParticipantCount int                  `json:"participantCount"`
}

// txRunner is the slice of database.DB the fan-out needs; it keeps the
// service testable without a live database.
type txRunner interface {
	WithTxRetry(ctx context.Context, attempts int, fn database.TxFunc) error
}

type GroupMatchingService struct {
	db              txRunner
	groupRepo       repository.GroupMatchingRepository
	participantRepo repository.ParticipantRepository
	castRepo        repository.CastRepository
	baseHourlyRate  int
}

func NewGroupMatchingService(
	db txRunner,
	groupRepo repository.GroupMatchingRepository,
	participantRepo repository.ParticipantRepository,
	castRepo repository.CastRepository,
	baseHourlyRate int,
) *GroupMatchingService {
	return &GroupMatchingService{
		db:              db,
		groupRepo:       groupRepo,
		participantRepo: participantRepo,
		castRepo:        castRepo,
		baseHourlyRate:  baseHourlyRate,
	}
}

// CreateGroup snapshots the eligible cast set, then inserts the matching row
// and one pending participant per eligible cast in a single transaction.
// A partially inserted participant set is never observable; transient
// transaction failures retry the whole fan-out.
func (s *GroupMatchingService) CreateGroup(ctx context.Context, guestID string, input CreateGroupMatchingInput) (*CreateGroupMatchingResult, error) {
	if input.RequestedCastCount < 1 {
		return nil, apperrors.ValidationError("requestedCastCount must be at least 1")
	}
	if err := validateDuration(input.DurationMinutes); err != nil {
		return nil, err
	}
	if err := validateAgeFilter(input.AgeFilter); err != nil {
		return nil, err
	}

	now := time.Now()
	proposedDate, err := resolveProposedDate(input.ProposedDate, input.OffsetMinutes, now)
	if err != nil {
		return nil, err
	}

	castIDs, err := s.castRepo.FindEligibleIDs(ctx, input.AgeFilter, now)
	if err != nil {
		return nil, fmt.Errorf("snapshot eligible casts: %w", err)
	}
	if len(castIDs) == 0 {
		return nil, apperrors.NoEligibleCasts()
	}

	baseRate, err := s.castRepo.BaseHourlyRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve base hourly rate: %w", err)
	}
	if baseRate == 0 {
		baseRate = s.baseHourlyRate
	}

	matchingID := uuid.NewString()
	participants := make([]model.CreateParticipantParams, 0, len(castIDs))
	for _, castID := range castIDs {
		participants = append(participants, model.CreateParticipantParams{
			ID:         uuid.NewString(),
			MatchingID: matchingID,
			CastID:     castID,
		})
	}

	var matching *model.GroupMatching
	err = s.db.WithTxRetry(ctx, config.FanOutTxAttempts, func(tx *sqlx.Tx) error {
		created, err := s.groupRepo.WithTx(tx).Create(ctx, model.CreateGroupMatchingParams{
			ID:                      matchingID,
			GuestID:                 guestID,
			ProposedDate:            proposedDate,
			ProposedDurationMinutes: input.DurationMinutes,
			ProposedLocation:        input.Location,
			RequestedCastCount:      input.RequestedCastCount,
			BaseHourlyRate:          baseRate,
			TotalPoints:             points.GroupTotal(input.DurationMinutes, baseRate, input.RequestedCastCount),
		})
		if err != nil {
			return fmt.Errorf("create group matching: %w", err)
		}
		matching = created

		if err := s.participantRepo.WithTx(tx).CreateBatch(ctx, participants); err != nil {
			return fmt.Errorf("fan out participants: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("matchingId", matching.ID).
		Str("guestId", guestID).
		Int("requestedCastCount", input.RequestedCastCount).
		Int("participantCount", len(participants)).
		Int("totalPoints", matching.TotalPoints).
		Msg("group matching created")

	return &CreateGroupMatchingResult{
		Matching:         matching,
		ParticipantCount: len(participants),
	}, nil
}

// RespondGroup applies one cast's accept/reject to their own participant row.
// Distinct casts touch disjoint rows, so no cross-row locking is involved;
// the per-row pending guard alone rules out double submits. The parent
// matching's status is never flipped by responses.
func (s *GroupMatchingService) RespondGroup(ctx context.Context, matchingID, castID string, response model.MatchingResponse) (*model.GroupMatching, error) {
	if !response.Valid() {
		return nil, apperrors.ValidationError("response must be accepted or rejected")
	}

	matching, err := s.groupRepo.FindByID(ctx, matchingID)
	if err != nil {
		return nil, fmt.Errorf("find group matching: %w", err)
	}
	if matching == nil {
		return nil, apperrors.NotFound("Matching")
	}

	participant, err := s.participantRepo.FindByMatchingAndCast(ctx, matchingID, castID)
	if err != nil {
		return nil, fmt.Errorf("find participant: %w", err)
	}
	if participant == nil {
		return nil, apperrors.Forbidden("Caller is not a participant of this matching")
	}

	updated, err := s.participantRepo.UpdateResponse(ctx, matchingID, castID, model.ParticipantStatus(response), time.Now())
	if err != nil {
		return nil, fmt.Errorf("update participant response: %w", err)
	}
	if updated == nil {
		return nil, apperrors.InvalidState("Participant has already responded")
	}

	log.Info().
		Str("matchingId", matchingID).
		Str("castId", castID).
		Str("response", string(response)).
		Msg("group matching response recorded")

	return matching, nil
}

func validateAgeFilter(filter model.AgeFilter) error {
	if filter.MinAge != nil && *filter.MinAge < 0 {
		return apperrors.ValidationError("minAge must not be negative")
	}
	if filter.MaxAge != nil && *filter.MaxAge < 0 {
		return apperrors.ValidationError("maxAge must not be negative")
	}
	if filter.MinAge != nil && filter.MaxAge != nil && *filter.MinAge > *filter.MaxAge {
		return apperrors.ValidationError("minAge must not exceed maxAge")
	}
	return nil
}
