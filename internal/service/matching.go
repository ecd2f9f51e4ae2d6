package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/meetcast/matching-server-go/internal/config"
	apperrors "github.com/meetcast/matching-server-go/internal/errors"
	"github.com/meetcast/matching-server-go/internal/model"
	"github.com/meetcast/matching-server-go/internal/points"
	"github.com/meetcast/matching-server-go/internal/repository"
)

// CreateSoloMatchingInput carries the guest's request. Exactly one of
// ProposedDate and OffsetMinutes must be set; OffsetMinutes is resolved
// against the server clock at call time.
type CreateSoloMatchingInput struct {
	CastID          string     `json:"castId"`
	ProposedDate    *time.Time `json:"proposedDate,omitempty"`
	OffsetMinutes   *int       `json:"offsetMinutes,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	Location        string     `json:"location"`
	HourlyRate      int        `json:"hourlyRate"`
}

type MatchingService struct {
	soloRepo      repository.SoloMatchingRepository
	castRepo      repository.CastRepository
	minHourlyRate int
}

func NewMatchingService(
	soloRepo repository.SoloMatchingRepository,
	castRepo repository.CastRepository,
	minHourlyRate int,
) *MatchingService {
	return &MatchingService{
		soloRepo:      soloRepo,
		castRepo:      castRepo,
		minHourlyRate: minHourlyRate,
	}
}

func (s *MatchingService) CreateSolo(ctx context.Context, guestID string, input CreateSoloMatchingInput) (*model.SoloMatching, error) {
	if input.CastID == "" {
		return nil, apperrors.MissingRequired("castId")
	}
	if err := validateDuration(input.DurationMinutes); err != nil {
		return nil, err
	}
	if input.HourlyRate < s.minHourlyRate {
		return nil, apperrors.ValidationError(
			fmt.Sprintf("hourlyRate must be at least %d", s.minHourlyRate))
	}

	proposedDate, err := resolveProposedDate(input.ProposedDate, input.OffsetMinutes, time.Now())
	if err != nil {
		return nil, err
	}

	cast, err := s.castRepo.FindByID(ctx, input.CastID)
	if err != nil {
		return nil, fmt.Errorf("find cast: %w", err)
	}
	if cast == nil {
		return nil, apperrors.NotFound("Cast")
	}

	matching, err := s.soloRepo.Create(ctx, model.CreateSoloMatchingParams{
		ID:                      uuid.NewString(),
		GuestID:                 guestID,
		CastID:                  input.CastID,
		ProposedDate:            proposedDate,
		ProposedDurationMinutes: input.DurationMinutes,
		ProposedLocation:        input.Location,
		HourlyRate:              input.HourlyRate,
		TotalPoints:             points.Compute(input.DurationMinutes, input.HourlyRate),
	})
	if err != nil {
		return nil, fmt.Errorf("create solo matching: %w", err)
	}

	log.Info().
		Str("matchingId", matching.ID).
		Str("guestId", guestID).
		Str("castId", input.CastID).
		Int("totalPoints", matching.TotalPoints).
		Msg("solo matching created")

	return matching, nil
}

// RespondSolo applies the cast's accept/reject as a single conditional update
// guarded on the pending status. A losing double submit observes zero rows
// and surfaces as InvalidState; no retry would change the outcome.
func (s *MatchingService) RespondSolo(ctx context.Context, matchingID, castID string, response model.MatchingResponse) (*model.SoloMatching, error) {
	if !response.Valid() {
		return nil, apperrors.ValidationError("response must be accepted or rejected")
	}

	matching, err := s.soloRepo.FindByID(ctx, matchingID)
	if err != nil {
		return nil, fmt.Errorf("find solo matching: %w", err)
	}
	if matching == nil {
		return nil, apperrors.NotFound("Matching")
	}
	if matching.CastID != castID {
		return nil, apperrors.Forbidden("Only the assigned cast can respond to this matching")
	}

	updated, err := s.soloRepo.UpdateResponse(ctx, matchingID, model.MatchingStatus(response), time.Now())
	if err != nil {
		return nil, fmt.Errorf("update solo matching response: %w", err)
	}
	if updated == nil {
		return nil, apperrors.InvalidState("Matching has already been responded to")
	}

	log.Info().
		Str("matchingId", matchingID).
		Str("castId", castID).
		Str("response", string(response)).
		Msg("solo matching response recorded")

	return updated, nil
}

func validateDuration(minutes int) error {
	if minutes < config.MinDurationMinutes || minutes > config.MaxDurationMinutes {
		return apperrors.ValidationError(fmt.Sprintf(
			"durationMinutes must be between %d and %d",
			config.MinDurationMinutes, config.MaxDurationMinutes))
	}
	return nil
}

func resolveProposedDate(proposedDate *time.Time, offsetMinutes *int, now time.Time) (time.Time, error) {
	if proposedDate != nil && offsetMinutes != nil {
		return time.Time{}, apperrors.ValidationError("specify either proposedDate or offsetMinutes, not both")
	}
	if proposedDate != nil {
		return *proposedDate, nil
	}
	if offsetMinutes != nil {
		if *offsetMinutes <= 0 {
			return time.Time{}, apperrors.ValidationError("offsetMinutes must be positive")
		}
		return now.Add(time.Duration(*offsetMinutes) * time.Minute), nil
	}
	return time.Time{}, apperrors.ValidationError("either proposedDate or offsetMinutes is required")
}
