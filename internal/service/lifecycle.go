package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/meetcast/matching-server-go/internal/config"
	apperrors "github.com/meetcast/matching-server-go/internal/errors"
	"github.com/meetcast/matching-server-go/internal/model"
	"github.com/meetcast/matching-server-go/internal/points"
	"github.com/meetcast/matching-server-go/internal/repository"
)

// Extension validation messages are user-facing and shown verbatim.
const (
	msgExtensionNotPositive = "延長時間は正の整数である必要があります"
	msgExtensionNotStepped  = "延長時間は30分単位で指定してください"
)

// Session is the tagged variant the lifecycle operates on. Solo and group
// offers share identical timing and extension semantics; only creation and
// response differ in shape, so one service drives start/extend/complete for
// both kinds.
type Session struct {
	Kind  model.MatchingKind   `json:"kind"`
	Solo  *model.SoloMatching  `json:"solo,omitempty"`
	Group *model.GroupMatching `json:"group,omitempty"`
}

type LifecycleService struct {
	soloRepo        repository.SoloMatchingRepository
	groupRepo       repository.GroupMatchingRepository
	participantRepo repository.ParticipantRepository
}

func NewLifecycleService(
	soloRepo repository.SoloMatchingRepository,
	groupRepo repository.GroupMatchingRepository,
	participantRepo repository.ParticipantRepository,
) *LifecycleService {
	return &LifecycleService{
		soloRepo:        soloRepo,
		groupRepo:       groupRepo,
		participantRepo: participantRepo,
	}
}

// Start opens the session: startedAt is stamped and scheduledEndAt derived
// from the proposed duration plus any extensions granted before the start.
func (s *LifecycleService) Start(ctx context.Context, kind model.MatchingKind, matchingID, castID string) (*Session, error) {
	switch kind {
	case model.KindSolo:
		return s.startSolo(ctx, matchingID, castID)
	case model.KindGroup:
		return s.startGroup(ctx, matchingID, castID)
	default:
		return nil, apperrors.ValidationError("unknown matching kind")
	}
}

func (s *LifecycleService) startSolo(ctx context.Context, matchingID, castID string) (*Session, error) {
	matching, err := s.soloRepo.FindByID(ctx, matchingID)
	if err != nil {
		return nil, fmt.Errorf("find solo matching: %w", err)
	}
	if matching == nil {
		return nil, apperrors.NotFound("Matching")
	}
	if matching.CastID != castID {
		return nil, apperrors.Forbidden("Only the assigned cast can start this session")
	}

	started, err := s.soloRepo.Start(ctx, matchingID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("start solo matching: %w", err)
	}
	if started == nil {
		return nil, apperrors.InvalidState("Matching must be accepted before the session can start")
	}

	log.Info().
		Str("matchingId", matchingID).
		Str("castId", castID).
		Time("scheduledEndAt", *started.ScheduledEndAt).
		Msg("solo session started")

	return &Session{Kind: model.KindSolo, Solo: started}, nil
}

// startGroup moves the caller's participant row to joined and ensures the
// parent session is running. The first accepted participant to start flips
// the parent to in_progress and closes recruiting; later participants join
// the already-running session.
func (s *LifecycleService) startGroup(ctx context.Context, matchingID, castID string) (*Session, error) {
	matching, err := s.groupRepo.FindByID(ctx, matchingID)
	if err != nil {
		return nil, fmt.Errorf("find group matching: %w", err)
	}
	if matching == nil {
		return nil, apperrors.NotFound("Matching")
	}
	if matching.Status == model.MatchingStatusCompleted || matching.Status == model.MatchingStatusCancelled {
		return nil, apperrors.InvalidState("Session is no longer startable")
	}

	participant, err := s.participantRepo.FindByMatchingAndCast(ctx, matchingID, castID)
	if err != nil {
		return nil, fmt.Errorf("find participant: %w", err)
	}
	if participant == nil {
		return nil, apperrors.Forbidden("Caller is not a participant of this matching")
	}

	joined, err := s.participantRepo.MarkJoined(ctx, matchingID, castID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("mark participant joined: %w", err)
	}
	if joined == nil {
		return nil, apperrors.InvalidState("Participant must have accepted before starting")
	}

	started, err := s.groupRepo.Start(ctx, matchingID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("start group matching: %w", err)
	}
	if started == nil {
		// Another participant started first; join the running session.
		started, err = s.groupRepo.FindByID(ctx, matchingID)
		if err != nil {
			return nil, fmt.Errorf("reload group matching: %w", err)
		}
		if started == nil || started.Status != model.MatchingStatusInProgress {
			return nil, apperrors.InvalidState("Session is not in progress")
		}
	}

	log.Info().
		Str("matchingId", matchingID).
		Str("castId", castID).
		Msg("group session joined")

	return &Session{Kind: model.KindGroup, Group: started}, nil
}

// Extend lengthens an in-progress session by whole 30-minute steps. Points
// accrue on extensionPoints at the rate the offer was priced with;
// totalPoints is never touched after creation.
func (s *LifecycleService) Extend(ctx context.Context, kind model.MatchingKind, matchingID, guestID string, minutes int) (*Session, error) {
	if err := validateExtensionMinutes(minutes); err != nil {
		return nil, err
	}

	switch kind {
	case model.KindSolo:
		return s.extendSolo(ctx, matchingID, guestID, minutes)
	case model.KindGroup:
		return s.extendGroup(ctx, matchingID, guestID, minutes)
	default:
		return nil, apperrors.ValidationError("unknown matching kind")
	}
}

func (s *LifecycleService) extendSolo(ctx context.Context, matchingID, guestID string, minutes int) (*Session, error) {
	matching, err := s.soloRepo.FindByID(ctx, matchingID)
	if err != nil {
		return nil, fmt.Errorf("find solo matching: %w", err)
	}
	if matching == nil {
		return nil, apperrors.NotFound("Matching")
	}
	if matching.GuestID != guestID {
		return nil, apperrors.Forbidden("Only the owning guest can extend this session")
	}

	pts := points.Compute(minutes, matching.HourlyRate)
	extended, err := s.soloRepo.Extend(ctx, matchingID, minutes, pts, time.Now())
	if err != nil {
		return nil, fmt.Errorf("extend solo matching: %w", err)
	}
	if extended == nil {
		return nil, apperrors.InvalidState("Session must be in progress to extend")
	}

	log.Info().
		Str("matchingId", matchingID).
		Int("minutes", minutes).
		Int("points", pts).
		Msg("solo session extended")

	return &Session{Kind: model.KindSolo, Solo: extended}, nil
}

func (s *LifecycleService) extendGroup(ctx context.Context, matchingID, guestID string, minutes int) (*Session, error) {
	matching, err := s.groupRepo.FindByID(ctx, matchingID)
	if err != nil {
		return nil, fmt.Errorf("find group matching: %w", err)
	}
	if matching == nil {
		return nil, apperrors.NotFound("Matching")
	}
	if matching.GuestID != guestID {
		return nil, apperrors.Forbidden("Only the owning guest can extend this session")
	}

	// Group extensions bill the way the budget was taken at creation: the
	// per-cast base rate times the requested head count.
	pts := points.Compute(minutes, matching.BaseHourlyRate) * matching.RequestedCastCount
	extended, err := s.groupRepo.Extend(ctx, matchingID, minutes, pts, time.Now())
	if err != nil {
		return nil, fmt.Errorf("extend group matching: %w", err)
	}
	if extended == nil {
		return nil, apperrors.InvalidState("Session must be in progress to extend")
	}

	log.Info().
		Str("matchingId", matchingID).
		Int("minutes", minutes).
		Int("points", pts).
		Msg("group session extended")

	return &Session{Kind: model.KindGroup, Group: extended}, nil
}

// Complete closes the session. Completing twice fails on the status guard
// rather than silently succeeding.
func (s *LifecycleService) Complete(ctx context.Context, kind model.MatchingKind, matchingID, castID string) (*Session, error) {
	switch kind {
	case model.KindSolo:
		return s.completeSolo(ctx, matchingID, castID)
	case model.KindGroup:
		return s.completeGroup(ctx, matchingID, castID)
	default:
		return nil, apperrors.ValidationError("unknown matching kind")
	}
}

func (s *LifecycleService) completeSolo(ctx context.Context, matchingID, castID string) (*Session, error) {
	matching, err := s.soloRepo.FindByID(ctx, matchingID)
	if err != nil {
		return nil, fmt.Errorf("find solo matching: %w", err)
	}
	if matching == nil {
		return nil, apperrors.NotFound("Matching")
	}
	if matching.CastID != castID {
		return nil, apperrors.Forbidden("Only the assigned cast can complete this session")
	}

	completed, err := s.soloRepo.Complete(ctx, matchingID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("complete solo matching: %w", err)
	}
	if completed == nil {
		return nil, apperrors.InvalidState("Session is not in progress")
	}

	log.Info().
		Str("matchingId", matchingID).
		Str("castId", castID).
		Time("actualEndAt", *completed.ActualEndAt).
		Msg("solo session completed")

	return &Session{Kind: model.KindSolo, Solo: completed}, nil
}

func (s *LifecycleService) completeGroup(ctx context.Context, matchingID, castID string) (*Session, error) {
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

	marked, err := s.participantRepo.MarkCompleted(ctx, matchingID, castID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("mark participant completed: %w", err)
	}
	if marked == nil {
		return nil, apperrors.InvalidState("Participant has not joined the session or already completed it")
	}

	completed, err := s.groupRepo.Complete(ctx, matchingID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("complete group matching: %w", err)
	}
	if completed == nil {
		// Another participant completed the parent already; the caller's own
		// completion above still stands.
		completed, err = s.groupRepo.FindByID(ctx, matchingID)
		if err != nil {
			return nil, fmt.Errorf("reload group matching: %w", err)
		}
		if completed == nil || completed.Status != model.MatchingStatusCompleted {
			return nil, apperrors.InvalidState("Session is not in progress")
		}
	}

	log.Info().
		Str("matchingId", matchingID).
		Str("castId", castID).
		Msg("group session completed")

	return &Session{Kind: model.KindGroup, Group: completed}, nil
}

func validateExtensionMinutes(minutes int) error {
	if minutes <= 0 {
		return apperrors.ValidationError(msgExtensionNotPositive)
	}
	if minutes%config.ExtensionStepMinutes != 0 {
		return apperrors.ValidationError(msgExtensionNotStepped)
	}
	return nil
}
