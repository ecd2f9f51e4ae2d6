package service

import (
	"context"
	"fmt"

	"github.com/meetcast/matching-server-go/internal/model"
	"github.com/meetcast/matching-server-go/internal/repository"
)

// ReviewChecker is the read-side gate into the external review subsystem.
// The core never stores reviews; it only asks whether one exists.
type ReviewChecker interface {
	IsReviewed(ctx context.Context, matchingID string) (bool, error)
}

// GroupOfferView pairs a group offer with its participant aggregate. Guests
// see counts only, never the raw participant rows.
type GroupOfferView struct {
	Matching     model.GroupMatching     `json:"matching"`
	Participants model.ParticipantCounts `json:"participants"`
}

type GuestOffersView struct {
	Solo  []model.SoloMatching `json:"solo"`
	Group []GroupOfferView     `json:"group"`
}

// UnreviewedView lists completed matchings the guest has not reviewed yet.
type UnreviewedView struct {
	Solo  []model.SoloMatching  `json:"solo"`
	Group []model.GroupMatching `json:"group"`
}

// CastParticipationView pairs a cast's standing with the offer it belongs to.
type CastParticipationView struct {
	Participant model.MatchingParticipant `json:"participant"`
	Matching    model.GroupMatching       `json:"matching"`
}

type CastOffersView struct {
	Solo           []model.SoloMatching    `json:"solo"`
	Participations []CastParticipationView `json:"participations"`
}

type ViewService struct {
	soloRepo        repository.SoloMatchingRepository
	groupRepo       repository.GroupMatchingRepository
	participantRepo repository.ParticipantRepository
	reviews         ReviewChecker
}

func NewViewService(
	soloRepo repository.SoloMatchingRepository,
	groupRepo repository.GroupMatchingRepository,
	participantRepo repository.ParticipantRepository,
	reviews ReviewChecker,
) *ViewService {
	return &ViewService{
		soloRepo:        soloRepo,
		groupRepo:       groupRepo,
		participantRepo: participantRepo,
		reviews:         reviews,
	}
}

// GuestOffers returns the guest's offers that are still in flight;
// completed ones move to the unreviewed/history view.
func (s *ViewService) GuestOffers(ctx context.Context, guestID string) (*GuestOffersView, error) {
	solo, err := s.soloRepo.FindActiveByGuestID(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("find guest solo matchings: %w", err)
	}

	groups, err := s.groupRepo.FindActiveByGuestID(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("find guest group matchings: %w", err)
	}

	groupViews := make([]GroupOfferView, 0, len(groups))
	for _, g := range groups {
		counts, err := s.participantRepo.CountsByMatchingID(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("count participants: %w", err)
		}
		groupViews = append(groupViews, GroupOfferView{Matching: g, Participants: counts})
	}

	return &GuestOffersView{Solo: solo, Group: groupViews}, nil
}

// GuestUnreviewed filters the guest's completed matchings down to those the
// external review subsystem has no review for.
func (s *ViewService) GuestUnreviewed(ctx context.Context, guestID string) (*UnreviewedView, error) {
	solo, err := s.soloRepo.FindCompletedByGuestID(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("find completed solo matchings: %w", err)
	}

	groups, err := s.groupRepo.FindCompletedByGuestID(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("find completed group matchings: %w", err)
	}

	view := &UnreviewedView{
		Solo:  make([]model.SoloMatching, 0, len(solo)),
		Group: make([]model.GroupMatching, 0, len(groups)),
	}

	for _, m := range solo {
		reviewed, err := s.reviews.IsReviewed(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("check review: %w", err)
		}
		if !reviewed {
			view.Solo = append(view.Solo, m)
		}
	}
	for _, g := range groups {
		reviewed, err := s.reviews.IsReviewed(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("check review: %w", err)
		}
		if !reviewed {
			view.Group = append(view.Group, g)
		}
	}

	return view, nil
}

// CastOffers returns the offers awaiting or holding the cast's acceptance.
// Rejected and cancelled rows are noise to the cast and are filtered out, as
// are participations whose parent offer is no longer live.
func (s *ViewService) CastOffers(ctx context.Context, castID string) (*CastOffersView, error) {
	solo, err := s.soloRepo.FindOpenByCastID(ctx, castID)
	if err != nil {
		return nil, fmt.Errorf("find cast solo matchings: %w", err)
	}

	participants, err := s.participantRepo.FindOpenByCastID(ctx, castID)
	if err != nil {
		return nil, fmt.Errorf("find cast participations: %w", err)
	}

	matchingIDs := make([]string, 0, len(participants))
	for _, p := range participants {
		matchingIDs = append(matchingIDs, p.MatchingID)
	}
	groups, err := s.groupRepo.FindByIDs(ctx, matchingIDs)
	if err != nil {
		return nil, fmt.Errorf("load parent group matchings: %w", err)
	}
	groupsByID := make(map[string]model.GroupMatching, len(groups))
	for _, g := range groups {
		groupsByID[g.ID] = g
	}

	participations := make([]CastParticipationView, 0, len(participants))
	for _, p := range participants {
		g, ok := groupsByID[p.MatchingID]
		if !ok {
			continue
		}
		if g.Status == model.MatchingStatusCancelled || g.Status == model.MatchingStatusCompleted {
			continue
		}
		participations = append(participations, CastParticipationView{Participant: p, Matching: g})
	}

	return &CastOffersView{Solo: solo, Participations: participations}, nil
}
