package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/meetcast/matching-server-go/internal/errors"
	"github.com/meetcast/matching-server-go/internal/model"
)

func TestCreateSolo(t *testing.T) {
	ctx := context.Background()

	activeCast := &model.Cast{
		ID:         "cast-1",
		HourlyRate: 3000,
		IsActive:   true,
	}

	validInput := func() CreateSoloMatchingInput {
		date := time.Now().Add(24 * time.Hour)
		return CreateSoloMatchingInput{
			CastID:          "cast-1",
			ProposedDate:    &date,
			DurationMinutes: 120,
			Location:        "Shibuya",
			HourlyRate:      3000,
		}
	}

	t.Run("creates matching with computed total points", func(t *testing.T) {
		soloRepo := new(mockSoloMatchingRepo)
		castRepo := new(mockCastRepo)
		svc := NewMatchingService(soloRepo, castRepo, 1500)

		castRepo.On("FindByID", ctx, "cast-1").Return(activeCast, nil)
		soloRepo.On("Create", ctx, mock.MatchedBy(func(p model.CreateSoloMatchingParams) bool {
			return p.GuestID == "guest-1" &&
				p.CastID == "cast-1" &&
				p.ProposedDurationMinutes == 120 &&
				p.TotalPoints == 6000 &&
				p.ID != ""
		})).Return(&model.SoloMatching{
			ID:          "matching-1",
			GuestID:     "guest-1",
			CastID:      "cast-1",
			Status:      model.MatchingStatusPending,
			TotalPoints: 6000,
		}, nil)

		matching, err := svc.CreateSolo(ctx, "guest-1", validInput())
		require.NoError(t, err)
		assert.Equal(t, 6000, matching.TotalPoints)
		assert.Equal(t, model.MatchingStatusPending, matching.Status)
		soloRepo.AssertExpectations(t)
		castRepo.AssertExpectations(t)
	})

	t.Run("rejects missing castId", func(t *testing.T) {
		svc := NewMatchingService(new(mockSoloMatchingRepo), new(mockCastRepo), 1500)

		input := validInput()
		input.CastID = ""

		_, err := svc.CreateSolo(ctx, "guest-1", input)
		assert.Equal(t, apperrors.ErrCodeMissingRequired, apperrors.GetCode(err))
	})

	t.Run("rejects duration out of bounds", func(t *testing.T) {
		svc := NewMatchingService(new(mockSoloMatchingRepo), new(mockCastRepo), 1500)

		for _, minutes := range []int{0, 15, 29, 481, 600} {
			input := validInput()
			input.DurationMinutes = minutes

			_, err := svc.CreateSolo(ctx, "guest-1", input)
			assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err), "minutes=%d", minutes)
		}
	})

	t.Run("rejects hourly rate below floor", func(t *testing.T) {
		svc := NewMatchingService(new(mockSoloMatchingRepo), new(mockCastRepo), 1500)

		input := validInput()
		input.HourlyRate = 1000

		_, err := svc.CreateSolo(ctx, "guest-1", input)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})

	t.Run("rejects both proposedDate and offsetMinutes", func(t *testing.T) {
		svc := NewMatchingService(new(mockSoloMatchingRepo), new(mockCastRepo), 1500)

		input := validInput()
		offset := 60
		input.OffsetMinutes = &offset

		_, err := svc.CreateSolo(ctx, "guest-1", input)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})

	t.Run("rejects non-positive offsetMinutes", func(t *testing.T) {
		svc := NewMatchingService(new(mockSoloMatchingRepo), new(mockCastRepo), 1500)

		input := validInput()
		input.ProposedDate = nil
		offset := 0
		input.OffsetMinutes = &offset

		_, err := svc.CreateSolo(ctx, "guest-1", input)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})

	t.Run("rejects unknown cast", func(t *testing.T) {
		soloRepo := new(mockSoloMatchingRepo)
		castRepo := new(mockCastRepo)
		svc := NewMatchingService(soloRepo, castRepo, 1500)

		castRepo.On("FindByID", ctx, "cast-1").Return(nil, nil)

		_, err := svc.CreateSolo(ctx, "guest-1", validInput())
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})
}

func TestResolveProposedDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("offsetMinutes resolves against now", func(t *testing.T) {
		offset := 90
		resolved, err := resolveProposedDate(nil, &offset, now)
		require.NoError(t, err)
		assert.Equal(t, now.Add(90*time.Minute), resolved)
	})

	t.Run("proposedDate passes through", func(t *testing.T) {
		date := now.Add(48 * time.Hour)
		resolved, err := resolveProposedDate(&date, nil, now)
		require.NoError(t, err)
		assert.Equal(t, date, resolved)
	})

	t.Run("neither is an error", func(t *testing.T) {
		_, err := resolveProposedDate(nil, nil, now)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})
}

func TestRespondSolo(t *testing.T) {
	ctx := context.Background()

	pending := &model.SoloMatching{
		ID:      "matching-1",
		GuestID: "guest-1",
		CastID:  "cast-1",
		Status:  model.MatchingStatusPending,
	}

	t.Run("records acceptance", func(t *testing.T) {
		soloRepo := new(mockSoloMatchingRepo)
		svc := NewMatchingService(soloRepo, new(mockCastRepo), 1500)

		accepted := *pending
		accepted.Status = model.MatchingStatusAccepted

		soloRepo.On("FindByID", ctx, "matching-1").Return(pending, nil)
		soloRepo.On("UpdateResponse", ctx, "matching-1", model.MatchingStatusAccepted, mock.AnythingOfType("time.Time")).
			Return(&accepted, nil)

		matching, err := svc.RespondSolo(ctx, "matching-1", "cast-1", model.ResponseAccepted)
		require.NoError(t, err)
		assert.Equal(t, model.MatchingStatusAccepted, matching.Status)
	})

	t.Run("rejects invalid response value", func(t *testing.T) {
		svc := NewMatchingService(new(mockSoloMatchingRepo), new(mockCastRepo), 1500)

		_, err := svc.RespondSolo(ctx, "matching-1", "cast-1", "maybe")
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})

	t.Run("forbids a different cast", func(t *testing.T) {
		soloRepo := new(mockSoloMatchingRepo)
		svc := NewMatchingService(soloRepo, new(mockCastRepo), 1500)

		soloRepo.On("FindByID", ctx, "matching-1").Return(pending, nil)

		_, err := svc.RespondSolo(ctx, "matching-1", "cast-2", model.ResponseAccepted)
		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetCode(err))
	})

	t.Run("double response surfaces invalid state", func(t *testing.T) {
		soloRepo := new(mockSoloMatchingRepo)
		svc := NewMatchingService(soloRepo, new(mockCastRepo), 1500)

		soloRepo.On("FindByID", ctx, "matching-1").Return(pending, nil)
		soloRepo.On("UpdateResponse", ctx, "matching-1", model.MatchingStatusRejected, mock.AnythingOfType("time.Time")).
			Return(nil, nil)

		_, err := svc.RespondSolo(ctx, "matching-1", "cast-1", model.ResponseRejected)
		assert.Equal(t, apperrors.ErrCodeInvalidState, apperrors.GetCode(err))
	})

	t.Run("unknown matching is not found", func(t *testing.T) {
		soloRepo := new(mockSoloMatchingRepo)
		svc := NewMatchingService(soloRepo, new(mockCastRepo), 1500)

		soloRepo.On("FindByID", ctx, "missing").Return(nil, nil)

		_, err := svc.RespondSolo(ctx, "missing", "cast-1", model.ResponseAccepted)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})
}
