package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/meetcast/matching-server-go/internal/database"
	"github.com/meetcast/matching-server-go/internal/model"
	"github.com/meetcast/matching-server-go/internal/repository"
)

// Mock repositories

type mockSoloMatchingRepo struct {
	mock.Mock
}

func (m *mockSoloMatchingRepo) FindByID(ctx context.Context, id string) (*model.SoloMatching, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SoloMatching), args.Error(1)
}

func (m *mockSoloMatchingRepo) Create(ctx context.Context, params model.CreateSoloMatchingParams) (*model.SoloMatching, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SoloMatching), args.Error(1)
}

func (m *mockSoloMatchingRepo) UpdateResponse(ctx context.Context, id string, status model.MatchingStatus, respondedAt time.Time) (*model.SoloMatching, error) {
	args := m.Called(ctx, id, status, respondedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SoloMatching), args.Error(1)
}

func (m *mockSoloMatchingRepo) Start(ctx context.Context, id string, startedAt time.Time) (*model.SoloMatching, error) {
	args := m.Called(ctx, id, startedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SoloMatching), args.Error(1)
}

func (m *mockSoloMatchingRepo) Extend(ctx context.Context, id string, minutes, points int, now time.Time) (*model.SoloMatching, error) {
	args := m.Called(ctx, id, minutes, points, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SoloMatching), args.Error(1)
}

func (m *mockSoloMatchingRepo) Complete(ctx context.Context, id string, endedAt time.Time) (*model.SoloMatching, error) {
	args := m.Called(ctx, id, endedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SoloMatching), args.Error(1)
}

func (m *mockSoloMatchingRepo) FindActiveByGuestID(ctx context.Context, guestID string) ([]model.SoloMatching, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SoloMatching), args.Error(1)
}

func (m *mockSoloMatchingRepo) FindCompletedByGuestID(ctx context.Context, guestID string) ([]model.SoloMatching, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SoloMatching), args.Error(1)
}

func (m *mockSoloMatchingRepo) FindOpenByCastID(ctx context.Context, castID string) ([]model.SoloMatching, error) {
	args := m.Called(ctx, castID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SoloMatching), args.Error(1)
}

func (m *mockSoloMatchingRepo) CancelStalePending(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type mockGroupMatchingRepo struct {
	mock.Mock
}

func (m *mockGroupMatchingRepo) FindByID(ctx context.Context, id string) (*model.GroupMatching, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupMatching), args.Error(1)
}

func (m *mockGroupMatchingRepo) FindByIDs(ctx context.Context, ids []string) ([]model.GroupMatching, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GroupMatching), args.Error(1)
}

func (m *mockGroupMatchingRepo) Create(ctx context.Context, params model.CreateGroupMatchingParams) (*model.GroupMatching, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupMatching), args.Error(1)
}

func (m *mockGroupMatchingRepo) Start(ctx context.Context, id string, startedAt time.Time) (*model.GroupMatching, error) {
	args := m.Called(ctx, id, startedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupMatching), args.Error(1)
}

func (m *mockGroupMatchingRepo) Extend(ctx context.Context, id string, minutes, points int, now time.Time) (*model.GroupMatching, error) {
	args := m.Called(ctx, id, minutes, points, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupMatching), args.Error(1)
}

func (m *mockGroupMatchingRepo) Complete(ctx context.Context, id string, endedAt time.Time) (*model.GroupMatching, error) {
	args := m.Called(ctx, id, endedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupMatching), args.Error(1)
}

func (m *mockGroupMatchingRepo) FindActiveByGuestID(ctx context.Context, guestID string) ([]model.GroupMatching, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GroupMatching), args.Error(1)
}

func (m *mockGroupMatchingRepo) FindCompletedByGuestID(ctx context.Context, guestID string) ([]model.GroupMatching, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GroupMatching), args.Error(1)
}

func (m *mockGroupMatchingRepo) CancelStalePending(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGroupMatchingRepo) WithTx(tx *sqlx.Tx) repository.GroupMatchingRepository {
	return m
}

type mockParticipantRepo struct {
	mock.Mock
}

func (m *mockParticipantRepo) FindByMatchingAndCast(ctx context.Context, matchingID, castID string) (*model.MatchingParticipant, error) {
	args := m.Called(ctx, matchingID, castID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MatchingParticipant), args.Error(1)
}

func (m *mockParticipantRepo) CreateBatch(ctx context.Context, params []model.CreateParticipantParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *mockParticipantRepo) UpdateResponse(ctx context.Context, matchingID, castID string, status model.ParticipantStatus, respondedAt time.Time) (*model.MatchingParticipant, error) {
	args := m.Called(ctx, matchingID, castID, status, respondedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MatchingParticipant), args.Error(1)
}

func (m *mockParticipantRepo) MarkJoined(ctx context.Context, matchingID, castID string, joinedAt time.Time) (*model.MatchingParticipant, error) {
	args := m.Called(ctx, matchingID, castID, joinedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MatchingParticipant), args.Error(1)
}

func (m *mockParticipantRepo) MarkCompleted(ctx context.Context, matchingID, castID string, now time.Time) (*model.MatchingParticipant, error) {
	args := m.Called(ctx, matchingID, castID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MatchingParticipant), args.Error(1)
}

func (m *mockParticipantRepo) CountsByMatchingID(ctx context.Context, matchingID string) (model.ParticipantCounts, error) {
	args := m.Called(ctx, matchingID)
	return args.Get(0).(model.ParticipantCounts), args.Error(1)
}

func (m *mockParticipantRepo) FindOpenByCastID(ctx context.Context, castID string) ([]model.MatchingParticipant, error) {
	args := m.Called(ctx, castID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MatchingParticipant), args.Error(1)
}

func (m *mockParticipantRepo) WithTx(tx *sqlx.Tx) repository.ParticipantRepository {
	return m
}

type mockCastRepo struct {
	mock.Mock
}

func (m *mockCastRepo) FindByID(ctx context.Context, id string) (*model.Cast, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cast), args.Error(1)
}

func (m *mockCastRepo) FindEligibleIDs(ctx context.Context, filter model.AgeFilter, now time.Time) ([]string, error) {
	args := m.Called(ctx, filter, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockCastRepo) BaseHourlyRate(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// fakeTxRunner runs the transaction function directly with a nil tx; the
// mock repositories above return themselves from WithTx.
type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) WithTxRetry(ctx context.Context, attempts int, fn database.TxFunc) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type mockReviewChecker struct {
	mock.Mock
}

func (m *mockReviewChecker) IsReviewed(ctx context.Context, matchingID string) (bool, error) {
	args := m.Called(ctx, matchingID)
	return args.Bool(0), args.Error(1)
}
