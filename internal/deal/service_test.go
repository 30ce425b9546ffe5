package deal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexocrm/nexo/internal/apperr"
)

// Mock Repository
type mockRepo struct {
	getDealFunc     func(ctx context.Context, companyID, id uuid.UUID) (*Deal, error)
	createDealFunc  func(ctx context.Context, d *Deal) error
	updateStageFunc func(ctx context.Context, companyID, id uuid.UUID, stage string) error
	winDealFunc     func(ctx context.Context, companyID, id uuid.UUID) (*Deal, error)
	loseDealFunc    func(ctx context.Context, companyID, id uuid.UUID, reason string) (*Deal, error)
	reopenDealFunc  func(ctx context.Context, companyID, id uuid.UUID) (*Deal, error)
	dealStatsFunc   func(ctx context.Context, companyID uuid.UUID, filter StatsFilter) (*Stats, error)
	listDealsFunc   func(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]*Deal, error)
}

func (m *mockRepo) CreateDeal(ctx context.Context, d *Deal) error {
	if m.createDealFunc != nil {
		return m.createDealFunc(ctx, d)
	}

	return nil
}

func (m *mockRepo) GetDeal(ctx context.Context, companyID, id uuid.UUID) (*Deal, error) {
	if m.getDealFunc != nil {
		return m.getDealFunc(ctx, companyID, id)
	}

	return nil, apperr.ErrNotFound
}

func (m *mockRepo) ListDeals(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]*Deal, error) {
	if m.listDealsFunc != nil {
		return m.listDealsFunc(ctx, companyID, filter)
	}

	return nil, nil
}

func (m *mockRepo) UpdateDeal(ctx context.Context, d *Deal) error { return nil }

func (m *mockRepo) UpdateStage(ctx context.Context, companyID, id uuid.UUID, stage string) error {
	if m.updateStageFunc != nil {
		return m.updateStageFunc(ctx, companyID, id, stage)
	}

	return nil
}

func (m *mockRepo) WinDeal(ctx context.Context, companyID, id uuid.UUID) (*Deal, error) {
	if m.winDealFunc != nil {
		return m.winDealFunc(ctx, companyID, id)
	}

	return nil, nil
}

func (m *mockRepo) LoseDeal(ctx context.Context, companyID, id uuid.UUID, reason string) (*Deal, error) {
	if m.loseDealFunc != nil {
		return m.loseDealFunc(ctx, companyID, id, reason)
	}

	return nil, nil
}

func (m *mockRepo) ReopenDeal(ctx context.Context, companyID, id uuid.UUID) (*Deal, error) {
	if m.reopenDealFunc != nil {
		return m.reopenDealFunc(ctx, companyID, id)
	}

	return nil, nil
}

func (m *mockRepo) SoftDeleteDeal(ctx context.Context, companyID, id uuid.UUID) error { return nil }

func (m *mockRepo) DealStats(ctx context.Context, companyID uuid.UUID, filter StatsFilter) (*Stats, error) {
	if m.dealStatsFunc != nil {
		return m.dealStatsFunc(ctx, companyID, filter)
	}

	return nil, nil
}

var (
	testCompanyID = uuid.MustParse("0b39ab52-6c29-49e5-a9b6-5b0d2c9f6a1e")
	testContactID = uuid.MustParse("91a9cf1d-8f4f-4b4a-9c38-2d9e0c3b7f5d")
)

func openDeal(id uuid.UUID) *Deal {
	return &Deal{
		ID:          id,
		CompanyID:   testCompanyID,
		ContactID:   testContactID,
		Title:       "Website revamp",
		FunnelStage: "negotiation",
		TotalValue:  250000,
	}
}

func closedDeal(id uuid.UUID, stage string) *Deal {
	d := openDeal(id)
	d.FunnelStage = stage
	now := time.Now()
	d.ClosedAt = &now

	return d
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateParams
		wantKey string
	}{
		{
			name:   "Success",
			params: CreateParams{ContactID: testContactID, Title: "Website revamp", TotalValue: 1000},
		},
		{
			name:    "EmptyTitle",
			params:  CreateParams{ContactID: testContactID},
			wantKey: "deal.title_required",
		},
		{
			name:    "NegativeValue",
			params:  CreateParams{ContactID: testContactID, Title: "x", TotalValue: -1},
			wantKey: "deal.value_negative",
		},
		{
			name:    "ProbabilityOutOfRange",
			params:  CreateParams{ContactID: testContactID, Title: "x", Probability: 101},
			wantKey: "deal.probability_range",
		},
		{
			name:    "ReservedStage",
			params:  CreateParams{ContactID: testContactID, Title: "x", FunnelStage: StageWon},
			wantKey: "deal.stage_reserved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{
				createDealFunc: func(_ context.Context, d *Deal) error {
					d.ID = uuid.New()
					return nil
				},
			}

			svc := NewService(repo)
			got, err := svc.Create(context.Background(), testCompanyID, tt.params)

			if tt.wantKey != "" {
				ve, ok := apperr.IsValidation(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantKey, ve.Key)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, StageNew, got.FunnelStage)
			assert.Equal(t, testCompanyID, got.CompanyID)
		})
	}
}

func TestService_UpdateStage(t *testing.T) {
	dealID := uuid.New()

	tests := []struct {
		name    string
		stage   string
		deal    *Deal
		wantKey string
	}{
		{
			name:  "Success",
			stage: "proposal",
			deal:  openDeal(dealID),
		},
		{
			name:    "EmptyStage",
			stage:   "",
			wantKey: "deal.stage_required",
		},
		{
			name:    "ReservedStage",
			stage:   StageLost,
			wantKey: "deal.stage_reserved",
		},
		{
			name:    "ClosedDeal",
			stage:   "proposal",
			deal:    closedDeal(dealID, StageWon),
			wantKey: "deal.closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{
				getDealFunc: func(_ context.Context, _, _ uuid.UUID) (*Deal, error) {
					return tt.deal, nil
				},
			}

			svc := NewService(repo)
			got, err := svc.UpdateStage(context.Background(), testCompanyID, dealID, tt.stage)

			if tt.wantKey != "" {
				ve, ok := apperr.IsValidation(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantKey, ve.Key)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.stage, got.FunnelStage)
		})
	}
}

func TestService_MarkAsWon(t *testing.T) {
	dealID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		won := closedDeal(dealID, StageWon)
		repo := &mockRepo{
			getDealFunc: func(_ context.Context, _, _ uuid.UUID) (*Deal, error) {
				return openDeal(dealID), nil
			},
			winDealFunc: func(_ context.Context, _, _ uuid.UUID) (*Deal, error) {
				return won, nil
			},
		}

		svc := NewService(repo)
		got, err := svc.MarkAsWon(context.Background(), testCompanyID, dealID)

		require.NoError(t, err)
		assert.Equal(t, OutcomeWon, got.Outcome())
	})

	t.Run("AlreadyClosed", func(t *testing.T) {
		repo := &mockRepo{
			getDealFunc: func(_ context.Context, _, _ uuid.UUID) (*Deal, error) {
				return closedDeal(dealID, StageLost), nil
			},
		}

		svc := NewService(repo)
		_, err := svc.MarkAsWon(context.Background(), testCompanyID, dealID)

		ve, ok := apperr.IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "deal.already_closed", ve.Key)
	})
}

func TestService_MarkAsLost(t *testing.T) {
	dealID := uuid.New()

	t.Run("DefaultsReasonToUnspecified", func(t *testing.T) {
		var gotReason string
		repo := &mockRepo{
			getDealFunc: func(_ context.Context, _, _ uuid.UUID) (*Deal, error) {
				return openDeal(dealID), nil
			},
			loseDealFunc: func(_ context.Context, _, _ uuid.UUID, reason string) (*Deal, error) {
				gotReason = reason
				return closedDeal(dealID, StageLost), nil
			},
		}

		svc := NewService(repo)
		_, err := svc.MarkAsLost(context.Background(), testCompanyID, dealID, "")

		require.NoError(t, err)
		assert.Equal(t, LossReasonUnspecified, gotReason)
	})

	t.Run("KeepsExplicitReason", func(t *testing.T) {
		var gotReason string
		repo := &mockRepo{
			getDealFunc: func(_ context.Context, _, _ uuid.UUID) (*Deal, error) {
				return openDeal(dealID), nil
			},
			loseDealFunc: func(_ context.Context, _, _ uuid.UUID, reason string) (*Deal, error) {
				gotReason = reason
				return closedDeal(dealID, StageLost), nil
			},
		}

		svc := NewService(repo)
		_, err := svc.MarkAsLost(context.Background(), testCompanyID, dealID, "price")

		require.NoError(t, err)
		assert.Equal(t, "price", gotReason)
	})
}

func TestService_Reopen(t *testing.T) {
	dealID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo := &mockRepo{
			getDealFunc: func(_ context.Context, _, _ uuid.UUID) (*Deal, error) {
				return closedDeal(dealID, StageLost), nil
			},
			reopenDealFunc: func(_ context.Context, _, _ uuid.UUID) (*Deal, error) {
				return openDeal(dealID), nil
			},
		}

		svc := NewService(repo)
		got, err := svc.Reopen(context.Background(), testCompanyID, dealID)

		require.NoError(t, err)
		assert.Equal(t, OutcomeOpen, got.Outcome())
	})

	t.Run("NotClosed", func(t *testing.T) {
		repo := &mockRepo{
			getDealFunc: func(_ context.Context, _, _ uuid.UUID) (*Deal, error) {
				return openDeal(dealID), nil
			},
		}

		svc := NewService(repo)
		_, err := svc.Reopen(context.Background(), testCompanyID, dealID)

		ve, ok := apperr.IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "deal.not_closed", ve.Key)
	})
}

func TestService_ListByContact(t *testing.T) {
	repo := &mockRepo{
		listDealsFunc: func(_ context.Context, _ uuid.UUID, filter ListFilter) ([]*Deal, error) {
			require.NotNil(t, filter.ContactID)
			assert.Equal(t, testContactID, *filter.ContactID)
			return []*Deal{openDeal(uuid.New())}, nil
		},
	}

	svc := NewService(repo)
	got, err := svc.ListByContact(context.Background(), testCompanyID, testContactID)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestDeal_Outcome(t *testing.T) {
	id := uuid.New()

	assert.Equal(t, OutcomeOpen, openDeal(id).Outcome())
	assert.Equal(t, OutcomeWon, closedDeal(id, StageWon).Outcome())
	assert.Equal(t, OutcomeLost, closedDeal(id, StageLost).Outcome())
}
