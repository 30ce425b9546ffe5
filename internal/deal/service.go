package deal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/apperr"
)

type Repository interface {
	CreateDeal(ctx context.Context, d *Deal) error
	GetDeal(ctx context.Context, companyID, id uuid.UUID) (*Deal, error)
	ListDeals(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]*Deal, error)
	UpdateDeal(ctx context.Context, d *Deal) error
	UpdateStage(ctx context.Context, companyID, id uuid.UUID, stage string) error
	WinDeal(ctx context.Context, companyID, id uuid.UUID) (*Deal, error)
	LoseDeal(ctx context.Context, companyID, id uuid.UUID, reason string) (*Deal, error)
	ReopenDeal(ctx context.Context, companyID, id uuid.UUID) (*Deal, error)
	SoftDeleteDeal(ctx context.Context, companyID, id uuid.UUID) error
	DealStats(ctx context.Context, companyID uuid.UUID, filter StatsFilter) (*Stats, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	ContactID         uuid.UUID
	OwnerID           *uuid.UUID
	Title             string
	FunnelStage       string
	TotalValue        int64
	Origin            string
	Probability       int
	ExpectedCloseDate *time.Time
	Metadata          map[string]any
}

type UpdateParams struct {
	OwnerID           *uuid.UUID
	Title             *string
	TotalValue        *int64
	Origin            *string
	Probability       *int
	ExpectedCloseDate *time.Time
	Metadata          map[string]any
}

type ListFilter struct {
	ContactID   *uuid.UUID
	OwnerID     *uuid.UUID
	FunnelStage *string
	Origin      *string
	Outcome     *Outcome
	Search      string
	SortBy      string
	SortDesc    bool
	Limit       int
	Offset      int
}

type StatsFilter struct {
	OwnerID *uuid.UUID
	Origin  *string
}

// Stats is an aggregate projection over a tenant's pipeline.
type Stats struct {
	Total          int64
	Open           int64
	Won            int64
	Lost           int64
	OpenValue      int64
	WonValue       int64
	AvgValue       float64
	AvgDaysToClose float64
	ConversionRate float64 // percentage, 2-decimal precision
}

func validateTitle(title string) error {
	if title == "" {
		return apperr.Validation("title", "deal.title_required")
	}

	return nil
}

func validateValue(value int64) error {
	if value < 0 {
		return apperr.Validation("total_value", "deal.value_negative")
	}

	return nil
}

func validateProbability(p int) error {
	if p < 0 || p > 100 {
		return apperr.Validation("probability", "deal.probability_range")
	}

	return nil
}

func (s *Service) Get(ctx context.Context, companyID, id uuid.UUID) (*Deal, error) {
	return s.repo.GetDeal(ctx, companyID, id)
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]*Deal, error) {
	return s.repo.ListDeals(ctx, companyID, filter)
}

func (s *Service) ListByContact(ctx context.Context, companyID, contactID uuid.UUID) ([]*Deal, error) {
	return s.repo.ListDeals(ctx, companyID, ListFilter{ContactID: &contactID})
}

// Create opens a new deal. The store rejects contact ids that do not
// resolve to an active contact in the same tenant with ErrNotFound.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, params CreateParams) (*Deal, error) {
	if err := validateTitle(params.Title); err != nil {
		return nil, err
	}

	if err := validateValue(params.TotalValue); err != nil {
		return nil, err
	}

	if err := validateProbability(params.Probability); err != nil {
		return nil, err
	}

	stage := params.FunnelStage
	if stage == "" {
		stage = StageNew
	}

	if ReservedStage(stage) {
		return nil, apperr.Validation("funnel_stage", "deal.stage_reserved")
	}

	d := &Deal{
		CompanyID:         companyID,
		ContactID:         params.ContactID,
		OwnerID:           params.OwnerID,
		Title:             params.Title,
		FunnelStage:       stage,
		TotalValue:        params.TotalValue,
		Origin:            params.Origin,
		Probability:       params.Probability,
		ExpectedCloseDate: params.ExpectedCloseDate,
		Metadata:          params.Metadata,
	}

	if err := s.repo.CreateDeal(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) Update(ctx context.Context, companyID, id uuid.UUID, params UpdateParams) (*Deal, error) {
	d, err := s.repo.GetDeal(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if err := validateTitle(*params.Title); err != nil {
			return nil, err
		}

		d.Title = *params.Title
	}

	if params.TotalValue != nil {
		if err := validateValue(*params.TotalValue); err != nil {
			return nil, err
		}

		d.TotalValue = *params.TotalValue
	}

	if params.Probability != nil {
		if err := validateProbability(*params.Probability); err != nil {
			return nil, err
		}

		d.Probability = *params.Probability
	}

	if params.OwnerID != nil {
		d.OwnerID = params.OwnerID
	}

	if params.Origin != nil {
		d.Origin = *params.Origin
	}

	if params.ExpectedCloseDate != nil {
		d.ExpectedCloseDate = params.ExpectedCloseDate
	}

	if params.Metadata != nil {
		d.Metadata = params.Metadata
	}

	if err := s.repo.UpdateDeal(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

// UpdateStage moves an open deal to any non-reserved stage. Closed deals
// are rejected: callers must Reopen first.
func (s *Service) UpdateStage(ctx context.Context, companyID, id uuid.UUID, stage string) (*Deal, error) {
	if stage == "" {
		return nil, apperr.Validation("funnel_stage", "deal.stage_required")
	}

	if ReservedStage(stage) {
		return nil, apperr.Validation("funnel_stage", "deal.stage_reserved")
	}

	d, err := s.repo.GetDeal(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if d.Closed() {
		return nil, apperr.Validation("funnel_stage", "deal.closed")
	}

	if err := s.repo.UpdateStage(ctx, companyID, id, stage); err != nil {
		return nil, err
	}

	d.FunnelStage = stage

	return d, nil
}

// MarkAsWon closes the deal and upgrades its contact in one database
// transaction: type becomes client and the deal value is accumulated into
// lifetime_value at the SQL level, so concurrent wins never lose updates.
func (s *Service) MarkAsWon(ctx context.Context, companyID, id uuid.UUID) (*Deal, error) {
	d, err := s.repo.GetDeal(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if d.Closed() {
		return nil, apperr.Validation("closed_at", "deal.already_closed")
	}

	return s.repo.WinDeal(ctx, companyID, id)
}

// MarkAsLost closes the deal with a loss reason. A missing reason is
// stored as the "unspecified" sentinel. The contact is untouched.
func (s *Service) MarkAsLost(ctx context.Context, companyID, id uuid.UUID, reason string) (*Deal, error) {
	d, err := s.repo.GetDeal(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if d.Closed() {
		return nil, apperr.Validation("closed_at", "deal.already_closed")
	}

	if reason == "" {
		reason = LossReasonUnspecified
	}

	return s.repo.LoseDeal(ctx, companyID, id, reason)
}

// Reopen clears the closure fields and resets the stage to "new".
func (s *Service) Reopen(ctx context.Context, companyID, id uuid.UUID) (*Deal, error) {
	d, err := s.repo.GetDeal(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if !d.Closed() {
		return nil, apperr.Validation("closed_at", "deal.not_closed")
	}

	return s.repo.ReopenDeal(ctx, companyID, id)
}

func (s *Service) SoftDelete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.SoftDeleteDeal(ctx, companyID, id)
}

func (s *Service) Stats(ctx context.Context, companyID uuid.UUID, filter StatsFilter) (*Stats, error) {
	return s.repo.DealStats(ctx, companyID, filter)
}
