// Package capture composes the contact registry and the deal pipeline into
// the single atomic operation used by lead-capture integrations: resolve an
// identity (find, restore or create) and always open a fresh deal for it.
package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/apperr"
	"github.com/nexocrm/nexo/internal/contact"
	"github.com/nexocrm/nexo/internal/deal"
)

// Action reports how the contact identity was resolved.
type Action string

const (
	ActionCreated  Action = "created"
	ActionFound    Action = "found"
	ActionRestored Action = "restored"
)

type Repository interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one reconciliation transaction. Contact resolution and deal
// creation commit together or not at all.
type Tx interface {
	FindContact(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string) (*contact.Contact, error)
	FindDeletedContact(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string) (*contact.Contact, error)
	RestoreContact(ctx context.Context, companyID, id uuid.UUID, name string) (*contact.Contact, error)
	CreateContact(ctx context.Context, c *contact.Contact) error
	CreateDeal(ctx context.Context, d *deal.Deal) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Input struct {
	Phone    string
	Email    string
	Document string
	Name     string
	Origin   string

	DealTitle string
	DealStage string
	DealValue int64
}

// Result carries both halves of a capture: the resolved identity and the
// deal that was opened for it on this call.
type Result struct {
	Contact *contact.Contact
	Deal    *deal.Deal
	Action  Action
}

// defaultDealTitle is used when the integration sends no deal seed.
const defaultDealTitle = "New opportunity"

// Capture resolves the contact and opens a new deal inside one database
// transaction. Identity resolution is idempotent; deal creation is
// deliberately not: every call yields a fresh opportunity, even for a
// returning contact. Losing the contact-insert race to a concurrent
// capture rolls back and retries once, so both callers converge on the
// same identity row.
func (s *Service) Capture(ctx context.Context, companyID, actorID uuid.UUID, input Input) (*Result, error) {
	if input.Phone == "" && input.Email == "" && input.Document == "" {
		return nil, apperr.Validation("identifier", "contact.identifier_required")
	}

	if input.Name == "" {
		return nil, apperr.Validation("name", "contact.name_required")
	}

	if input.DealValue < 0 {
		return nil, apperr.Validation("deal_value", "deal.value_negative")
	}

	if deal.ReservedStage(input.DealStage) {
		return nil, apperr.Validation("deal_stage", "deal.stage_reserved")
	}

	result, err := s.capture(ctx, companyID, actorID, input)
	if err == nil || !errors.Is(err, apperr.ErrConflict) {
		return result, err
	}

	result, err = s.capture(ctx, companyID, actorID, input)
	if err != nil {
		return nil, fmt.Errorf("retrying capture after conflict: %w", err)
	}

	return result, nil
}

func (s *Service) capture(ctx context.Context, companyID, actorID uuid.UUID, input Input) (*Result, error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning capture: %w", err)
	}
	defer tx.Rollback()

	c, action, err := s.resolveContact(ctx, tx, companyID, actorID, input)
	if err != nil {
		return nil, err
	}

	title := input.DealTitle
	if title == "" {
		title = defaultDealTitle
	}

	stage := input.DealStage
	if stage == "" {
		stage = deal.StageNew
	}

	d := &deal.Deal{
		CompanyID:   companyID,
		ContactID:   c.ID,
		OwnerID:     &actorID,
		Title:       title,
		FunnelStage: stage,
		TotalValue:  input.DealValue,
		Origin:      input.Origin,
	}

	if err := tx.CreateDeal(ctx, d); err != nil {
		return nil, fmt.Errorf("creating captured deal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing capture: %w", err)
	}

	return &Result{Contact: c, Deal: d, Action: action}, nil
}

func (s *Service) resolveContact(ctx context.Context, tx Tx, companyID, actorID uuid.UUID, input Input) (*contact.Contact, Action, error) {
	lookups := lookupOrder(input)

	for _, l := range lookups {
		c, err := tx.FindContact(ctx, companyID, l.kind, l.value)
		if err == nil {
			return c, ActionFound, nil
		}

		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, "", fmt.Errorf("looking up %s: %w", l.kind, err)
		}
	}

	for _, l := range lookups {
		c, err := tx.FindDeletedContact(ctx, companyID, l.kind, l.value)
		if err == nil {
			restored, err := tx.RestoreContact(ctx, companyID, c.ID, input.Name)
			if err != nil {
				return nil, "", fmt.Errorf("restoring contact: %w", err)
			}

			return restored, ActionRestored, nil
		}

		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, "", fmt.Errorf("looking up deleted %s: %w", l.kind, err)
		}
	}

	c := &contact.Contact{
		CompanyID: companyID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Document:  input.Document,
		Type:      contact.TypeLead,
		Status:    contact.StatusNew,
		Origin:    input.Origin,
		OwnerID:   &actorID,
	}

	if err := tx.CreateContact(ctx, c); err != nil {
		return nil, "", err
	}

	return c, ActionCreated, nil
}

type lookup struct {
	kind  contact.IdentifierKind
	value string
}

func lookupOrder(input Input) []lookup {
	var lookups []lookup

	if phone := contact.NormalizePhone(input.Phone); phone != "" {
		lookups = append(lookups, lookup{contact.IdentifierPhone, phone})
	}

	if input.Email != "" {
		lookups = append(lookups, lookup{contact.IdentifierEmail, input.Email})
	}

	if input.Document != "" {
		lookups = append(lookups, lookup{contact.IdentifierDocument, input.Document})
	}

	return lookups
}
