package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/apperr"
)

// IdentifierKind selects which identity column a reconciliation lookup
// matches against.
type IdentifierKind string

const (
	IdentifierPhone    IdentifierKind = "phone"
	IdentifierEmail    IdentifierKind = "email"
	IdentifierDocument IdentifierKind = "document"
)

// Placement positions a contact relative to an anchor inside a kanban lane.
type Placement string

const (
	PlaceBefore Placement = "before"
	PlaceAfter  Placement = "after"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=contact
type Repository interface {
	CreateContact(ctx context.Context, c *Contact) error
	GetContact(ctx context.Context, companyID, id uuid.UUID) (*Contact, error)
	ListContacts(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]*Contact, error)
	UpdateContact(ctx context.Context, c *Contact) error
	SoftDeleteContact(ctx context.Context, companyID, id uuid.UUID) error
	MarkAsClient(ctx context.Context, companyID, id uuid.UUID) error

	FindByIdentifier(ctx context.Context, companyID uuid.UUID, kind IdentifierKind, value string) (*Contact, error)
	FindDeletedByIdentifier(ctx context.Context, companyID uuid.UUID, kind IdentifierKind, value string) (*Contact, error)
	RestoreContact(ctx context.Context, companyID, id uuid.UUID, name string) (*Contact, error)

	RepositionContact(ctx context.Context, companyID, id uuid.UUID, status Status, anchorID *uuid.UUID, place Placement) (*Contact, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name        string
	Email       string
	Phone       string
	Document    string
	Type        Type
	Status      Status
	LossReason  string
	Origin      string
	Tags        []string
	Interests   []int64
	OwnerID     *uuid.UUID
	Temperature *Temperature
	Address     map[string]string
	Metadata    map[string]any
}

type UpdateParams struct {
	Name        *string
	Email       *string
	Phone       *string
	Document    *string
	Status      *Status
	LossReason  *string
	Origin      *string
	Tags        []string
	Interests   []int64
	OwnerID     *uuid.UUID
	Temperature *Temperature
	Address     map[string]string
	Metadata    map[string]any
}

type ListFilter struct {
	Type     *Type
	Status   *Status
	Origin   *string
	OwnerID  *uuid.UUID
	Search   string
	Tag      string
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

func (s *Service) Get(ctx context.Context, companyID, id uuid.UUID) (*Contact, error) {
	return s.repo.GetContact(ctx, companyID, id)
}

func (s *Service) List(ctx context.Context, companyID uuid.UUID, filter ListFilter) ([]*Contact, error) {
	return s.repo.ListContacts(ctx, companyID, filter)
}

func (s *Service) Create(ctx context.Context, companyID uuid.UUID, params CreateParams) (*Contact, error) {
	c := &Contact{
		CompanyID:   companyID,
		Name:        params.Name,
		Email:       params.Email,
		Phone:       params.Phone,
		Document:    params.Document,
		Type:        params.Type,
		Status:      params.Status,
		LossReason:  params.LossReason,
		Origin:      params.Origin,
		Tags:        params.Tags,
		Interests:   params.Interests,
		OwnerID:     params.OwnerID,
		Temperature: params.Temperature,
		Address:     params.Address,
		Metadata:    params.Metadata,
	}

	if c.Type == "" {
		c.Type = TypeLead
	}

	if c.Status == "" {
		c.Status = StatusNew
	}

	if !c.HasIdentifier() {
		return nil, apperr.Validation("identifier", "contact.identifier_required")
	}

	if c.Status.RequiresLossReason() && c.LossReason == "" {
		return nil, apperr.Validation("loss_reason", "contact.loss_reason_required")
	}

	if err := s.repo.CreateContact(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Update applies a partial update. The loss-reason rule is re-evaluated
// against the resulting status, not the incoming fields alone.
func (s *Service) Update(ctx context.Context, companyID, id uuid.UUID, params UpdateParams) (*Contact, error) {
	c, err := s.repo.GetContact(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		c.Name = *params.Name
	}

	if params.Email != nil {
		c.Email = *params.Email
	}

	if params.Phone != nil {
		c.Phone = *params.Phone
	}

	if params.Document != nil {
		c.Document = *params.Document
	}

	if params.Status != nil {
		c.Status = *params.Status
	}

	if params.LossReason != nil {
		c.LossReason = *params.LossReason
	}

	if params.Origin != nil {
		c.Origin = *params.Origin
	}

	if params.Tags != nil {
		c.Tags = params.Tags
	}

	if params.Interests != nil {
		c.Interests = params.Interests
	}

	if params.OwnerID != nil {
		c.OwnerID = params.OwnerID
	}

	if params.Temperature != nil {
		c.Temperature = params.Temperature
	}

	if params.Address != nil {
		c.Address = params.Address
	}

	if params.Metadata != nil {
		c.Metadata = params.Metadata
	}

	if !c.HasIdentifier() {
		return nil, apperr.Validation("identifier", "contact.identifier_required")
	}

	if c.Status.RequiresLossReason() && c.LossReason == "" {
		return nil, apperr.Validation("loss_reason", "contact.loss_reason_required")
	}

	if err := s.repo.UpdateContact(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) SoftDelete(ctx context.Context, companyID, id uuid.UUID) error {
	return s.repo.SoftDeleteContact(ctx, companyID, id)
}

// ConvertToClient upgrades a lead to a client. Converting a contact that
// is already a client fails; the reverse direction is never offered.
func (s *Service) ConvertToClient(ctx context.Context, companyID, id uuid.UUID) (*Contact, error) {
	c, err := s.repo.GetContact(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if c.Type == TypeClient {
		return nil, apperr.Validation("type", "contact.already_client")
	}

	if err := s.repo.MarkAsClient(ctx, companyID, id); err != nil {
		return nil, err
	}

	c.Type = TypeClient

	return c, nil
}

type GetOrCreateParams struct {
	Phone    string
	Email    string
	Document string
	Name     string
	Origin   string
	OwnerID  *uuid.UUID
}

// Resolution is the outcome of a reconciliation lookup.
type Resolution struct {
	Contact  *Contact
	Created  bool
	Restored bool
}

// GetOrCreate resolves an identity by phone, then email, then document,
// restoring a soft-deleted match before falling back to creating a new
// lead. The partial unique indexes on contacts are the backstop for the
// lookup-then-insert race: a conflicting insert is retried as a lookup so
// concurrent duplicate signals converge on one row.
func (s *Service) GetOrCreate(ctx context.Context, companyID uuid.UUID, params GetOrCreateParams) (*Resolution, error) {
	if params.Phone == "" && params.Email == "" && params.Document == "" {
		return nil, apperr.Validation("identifier", "contact.identifier_required")
	}

	res, err := s.resolve(ctx, companyID, params)
	if err == nil || !errors.Is(err, apperr.ErrConflict) {
		return res, err
	}

	// Lost the insert race; the winning row exists now.
	res, err = s.resolve(ctx, companyID, params)
	if err != nil {
		return nil, fmt.Errorf("re-resolving after conflict: %w", err)
	}

	return res, nil
}

func (s *Service) resolve(ctx context.Context, companyID uuid.UUID, params GetOrCreateParams) (*Resolution, error) {
	lookups := identifierLookups(params)

	for _, l := range lookups {
		c, err := s.repo.FindByIdentifier(ctx, companyID, l.kind, l.value)
		if err == nil {
			return &Resolution{Contact: c}, nil
		}

		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("looking up %s: %w", l.kind, err)
		}
	}

	for _, l := range lookups {
		c, err := s.repo.FindDeletedByIdentifier(ctx, companyID, l.kind, l.value)
		if err == nil {
			restored, err := s.repo.RestoreContact(ctx, companyID, c.ID, params.Name)
			if err != nil {
				return nil, fmt.Errorf("restoring contact: %w", err)
			}

			return &Resolution{Contact: restored, Restored: true}, nil
		}

		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("looking up deleted %s: %w", l.kind, err)
		}
	}

	c, err := s.Create(ctx, companyID, CreateParams{
		Name:     params.Name,
		Email:    params.Email,
		Phone:    params.Phone,
		Document: params.Document,
		Type:     TypeLead,
		Origin:   params.Origin,
		OwnerID:  params.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	return &Resolution{Contact: c, Created: true}, nil
}

type identifierLookup struct {
	kind  IdentifierKind
	value string
}

func identifierLookups(params GetOrCreateParams) []identifierLookup {
	var lookups []identifierLookup

	if phone := NormalizePhone(params.Phone); phone != "" {
		lookups = append(lookups, identifierLookup{IdentifierPhone, phone})
	}

	if params.Email != "" {
		lookups = append(lookups, identifierLookup{IdentifierEmail, params.Email})
	}

	if params.Document != "" {
		lookups = append(lookups, identifierLookup{IdentifierDocument, params.Document})
	}

	return lookups
}

// Reposition moves a contact into a status lane next to the anchor, or to
// the end of the lane when no anchor is given. The sparse ordering key
// makes a single move touch one row; the store only rebalances a lane
// when the gap between neighbors collapses.
func (s *Service) Reposition(ctx context.Context, companyID, id uuid.UUID, status Status, anchorID *uuid.UUID, place Placement) (*Contact, error) {
	if place != PlaceBefore && place != PlaceAfter {
		place = PlaceAfter
	}

	return s.repo.RepositionContact(ctx, companyID, id, status, anchorID, place)
}
