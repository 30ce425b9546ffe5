package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexocrm/nexo/internal/apperr"
	"github.com/nexocrm/nexo/internal/contact"
	"github.com/nexocrm/nexo/internal/deal"
)

// Mock transaction
type mockTx struct {
	findContactFunc        func(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string) (*contact.Contact, error)
	findDeletedContactFunc func(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string) (*contact.Contact, error)
	restoreContactFunc     func(ctx context.Context, companyID, id uuid.UUID, name string) (*contact.Contact, error)
	createContactFunc      func(ctx context.Context, c *contact.Contact) error
	createDealFunc         func(ctx context.Context, d *deal.Deal) error

	commits   int
	rollbacks int
}

func (m *mockTx) FindContact(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string) (*contact.Contact, error) {
	if m.findContactFunc != nil {
		return m.findContactFunc(ctx, companyID, kind, value)
	}

	return nil, apperr.ErrNotFound
}

func (m *mockTx) FindDeletedContact(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string) (*contact.Contact, error) {
	if m.findDeletedContactFunc != nil {
		return m.findDeletedContactFunc(ctx, companyID, kind, value)
	}

	return nil, apperr.ErrNotFound
}

func (m *mockTx) RestoreContact(ctx context.Context, companyID, id uuid.UUID, name string) (*contact.Contact, error) {
	if m.restoreContactFunc != nil {
		return m.restoreContactFunc(ctx, companyID, id, name)
	}

	return nil, nil
}

func (m *mockTx) CreateContact(ctx context.Context, c *contact.Contact) error {
	if m.createContactFunc != nil {
		return m.createContactFunc(ctx, c)
	}

	c.ID = uuid.New()
	return nil
}

func (m *mockTx) CreateDeal(ctx context.Context, d *deal.Deal) error {
	if m.createDealFunc != nil {
		return m.createDealFunc(ctx, d)
	}

	d.ID = uuid.New()
	return nil
}

func (m *mockTx) Commit() error {
	m.commits++
	return nil
}

func (m *mockTx) Rollback() error {
	m.rollbacks++
	return nil
}

type mockRepo struct {
	txs  []*mockTx
	next int
}

func (m *mockRepo) Begin(ctx context.Context) (Tx, error) {
	if m.next >= len(m.txs) {
		return nil, errors.New("no tx configured")
	}

	tx := m.txs[m.next]
	m.next++
	return tx, nil
}

var (
	testCompanyID = uuid.MustParse("4e8a2f7c-1d3b-45a6-9c80-f2e5b7a1c9d4")
	testActorID   = uuid.MustParse("c1f8e5d2-7a4b-4c3d-8e9f-0a1b2c3d4e5f")
)

func TestService_Capture_Validation(t *testing.T) {
	svc := NewService(&mockRepo{})

	tests := []struct {
		name    string
		input   Input
		wantKey string
	}{
		{
			name:    "NoIdentifier",
			input:   Input{Name: "Maria"},
			wantKey: "contact.identifier_required",
		},
		{
			name:    "NoName",
			input:   Input{Phone: "+55 11 91234-5678"},
			wantKey: "contact.name_required",
		},
		{
			name:    "NegativeValue",
			input:   Input{Phone: "+55 11 91234-5678", Name: "Maria", DealValue: -1},
			wantKey: "deal.value_negative",
		},
		{
			name:    "ReservedStage",
			input:   Input{Phone: "+55 11 91234-5678", Name: "Maria", DealStage: deal.StageWon},
			wantKey: "deal.stage_reserved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Capture(context.Background(), testCompanyID, testActorID, tt.input)

			ve, ok := apperr.IsValidation(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKey, ve.Key)
		})
	}
}

func TestService_Capture_CreatesContactAndDeal(t *testing.T) {
	tx := &mockTx{}
	svc := NewService(&mockRepo{txs: []*mockTx{tx}})

	got, err := svc.Capture(context.Background(), testCompanyID, testActorID, Input{
		Phone:  "+55 11 91234-5678",
		Name:   "Maria Souza",
		Origin: "whatsapp",
	})

	require.NoError(t, err)
	assert.Equal(t, ActionCreated, got.Action)
	assert.Equal(t, contact.TypeLead, got.Contact.Type)
	assert.Equal(t, got.Contact.ID, got.Deal.ContactID)
	assert.Equal(t, "New opportunity", got.Deal.Title)
	assert.Equal(t, deal.StageNew, got.Deal.FunnelStage)
	assert.Equal(t, 1, tx.commits)
	// Deferred rollback after commit is a no-op at the database.
	assert.Equal(t, 1, tx.rollbacks)
}

func TestService_Capture_AlwaysOpensDealForFoundContact(t *testing.T) {
	existing := &contact.Contact{ID: uuid.New(), Name: "Maria Souza", Type: contact.TypeClient}

	tx := &mockTx{
		findContactFunc: func(_ context.Context, _ uuid.UUID, kind contact.IdentifierKind, value string) (*contact.Contact, error) {
			assert.Equal(t, contact.IdentifierPhone, kind)
			assert.Equal(t, "5511912345678", value)
			return existing, nil
		},
	}
	svc := NewService(&mockRepo{txs: []*mockTx{tx}})

	got, err := svc.Capture(context.Background(), testCompanyID, testActorID, Input{
		Phone:     "+55 11 91234-5678",
		Name:      "Maria",
		DealTitle: "Upsell",
		DealValue: 9900,
	})

	require.NoError(t, err)
	assert.Equal(t, ActionFound, got.Action)
	assert.Equal(t, existing.ID, got.Deal.ContactID)
	assert.Equal(t, "Upsell", got.Deal.Title)
	assert.Equal(t, int64(9900), got.Deal.TotalValue)
	assert.Equal(t, 1, tx.commits)
}

func TestService_Capture_RestoresSoftDeletedContact(t *testing.T) {
	deletedID := uuid.New()
	restored := &contact.Contact{ID: deletedID, Name: "Maria Souza"}

	tx := &mockTx{
		findDeletedContactFunc: func(_ context.Context, _ uuid.UUID, _ contact.IdentifierKind, _ string) (*contact.Contact, error) {
			return &contact.Contact{ID: deletedID}, nil
		},
		restoreContactFunc: func(_ context.Context, _, id uuid.UUID, name string) (*contact.Contact, error) {
			assert.Equal(t, deletedID, id)
			assert.Equal(t, "Maria Souza", name)
			return restored, nil
		},
	}
	svc := NewService(&mockRepo{txs: []*mockTx{tx}})

	got, err := svc.Capture(context.Background(), testCompanyID, testActorID, Input{
		Email: "maria@example.com",
		Name:  "Maria Souza",
	})

	require.NoError(t, err)
	assert.Equal(t, ActionRestored, got.Action)
	assert.Equal(t, deletedID, got.Deal.ContactID)
}

func TestService_Capture_RetriesOnceAfterInsertRace(t *testing.T) {
	winner := &contact.Contact{ID: uuid.New(), Name: "Maria Souza"}

	lost := &mockTx{
		createContactFunc: func(_ context.Context, _ *contact.Contact) error {
			return apperr.ErrConflict
		},
	}
	retry := &mockTx{
		findContactFunc: func(_ context.Context, _ uuid.UUID, _ contact.IdentifierKind, _ string) (*contact.Contact, error) {
			return winner, nil
		},
	}
	svc := NewService(&mockRepo{txs: []*mockTx{lost, retry}})

	got, err := svc.Capture(context.Background(), testCompanyID, testActorID, Input{
		Email: "maria@example.com",
		Name:  "Maria Souza",
	})

	require.NoError(t, err)
	assert.Equal(t, ActionFound, got.Action)
	assert.Equal(t, winner.ID, got.Deal.ContactID)
	assert.Equal(t, 0, lost.commits)
	assert.Equal(t, 1, lost.rollbacks)
	assert.Equal(t, 1, retry.commits)
}

func TestService_Capture_RollsBackOnDealFailure(t *testing.T) {
	tx := &mockTx{
		createDealFunc: func(_ context.Context, _ *deal.Deal) error {
			return errors.New("db error")
		},
	}
	svc := NewService(&mockRepo{txs: []*mockTx{tx}})

	_, err := svc.Capture(context.Background(), testCompanyID, testActorID, Input{
		Email: "maria@example.com",
		Name:  "Maria Souza",
	})

	require.Error(t, err)
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}
