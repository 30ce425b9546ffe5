package contact_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nexocrm/nexo/internal/apperr"
	"github.com/nexocrm/nexo/internal/contact"
)

var companyID = uuid.MustParse("6f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0")

func TestService_Create(t *testing.T) {
	type args struct {
		params contact.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *contact.MockRepository)
		wantErr   string
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: contact.CreateParams{
					Name:  "Maria Souza",
					Phone: "+55 11 91234-5678",
				},
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					CreateContact(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *contact.Contact) error {
						c.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name: "DefaultsToNewLead",
			args: args{
				params: contact.CreateParams{
					Name:  "Maria Souza",
					Email: "maria@example.com",
				},
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					CreateContact(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *contact.Contact) error {
						assert.Equal(t, contact.TypeLead, c.Type)
						assert.Equal(t, contact.StatusNew, c.Status)
						return nil
					})
			},
		},
		{
			name: "NoIdentifier",
			args: args{
				params: contact.CreateParams{
					Name: "Ghost",
				},
			},
			wantErr: "contact.identifier_required",
		},
		{
			name: "LostWithoutReason",
			args: args{
				params: contact.CreateParams{
					Name:   "Maria Souza",
					Email:  "maria@example.com",
					Status: contact.StatusLost,
				},
			},
			wantErr: "contact.loss_reason_required",
		},
		{
			name: "LostWithReason",
			args: args{
				params: contact.CreateParams{
					Name:       "Maria Souza",
					Email:      "maria@example.com",
					Status:     contact.StatusLost,
					LossReason: "went with competitor",
				},
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					CreateContact(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "RepoError",
			args: args{
				params: contact.CreateParams{
					Name:  "Maria Souza",
					Email: "maria@example.com",
				},
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					CreateContact(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := contact.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := contact.NewService(repo)
			got, err := svc.Create(context.Background(), companyID, tt.args.params)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
		})
	}
}

func TestService_Update(t *testing.T) {
	contactID := uuid.New()

	existing := func() *contact.Contact {
		return &contact.Contact{
			ID:        contactID,
			CompanyID: companyID,
			Name:      "Maria Souza",
			Email:     "maria@example.com",
			Type:      contact.TypeLead,
			Status:    contact.StatusContacted,
		}
	}

	type testCase struct {
		name      string
		params    contact.UpdateParams
		setupMock func(m *contact.MockRepository)
		wantErr   string
	}

	tests := []testCase{
		{
			name: "Success",
			params: contact.UpdateParams{
				Name: new("Maria S. Oliveira"),
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					GetContact(gomock.Any(), companyID, contactID).
					Return(existing(), nil)
				m.EXPECT().
					UpdateContact(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *contact.Contact) error {
						assert.Equal(t, "Maria S. Oliveira", c.Name)
						return nil
					})
			},
		},
		{
			name: "StatusToLostWithoutReason",
			params: contact.UpdateParams{
				Status: new(contact.StatusLost),
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					GetContact(gomock.Any(), companyID, contactID).
					Return(existing(), nil)
			},
			wantErr: "contact.loss_reason_required",
		},
		{
			name: "ClearingLastIdentifier",
			params: contact.UpdateParams{
				Email: new(""),
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					GetContact(gomock.Any(), companyID, contactID).
					Return(existing(), nil)
			},
			wantErr: "contact.identifier_required",
		},
		{
			name:   "NotFound",
			params: contact.UpdateParams{},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					GetContact(gomock.Any(), companyID, contactID).
					Return(nil, apperr.ErrNotFound)
			},
			wantErr: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := contact.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := contact.NewService(repo)
			_, err := svc.Update(context.Background(), companyID, contactID, tt.params)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_ConvertToClient(t *testing.T) {
	contactID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := contact.NewMockRepository(ctrl)
		repo.EXPECT().
			GetContact(gomock.Any(), companyID, contactID).
			Return(&contact.Contact{ID: contactID, Type: contact.TypeLead}, nil)
		repo.EXPECT().
			MarkAsClient(gomock.Any(), companyID, contactID).
			Return(nil)

		svc := contact.NewService(repo)
		got, err := svc.ConvertToClient(context.Background(), companyID, contactID)

		require.NoError(t, err)
		assert.Equal(t, contact.TypeClient, got.Type)
	})

	t.Run("AlreadyClient", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := contact.NewMockRepository(ctrl)
		repo.EXPECT().
			GetContact(gomock.Any(), companyID, contactID).
			Return(&contact.Contact{ID: contactID, Type: contact.TypeClient}, nil)

		svc := contact.NewService(repo)
		_, err := svc.ConvertToClient(context.Background(), companyID, contactID)

		ve, ok := apperr.IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "contact.already_client", ve.Key)
	})
}

func TestService_GetOrCreate(t *testing.T) {
	type testCase struct {
		name         string
		params       contact.GetOrCreateParams
		setupMock    func(m *contact.MockRepository)
		wantErr      string
		wantCreated  bool
		wantRestored bool
	}

	found := &contact.Contact{ID: uuid.New(), Name: "Maria Souza"}

	tests := []testCase{
		{
			name: "FoundByPhone",
			params: contact.GetOrCreateParams{
				Phone: "+55 11 91234-5678",
				Name:  "Maria",
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					FindByIdentifier(gomock.Any(), companyID, contact.IdentifierPhone, "5511912345678").
					Return(found, nil)
			},
		},
		{
			name: "PhoneMissesEmailHits",
			params: contact.GetOrCreateParams{
				Phone: "+55 11 91234-5678",
				Email: "maria@example.com",
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					FindByIdentifier(gomock.Any(), companyID, contact.IdentifierPhone, "5511912345678").
					Return(nil, apperr.ErrNotFound)
				m.EXPECT().
					FindByIdentifier(gomock.Any(), companyID, contact.IdentifierEmail, "maria@example.com").
					Return(found, nil)
			},
		},
		{
			name: "RestoresSoftDeleted",
			params: contact.GetOrCreateParams{
				Email: "maria@example.com",
				Name:  "Maria Souza",
			},
			setupMock: func(m *contact.MockRepository) {
				deleted := &contact.Contact{ID: found.ID}

				m.EXPECT().
					FindByIdentifier(gomock.Any(), companyID, contact.IdentifierEmail, "maria@example.com").
					Return(nil, apperr.ErrNotFound)
				m.EXPECT().
					FindDeletedByIdentifier(gomock.Any(), companyID, contact.IdentifierEmail, "maria@example.com").
					Return(deleted, nil)
				m.EXPECT().
					RestoreContact(gomock.Any(), companyID, deleted.ID, "Maria Souza").
					Return(found, nil)
			},
			wantRestored: true,
		},
		{
			name: "CreatesNewLead",
			params: contact.GetOrCreateParams{
				Document: "12345678900",
				Name:     "Maria Souza",
			},
			setupMock: func(m *contact.MockRepository) {
				m.EXPECT().
					FindByIdentifier(gomock.Any(), companyID, contact.IdentifierDocument, "12345678900").
					Return(nil, apperr.ErrNotFound)
				m.EXPECT().
					FindDeletedByIdentifier(gomock.Any(), companyID, contact.IdentifierDocument, "12345678900").
					Return(nil, apperr.ErrNotFound)
				m.EXPECT().
					CreateContact(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *contact.Contact) error {
						assert.Equal(t, contact.TypeLead, c.Type)
						c.ID = uuid.New()
						return nil
					})
			},
			wantCreated: true,
		},
		{
			name: "RetriesLookupAfterInsertRace",
			params: contact.GetOrCreateParams{
				Email: "maria@example.com",
			},
			setupMock: func(m *contact.MockRepository) {
				// First pass loses the insert race.
				m.EXPECT().
					FindByIdentifier(gomock.Any(), companyID, contact.IdentifierEmail, "maria@example.com").
					Return(nil, apperr.ErrNotFound)
				m.EXPECT().
					FindDeletedByIdentifier(gomock.Any(), companyID, contact.IdentifierEmail, "maria@example.com").
					Return(nil, apperr.ErrNotFound)
				m.EXPECT().
					CreateContact(gomock.Any(), gomock.Any()).
					Return(apperr.ErrConflict)

				// Second pass finds the winner's row.
				m.EXPECT().
					FindByIdentifier(gomock.Any(), companyID, contact.IdentifierEmail, "maria@example.com").
					Return(found, nil)
			},
		},
		{
			name:    "NoIdentifier",
			params:  contact.GetOrCreateParams{Name: "Ghost"},
			wantErr: "contact.identifier_required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := contact.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := contact.NewService(repo)
			got, err := svc.GetOrCreate(context.Background(), companyID, tt.params)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got.Contact)
			assert.Equal(t, tt.wantCreated, got.Created)
			assert.Equal(t, tt.wantRestored, got.Restored)
		})
	}
}

func TestService_Reposition(t *testing.T) {
	contactID := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := contact.NewMockRepository(ctrl)
	repo.EXPECT().
		RepositionContact(gomock.Any(), companyID, contactID, contact.StatusQualified, nil, contact.PlaceAfter).
		Return(&contact.Contact{ID: contactID}, nil)

	svc := contact.NewService(repo)

	// An unknown placement falls back to after.
	_, err := svc.Reposition(context.Background(), companyID, contactID, contact.StatusQualified, nil, contact.Placement("sideways"))
	require.NoError(t, err)
}
