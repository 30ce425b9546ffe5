package importer

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexocrm/nexo/internal/apperr"
	"github.com/nexocrm/nexo/internal/contact"
)

type mockParser struct {
	rows []Row
	err  error
}

func (m *mockParser) Parse(r io.Reader) ([]Row, error) {
	return m.rows, m.err
}

type mockResolver struct {
	resolveFunc func(ctx context.Context, companyID uuid.UUID, params contact.GetOrCreateParams) (*contact.Resolution, error)
}

func (m *mockResolver) GetOrCreate(ctx context.Context, companyID uuid.UUID, params contact.GetOrCreateParams) (*contact.Resolution, error) {
	return m.resolveFunc(ctx, companyID, params)
}

var (
	testCompanyID = uuid.MustParse("7c2f91a4-3e5d-4b6a-8f90-1d2e3c4b5a69")
	testActorID   = uuid.MustParse("0a1b2c3d-4e5f-4a6b-8c9d-0e1f2a3b4c5d")
)

func TestService_ImportContacts(t *testing.T) {
	t.Run("CountsCreatedFoundRestored", func(t *testing.T) {
		parser := &mockParser{rows: []Row{
			{Name: "Maria", Phone: "11912345678", Line: 2},
			{Name: "João", Email: "joao@example.com", Line: 3},
			{Name: "Ana", Document: "12345678900", Line: 4},
			{Name: "Ghost", Line: 5},
		}}

		resolver := &mockResolver{
			resolveFunc: func(_ context.Context, _ uuid.UUID, params contact.GetOrCreateParams) (*contact.Resolution, error) {
				switch params.Name {
				case "Maria":
					return &contact.Resolution{Contact: &contact.Contact{}, Created: true}, nil
				case "João":
					return &contact.Resolution{Contact: &contact.Contact{}}, nil
				default:
					return &contact.Resolution{Contact: &contact.Contact{}, Restored: true}, nil
				}
			},
		}

		svc := NewService(parser, resolver)
		summary, err := svc.ImportContacts(context.Background(), testCompanyID, testActorID, strings.NewReader(""), "fair")

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Created)
		assert.Equal(t, 1, summary.Found)
		assert.Equal(t, 1, summary.Restored)
		require.Len(t, summary.Skipped, 1)
		assert.Equal(t, 5, summary.Skipped[0].Line)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		svc := NewService(&mockParser{}, &mockResolver{})

		_, err := svc.ImportContacts(context.Background(), testCompanyID, testActorID, strings.NewReader(""), "")

		ve, ok := apperr.IsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "import.empty_file", ve.Key)
	})

	t.Run("RowOriginOverridesUploadOrigin", func(t *testing.T) {
		parser := &mockParser{rows: []Row{
			{Name: "Maria", Email: "maria@example.com", Origin: "landing", Line: 2},
			{Name: "João", Email: "joao@example.com", Line: 3},
		}}

		var origins []string
		resolver := &mockResolver{
			resolveFunc: func(_ context.Context, _ uuid.UUID, params contact.GetOrCreateParams) (*contact.Resolution, error) {
				origins = append(origins, params.Origin)
				assert.Equal(t, &testActorID, params.OwnerID)
				return &contact.Resolution{Contact: &contact.Contact{}, Created: true}, nil
			},
		}

		svc := NewService(parser, resolver)
		_, err := svc.ImportContacts(context.Background(), testCompanyID, testActorID, strings.NewReader(""), "csv-upload")

		require.NoError(t, err)
		assert.Equal(t, []string{"landing", "csv-upload"}, origins)
	})

	t.Run("ValidationErrorSkipsRow", func(t *testing.T) {
		parser := &mockParser{rows: []Row{
			{Name: "Maria", Email: "maria@example.com", Line: 2},
		}}

		resolver := &mockResolver{
			resolveFunc: func(_ context.Context, _ uuid.UUID, _ contact.GetOrCreateParams) (*contact.Resolution, error) {
				return nil, apperr.Validation("identifier", "contact.identifier_required")
			},
		}

		svc := NewService(parser, resolver)
		summary, err := svc.ImportContacts(context.Background(), testCompanyID, testActorID, strings.NewReader(""), "")

		require.NoError(t, err)
		require.Len(t, summary.Skipped, 1)
		assert.Equal(t, "contact.identifier_required", summary.Skipped[0].Reason)
	})

	t.Run("RepoErrorAbortsImport", func(t *testing.T) {
		parser := &mockParser{rows: []Row{
			{Name: "Maria", Email: "maria@example.com", Line: 2},
		}}

		resolver := &mockResolver{
			resolveFunc: func(_ context.Context, _ uuid.UUID, _ contact.GetOrCreateParams) (*contact.Resolution, error) {
				return nil, errors.New("db error")
			},
		}

		svc := NewService(parser, resolver)
		_, err := svc.ImportContacts(context.Background(), testCompanyID, testActorID, strings.NewReader(""), "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}
