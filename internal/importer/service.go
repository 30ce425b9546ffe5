package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/apperr"
	"github.com/nexocrm/nexo/internal/contact"
)

// contactResolver is the slice of the contact service the importer needs.
type contactResolver interface {
	GetOrCreate(ctx context.Context, companyID uuid.UUID, params contact.GetOrCreateParams) (*contact.Resolution, error)
}

type Service struct {
	parser   Parser
	contacts contactResolver
}

func NewService(parser Parser, contacts contactResolver) *Service {
	return &Service{parser: parser, contacts: contacts}
}

// SkippedRow explains why a line in the upload was not imported.
type SkippedRow struct {
	Line   int
	Reason string
}

type Summary struct {
	Created  int
	Found    int
	Restored int
	Skipped  []SkippedRow
}

// ImportContacts runs every parsed row through identity reconciliation, so
// re-importing the same file never duplicates contacts. Rows without any
// identifier are reported as skipped rather than failing the upload.
func (s *Service) ImportContacts(ctx context.Context, companyID, actorID uuid.UUID, r io.Reader, origin string) (*Summary, error) {
	rows, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing upload: %w", err)
	}

	if len(rows) == 0 {
		return nil, apperr.Validation("file", "import.empty_file")
	}

	summary := &Summary{}

	for _, row := range rows {
		if !row.HasIdentifier() {
			summary.Skipped = append(summary.Skipped, SkippedRow{Line: row.Line, Reason: "missing phone, email and document"})
			continue
		}

		rowOrigin := row.Origin
		if rowOrigin == "" {
			rowOrigin = origin
		}

		res, err := s.contacts.GetOrCreate(ctx, companyID, contact.GetOrCreateParams{
			Phone:    row.Phone,
			Email:    row.Email,
			Document: row.Document,
			Name:     row.Name,
			Origin:   rowOrigin,
			OwnerID:  &actorID,
		})
		if err != nil {
			var ve *apperr.ValidationError
			if errors.As(err, &ve) {
				summary.Skipped = append(summary.Skipped, SkippedRow{Line: row.Line, Reason: ve.Key})
				continue
			}

			return nil, fmt.Errorf("importing line %d: %w", row.Line, err)
		}

		switch {
		case res.Created:
			summary.Created++
		case res.Restored:
			summary.Restored++
		default:
			summary.Found++
		}
	}

	return summary, nil
}
