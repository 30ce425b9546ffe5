package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nexocrm/nexo/internal/apperr"
	"github.com/nexocrm/nexo/internal/capture"
	"github.com/nexocrm/nexo/internal/contact"
	contactStore "github.com/nexocrm/nexo/internal/contact/store"
	"github.com/nexocrm/nexo/internal/deal"
)

// laneGap matches the kanban key spacing used by the contact store.
const laneGap = 1024.0

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Begin(ctx context.Context) (capture.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning capture tx: %w", err)
	}

	return &captureTx{tx: dbTx}, nil
}

type captureTx struct {
	tx *sql.Tx
}

func (t *captureTx) Commit() error   { return t.tx.Commit() }
func (t *captureTx) Rollback() error { return t.tx.Rollback() }

var identifierColumns = map[contact.IdentifierKind]string{
	contact.IdentifierPhone:    "phone_digits",
	contact.IdentifierEmail:    "email",
	contact.IdentifierDocument: "document",
}

func (t *captureTx) FindContact(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string) (*contact.Contact, error) {
	return t.findContact(ctx, companyID, kind, value, false)
}

func (t *captureTx) FindDeletedContact(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string) (*contact.Contact, error) {
	return t.findContact(ctx, companyID, kind, value, true)
}

func (t *captureTx) findContact(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string, deleted bool) (*contact.Contact, error) {
	column, ok := identifierColumns[kind]
	if !ok {
		return nil, fmt.Errorf("unknown identifier kind: %s", kind)
	}

	deletedCond := "c.deleted_at IS NULL"
	if deleted {
		deletedCond = "c.deleted_at IS NOT NULL"
	}

	match := fmt.Sprintf("c.%s = $2", column)
	if kind == contact.IdentifierPhone {
		match = "(c.phone_digits = $2 OR c.phone = $2)"
	}

	query := `SELECT ` + contactStore.SelectContactColumns + `
		FROM contacts c
		WHERE c.company_id = $1 AND ` + match + ` AND c.` + column + ` <> '' AND ` + deletedCond + `
		ORDER BY c.created_at DESC
		LIMIT 1`

	c, err := contactStore.ScanContact(t.tx.QueryRowContext(ctx, query, companyID, value))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound
		}

		return nil, fmt.Errorf("finding contact by %s: %w", kind, err)
	}

	return c, nil
}

func (t *captureTx) RestoreContact(ctx context.Context, companyID, id uuid.UUID, name string) (*contact.Contact, error) {
	query := `
		UPDATE contacts
		SET deleted_at = NULL,
			name = CASE WHEN $3 <> '' THEN $3 ELSE name END,
			updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NOT NULL
	`

	res, err := t.tx.ExecContext(ctx, query, id, companyID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrConflict
		}

		return nil, fmt.Errorf("restoring contact: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("counting affected rows: %w", err)
	}

	if n == 0 {
		return nil, apperr.ErrNotFound
	}

	getQuery := `SELECT ` + contactStore.SelectContactColumns + `
		FROM contacts c
		WHERE c.id = $1 AND c.company_id = $2 AND c.deleted_at IS NULL`

	c, err := contactStore.ScanContact(t.tx.QueryRowContext(ctx, getQuery, id, companyID))
	if err != nil {
		return nil, fmt.Errorf("reloading restored contact: %w", err)
	}

	return c, nil
}

func (t *captureTx) CreateContact(ctx context.Context, c *contact.Contact) error {
	query := `
		INSERT INTO contacts (
			company_id, name, email, phone, phone_digits, document, type, status,
			origin, owner_id, kanban_position, created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			COALESCE((
				SELECT MAX(kanban_position) FROM contacts
				WHERE company_id = $1 AND status = $8 AND deleted_at IS NULL
			), 0) + $11,
			NOW(), NOW()
		)
		RETURNING id, kanban_position, created_at, updated_at
	`

	err := t.tx.QueryRowContext(ctx, query,
		c.CompanyID,
		c.Name,
		c.Email,
		c.Phone,
		contact.NormalizePhone(c.Phone),
		c.Document,
		c.Type,
		c.Status,
		c.Origin,
		c.OwnerID,
		laneGap,
	).Scan(&c.ID, &c.KanbanPosition, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrConflict
		}

		return fmt.Errorf("creating contact: %w", err)
	}

	return nil
}

func (t *captureTx) CreateDeal(ctx context.Context, d *deal.Deal) error {
	metadata := d.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	metadataRaw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encoding deal metadata: %w", err)
	}

	query := `
		INSERT INTO deals (
			company_id, contact_id, owner_id, title, funnel_stage, total_value,
			origin, probability, metadata, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = t.tx.QueryRowContext(ctx, query,
		d.CompanyID,
		d.ContactID,
		d.OwnerID,
		d.Title,
		d.FunnelStage,
		d.TotalValue,
		d.Origin,
		d.Probability,
		metadataRaw,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating deal: %w", err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
