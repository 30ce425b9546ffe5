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
	"github.com/nexocrm/nexo/internal/contact"
)

// laneGap is the spacing between freshly assigned kanban ordering keys.
// laneEpsilon is the smallest usable gap before a lane gets rebalanced.
const (
	laneGap     = 1024.0
	laneEpsilon = 1e-6
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Scanner is satisfied by both *sql.Row and *sql.Rows. It is exported so
// the capture store can scan contacts resolved inside its own transaction.
type Scanner interface {
	Scan(dest ...any) error
}

const SelectContactColumns = `
	c.id, c.company_id, c.name, c.email, c.phone, c.document, c.type, c.status,
	c.loss_reason, c.origin, c.tags, c.interests, c.owner_id, c.lifetime_value,
	c.temperature, c.kanban_position, c.last_purchase_at, c.address, c.metadata,
	c.created_at, c.updated_at, c.deleted_at
`

func ScanContact(s Scanner) (*contact.Contact, error) {
	var (
		c                       contact.Contact
		typeStr, statusStr      string
		temperature             sql.NullString
		tagsRaw, interestsRaw   []byte
		addressRaw, metadataRaw []byte
	)

	if err := s.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Phone, &c.Document, &typeStr, &statusStr,
		&c.LossReason, &c.Origin, &tagsRaw, &interestsRaw, &c.OwnerID, &c.LifetimeValue,
		&temperature, &c.KanbanPosition, &c.LastPurchaseAt, &addressRaw, &metadataRaw,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	); err != nil {
		return nil, err
	}

	c.Type = contact.Type(typeStr)
	c.Status = contact.Status(statusStr)

	if temperature.Valid {
		t := contact.Temperature(temperature.String)
		c.Temperature = &t
	}

	if err := unmarshalJSONColumns(&c, tagsRaw, interestsRaw, addressRaw, metadataRaw); err != nil {
		return nil, fmt.Errorf("decoding contact json columns: %w", err)
	}

	return &c, nil
}

func unmarshalJSONColumns(c *contact.Contact, tags, interests, address, metadata []byte) error {
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &c.Tags); err != nil {
			return err
		}
	}

	if len(interests) > 0 {
		if err := json.Unmarshal(interests, &c.Interests); err != nil {
			return err
		}
	}

	if len(address) > 0 {
		if err := json.Unmarshal(address, &c.Address); err != nil {
			return err
		}
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &c.Metadata); err != nil {
			return err
		}
	}

	return nil
}

func marshalJSONColumns(c *contact.Contact) (tags, interests, address, metadata []byte, err error) {
	if tags, err = json.Marshal(orEmptySlice(c.Tags)); err != nil {
		return nil, nil, nil, nil, err
	}

	if interests, err = json.Marshal(orEmptySlice(c.Interests)); err != nil {
		return nil, nil, nil, nil, err
	}

	if address, err = json.Marshal(orEmptyMap(c.Address)); err != nil {
		return nil, nil, nil, nil, err
	}

	if metadata, err = json.Marshal(orEmptyAnyMap(c.Metadata)); err != nil {
		return nil, nil, nil, nil, err
	}

	return tags, interests, address, metadata, nil
}

func orEmptySlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}

	return m
}

func orEmptyAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}

	return m
}

// isUniqueViolation checks for PostgreSQL error code 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) CreateContact(ctx context.Context, c *contact.Contact) error {
	tags, interests, address, metadata, err := marshalJSONColumns(c)
	if err != nil {
		return fmt.Errorf("encoding contact json columns: %w", err)
	}

	// New contacts are appended to the end of their status lane.
	query := `
		INSERT INTO contacts (
			company_id, name, email, phone, phone_digits, document, type, status,
			loss_reason, origin, tags, interests, owner_id, temperature,
			kanban_position, address, metadata, created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			COALESCE((
				SELECT MAX(kanban_position) FROM contacts
				WHERE company_id = $1 AND status = $8 AND deleted_at IS NULL
			), 0) + $15,
			$16, $17, NOW(), NOW()
		)
		RETURNING id, kanban_position, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		c.CompanyID,
		c.Name,
		c.Email,
		c.Phone,
		contact.NormalizePhone(c.Phone),
		c.Document,
		c.Type,
		c.Status,
		c.LossReason,
		c.Origin,
		tags,
		interests,
		c.OwnerID,
		c.Temperature,
		laneGap,
		address,
		metadata,
	).Scan(&c.ID, &c.KanbanPosition, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrConflict
		}

		return fmt.Errorf("creating contact: %w", err)
	}

	return nil
}

func (s *Store) GetContact(ctx context.Context, companyID, id uuid.UUID) (*contact.Contact, error) {
	query := `SELECT ` + SelectContactColumns + `
		FROM contacts c
		WHERE c.id = $1 AND c.company_id = $2 AND c.deleted_at IS NULL`

	c, err := ScanContact(s.db.QueryRowContext(ctx, query, id, companyID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound
		}

		return nil, fmt.Errorf("getting contact: %w", err)
	}

	return c, nil
}

var contactSortColumns = map[string]string{
	"name":            "c.name",
	"created_at":      "c.created_at",
	"kanban_position": "c.kanban_position",
	"lifetime_value":  "c.lifetime_value",
}

func (s *Store) ListContacts(ctx context.Context, companyID uuid.UUID, filter contact.ListFilter) ([]*contact.Contact, error) {
	query := `SELECT ` + SelectContactColumns + `
		FROM contacts c
		WHERE c.company_id = $1 AND c.deleted_at IS NULL`

	args := []any{companyID}
	argIdx := 2

	if filter.Type != nil {
		query += fmt.Sprintf(" AND c.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND c.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Origin != nil {
		query += fmt.Sprintf(" AND c.origin = $%d", argIdx)

		args = append(args, *filter.Origin)
		argIdx++
	}

	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND c.owner_id = $%d", argIdx)

		args = append(args, *filter.OwnerID)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (c.name ILIKE $%d OR c.email ILIKE $%d OR c.phone ILIKE $%d)", argIdx, argIdx, argIdx)

		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	if filter.Tag != "" {
		tagJSON, err := json.Marshal([]string{filter.Tag})
		if err != nil {
			return nil, fmt.Errorf("encoding tag filter: %w", err)
		}

		query += fmt.Sprintf(" AND c.tags @> $%d::jsonb", argIdx)

		args = append(args, tagJSON)
		argIdx++
	}

	sortCol, ok := contactSortColumns[filter.SortBy]
	if !ok {
		sortCol = "c.created_at"
	}

	dir := "ASC"
	if filter.SortDesc {
		dir = "DESC"
	}

	query += fmt.Sprintf(" ORDER BY %s %s", sortCol, dir)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
		argIdx++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)

		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*contact.Contact

	for rows.Next() {
		c, err := ScanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}

		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact rows: %w", err)
	}

	return contacts, nil
}

func (s *Store) UpdateContact(ctx context.Context, c *contact.Contact) error {
	tags, interests, address, metadata, err := marshalJSONColumns(c)
	if err != nil {
		return fmt.Errorf("encoding contact json columns: %w", err)
	}

	query := `
		UPDATE contacts
		SET name = $1, email = $2, phone = $3, phone_digits = $4, document = $5,
			status = $6, loss_reason = $7, origin = $8, tags = $9, interests = $10,
			owner_id = $11, temperature = $12, address = $13, metadata = $14,
			updated_at = NOW()
		WHERE id = $15 AND company_id = $16 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		c.Name,
		c.Email,
		c.Phone,
		contact.NormalizePhone(c.Phone),
		c.Document,
		c.Status,
		c.LossReason,
		c.Origin,
		tags,
		interests,
		c.OwnerID,
		c.Temperature,
		address,
		metadata,
		c.ID,
		c.CompanyID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrConflict
		}

		return fmt.Errorf("updating contact: %w", err)
	}

	return ensureRowAffected(res)
}

func (s *Store) SoftDeleteContact(ctx context.Context, companyID, id uuid.UUID) error {
	query := `
		UPDATE contacts
		SET deleted_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}

	return ensureRowAffected(res)
}

func (s *Store) MarkAsClient(ctx context.Context, companyID, id uuid.UUID) error {
	query := `
		UPDATE contacts
		SET type = 'client', updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND type = 'lead' AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("converting contact: %w", err)
	}

	return ensureRowAffected(res)
}

var identifierColumns = map[contact.IdentifierKind]string{
	contact.IdentifierPhone:    "phone_digits",
	contact.IdentifierEmail:    "email",
	contact.IdentifierDocument: "document",
}

func (s *Store) FindByIdentifier(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string) (*contact.Contact, error) {
	return s.findByIdentifier(ctx, companyID, kind, value, false)
}

func (s *Store) FindDeletedByIdentifier(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string) (*contact.Contact, error) {
	return s.findByIdentifier(ctx, companyID, kind, value, true)
}

func (s *Store) findByIdentifier(ctx context.Context, companyID uuid.UUID, kind contact.IdentifierKind, value string, deleted bool) (*contact.Contact, error) {
	column, ok := identifierColumns[kind]
	if !ok {
		return nil, fmt.Errorf("unknown identifier kind: %s", kind)
	}

	deletedCond := "c.deleted_at IS NULL"
	if deleted {
		// Most recently deleted match wins on restore.
		deletedCond = "c.deleted_at IS NOT NULL"
	}

	match := fmt.Sprintf("c.%s = $2", column)
	if kind == contact.IdentifierPhone {
		// Tolerate rows whose raw phone was stored already digits-only.
		match = "(c.phone_digits = $2 OR c.phone = $2)"
	}

	query := `SELECT ` + SelectContactColumns + `
		FROM contacts c
		WHERE c.company_id = $1 AND ` + match + ` AND c.` + column + ` <> '' AND ` + deletedCond + `
		ORDER BY c.created_at DESC
		LIMIT 1`

	c, err := ScanContact(s.db.QueryRowContext(ctx, query, companyID, value))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound
		}

		return nil, fmt.Errorf("finding contact by %s: %w", kind, err)
	}

	return c, nil
}

func (s *Store) RestoreContact(ctx context.Context, companyID, id uuid.UUID, name string) (*contact.Contact, error) {
	query := `
		UPDATE contacts
		SET deleted_at = NULL,
			name = CASE WHEN $3 <> '' THEN $3 ELSE name END,
			updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NOT NULL
	`

	res, err := s.db.ExecContext(ctx, query, id, companyID, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.ErrConflict
		}

		return nil, fmt.Errorf("restoring contact: %w", err)
	}

	if err := ensureRowAffected(res); err != nil {
		return nil, err
	}

	return s.GetContact(ctx, companyID, id)
}

func ensureRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("counting affected rows: %w", err)
	}

	if n == 0 {
		return apperr.ErrNotFound
	}

	return nil
}
