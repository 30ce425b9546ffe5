package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InsertEvent(ctx context.Context, e audit.Event) error {
	changes := e.Changes
	if changes == nil {
		changes = map[string]any{}
	}

	changesRaw, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("encoding audit changes: %w", err)
	}

	// Bulk actions such as imports have no single resource.
	var resourceID any
	if e.ResourceID != uuid.Nil {
		resourceID = e.ResourceID
	}

	query := `
		INSERT INTO audit_events (company_id, actor_id, action, resource_type, resource_id, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err = s.db.ExecContext(ctx, query,
		e.CompanyID,
		e.ActorID,
		e.Action,
		e.ResourceType,
		resourceID,
		changesRaw,
	)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}

	return nil
}
