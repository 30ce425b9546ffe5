package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/apperr"
	"github.com/nexocrm/nexo/internal/contact"
)

// RepositionContact moves a contact into the given status lane relative to
// an anchor. Ordering keys are sparse floats: a move writes one row and
// only a collapsed gap forces a lane-wide rebalance.
func (s *Store) RepositionContact(ctx context.Context, companyID, id uuid.UUID, status contact.Status, anchorID *uuid.UUID, place contact.Placement) (*contact.Contact, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning reposition tx: %w", err)
	}
	defer dbTx.Rollback()

	position, err := targetPosition(ctx, dbTx, companyID, status, anchorID, place)
	if err != nil {
		return nil, err
	}

	if math.IsNaN(position) {
		// Neighboring keys collapsed; respread the lane and try again.
		if err := rebalanceLane(ctx, dbTx, companyID, status); err != nil {
			return nil, err
		}

		position, err = targetPosition(ctx, dbTx, companyID, status, anchorID, place)
		if err != nil {
			return nil, err
		}
	}

	query := `
		UPDATE contacts
		SET status = $1, kanban_position = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4 AND deleted_at IS NULL
	`

	res, err := dbTx.ExecContext(ctx, query, status, position, id, companyID)
	if err != nil {
		return nil, fmt.Errorf("repositioning contact: %w", err)
	}

	if err := ensureRowAffected(res); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing reposition: %w", err)
	}

	return s.GetContact(ctx, companyID, id)
}

// targetPosition computes the new ordering key. It returns NaN when the
// surrounding keys are too close to split.
func targetPosition(ctx context.Context, dbTx *sql.Tx, companyID uuid.UUID, status contact.Status, anchorID *uuid.UUID, place contact.Placement) (float64, error) {
	if anchorID == nil {
		return edgePosition(ctx, dbTx, companyID, status, place)
	}

	var anchorPos float64

	anchorQuery := `
		SELECT kanban_position FROM contacts
		WHERE id = $1 AND company_id = $2 AND status = $3 AND deleted_at IS NULL
	`

	err := dbTx.QueryRowContext(ctx, anchorQuery, *anchorID, companyID, status).Scan(&anchorPos)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, apperr.Validation("anchor_id", "contact.anchor_not_found")
		}

		return 0, fmt.Errorf("loading anchor position: %w", err)
	}

	neighborQuery := `
		SELECT kanban_position FROM contacts
		WHERE company_id = $1 AND status = $2 AND deleted_at IS NULL AND kanban_position < $3
		ORDER BY kanban_position DESC
		LIMIT 1
	`
	if place == contact.PlaceAfter {
		neighborQuery = `
			SELECT kanban_position FROM contacts
			WHERE company_id = $1 AND status = $2 AND deleted_at IS NULL AND kanban_position > $3
			ORDER BY kanban_position ASC
			LIMIT 1
		`
	}

	var neighborPos float64

	err = dbTx.QueryRowContext(ctx, neighborQuery, companyID, status, anchorPos).Scan(&neighborPos)
	if err != nil {
		if err == sql.ErrNoRows {
			// Anchor is at the edge of the lane.
			if place == contact.PlaceAfter {
				return anchorPos + laneGap, nil
			}

			return anchorPos - laneGap, nil
		}

		return 0, fmt.Errorf("loading neighbor position: %w", err)
	}

	if math.Abs(anchorPos-neighborPos) < laneEpsilon {
		return math.NaN(), nil
	}

	return (anchorPos + neighborPos) / 2, nil
}

func edgePosition(ctx context.Context, dbTx *sql.Tx, companyID uuid.UUID, status contact.Status, place contact.Placement) (float64, error) {
	query := `
		SELECT COALESCE(MAX(kanban_position), 0) FROM contacts
		WHERE company_id = $1 AND status = $2 AND deleted_at IS NULL
	`
	if place == contact.PlaceBefore {
		query = `
			SELECT COALESCE(MIN(kanban_position), 0) FROM contacts
			WHERE company_id = $1 AND status = $2 AND deleted_at IS NULL
		`
	}

	var edge float64
	if err := dbTx.QueryRowContext(ctx, query, companyID, status).Scan(&edge); err != nil {
		return 0, fmt.Errorf("loading lane edge: %w", err)
	}

	if place == contact.PlaceBefore {
		return edge - laneGap, nil
	}

	return edge + laneGap, nil
}

// rebalanceLane respreads a lane's ordering keys at laneGap intervals.
// This is the only reposition path that touches more than one row.
func rebalanceLane(ctx context.Context, dbTx *sql.Tx, companyID uuid.UUID, status contact.Status) error {
	query := `
		UPDATE contacts c
		SET kanban_position = ranked.rn * $3
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY kanban_position, created_at) AS rn
			FROM contacts
			WHERE company_id = $1 AND status = $2 AND deleted_at IS NULL
		) ranked
		WHERE c.id = ranked.id
	`

	if _, err := dbTx.ExecContext(ctx, query, companyID, status, laneGap); err != nil {
		return fmt.Errorf("rebalancing lane: %w", err)
	}

	return nil
}
