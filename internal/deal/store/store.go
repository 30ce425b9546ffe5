package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/apperr"
	"github.com/nexocrm/nexo/internal/deal"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectDealColumns = `
	d.id, d.company_id, d.contact_id, d.owner_id, d.title, d.funnel_stage,
	d.total_value, d.origin, d.probability, d.expected_close_date, d.closed_at,
	d.loss_reason, d.metadata, d.created_at, d.updated_at, d.deleted_at
`

func scanDeal(s scanner) (*deal.Deal, error) {
	var (
		d           deal.Deal
		metadataRaw []byte
	)

	if err := s.Scan(
		&d.ID, &d.CompanyID, &d.ContactID, &d.OwnerID, &d.Title, &d.FunnelStage,
		&d.TotalValue, &d.Origin, &d.Probability, &d.ExpectedCloseDate, &d.ClosedAt,
		&d.LossReason, &metadataRaw, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
	); err != nil {
		return nil, err
	}

	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &d.Metadata); err != nil {
			return nil, fmt.Errorf("decoding deal metadata: %w", err)
		}
	}

	return &d, nil
}

// CreateDeal inserts the deal only if its contact resolves to an active
// row in the same tenant. No matching contact means no inserted row, which
// surfaces as ErrNotFound.
func (s *Store) CreateDeal(ctx context.Context, d *deal.Deal) error {
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
			origin, probability, expected_close_date, metadata, created_at, updated_at
		)
		SELECT $1, c.id, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		FROM contacts c
		WHERE c.id = $2 AND c.company_id = $1 AND c.deleted_at IS NULL
		RETURNING id, created_at, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		d.CompanyID,
		d.ContactID,
		d.OwnerID,
		d.Title,
		d.FunnelStage,
		d.TotalValue,
		d.Origin,
		d.Probability,
		d.ExpectedCloseDate,
		metadataRaw,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.ErrNotFound
		}

		return fmt.Errorf("creating deal: %w", err)
	}

	return nil
}

func (s *Store) GetDeal(ctx context.Context, companyID, id uuid.UUID) (*deal.Deal, error) {
	query := `SELECT ` + selectDealColumns + `
		FROM deals d
		WHERE d.id = $1 AND d.company_id = $2 AND d.deleted_at IS NULL`

	d, err := scanDeal(s.db.QueryRowContext(ctx, query, id, companyID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound
		}

		return nil, fmt.Errorf("getting deal: %w", err)
	}

	return d, nil
}

var dealSortColumns = map[string]string{
	"title":       "d.title",
	"created_at":  "d.created_at",
	"total_value": "d.total_value",
	"closed_at":   "d.closed_at",
}

func (s *Store) ListDeals(ctx context.Context, companyID uuid.UUID, filter deal.ListFilter) ([]*deal.Deal, error) {
	query := `SELECT ` + selectDealColumns + `
		FROM deals d
		JOIN contacts c ON d.contact_id = c.id
		WHERE d.company_id = $1 AND d.deleted_at IS NULL`

	args := []any{companyID}
	argIdx := 2

	if filter.ContactID != nil {
		query += fmt.Sprintf(" AND d.contact_id = $%d", argIdx)

		args = append(args, *filter.ContactID)
		argIdx++
	}

	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND d.owner_id = $%d", argIdx)

		args = append(args, *filter.OwnerID)
		argIdx++
	}

	if filter.FunnelStage != nil {
		query += fmt.Sprintf(" AND d.funnel_stage = $%d", argIdx)

		args = append(args, *filter.FunnelStage)
		argIdx++
	}

	if filter.Origin != nil {
		query += fmt.Sprintf(" AND d.origin = $%d", argIdx)

		args = append(args, *filter.Origin)
		argIdx++
	}

	if filter.Outcome != nil {
		switch *filter.Outcome {
		case deal.OutcomeOpen:
			query += " AND d.closed_at IS NULL"
		case deal.OutcomeWon:
			query += " AND d.closed_at IS NOT NULL AND d.funnel_stage = 'won'"
		case deal.OutcomeLost:
			query += " AND d.closed_at IS NOT NULL AND d.funnel_stage = 'lost'"
		}
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (d.title ILIKE $%d OR c.name ILIKE $%d)", argIdx, argIdx)

		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	sortCol, ok := dealSortColumns[filter.SortBy]
	if !ok {
		sortCol = "d.created_at"
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
		return nil, fmt.Errorf("listing deals: %w", err)
	}
	defer rows.Close()

	var deals []*deal.Deal

	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deal: %w", err)
		}

		deals = append(deals, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deal rows: %w", err)
	}

	return deals, nil
}

func (s *Store) UpdateDeal(ctx context.Context, d *deal.Deal) error {
	metadata := d.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	metadataRaw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encoding deal metadata: %w", err)
	}

	query := `
		UPDATE deals
		SET owner_id = $1, title = $2, total_value = $3, origin = $4,
			probability = $5, expected_close_date = $6, metadata = $7,
			updated_at = NOW()
		WHERE id = $8 AND company_id = $9 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		d.OwnerID,
		d.Title,
		d.TotalValue,
		d.Origin,
		d.Probability,
		d.ExpectedCloseDate,
		metadataRaw,
		d.ID,
		d.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("updating deal: %w", err)
	}

	return ensureRowAffected(res)
}

func (s *Store) UpdateStage(ctx context.Context, companyID, id uuid.UUID, stage string) error {
	query := `
		UPDATE deals
		SET funnel_stage = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND closed_at IS NULL AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, stage, id, companyID)
	if err != nil {
		return fmt.Errorf("updating stage: %w", err)
	}

	return ensureRowAffected(res)
}

// WinDeal closes the deal and upgrades its contact atomically. The
// lifetime_value accumulation happens inside the UPDATE so concurrent wins
// for the same contact serialize on the row lock instead of losing writes.
func (s *Store) WinDeal(ctx context.Context, companyID, id uuid.UUID) (*deal.Deal, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning win tx: %w", err)
	}
	defer dbTx.Rollback()

	dealQuery := `
		UPDATE deals
		SET closed_at = NOW(), funnel_stage = 'won', updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND closed_at IS NULL AND deleted_at IS NULL
		RETURNING contact_id, total_value
	`

	var (
		contactID  uuid.UUID
		totalValue int64
	)

	if err := dbTx.QueryRowContext(ctx, dealQuery, id, companyID).Scan(&contactID, &totalValue); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound
		}

		return nil, fmt.Errorf("closing deal: %w", err)
	}

	contactQuery := `
		UPDATE contacts
		SET type = 'client',
			lifetime_value = lifetime_value + $1,
			last_purchase_at = NOW(),
			updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND deleted_at IS NULL
	`

	res, err := dbTx.ExecContext(ctx, contactQuery, totalValue, contactID, companyID)
	if err != nil {
		return nil, fmt.Errorf("upgrading contact: %w", err)
	}

	if err := ensureRowAffected(res); err != nil {
		return nil, fmt.Errorf("upgrading contact: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing win: %w", err)
	}

	return s.GetDeal(ctx, companyID, id)
}

func (s *Store) LoseDeal(ctx context.Context, companyID, id uuid.UUID, reason string) (*deal.Deal, error) {
	query := `
		UPDATE deals
		SET closed_at = NOW(), funnel_stage = 'lost', loss_reason = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND closed_at IS NULL AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, reason, id, companyID)
	if err != nil {
		return nil, fmt.Errorf("losing deal: %w", err)
	}

	if err := ensureRowAffected(res); err != nil {
		return nil, err
	}

	return s.GetDeal(ctx, companyID, id)
}

func (s *Store) ReopenDeal(ctx context.Context, companyID, id uuid.UUID) (*deal.Deal, error) {
	query := `
		UPDATE deals
		SET closed_at = NULL, loss_reason = '', funnel_stage = 'new', updated_at = NOW()
		WHERE id = $1 AND company_id = $2 AND closed_at IS NOT NULL AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id, companyID)
	if err != nil {
		return nil, fmt.Errorf("reopening deal: %w", err)
	}

	if err := ensureRowAffected(res); err != nil {
		return nil, err
	}

	return s.GetDeal(ctx, companyID, id)
}

func (s *Store) SoftDeleteDeal(ctx context.Context, companyID, id uuid.UUID) error {
	query := `
		UPDATE deals
		SET deleted_at = NOW()
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id, companyID)
	if err != nil {
		return fmt.Errorf("deleting deal: %w", err)
	}

	return ensureRowAffected(res)
}

func (s *Store) DealStats(ctx context.Context, companyID uuid.UUID, filter deal.StatsFilter) (*deal.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE closed_at IS NULL),
			COUNT(*) FILTER (WHERE closed_at IS NOT NULL AND funnel_stage = 'won'),
			COUNT(*) FILTER (WHERE closed_at IS NOT NULL AND funnel_stage = 'lost'),
			COALESCE(SUM(total_value) FILTER (WHERE closed_at IS NULL), 0),
			COALESCE(SUM(total_value) FILTER (WHERE closed_at IS NOT NULL AND funnel_stage = 'won'), 0),
			COALESCE(AVG(total_value), 0),
			COALESCE(AVG(EXTRACT(EPOCH FROM (closed_at - created_at)) / 86400.0)
				FILTER (WHERE closed_at IS NOT NULL), 0)
		FROM deals
		WHERE company_id = $1 AND deleted_at IS NULL
	`

	args := []any{companyID}
	argIdx := 2

	if filter.OwnerID != nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argIdx)

		args = append(args, *filter.OwnerID)
		argIdx++
	}

	if filter.Origin != nil {
		query += fmt.Sprintf(" AND origin = $%d", argIdx)

		args = append(args, *filter.Origin)
	}

	var stats deal.Stats

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Open,
		&stats.Won,
		&stats.Lost,
		&stats.OpenValue,
		&stats.WonValue,
		&stats.AvgValue,
		&stats.AvgDaysToClose,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating deal stats: %w", err)
	}

	if closed := stats.Won + stats.Lost; closed > 0 {
		rate := float64(stats.Won) / float64(closed) * 100
		stats.ConversionRate = math.Round(rate*100) / 100
	}

	return &stats, nil
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
