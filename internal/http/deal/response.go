package deal

import (
	"time"

	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/deal"
)

type dealResponse struct {
	ID                uuid.UUID      `json:"id"`
	ContactID         uuid.UUID      `json:"contact_id"`
	OwnerID           *uuid.UUID     `json:"owner_id,omitempty"`
	Title             string         `json:"title"`
	FunnelStage       string         `json:"funnel_stage"`
	Outcome           deal.Outcome   `json:"outcome"`
	TotalValue        int64          `json:"total_value"`
	Origin            string         `json:"origin,omitempty"`
	Probability       int            `json:"probability"`
	ExpectedCloseDate *time.Time     `json:"expected_close_date,omitempty"`
	ClosedAt          *time.Time     `json:"closed_at,omitempty"`
	LossReason        string         `json:"loss_reason,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         *time.Time     `json:"updated_at,omitempty"`
}

func toResponse(d *deal.Deal) dealResponse {
	return dealResponse{
		ID:                d.ID,
		ContactID:         d.ContactID,
		OwnerID:           d.OwnerID,
		Title:             d.Title,
		FunnelStage:       d.FunnelStage,
		Outcome:           d.Outcome(),
		TotalValue:        d.TotalValue,
		Origin:            d.Origin,
		Probability:       d.Probability,
		ExpectedCloseDate: d.ExpectedCloseDate,
		ClosedAt:          d.ClosedAt,
		LossReason:        d.LossReason,
		Metadata:          d.Metadata,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func toResponseList(deals []*deal.Deal) []dealResponse {
	resp := make([]dealResponse, len(deals))
	for i, d := range deals {
		resp[i] = toResponse(d)
	}

	return resp
}

type statsResponse struct {
	Total          int64   `json:"total"`
	Open           int64   `json:"open"`
	Won            int64   `json:"won"`
	Lost           int64   `json:"lost"`
	OpenValue      int64   `json:"open_value"`
	WonValue       int64   `json:"won_value"`
	AvgValue       float64 `json:"avg_value"`
	AvgDaysToClose float64 `json:"avg_days_to_close"`
	ConversionRate float64 `json:"conversion_rate"`
}

func toStatsResponse(s *deal.Stats) statsResponse {
	return statsResponse{
		Total:          s.Total,
		Open:           s.Open,
		Won:            s.Won,
		Lost:           s.Lost,
		OpenValue:      s.OpenValue,
		WonValue:       s.WonValue,
		AvgValue:       s.AvgValue,
		AvgDaysToClose: s.AvgDaysToClose,
		ConversionRate: s.ConversionRate,
	}
}
