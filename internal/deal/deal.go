package deal

import (
	"time"

	"github.com/google/uuid"
)

// Funnel stages are tenant-defined vocabulary, not an enum. Only the
// terminal sentinels below are reserved: they are written by the win/loss
// transitions and rejected as plain stage updates.
const (
	StageNew  = "new"
	StageWon  = "won"
	StageLost = "lost"
)

// ReservedStage reports whether a stage name is a terminal sentinel.
func ReservedStage(stage string) bool {
	return stage == StageWon || stage == StageLost
}

// LossReasonUnspecified is stored when a deal is lost without a reason,
// so the audit trail never carries an empty cause.
const LossReasonUnspecified = "unspecified"

// Outcome is the closure state of a deal.
type Outcome string

const (
	OutcomeOpen Outcome = "open"
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
)

// Deal is a sales opportunity bound to exactly one contact. A contact may
// hold any number of deals, past or concurrent.
type Deal struct {
	ID                uuid.UUID
	CompanyID         uuid.UUID
	ContactID         uuid.UUID
	OwnerID           *uuid.UUID
	Title             string
	FunnelStage       string
	TotalValue        int64 // cents
	Origin            string
	Probability       int
	ExpectedCloseDate *time.Time
	ClosedAt          *time.Time
	LossReason        string
	Metadata          map[string]any
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	DeletedAt         *time.Time
}

// Closed reports whether the deal has been won or lost.
func (d *Deal) Closed() bool {
	return d.ClosedAt != nil
}

// Outcome derives the closure state from closed_at and the stage sentinel.
func (d *Deal) Outcome() Outcome {
	if d.ClosedAt == nil {
		return OutcomeOpen
	}

	if d.FunnelStage == StageLost {
		return OutcomeLost
	}

	return OutcomeWon
}
