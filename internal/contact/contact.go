package contact

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type distinguishes identities that are still being worked from paying
// customers. Conversion is one-way: a client never becomes a lead again.
type Type string

const (
	TypeLead   Type = "lead"
	TypeClient Type = "client"
)

// Status is the position of a contact in the qualification lifecycle.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusLost      Status = "lost"
	StatusDiscarded Status = "discarded"
)

// RequiresLossReason reports whether the status demands a non-empty loss
// reason.
func (s Status) RequiresLossReason() bool {
	return s == StatusLost || s == StatusDiscarded
}

// Temperature is an optional qualitative heat rating.
type Temperature string

const (
	TemperatureCold Temperature = "cold"
	TemperatureWarm Temperature = "warm"
	TemperatureHot  Temperature = "hot"
)

// Contact is an identity record scoped to a single company.
type Contact struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	Name           string
	Email          string
	Phone          string
	Document       string
	Type           Type
	Status         Status
	LossReason     string
	Origin         string
	Tags           []string
	Interests      []int64
	OwnerID        *uuid.UUID
	LifetimeValue  int64 // accumulated in cents
	Temperature    *Temperature
	KanbanPosition float64
	LastPurchaseAt *time.Time
	Address        map[string]string
	Metadata       map[string]any
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}

// HasIdentifier reports whether the contact carries at least one of the
// identity keys used for reconciliation.
func (c *Contact) HasIdentifier() bool {
	return c.Phone != "" || c.Email != "" || c.Document != ""
}

// NormalizePhone strips everything but digits so that "+1 (555) 123-4567"
// and "15551234567" reconcile to the same identity.
func NormalizePhone(phone string) string {
	var b strings.Builder

	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
