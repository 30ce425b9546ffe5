package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/contact"
)

type contactResponse struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Email          string               `json:"email,omitempty"`
	Phone          string               `json:"phone,omitempty"`
	Document       string               `json:"document,omitempty"`
	Type           contact.Type         `json:"type"`
	Status         contact.Status       `json:"status"`
	LossReason     string               `json:"loss_reason,omitempty"`
	Origin         string               `json:"origin,omitempty"`
	Tags           []string             `json:"tags,omitempty"`
	Interests      []int64              `json:"interests,omitempty"`
	OwnerID        *uuid.UUID           `json:"owner_id,omitempty"`
	LifetimeValue  int64                `json:"lifetime_value"`
	Temperature    *contact.Temperature `json:"temperature,omitempty"`
	KanbanPosition float64              `json:"kanban_position"`
	LastPurchaseAt *time.Time           `json:"last_purchase_at,omitempty"`
	Address        map[string]string    `json:"address,omitempty"`
	Metadata       map[string]any       `json:"metadata,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      *time.Time           `json:"updated_at,omitempty"`
}

func toResponse(c *contact.Contact) contactResponse {
	return contactResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Document:       c.Document,
		Type:           c.Type,
		Status:         c.Status,
		LossReason:     c.LossReason,
		Origin:         c.Origin,
		Tags:           c.Tags,
		Interests:      c.Interests,
		OwnerID:        c.OwnerID,
		LifetimeValue:  c.LifetimeValue,
		Temperature:    c.Temperature,
		KanbanPosition: c.KanbanPosition,
		LastPurchaseAt: c.LastPurchaseAt,
		Address:        c.Address,
		Metadata:       c.Metadata,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toResponseList(contacts []*contact.Contact) []contactResponse {
	resp := make([]contactResponse, len(contacts))
	for i, c := range contacts {
		resp[i] = toResponse(c)
	}

	return resp
}
