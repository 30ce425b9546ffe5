package capture

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/audit"
	"github.com/nexocrm/nexo/internal/capture"
	"github.com/nexocrm/nexo/internal/http/middleware"
	"github.com/nexocrm/nexo/internal/http/render"
)

type Handler struct {
	svc      *capture.Service
	recorder *audit.Recorder
}

func NewHandler(svc *capture.Service, recorder *audit.Recorder) *Handler {
	return &Handler{svc: svc, recorder: recorder}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.capture)
}

type captureRequest struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Document string `json:"document"`
	Name     string `json:"name"`
	Origin   string `json:"origin"`

	DealTitle string `json:"deal_title"`
	DealStage string `json:"deal_stage"`
	DealValue int64  `json:"deal_value"`
}

type capturedContact struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Phone  string    `json:"phone,omitempty"`
	Email  string    `json:"email,omitempty"`
	Type   string    `json:"type"`
	Status string    `json:"status"`
}

type capturedDeal struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	FunnelStage string    `json:"funnel_stage"`
	TotalValue  int64     `json:"total_value"`
	CreatedAt   time.Time `json:"created_at"`
}

type captureResponse struct {
	Action  capture.Action  `json:"action"`
	Contact capturedContact `json:"contact"`
	Deal    capturedDeal    `json:"deal"`
}

// capture is the endpoint behind lead-capture integrations (messaging
// extensions, landing pages). One call, one resolved identity, one new
// deal.
func (h *Handler) capture(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.BadRequest(w, r, "common.bad_request")
		return
	}

	companyID := middleware.CompanyID(r.Context())
	actorID := middleware.ActorID(r.Context())

	result, err := h.svc.Capture(r.Context(), companyID, actorID, capture.Input{
		Phone:     req.Phone,
		Email:     req.Email,
		Document:  req.Document,
		Name:      req.Name,
		Origin:    req.Origin,
		DealTitle: req.DealTitle,
		DealStage: req.DealStage,
		DealValue: req.DealValue,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.recorder.Record(audit.Event{
		Action:       "lead.captured",
		ActorID:      actorID,
		CompanyID:    companyID,
		ResourceType: "deal",
		ResourceID:   result.Deal.ID,
		Changes: map[string]any{
			"contact_id":     result.Contact.ID,
			"contact_action": result.Action,
		},
	})

	render.JSON(w, http.StatusCreated, captureResponse{
		Action: result.Action,
		Contact: capturedContact{
			ID:     result.Contact.ID,
			Name:   result.Contact.Name,
			Phone:  result.Contact.Phone,
			Email:  result.Contact.Email,
			Type:   string(result.Contact.Type),
			Status: string(result.Contact.Status),
		},
		Deal: capturedDeal{
			ID:          result.Deal.ID,
			Title:       result.Deal.Title,
			FunnelStage: result.Deal.FunnelStage,
			TotalValue:  result.Deal.TotalValue,
			CreatedAt:   result.Deal.CreatedAt,
		},
	})
}
