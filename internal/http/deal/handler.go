package deal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/apperr"
	"github.com/nexocrm/nexo/internal/audit"
	"github.com/nexocrm/nexo/internal/deal"
	"github.com/nexocrm/nexo/internal/http/middleware"
	"github.com/nexocrm/nexo/internal/http/render"
)

type Handler struct {
	svc      *deal.Service
	recorder *audit.Recorder
}

func NewHandler(svc *deal.Service, recorder *audit.Recorder) *Handler {
	return &Handler{svc: svc, recorder: recorder}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/stats", h.stats)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/stage", h.updateStage)
	r.Post("/{id}/win", h.win)
	r.Post("/{id}/lose", h.lose)
	r.Post("/{id}/reopen", h.reopen)
}

type createDealRequest struct {
	ContactID         uuid.UUID      `json:"contact_id"`
	Title             string         `json:"title"`
	FunnelStage       string         `json:"funnel_stage"`
	TotalValue        int64          `json:"total_value"`
	Origin            string         `json:"origin"`
	Probability       int            `json:"probability"`
	ExpectedCloseDate *time.Time     `json:"expected_close_date"`
	Metadata          map[string]any `json:"metadata"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.BadRequest(w, r, "common.bad_request")
		return
	}

	companyID := middleware.CompanyID(r.Context())
	actorID := middleware.ActorID(r.Context())

	d, err := h.svc.Create(r.Context(), companyID, deal.CreateParams{
		ContactID:         req.ContactID,
		OwnerID:           &actorID,
		Title:             req.Title,
		FunnelStage:       req.FunnelStage,
		TotalValue:        req.TotalValue,
		Origin:            req.Origin,
		Probability:       req.Probability,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Metadata:          req.Metadata,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			render.NotFoundKeyed(w, r, "contact.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	h.recorder.Record(audit.Event{
		Action:       "deal.created",
		ActorID:      actorID,
		CompanyID:    companyID,
		ResourceType: "deal",
		ResourceID:   d.ID,
		Changes:      map[string]any{"title": d.Title, "contact_id": d.ContactID, "total_value": d.TotalValue},
	})

	render.JSON(w, http.StatusCreated, toResponse(d))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := deal.ListFilter{
		Search: r.URL.Query().Get("search"),
		SortBy: r.URL.Query().Get("sort"),
	}

	if s := r.URL.Query().Get("contact_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.ContactID = new(id)
		}
	}

	if s := r.URL.Query().Get("owner_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.OwnerID = new(id)
		}
	}

	if s := r.URL.Query().Get("stage"); s != "" {
		filter.FunnelStage = new(s)
	}

	if s := r.URL.Query().Get("origin"); s != "" {
		filter.Origin = new(s)
	}

	if s := r.URL.Query().Get("outcome"); s != "" {
		filter.Outcome = new(deal.Outcome(s))
	}

	filter.SortDesc = r.URL.Query().Get("dir") == "desc"

	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.Limit = n
		}
	}

	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.Offset = n
		}
	}

	deals, err := h.svc.List(r.Context(), middleware.CompanyID(r.Context()), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(deals))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	filter := deal.StatsFilter{}

	if s := r.URL.Query().Get("owner_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.OwnerID = new(id)
		}
	}

	if s := r.URL.Query().Get("origin"); s != "" {
		filter.Origin = new(s)
	}

	stats, err := h.svc.Stats(r.Context(), middleware.CompanyID(r.Context()), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toStatsResponse(stats))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, r, "common.invalid_id")
		return
	}

	d, err := h.svc.Get(r.Context(), middleware.CompanyID(r.Context()), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			render.NotFoundKeyed(w, r, "deal.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	render.JSON(w, http.StatusOK, toResponse(d))
}

type updateDealRequest struct {
	OwnerID           *uuid.UUID     `json:"owner_id"`
	Title             *string        `json:"title"`
	TotalValue        *int64         `json:"total_value"`
	Origin            *string        `json:"origin"`
	Probability       *int           `json:"probability"`
	ExpectedCloseDate *time.Time     `json:"expected_close_date"`
	Metadata          map[string]any `json:"metadata"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, r, "common.invalid_id")
		return
	}

	var req updateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.BadRequest(w, r, "common.bad_request")
		return
	}

	companyID := middleware.CompanyID(r.Context())

	d, err := h.svc.Update(r.Context(), companyID, id, deal.UpdateParams{
		OwnerID:           req.OwnerID,
		Title:             req.Title,
		TotalValue:        req.TotalValue,
		Origin:            req.Origin,
		Probability:       req.Probability,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Metadata:          req.Metadata,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			render.NotFoundKeyed(w, r, "deal.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	h.recorder.Record(audit.Event{
		Action:       "deal.updated",
		ActorID:      middleware.ActorID(r.Context()),
		CompanyID:    companyID,
		ResourceType: "deal",
		ResourceID:   d.ID,
		Changes:      map[string]any{"title": d.Title, "total_value": d.TotalValue},
	})

	render.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, r, "common.invalid_id")
		return
	}

	companyID := middleware.CompanyID(r.Context())

	if err := h.svc.SoftDelete(r.Context(), companyID, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			render.NotFoundKeyed(w, r, "deal.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	h.recorder.Record(audit.Event{
		Action:       "deal.deleted",
		ActorID:      middleware.ActorID(r.Context()),
		CompanyID:    companyID,
		ResourceType: "deal",
		ResourceID:   id,
	})

	w.WriteHeader(http.StatusNoContent)
}

type updateStageRequest struct {
	Stage string `json:"stage"`
}

func (h *Handler) updateStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, r, "common.invalid_id")
		return
	}

	var req updateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.BadRequest(w, r, "common.bad_request")
		return
	}

	companyID := middleware.CompanyID(r.Context())

	d, err := h.svc.UpdateStage(r.Context(), companyID, id, req.Stage)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			render.NotFoundKeyed(w, r, "deal.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	h.recorder.Record(audit.Event{
		Action:       "deal.stage_changed",
		ActorID:      middleware.ActorID(r.Context()),
		CompanyID:    companyID,
		ResourceType: "deal",
		ResourceID:   d.ID,
		Changes:      map[string]any{"funnel_stage": d.FunnelStage},
	})

	render.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) win(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, r, "common.invalid_id")
		return
	}

	companyID := middleware.CompanyID(r.Context())

	d, err := h.svc.MarkAsWon(r.Context(), companyID, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			render.NotFoundKeyed(w, r, "deal.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	h.recorder.Record(audit.Event{
		Action:       "deal.won",
		ActorID:      middleware.ActorID(r.Context()),
		CompanyID:    companyID,
		ResourceType: "deal",
		ResourceID:   d.ID,
		Changes:      map[string]any{"total_value": d.TotalValue, "contact_id": d.ContactID},
	})

	render.JSON(w, http.StatusOK, toResponse(d))
}

type loseRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) lose(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, r, "common.invalid_id")
		return
	}

	var req loseRequest
	if r.Body != nil {
		// Body is optional: lost without a reason stores the sentinel.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	companyID := middleware.CompanyID(r.Context())

	d, err := h.svc.MarkAsLost(r.Context(), companyID, id, req.Reason)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			render.NotFoundKeyed(w, r, "deal.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	h.recorder.Record(audit.Event{
		Action:       "deal.lost",
		ActorID:      middleware.ActorID(r.Context()),
		CompanyID:    companyID,
		ResourceType: "deal",
		ResourceID:   d.ID,
		Changes:      map[string]any{"loss_reason": d.LossReason},
	})

	render.JSON(w, http.StatusOK, toResponse(d))
}

func (h *Handler) reopen(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, r, "common.invalid_id")
		return
	}

	companyID := middleware.CompanyID(r.Context())

	d, err := h.svc.Reopen(r.Context(), companyID, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			render.NotFoundKeyed(w, r, "deal.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	h.recorder.Record(audit.Event{
		Action:       "deal.reopened",
		ActorID:      middleware.ActorID(r.Context()),
		CompanyID:    companyID,
		ResourceType: "deal",
		ResourceID:   d.ID,
	})

	render.JSON(w, http.StatusOK, toResponse(d))
}
