package contact

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nexocrm/nexo/internal/apperr"
	"github.com/nexocrm/nexo/internal/audit"
	"github.com/nexocrm/nexo/internal/contact"
	"github.com/nexocrm/nexo/internal/http/middleware"
	"github.com/nexocrm/nexo/internal/http/render"
)

type Handler struct {
	svc      *contact.Service
	recorder *audit.Recorder
}

func NewHandler(svc *contact.Service, recorder *audit.Recorder) *Handler {
	return &Handler{svc: svc, recorder: recorder}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/convert", h.convert)
	r.Patch("/{id}/position", h.reposition)
}

type createContactRequest struct {
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Phone       string               `json:"phone"`
	Document    string               `json:"document"`
	Type        contact.Type         `json:"type"`
	Status      contact.Status       `json:"status"`
	LossReason  string               `json:"loss_reason"`
	Origin      string               `json:"origin"`
	Tags        []string             `json:"tags"`
	Interests   []int64              `json:"interests"`
	Temperature *contact.Temperature `json:"temperature"`
	Address     map[string]string    `json:"address"`
	Metadata    map[string]any       `json:"metadata"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.BadRequest(w, r, "common.bad_request")
		return
	}

	companyID := middleware.CompanyID(r.Context())
	actorID := middleware.ActorID(r.Context())

	c, err := h.svc.Create(r.Context(), companyID, contact.CreateParams{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Document:    req.Document,
		Type:        req.Type,
		Status:      req.Status,
		LossReason:  req.LossReason,
		Origin:      req.Origin,
		Tags:        req.Tags,
		Interests:   req.Interests,
		OwnerID:     &actorID,
		Temperature: req.Temperature,
		Address:     req.Address,
		Metadata:    req.Metadata,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.recorder.Record(audit.Event{
		Action:       "contact.created",
		ActorID:      actorID,
		CompanyID:    companyID,
		ResourceType: "contact",
		ResourceID:   c.ID,
		Changes:      map[string]any{"name": c.Name, "type": c.Type, "status": c.Status},
	})

	render.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := contact.ListFilter{
		Search: r.URL.Query().Get("search"),
		Tag:    r.URL.Query().Get("tag"),
		SortBy: r.URL.Query().Get("sort"),
	}

	if s := r.URL.Query().Get("type"); s != "" {
		filter.Type = new(contact.Type(s))
	}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(contact.Status(s))
	}

	if s := r.URL.Query().Get("origin"); s != "" {
		filter.Origin = new(s)
	}

	if s := r.URL.Query().Get("owner_id"); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			filter.OwnerID = new(id)
		}
	}

	filter.SortDesc = r.URL.Query().Get("dir") == "desc"
	filter.Limit = queryInt(r, "limit")
	filter.Offset = queryInt(r, "offset")

	contacts, err := h.svc.List(r.Context(), middleware.CompanyID(r.Context()), filter)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(contacts))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, r, "common.invalid_id")
		return
	}

	c, err := h.svc.Get(r.Context(), middleware.CompanyID(r.Context()), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			render.NotFoundKeyed(w, r, "contact.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	render.JSON(w, http.StatusOK, toResponse(c))
}

type updateContactRequest struct {
	Name        *string              `json:"name"`
	Email       *string              `json:"email"`
	Phone       *string              `json:"phone"`
	Document    *string              `json:"document"`
	Status      *contact.Status      `json:"status"`
	LossReason  *string              `json:"loss_reason"`
	Origin      *string              `json:"origin"`
	Tags        []string             `json:"tags"`
	Interests   []int64              `json:"interests"`
	OwnerID     *uuid.UUID           `json:"owner_id"`
	Temperature *contact.Temperature `json:"temperature"`
	Address     map[string]string    `json:"address"`
	Metadata    map[string]any       `json:"metadata"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, r, "common.invalid_id")
		return
	}

	var req updateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.BadRequest(w, r, "common.bad_request")
		return
	}

	companyID := middleware.CompanyID(r.Context())

	c, err := h.svc.Update(r.Context(), companyID, id, contact.UpdateParams{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Document:    req.Document,
		Status:      req.Status,
		LossReason:  req.LossReason,
		Origin:      req.Origin,
		Tags:        req.Tags,
		Interests:   req.Interests,
		OwnerID:     req.OwnerID,
		Temperature: req.Temperature,
		Address:     req.Address,
		Metadata:    req.Metadata,
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
		Action:       "contact.updated",
		ActorID:      middleware.ActorID(r.Context()),
		CompanyID:    companyID,
		ResourceType: "contact",
		ResourceID:   c.ID,
		Changes:      map[string]any{"status": c.Status},
	})

	render.JSON(w, http.StatusOK, toResponse(c))
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
			render.NotFoundKeyed(w, r, "contact.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	h.recorder.Record(audit.Event{
		Action:       "contact.deleted",
		ActorID:      middleware.ActorID(r.Context()),
		CompanyID:    companyID,
		ResourceType: "contact",
		ResourceID:   id,
	})

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) convert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, r, "common.invalid_id")
		return
	}

	companyID := middleware.CompanyID(r.Context())

	c, err := h.svc.ConvertToClient(r.Context(), companyID, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			render.NotFoundKeyed(w, r, "contact.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	h.recorder.Record(audit.Event{
		Action:       "contact.converted",
		ActorID:      middleware.ActorID(r.Context()),
		CompanyID:    companyID,
		ResourceType: "contact",
		ResourceID:   c.ID,
		Changes:      map[string]any{"type": c.Type},
	})

	render.JSON(w, http.StatusOK, toResponse(c))
}

type repositionRequest struct {
	Status   contact.Status    `json:"status"`
	AnchorID *uuid.UUID        `json:"anchor_id"`
	Place    contact.Placement `json:"place"`
}

func (h *Handler) reposition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.BadRequest(w, r, "common.invalid_id")
		return
	}

	var req repositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.BadRequest(w, r, "common.bad_request")
		return
	}

	companyID := middleware.CompanyID(r.Context())

	c, err := h.svc.Reposition(r.Context(), companyID, id, req.Status, req.AnchorID, req.Place)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			render.NotFoundKeyed(w, r, "contact.not_found")
			return
		}

		render.Error(w, r, err)

		return
	}

	h.recorder.Record(audit.Event{
		Action:       "contact.repositioned",
		ActorID:      middleware.ActorID(r.Context()),
		CompanyID:    companyID,
		ResourceType: "contact",
		ResourceID:   c.ID,
		Changes:      map[string]any{"status": c.Status, "kanban_position": c.KanbanPosition},
	})

	render.JSON(w, http.StatusOK, toResponse(c))
}

func queryInt(r *http.Request, key string) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return n
}
