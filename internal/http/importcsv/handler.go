package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexocrm/nexo/internal/audit"
	"github.com/nexocrm/nexo/internal/http/middleware"
	"github.com/nexocrm/nexo/internal/http/render"
	"github.com/nexocrm/nexo/internal/importer"
)

// maxUploadSize caps spreadsheet uploads at 10 MiB.
const maxUploadSize = 10 << 20

type Handler struct {
	svc      *importer.Service
	recorder *audit.Recorder
}

func NewHandler(svc *importer.Service, recorder *audit.Recorder) *Handler {
	return &Handler{svc: svc, recorder: recorder}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/contacts", h.importContacts)
}

type skippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type summaryResponse struct {
	Created  int          `json:"created"`
	Found    int          `json:"found"`
	Restored int          `json:"restored"`
	Skipped  []skippedRow `json:"skipped"`
}

func (h *Handler) importContacts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.BadRequest(w, r, "common.bad_request")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		render.BadRequest(w, r, "common.bad_request")
		return
	}
	defer file.Close()

	companyID := middleware.CompanyID(r.Context())
	actorID := middleware.ActorID(r.Context())
	origin := r.FormValue("origin")

	summary, err := h.svc.ImportContacts(r.Context(), companyID, actorID, file, origin)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.recorder.Record(audit.Event{
		Action:       "contacts.imported",
		ActorID:      actorID,
		CompanyID:    companyID,
		ResourceType: "import",
		Changes: map[string]any{
			"created":  summary.Created,
			"found":    summary.Found,
			"restored": summary.Restored,
			"skipped":  len(summary.Skipped),
		},
	})

	resp := summaryResponse{
		Created:  summary.Created,
		Found:    summary.Found,
		Restored: summary.Restored,
		Skipped:  make([]skippedRow, 0, len(summary.Skipped)),
	}
	for _, s := range summary.Skipped {
		resp.Skipped = append(resp.Skipped, skippedRow{Line: s.Line, Reason: s.Reason})
	}

	render.JSON(w, http.StatusOK, resp)
}
