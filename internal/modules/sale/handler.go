package sale

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prosthetix/prosthetics-backend/internal/modules/auth"
)

// Handler exposes sale HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Get("/", h.list)                // GET  /api/sales
		r.Post("/", h.create)             // POST /api/sales
		r.Get("/report", h.report)        // GET  /api/sales/report
		r.Get("/{id}", h.get)             // GET  /api/sales/{id}
		r.Get("/{id}/invoice", h.invoice) // GET  /api/sales/{id}/invoice
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	record, err := h.service.Create(r.Context(), actor.ID, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, record)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, record)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		Customer:      q.Get("customer"),
		PaymentMethod: q.Get("payment_method"),
		PaymentStatus: q.Get("payment_status"),
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = v
	}
	if v, err := time.Parse("2006-01-02", q.Get("start_date")); err == nil {
		filter.StartDate = &v
	}
	if v, err := time.Parse("2006-01-02", q.Get("end_date")); err == nil {
		end := v.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	sales, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondErr(w, err)
		return
	}
	if sales == nil {
		sales = []*Sale{}
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"count": len(sales),
		"total": total,
		"data":  sales,
	})
}

func (h *Handler) invoice(w http.ResponseWriter, r *http.Request) {
	pdf, filename, err := h.service.InvoicePDF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(pdf)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.service.Report(r.Context(), q.Get("period"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, report)
}

// respondErr maps a structured workflow error onto the HTTP status the
// caller expects. Foreign errors never leak a message beyond 500.
func respondErr(w http.ResponseWriter, err error) {
	switch KindOf(err) {
	case KindValidation, KindInsufficientStock:
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case KindNotFound:
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case KindPersistence:
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
