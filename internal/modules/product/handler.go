package product

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Handler exposes product HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.list)                          // GET    /api/products
		r.Post("/", h.create)                       // POST   /api/products
		r.Get("/low-stock", h.lowStock)             // GET    /api/products/low-stock
		r.Get("/inventory-value", h.inventoryValue) // GET /api/products/inventory-value
		r.Get("/{id}", h.get)                       // GET    /api/products/{id}
		r.Put("/{id}", h.update)                    // PUT    /api/products/{id}
		r.Delete("/{id}", h.delete)                 // DELETE /api/products/{id}
		r.Patch("/{id}/stock", h.adjustStock)       // PATCH  /api/products/{id}/stock
		r.Put("/{id}/photo", h.uploadPhoto)         // PUT    /api/products/{id}/photo
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := parseListFilter(r)
	products, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if products == nil {
		products = []*Product{}
	}
	respond(w, http.StatusOK, listEnvelope{
		Count:      len(products),
		Total:      total,
		Pagination: paginate(filter.Page, filter.Limit, total),
		Data:       products,
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.AdjustStock(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListLowStock(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if products == nil {
		products = []*Product{}
	}
	respond(w, http.StatusOK, listEnvelope{Count: len(products), Total: len(products), Data: products})
}

func (h *Handler) inventoryValue(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.InventoryValue(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, v)
}

func (h *Handler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "please upload a file"})
		return
	}
	defer file.Close()
	name, err := h.service.UploadPhoto(r.Context(), chi.URLParam(r, "id"), file, header)
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError && strings.Contains(err.Error(), "please upload") {
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"image": name})
}

// ── helpers ───────────────────────────────────────────────────────────────────

func parseListFilter(r *http.Request) ListFilter {
	q := r.URL.Query()
	filter := ListFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = v
	}
	if v, err := decimal.NewFromString(q.Get("min_price")); err == nil {
		filter.MinPrice = &v
	}
	if v, err := decimal.NewFromString(q.Get("max_price")); err == nil {
		filter.MaxPrice = &v
	}
	return filter
}

type pageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type pagination struct {
	Next *pageRef `json:"next,omitempty"`
	Prev *pageRef `json:"prev,omitempty"`
}

type listEnvelope struct {
	Count      int         `json:"count"`
	Total      int         `json:"total"`
	Pagination *pagination `json:"pagination,omitempty"`
	Data       interface{} `json:"data"`
}

func paginate(page, limit, total int) *pagination {
	p := &pagination{}
	if page*limit < total {
		p.Next = &pageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		p.Prev = &pageRef{Page: page - 1, Limit: limit}
	}
	if p.Next == nil && p.Prev == nil {
		return nil
	}
	return p
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrInvalidQuantity):
		return http.StatusBadRequest
	case strings.Contains(err.Error(), "invalid"), strings.Contains(err.Error(), "must not"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
