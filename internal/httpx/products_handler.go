package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hanifwid/go-shop-api/internal/catalog"
)

type ProductsHandler struct {
	Svc *catalog.Service
}

type productDTO struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
	ProductDesc string          `json:"productDesc,omitempty"`
	ProductURL  string          `json:"productUrl,omitempty"`
}

type productReq struct {
	ProductName string          `json:"productName"`
	Quantity    *int            `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
	ProductDesc string          `json:"productDesc"`
	ProductURL  string          `json:"productUrl"`
}

func toProductDTO(p catalog.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		ProductName: p.Name,
		Quantity:    p.Quantity,
		Cost:        p.Cost,
		ProductDesc: p.Description,
		ProductURL:  p.URL,
	}
}

func toProductDTOs(ps []catalog.Product) []productDTO {
	out := make([]productDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductDTO(p))
	}
	return out
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/search", h.search)
		r.Get("/max-cost", h.byMaxCost)
		r.Get("/available", h.available)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Patch("/{id}/quantity", h.setQuantity)
		r.Delete("/{id}", h.delete)
	})
}

func (h *ProductsHandler) reqCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 3*time.Second)
}

// validate applies the field-level constraints: name required, quantity and
// cost non-negative.
func (req *productReq) validate() string {
	if req.ProductName == "" {
		return "product name is required"
	}
	if req.Quantity == nil {
		return "quantity is required"
	}
	if *req.Quantity < 0 {
		return "quantity cannot be negative"
	}
	if req.Cost.IsNegative() {
		return "cost cannot be negative"
	}
	return ""
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	ps, err := h.Svc.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Products retrieved successfully", toProductDTOs(ps))
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid product id")
		return
	}
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Product retrieved successfully", toProductDTO(p))
}

func (h *ProductsHandler) search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeBadRequest(w, "name query parameter is required")
		return
	}
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	ps, err := h.Svc.Search(ctx, name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Products retrieved successfully", toProductDTOs(ps))
}

func (h *ProductsHandler) byMaxCost(w http.ResponseWriter, r *http.Request) {
	maxCost, err := decimal.NewFromString(r.URL.Query().Get("maxCost"))
	if err != nil {
		writeBadRequest(w, "invalid maxCost")
		return
	}
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	ps, err := h.Svc.ByMaxCost(ctx, maxCost)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Products retrieved successfully", toProductDTOs(ps))
}

func (h *ProductsHandler) available(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	ps, err := h.Svc.Available(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Available products retrieved successfully", toProductDTOs(ps))
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		writeBadRequest(w, msg)
		return
	}

	ctx, cancel := h.reqCtx(r)
	defer cancel()

	p, err := h.Svc.Create(ctx, catalog.Product{
		Name:        req.ProductName,
		Quantity:    *req.Quantity,
		Cost:        req.Cost,
		Description: req.ProductDesc,
		URL:         req.ProductURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Product created successfully", toProductDTO(p))
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid product id")
		return
	}
	var req productReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		writeBadRequest(w, msg)
		return
	}

	ctx, cancel := h.reqCtx(r)
	defer cancel()

	p, err := h.Svc.Update(ctx, id, catalog.Product{
		Name:        req.ProductName,
		Quantity:    *req.Quantity,
		Cost:        req.Cost,
		Description: req.ProductDesc,
		URL:         req.ProductURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Product updated successfully", toProductDTO(p))
}

func (h *ProductsHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid product id")
		return
	}
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil || quantity < 0 {
		writeBadRequest(w, "quantity must be a non-negative integer")
		return
	}

	ctx, cancel := h.reqCtx(r)
	defer cancel()

	p, err := h.Svc.SetQuantity(ctx, id, quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Product quantity updated successfully", toProductDTO(p))
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, "invalid product id")
		return
	}
	ctx, cancel := h.reqCtx(r)
	defer cancel()

	if err := h.Svc.Delete(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Product deleted successfully", nil)
}
