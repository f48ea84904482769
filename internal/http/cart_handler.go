package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/cart"
	"github.com/amos-ugbedah/Jason-E-Commerce/internal/catalog"
	"github.com/amos-ugbedah/Jason-E-Commerce/internal/domain"
)

// ProductSource resolves catalog products for add-by-id requests.
// Consumers define this interface, not the catalog service.
type ProductSource interface {
	Get(ctx context.Context, id string) (*catalog.Product, error)
}

type CartHandler struct {
	engine   *cart.Engine
	products ProductSource
	validate *validator.Validate
	timeout  time.Duration
}

func NewCartHandler(engine *cart.Engine, products ProductSource, timeout time.Duration) *CartHandler {
	return &CartHandler{
		engine:   engine,
		products: products,
		validate: validator.New(),
		timeout:  timeout,
	}
}

type ProductDTO struct {
	ID              string   `json:"id" validate:"required"`
	Name            string   `json:"name"`
	Price           *float64 `json:"price" validate:"required"`
	Currency        string   `json:"currency"`
	FreeDelivery    bool     `json:"free_delivery"`
	DiscountPercent float64  `json:"discount_percentage"`
	StockQuantity   int      `json:"stock_quantity"`
}

// AddItemRequestDTO accepts either an inline product snapshot or a bare
// product_id resolved against the catalog, in which case the server's own
// pricing is trusted rather than the client's.
type AddItemRequestDTO struct {
	ProductID string      `json:"product_id,omitempty"`
	Product   *ProductDTO `json:"product,omitempty"`
	Quantity  int         `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ApplyVoucherRequestDTO struct {
	Amount float64 `json:"amount" validate:"gte=0"`
}

type SetCurrencyRequestDTO struct {
	Currency string `json:"currency" validate:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// CartView is the response shape for every cart endpoint: the full state
// plus the derived totals, all in the display currency.
type CartView struct {
	Items              []domain.LineItem `json:"items"`
	ItemCount          int               `json:"item_count"`
	Subtotal           float64           `json:"subtotal"`
	DeliveryFee        float64           `json:"delivery_fee"`
	VoucherDiscount    float64           `json:"voucher_discount"`
	Total              float64           `json:"total"`
	Currency           string            `json:"currency"`
	UsingFallbackRates bool              `json:"using_fallback_rates"`
	LastRateUpdate     *time.Time        `json:"last_rate_update,omitempty"`
}

func (h *CartHandler) cartView() CartView {
	state := h.engine.State()
	return CartView{
		Items:              state.Items,
		ItemCount:          h.engine.ItemCount(),
		Subtotal:           h.engine.Subtotal(),
		DeliveryFee:        h.engine.DeliveryFee(),
		VoucherDiscount:    state.VoucherDiscount,
		Total:              h.engine.Total(),
		Currency:           state.Currency,
		UsingFallbackRates: h.engine.UsingFallbackRates(),
		LastRateUpdate:     h.engine.LastRateUpdate(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	view := h.cartView()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"item_count":           view.ItemCount,
		"subtotal":             view.Subtotal,
		"delivery_fee":         view.DeliveryFee,
		"total":                view.Total,
		"currency":             view.Currency,
		"using_fallback_rates": view.UsingFallbackRates,
	})
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// Parse request body
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var input domain.ProductInput
	switch {
	case req.Product != nil:
		if err := h.validate.Struct(req.Product); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		input = domain.ProductInput{
			ID:              req.Product.ID,
			Name:            req.Product.Name,
			Price:           req.Product.Price,
			Currency:        req.Product.Currency,
			FreeDelivery:    req.Product.FreeDelivery,
			DiscountPercent: req.Product.DiscountPercent,
			StockQuantity:   req.Product.StockQuantity,
		}
	case req.ProductID != "":
		if h.products == nil {
			respondError(w, http.StatusServiceUnavailable, "catalog_unavailable", "catalog lookups are not available")
			return
		}
		product, err := h.products.Get(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				respondError(w, http.StatusNotFound, "not_found", "product not found")
				return
			}
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
			return
		}
		input = product.CartInput()
	default:
		respondError(w, http.StatusBadRequest, "invalid_request", "product or product_id is required")
		return
	}

	if err := h.engine.AddItem(ctx, input, req.Quantity); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, h.cartView())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	if strings.TrimSpace(productID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must not be empty")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	h.engine.UpdateQuantity(ctx, productID, req.Quantity)
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	if strings.TrimSpace(productID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must not be empty")
		return
	}

	h.engine.RemoveItem(ctx, productID)
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.engine.Clear(ctx)
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *CartHandler) ApplyVoucher(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ApplyVoucherRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount", "amount must not be negative")
		return
	}

	h.engine.ApplyVoucher(ctx, req.Amount)
	respondJSON(w, http.StatusOK, h.cartView())
}

func (h *CartHandler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SetCurrencyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_currency", "currency is required")
		return
	}

	h.engine.SetDisplayCurrency(ctx, req.Currency)
	respondJSON(w, http.StatusOK, h.cartView())
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: "",
	})
}
