package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/amos-ugbedah/Jason-E-Commerce/internal/checkout"
)

type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	validate     *validator.Validate
	timeout      time.Duration
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orchestrator,
		validate:     validator.New(),
		timeout:      timeout,
	}
}

type BeginCheckoutRequestDTO struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req BeginCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_email", "a valid email is required")
		return
	}

	auth, err := h.orchestrator.Begin(ctx, req.Email)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
			return
		}
		respondError(w, http.StatusBadGateway, "payment_unavailable", "could not start payment")
		return
	}

	respondJSON(w, http.StatusCreated, auth)
}

func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	reference := chi.URLParam(r, "reference")

	if err := h.orchestrator.Complete(ctx, reference); err != nil {
		switch {
		case errors.Is(err, checkout.ErrUnknownReference):
			respondError(w, http.StatusNotFound, "not_found", "unknown checkout reference")
		case errors.Is(err, checkout.ErrPaymentNotConfirmed):
			respondError(w, http.StatusPaymentRequired, "payment_not_confirmed", "payment has not been confirmed")
		default:
			respondError(w, http.StatusBadGateway, "payment_unavailable", "could not verify payment")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"reference": reference,
		"status":    "completed",
	})
}
