// Package handler exposes the order and payment services over HTTP.
//
// Request bodies are validated by the domain schema layer; this package only
// translates between HTTP and the domain: path parameters, status codes, and
// the JSON error envelope.
package handler

import (
	"net/http"

	"github.com/entrx/orderpay/internal/domain/order"
	"github.com/entrx/orderpay/internal/domain/payment"
)

// Handler routes API requests to the order and payment services.
type Handler struct {
	orders   *order.Service
	payments *payment.Service
}

// NewHandler constructs a Handler with the required domain services.
func NewHandler(orders *order.Service, payments *payment.Service) *Handler {
	return &Handler{
		orders:   orders,
		payments: payments,
	}
}

// Routes returns a mux with all API routes registered under /api.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.HandleFunc("PATCH /api/orders/{id}", h.updateOrder)
	mux.HandleFunc("POST /api/payments", h.createPayment)
	mux.HandleFunc("GET /api/payments/{id}", h.getPayment)
	mux.HandleFunc("PATCH /api/payments/{id}", h.updatePayment)
	return mux
}
