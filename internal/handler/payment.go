package handler

import (
	"net/http"

	"github.com/entrx/orderpay/internal/domain/payment"
)

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	p, err := h.payments.Create(r.Context(), body)
	if err != nil {
		mapDomainError(w, r, err)
		return
	}

	writeEntity(w, http.StatusCreated, payment.ProjectRead(p).Encode)
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, err := h.payments.Get(r.Context(), id)
	if err != nil {
		mapDomainError(w, r, err)
		return
	}

	writeEntity(w, http.StatusOK, payment.ProjectRead(p).Encode)
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	p, err := h.payments.Update(r.Context(), id, body)
	if err != nil {
		mapDomainError(w, r, err)
		return
	}

	writeEntity(w, http.StatusOK, payment.ProjectRead(p).Encode)
}
