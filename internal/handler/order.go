package handler

import (
	"net/http"

	"github.com/entrx/orderpay/internal/domain/order"
)

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	o, err := h.orders.Create(r.Context(), body)
	if err != nil {
		mapDomainError(w, r, err)
		return
	}

	writeEntity(w, http.StatusCreated, order.ProjectRead(o).Encode)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		mapDomainError(w, r, err)
		return
	}

	writeEntity(w, http.StatusOK, order.ProjectRead(o).Encode)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	o, err := h.orders.Update(r.Context(), id, body)
	if err != nil {
		mapDomainError(w, r, err)
		return
	}

	writeEntity(w, http.StatusOK, order.ProjectRead(o).Encode)
}
