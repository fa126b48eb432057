package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/entrx/orderpay/internal/domain/order"
	"github.com/entrx/orderpay/internal/domain/payment"
	"github.com/entrx/orderpay/internal/validate"
)

// maxBodyBytes caps request body size to guard against oversized payloads.
const maxBodyBytes = 1 << 20

// errorResponse is the JSON error envelope. Field and Reason are only set
// for validation failures.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// readBody reads the request body with a size cap. On failure it writes a
// 400 response and returns ok=false.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "cannot read request body",
		})
		return nil, false
	}
	return body, true
}

// parseID extracts the {id} path parameter. On failure it writes a 400
// response and returns ok=false.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, errorResponse{
			Code:    http.StatusBadRequest,
			Message: "malformed entity id",
		})
		return uuid.Nil, false
	}
	return id, true
}

// writeEntity encodes a domain read representation and writes it with the
// given status code.
func writeEntity(w http.ResponseWriter, status int, encode func(*jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	_ = json.NewEncoder(w).Encode(resp)
}

// mapDomainError translates domain errors into HTTP error responses.
// Validation failures and immutable field rejections are client errors (422),
// unknown entities are 404, anything else is logged and reported as 500.
func mapDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *validate.Error
	if errors.As(err, &vErr) {
		writeError(w, errorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: vErr.Error(),
			Field:   vErr.Path,
			Reason:  string(vErr.Reason),
		})
		return
	}

	var iErr *validate.ImmutableFieldError
	if errors.As(err, &iErr) {
		writeError(w, errorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: iErr.Error(),
			Field:   iErr.Field,
			Reason:  "immutable_field",
		})
		return
	}

	if errors.Is(err, order.ErrNotFound) || errors.Is(err, payment.ErrNotFound) {
		writeError(w, errorResponse{
			Code:    http.StatusNotFound,
			Message: "entity not found",
		})
		return
	}

	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeError(w, errorResponse{
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
	})
}
