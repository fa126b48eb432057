package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrx/orderpay/internal/domain/order"
	"github.com/entrx/orderpay/internal/domain/payment"
	"github.com/entrx/orderpay/internal/domain/person"
)

type orderRepo struct {
	byID map[uuid.UUID]*order.Order
}

func newOrderRepo() *orderRepo {
	return &orderRepo{byID: make(map[uuid.UUID]*order.Order)}
}

func (r *orderRepo) Create(_ context.Context, o *order.Order) error {
	if _, ok := r.byID[o.ID]; ok {
		return order.ErrIdentityConflict
	}
	cp := *o
	r.byID[o.ID] = &cp
	return nil
}

func (r *orderRepo) Get(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *orderRepo) Update(_ context.Context, o *order.Order) error {
	if _, ok := r.byID[o.ID]; !ok {
		return order.ErrNotFound
	}
	cp := *o
	r.byID[o.ID] = &cp
	return nil
}

type paymentRepo struct {
	byID map[uuid.UUID]*payment.Payment
}

func newPaymentRepo() *paymentRepo {
	return &paymentRepo{byID: make(map[uuid.UUID]*payment.Payment)}
}

func (r *paymentRepo) Create(_ context.Context, p *payment.Payment) error {
	if _, ok := r.byID[p.ID]; ok {
		return payment.ErrIdentityConflict
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

func (r *paymentRepo) Get(_ context.Context, id uuid.UUID) (*payment.Payment, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *paymentRepo) Update(_ context.Context, p *payment.Payment) error {
	if _, ok := r.byID[p.ID]; !ok {
		return payment.ErrNotFound
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}

const customerJSON = `{
	"uni": "al1815",
	"first_name": "Ada",
	"last_name": "Lovelace",
	"email": "ada@example.com",
	"phone": "+44 20 7946 0001",
	"addresses": [{
		"id": "7b06bd68-c9e4-4d32-b1c4-6c29c0a5f3a1",
		"street": "12 St James Square",
		"city": "London",
		"postal_code": "SW1Y 4JH",
		"country": "GB"
	}]
}`

func createOrderBody() string {
	return `{
		"customer": ` + customerJSON + `,
		"item": "analytical engine",
		"quantity": 2,
		"price_per_item": 199.99,
		"order_date": "2025-01-15"
	}`
}

func createPaymentBody() string {
	return `{
		"sender": ` + customerJSON + `,
		"receiver": ` + customerJSON + `,
		"amount": 250.00,
		"currency": "GBP",
		"status": "pending",
		"method": "card"
	}`
}

func newTestHandler() http.Handler {
	persons := person.NewStructuralValidator()
	orders := order.NewService(persons, newOrderRepo())
	payments := payment.NewService(persons, newPaymentRepo())
	return NewHandler(orders, payments).Routes()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateOrder(t *testing.T) {
	h := newTestHandler()

	w := doRequest(t, h, http.MethodPost, "/api/orders", createOrderBody())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	id, err := uuid.Parse(resp["id"].(string))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, "analytical engine", resp["item"])
	assert.NotEmpty(t, resp["created_at"])
	assert.Equal(t, resp["created_at"], resp["updated_at"])
}

func TestCreateOrder_ValidationError(t *testing.T) {
	h := newTestHandler()

	body := `{
		"customer": ` + customerJSON + `,
		"item": "analytical engine",
		"quantity": "two",
		"price_per_item": 199.99,
		"order_date": "2025-01-15"
	}`
	w := doRequest(t, h, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "quantity", resp["field"])
	assert.Equal(t, "wrong_type", resp["reason"])
}

func TestCreateOrder_NestedValidationError(t *testing.T) {
	h := newTestHandler()

	body := `{
		"customer": {
			"uni": "al1815",
			"first_name": "Ada",
			"last_name": "Lovelace",
			"email": "not-an-email",
			"phone": "+44 20 7946 0001",
			"addresses": []
		},
		"item": "analytical engine",
		"quantity": 2,
		"price_per_item": 199.99,
		"order_date": "2025-01-15"
	}`
	w := doRequest(t, h, http.MethodPost, "/api/orders", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "customer.email", resp["field"])
	assert.Equal(t, "invalid_value", resp["reason"])
}

func TestGetOrder(t *testing.T) {
	h := newTestHandler()

	created := doRequest(t, h, http.MethodPost, "/api/orders", createOrderBody())
	require.Equal(t, http.StatusCreated, created.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))
	id := resp["id"].(string)

	w := doRequest(t, h, http.MethodGet, "/api/orders/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, id, got["id"])
	assert.Equal(t, "analytical engine", got["item"])
}

func TestGetOrder_NotFound(t *testing.T) {
	h := newTestHandler()

	w := doRequest(t, h, http.MethodGet, "/api/orders/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrder_MalformedID(t *testing.T) {
	h := newTestHandler()

	w := doRequest(t, h, http.MethodGet, "/api/orders/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrder(t *testing.T) {
	h := newTestHandler()

	created := doRequest(t, h, http.MethodPost, "/api/orders", createOrderBody())
	require.Equal(t, http.StatusCreated, created.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))
	id := resp["id"].(string)

	w := doRequest(t, h, http.MethodPatch, "/api/orders/"+id, `{"quantity": 7}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(7), got["quantity"])
	assert.Equal(t, "analytical engine", got["item"], "unsupplied fields keep their values")
}

func TestUpdateOrder_ImmutableField(t *testing.T) {
	h := newTestHandler()

	created := doRequest(t, h, http.MethodPost, "/api/orders", createOrderBody())
	require.Equal(t, http.StatusCreated, created.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))
	id := resp["id"].(string)

	w := doRequest(t, h, http.MethodPatch, "/api/orders/"+id, `{"id": "`+uuid.NewString()+`"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "id", got["field"])
	assert.Equal(t, "immutable_field", got["reason"])
}

func TestCreatePayment(t *testing.T) {
	h := newTestHandler()

	w := doRequest(t, h, http.MethodPost, "/api/payments", createPaymentBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "GBP", resp["currency"])
	assert.Equal(t, "pending", resp["status"])
	_, hasBirthDate := resp["birth_date"]
	assert.False(t, hasBirthDate, "absent birth_date stays absent in the response")
}

func TestCreatePayment_MissingRequiredField(t *testing.T) {
	h := newTestHandler()

	body := `{
		"sender": ` + customerJSON + `,
		"receiver": ` + customerJSON + `,
		"amount": 250.00,
		"currency": "GBP",
		"status": "pending"
	}`
	w := doRequest(t, h, http.MethodPost, "/api/payments", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "method", resp["field"])
	assert.Equal(t, "missing_required_field", resp["reason"])
}

func TestUpdatePayment_ClearBirthDate(t *testing.T) {
	h := newTestHandler()

	body := `{
		"sender": ` + customerJSON + `,
		"receiver": ` + customerJSON + `,
		"amount": 250.00,
		"currency": "GBP",
		"status": "pending",
		"method": "card",
		"birth_date": "1815-12-10"
	}`
	created := doRequest(t, h, http.MethodPost, "/api/payments", body)
	require.Equal(t, http.StatusCreated, created.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))
	id := resp["id"].(string)
	assert.Equal(t, "1815-12-10", resp["birth_date"])

	w := doRequest(t, h, http.MethodPatch, "/api/payments/"+id, `{"birth_date": null}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	_, hasBirthDate := got["birth_date"]
	assert.False(t, hasBirthDate, "explicit null clears birth_date")
}

func TestUpdatePayment_NotFound(t *testing.T) {
	h := newTestHandler()

	w := doRequest(t, h, http.MethodPatch, "/api/payments/"+uuid.NewString(), `{"status": "settled"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
