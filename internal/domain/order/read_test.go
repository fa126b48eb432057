package order

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_EncodeWireFormat(t *testing.T) {
	s := newTestSchema()

	c, err := s.ValidateCreate(marshalPayload(t, fullCreatePayload()))
	require.NoError(t, err)

	o := &Order{
		ID:           uuid.MustParse("99999999-9999-4999-8999-999999999999"),
		Customer:     c.Customer,
		Item:         c.Item,
		Quantity:     c.Quantity,
		PricePerItem: c.PricePerItem,
		OrderDate:    c.OrderDate,
		CreatedAt:    time.Date(2025, 1, 15, 10, 20, 30, 0, time.UTC),
		UpdatedAt:    time.Date(2025, 1, 16, 12, 0, 0, 0, time.UTC),
	}

	var e jx.Encoder
	ProjectRead(o).Encode(&e)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(e.Bytes(), &m))

	assert.JSONEq(t, `"99999999-9999-4999-8999-999999999999"`, string(m["id"]))
	assert.JSONEq(t, `"Laptop"`, string(m["item"]))
	assert.JSONEq(t, `2`, string(m["quantity"]))
	assert.JSONEq(t, `999.99`, string(m["price_per_item"]))
	assert.JSONEq(t, `"2023-10-05"`, string(m["order_date"]))
	assert.JSONEq(t, `"2025-01-15T10:20:30Z"`, string(m["created_at"]))
	assert.JSONEq(t, `"2025-01-16T12:00:00Z"`, string(m["updated_at"]))

	var customer map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(m["customer"], &customer))
	assert.JSONEq(t, `"abc1234"`, string(customer["uni"]))
	assert.JSONEq(t, `"1815-12-10"`, string(customer["birth_date"]))
}
