//go:build integration

// Package integration exercises the PostgreSQL repositories against a real
// database started with testcontainers. Run with:
//
//	go test -tags integration ./tests/integration/
package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/entrx/orderpay/internal/domain/order"
	"github.com/entrx/orderpay/internal/domain/payment"
	"github.com/entrx/orderpay/internal/domain/person"
	"github.com/entrx/orderpay/internal/storage/postgres"
	"github.com/entrx/orderpay/pkg/date"
)

var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "orderpay",
				"POSTGRES_PASSWORD": "orderpay",
				"POSTGRES_DB":       "orderpay",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("start postgres container: %v", err)
	}
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("terminate container: %v", err)
		}
	}()

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("container port: %v", err)
	}

	url := fmt.Sprintf("postgres://orderpay:orderpay@%s:%s/orderpay?sslmode=disable", host, port.Port())

	pool, err = postgres.NewPool(ctx, url)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	return m.Run()
}

func testCustomer() person.Person {
	state := "Greater London"
	return person.Person{
		UNI:       "al1815",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+44 20 7946 0001",
		Addresses: []person.Address{{
			ID:         uuid.New(),
			Street:     "12 St James Square",
			City:       "London",
			State:      &state,
			PostalCode: "SW1Y 4JH",
			Country:    "GB",
		}},
	}
}

func testOrder() *order.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &order.Order{
		ID:           uuid.New(),
		Customer:     testCustomer(),
		Item:         "analytical engine",
		Quantity:     2,
		PricePerItem: decimal.RequireFromString("199.99"),
		OrderDate:    date.Date{Year: 2025, Month: time.January, Day: 15},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestOrderRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewOrderRepository(pool)

	o := testOrder()
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)

	assert.Equal(t, o.ID, got.ID)
	assert.Equal(t, o.Item, got.Item)
	assert.Equal(t, o.Quantity, got.Quantity)
	assert.True(t, o.PricePerItem.Equal(got.PricePerItem), "price: want %s, got %s", o.PricePerItem, got.PricePerItem)
	assert.Equal(t, o.OrderDate, got.OrderDate)
	assert.Equal(t, o.Customer.UNI, got.Customer.UNI)
	require.Len(t, got.Customer.Addresses, 1)
	assert.Equal(t, o.Customer.Addresses[0].PostalCode, got.Customer.Addresses[0].PostalCode)
	require.NotNil(t, got.Customer.Addresses[0].State)
	assert.Equal(t, "Greater London", *got.Customer.Addresses[0].State)
	assert.WithinDuration(t, o.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestOrderRepository_CreateConflict(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewOrderRepository(pool)

	o := testOrder()
	require.NoError(t, repo.Create(ctx, o))

	dup := testOrder()
	dup.ID = o.ID
	assert.ErrorIs(t, repo.Create(ctx, dup), order.ErrIdentityConflict)
}

func TestOrderRepository_GetNotFound(t *testing.T) {
	repo := postgres.NewOrderRepository(pool)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestOrderRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewOrderRepository(pool)

	o := testOrder()
	require.NoError(t, repo.Create(ctx, o))

	o.Quantity = 7
	o.Item = "difference engine"
	o.UpdatedAt = o.UpdatedAt.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, o))

	got, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)
	assert.Equal(t, "difference engine", got.Item)
	assert.WithinDuration(t, o.UpdatedAt, got.UpdatedAt, time.Millisecond)
}

func TestOrderRepository_UpdateNotFound(t *testing.T) {
	repo := postgres.NewOrderRepository(pool)

	o := testOrder()
	assert.ErrorIs(t, repo.Update(context.Background(), o), order.ErrNotFound)
}

func testPayment() *payment.Payment {
	now := time.Now().UTC().Truncate(time.Microsecond)
	birth := date.Date{Year: 1815, Month: time.December, Day: 10}
	return &payment.Payment{
		ID:        uuid.New(),
		Sender:    testCustomer(),
		Receiver:  testCustomer(),
		Amount:    decimal.RequireFromString("250.00"),
		Currency:  "GBP",
		Status:    "pending",
		Method:    "card",
		BirthDate: &birth,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPaymentRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewPaymentRepository(pool)

	p := testPayment()
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, p.ID, got.ID)
	assert.True(t, p.Amount.Equal(got.Amount))
	assert.Equal(t, "GBP", got.Currency)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, "card", got.Method)
	require.NotNil(t, got.BirthDate)
	assert.Equal(t, *p.BirthDate, *got.BirthDate)
	assert.Equal(t, p.Sender.Email, got.Sender.Email)
	assert.Equal(t, p.Receiver.UNI, got.Receiver.UNI)
}

func TestPaymentRepository_NilBirthDate(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewPaymentRepository(pool)

	p := testPayment()
	p.BirthDate = nil
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BirthDate)
}

func TestPaymentRepository_ClearBirthDate(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewPaymentRepository(pool)

	p := testPayment()
	require.NoError(t, repo.Create(ctx, p))

	p.BirthDate = nil
	p.UpdatedAt = p.UpdatedAt.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BirthDate)
}

func TestPaymentRepository_NotFound(t *testing.T) {
	repo := postgres.NewPaymentRepository(pool)

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, payment.ErrNotFound)

	p := testPayment()
	assert.ErrorIs(t, repo.Update(context.Background(), p), payment.ErrNotFound)
}

// End-to-end through the service: identity minting and conflict retry happen
// above the repository, so a created order is readable with fresh identity.
func TestOrderService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := order.NewService(person.NewStructuralValidator(), postgres.NewOrderRepository(pool))

	payload := []byte(`{
		"customer": {
			"uni": "al1815",
			"first_name": "Ada",
			"last_name": "Lovelace",
			"email": "ada@example.com",
			"phone": "+44 20 7946 0001",
			"addresses": []
		},
		"item": "analytical engine",
		"quantity": 2,
		"price_per_item": 199.99,
		"order_date": "2025-01-15"
	}`)

	created, err := svc.Create(ctx, payload)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "analytical engine", got.Item)
	assert.Empty(t, got.Customer.Addresses)
}
