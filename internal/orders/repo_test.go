package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/pkg/db/models"
	"github.com/tradekart/tradekart-backend/pkg/enums"
	"github.com/tradekart/tradekart-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	supplierOrders := `
CREATE TABLE IF NOT EXISTS supplier_orders (
  id TEXT PRIMARY KEY,
  checkout_group_id TEXT NOT NULL,
  order_number TEXT NOT NULL UNIQUE,
  buyer_id TEXT NOT NULL,
  supplier_id INTEGER NOT NULL,
  supplier_name TEXT,
  currency TEXT NOT NULL DEFAULT 'INR',
  subtotal_paise INTEGER NOT NULL,
  tax_paise INTEGER NOT NULL DEFAULT 0,
  shipping_paise INTEGER NOT NULL DEFAULT 0,
  commission_paise INTEGER NOT NULL DEFAULT 0,
  total_paise INTEGER NOT NULL,
  balance_due_paise INTEGER NOT NULL DEFAULT 0,
  payment_type TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'awaiting_payment',
  po_number TEXT,
  credit_terms_days INTEGER,
  payment_due_at DATETIME,
  shipping_address TEXT,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderLineItems := `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  unit_price_paise INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  total_paise INTEGER NOT NULL,
  created_at DATETIME
);`
	paymentIntents := `
CREATE TABLE IF NOT EXISTS payment_intents (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  method TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'unpaid',
  amount_paise INTEGER NOT NULL,
  gateway_order_id TEXT,
  gateway_payment_id TEXT,
  failure_reason TEXT,
  proof_reference TEXT,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(supplierOrders).Error)
	require.NoError(t, db.Exec(orderLineItems).Error)
	require.NoError(t, db.Exec(paymentIntents).Error)
	return db
}

func createOrder(t *testing.T, db *gorm.DB, buyerID uuid.UUID, number string, supplierID int64, created time.Time, pt enums.PaymentType, status enums.OrderStatus) *models.SupplierOrder {
	t.Helper()

	order := &models.SupplierOrder{
		ID:              uuid.New(),
		CheckoutGroupID: uuid.New(),
		OrderNumber:     number,
		BuyerID:         buyerID,
		SupplierID:      supplierID,
		SupplierName:    "Test Supplier",
		Currency:        enums.CurrencyINR,
		SubtotalPaise:   100000,
		TaxPaise:        10000,
		ShippingPaise:   15000,
		TotalPaise:      125000,
		BalanceDuePaise: 125000,
		PaymentType:     pt,
		Status:          status,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	require.NoError(t, db.Create(order).Error)

	item := &models.OrderLineItem{
		ID:             uuid.New(),
		OrderID:        order.ID,
		ProductID:      1,
		Name:           "Test Item",
		UnitPricePaise: 50000,
		Quantity:       2,
		TotalPaise:     100000,
		CreatedAt:      created,
	}
	require.NoError(t, db.Create(item).Error)

	intent := &models.PaymentIntent{
		ID:          uuid.New(),
		OrderID:     order.ID,
		Method:      pt,
		Status:      enums.PaymentStatusUnpaid,
		AmountPaise: order.TotalPaise,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, db.Create(intent).Error)
	return order
}

func TestRepositoryListByBuyerPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	buyerID := uuid.New()
	now := time.Now().UTC()
	createOrder(t, db, buyerID, "TK-000001", 10, now.Add(-time.Hour), enums.PaymentTypeUPI, enums.OrderStatusAwaitingPayment)
	createOrder(t, db, buyerID, "TK-000002", 20, now, enums.PaymentTypeUPI, enums.OrderStatusAwaitingPayment)
	createOrder(t, db, uuid.New(), "TK-000003", 10, now, enums.PaymentTypeUPI, enums.OrderStatusAwaitingPayment)

	first, err := repo.ListByBuyer(context.Background(), buyerID, pagination.Cursor{}, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "TK-000002", first[0].OrderNumber)
	require.NotNil(t, first[0].PaymentIntent)
	require.Len(t, first[0].Items, 1)

	cursor := pagination.Cursor{CreatedAt: first[0].CreatedAt, ID: first[0].ID}
	second, err := repo.ListByBuyer(context.Background(), buyerID, cursor, 10)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "TK-000001", second[0].OrderNumber)
}

func TestRepositoryFindByNumberAndBuyer(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	buyerID := uuid.New()
	createOrder(t, db, buyerID, "TK-000042", 10, time.Now().UTC(), enums.PaymentTypeBankTransfer, enums.OrderStatusAwaitingPayment)

	order, err := repo.FindByNumberAndBuyer(context.Background(), "TK-000042", buyerID)
	require.NoError(t, err)
	assert.Equal(t, int64(125000), order.TotalPaise)
	require.NotNil(t, order.PaymentIntent)
	assert.Equal(t, enums.PaymentStatusUnpaid, order.PaymentIntent.Status)

	// Another buyer must not see it.
	_, err = repo.FindByNumberAndBuyer(context.Background(), "TK-000042", uuid.New())
	require.Error(t, err)
}

func TestRepositoryCancel(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	buyerID := uuid.New()
	order := createOrder(t, db, buyerID, "TK-000050", 10, time.Now().UTC(), enums.PaymentTypeUPI, enums.OrderStatusAwaitingPayment)

	cancelledAt := time.Now().UTC()
	require.NoError(t, repo.Cancel(context.Background(), order.ID, cancelledAt))

	reloaded, err := repo.FindByNumberAndBuyer(context.Background(), "TK-000050", buyerID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, reloaded.Status)
	require.NotNil(t, reloaded.CancelledAt)

	require.Error(t, repo.Cancel(context.Background(), uuid.New(), cancelledAt))
}

func TestRepositorySetProofReference(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	buyerID := uuid.New()
	createOrder(t, db, buyerID, "TK-000060", 10, time.Now().UTC(), enums.PaymentTypeBankTransfer, enums.OrderStatusAwaitingPayment)

	reloaded, err := repo.FindByNumberAndBuyer(context.Background(), "TK-000060", buyerID)
	require.NoError(t, err)

	require.NoError(t, repo.SetProofReference(context.Background(), reloaded.PaymentIntent.ID, "UTR123456789"))

	after, err := repo.FindByNumberAndBuyer(context.Background(), "TK-000060", buyerID)
	require.NoError(t, err)
	require.NotNil(t, after.PaymentIntent.ProofReference)
	assert.Equal(t, "UTR123456789", *after.PaymentIntent.ProofReference)
	assert.Equal(t, enums.PaymentStatusPending, after.PaymentIntent.Status)
}
