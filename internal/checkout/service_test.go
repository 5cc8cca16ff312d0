package checkout

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/internal/cart"
	"github.com/tradekart/tradekart-backend/internal/pricing"
	"github.com/tradekart/tradekart-backend/pkg/config"
	"github.com/tradekart/tradekart-backend/pkg/db/models"
	"github.com/tradekart/tradekart-backend/pkg/enums"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
	"github.com/tradekart/tradekart-backend/pkg/logger"
	"github.com/tradekart/tradekart-backend/pkg/metrics"
	"github.com/tradekart/tradekart-backend/pkg/outbox"
	"github.com/tradekart/tradekart-backend/pkg/types"
)

type fakeTx struct{}

func (fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeRepo struct {
	groups       []*models.CheckoutGroup
	orders       []*models.SupplierOrder
	failSupplier map[int64]error
	seq          int64
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) CreateGroup(ctx context.Context, group *models.CheckoutGroup) error {
	group.ID = uuid.New()
	f.groups = append(f.groups, group)
	return nil
}

func (f *fakeRepo) FindGroupByIDAndBuyer(ctx context.Context, groupID, buyerID uuid.UUID) (*models.CheckoutGroup, error) {
	for _, g := range f.groups {
		if g.ID == groupID && g.BuyerID == buyerID {
			return g, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout group not found")
}

func (f *fakeRepo) CreateOrder(ctx context.Context, order *models.SupplierOrder) error {
	if err, ok := f.failSupplier[order.SupplierID]; ok {
		return err
	}
	order.ID = uuid.New()
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeRepo) NextOrderNumber(ctx context.Context, prefix string) (string, error) {
	f.seq++
	return fmt.Sprintf("%s-%06d", prefix, f.seq), nil
}

type fakeCartRepo struct {
	record        *models.CartRecord
	removedFor    [][]int64
	statusUpdates []enums.CartStatus
}

func (f *fakeCartRepo) WithTx(tx *gorm.DB) cart.Repository { return f }

func (f *fakeCartRepo) FindActiveByBuyer(ctx context.Context, buyerID uuid.UUID) (*models.CartRecord, error) {
	return f.record, nil
}

func (f *fakeCartRepo) FindByIDAndBuyer(ctx context.Context, cartID, buyerID uuid.UUID) (*models.CartRecord, error) {
	if f.record == nil || f.record.ID != cartID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return f.record, nil
}

func (f *fakeCartRepo) Create(ctx context.Context, record *models.CartRecord) error { return nil }

func (f *fakeCartRepo) UpdateStatus(ctx context.Context, cartID, buyerID uuid.UUID, status enums.CartStatus) error {
	f.statusUpdates = append(f.statusUpdates, status)
	f.record.Status = status
	return nil
}

func (f *fakeCartRepo) AddItem(ctx context.Context, item *models.CartItem) error { return nil }

func (f *fakeCartRepo) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	return nil
}

func (f *fakeCartRepo) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error { return nil }

func (f *fakeCartRepo) RemoveItemsBySupplier(ctx context.Context, cartID uuid.UUID, supplierIDs []int64) error {
	f.removedFor = append(f.removedFor, supplierIDs)
	kept := f.record.Items[:0]
	for _, item := range f.record.Items {
		removed := false
		for _, id := range supplierIDs {
			if item.SupplierID == id {
				removed = true
			}
		}
		if !removed {
			kept = append(kept, item)
		}
	}
	f.record.Items = kept
	return nil
}

func (f *fakeCartRepo) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	f.record.Items = nil
	return nil
}

func (f *fakeCartRepo) CountItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	return int64(len(f.record.Items)), nil
}

type fakeEmitter struct {
	events []outbox.DomainEvent
}

func (f *fakeEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		FlatShippingPaise:   15000,
		TaxRateBasisPoints:  1000,
		GatewayCommissionBP: 200,
		OrderNumberPrefix:   "TK",
	}
}

func testService(t *testing.T, repo *fakeRepo, carts *fakeCartRepo, emitter *fakeEmitter) Service {
	t.Helper()
	calc, err := pricing.NewCalculator(testCheckoutConfig())
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})
	svc, err := NewService(repo, carts, fakeTx{}, calc, emitter,
		metrics.NewCheckoutMetrics(nil), logg, testCheckoutConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func testCart(buyerID uuid.UUID, items ...models.CartItem) *models.CartRecord {
	return &models.CartRecord{
		ID:      uuid.New(),
		BuyerID: buyerID,
		Status:  enums.CartStatusActive,
		Items:   items,
	}
}

func testAddress() types.Address {
	return types.Address{
		Line1:      "14 Industrial Estate",
		City:       "Pune",
		State:      "MH",
		PostalCode: "411001",
	}
}

func TestSubmitSingleSupplier(t *testing.T) {
	t.Parallel()
	buyerID := uuid.New()
	carts := &fakeCartRepo{record: testCart(buyerID,
		models.CartItem{ProductID: 1, SupplierID: 10, SupplierName: "Acme", UnitPricePaise: 50000, Quantity: 2},
	)}
	repo := &fakeRepo{}
	emitter := &fakeEmitter{}
	svc := testService(t, repo, carts, emitter)

	result, err := svc.Submit(context.Background(), buyerID, SubmitInput{
		CartID:          carts.record.ID,
		ShippingAddress: testAddress(),
		PaymentType:     enums.PaymentTypeRazorpay,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(result.Orders) != 1 || len(result.Failed) != 0 {
		t.Fatalf("expected 1 order and no failures, got %d/%d", len(result.Orders), len(result.Failed))
	}

	order := result.Orders[0]
	if order.OrderNumber != "TK-000001" {
		t.Fatalf("unexpected order number %q", order.OrderNumber)
	}
	if order.SubtotalPaise != 100000 || order.TaxPaise != 10000 || order.ShippingPaise != 15000 {
		t.Fatalf("unexpected pricing %+v", order)
	}
	if order.CommissionPaise != 2500 || order.TotalPaise != 127500 {
		t.Fatalf("unexpected commission/total %d/%d", order.CommissionPaise, order.TotalPaise)
	}
	if order.Status != enums.OrderStatusAwaitingPayment {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if order.PaymentIntent == nil || order.PaymentIntent.Status != enums.PaymentStatusUnpaid {
		t.Fatalf("expected unpaid intent, got %+v", order.PaymentIntent)
	}
	if !result.CartCleared {
		t.Fatal("expected cart cleared")
	}
	if carts.record.Status != enums.CartStatusConverted {
		t.Fatalf("expected converted cart, got %s", carts.record.Status)
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType != enums.EventOrderCreated {
		t.Fatalf("expected one order.created event, got %+v", emitter.events)
	}
}

func TestSubmitMultiSupplierPartialFailure(t *testing.T) {
	t.Parallel()
	buyerID := uuid.New()
	carts := &fakeCartRepo{record: testCart(buyerID,
		models.CartItem{ProductID: 1, SupplierID: 10, SupplierName: "Acme", UnitPricePaise: 30000, Quantity: 2},
		models.CartItem{ProductID: 2, SupplierID: 20, SupplierName: "Bharat Mills", UnitPricePaise: 40000, Quantity: 1},
	)}
	repo := &fakeRepo{failSupplier: map[int64]error{
		10: pkgerrors.New(pkgerrors.CodeDependency, "insert failed"),
	}}
	emitter := &fakeEmitter{}
	svc := testService(t, repo, carts, emitter)

	result, err := svc.Submit(context.Background(), buyerID, SubmitInput{
		CartID:          carts.record.ID,
		ShippingAddress: testAddress(),
		PaymentType:     enums.PaymentTypeBankTransfer,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(result.Orders) != 1 || result.Orders[0].SupplierID != 20 {
		t.Fatalf("expected only supplier 20's order, got %+v", result.Orders)
	}
	if len(result.Failed) != 1 || result.Failed[0].SupplierID != 10 {
		t.Fatalf("expected supplier 10 reported failed, got %+v", result.Failed)
	}

	// Failed supplier's items survive for an idempotent retry.
	if len(carts.removedFor) != 1 || len(carts.removedFor[0]) != 1 || carts.removedFor[0][0] != 20 {
		t.Fatalf("expected removal for supplier 20 only, got %v", carts.removedFor)
	}
	if len(carts.record.Items) != 1 || carts.record.Items[0].SupplierID != 10 {
		t.Fatalf("expected supplier 10's items to remain, got %+v", carts.record.Items)
	}
	if result.CartCleared || carts.record.Status == enums.CartStatusConverted {
		t.Fatal("cart must not convert while items remain")
	}

	// Offline rail splits shipping evenly across the two suppliers.
	if result.Orders[0].ShippingPaise != 7500 {
		t.Fatalf("expected split shipping 7500, got %d", result.Orders[0].ShippingPaise)
	}
	if result.Orders[0].CommissionPaise != 0 {
		t.Fatalf("bank transfer must not carry commission, got %d", result.Orders[0].CommissionPaise)
	}
}

func TestSubmitAllSuppliersFail(t *testing.T) {
	t.Parallel()
	buyerID := uuid.New()
	carts := &fakeCartRepo{record: testCart(buyerID,
		models.CartItem{ProductID: 1, SupplierID: 10, UnitPricePaise: 30000, Quantity: 1},
		models.CartItem{ProductID: 2, SupplierID: 20, UnitPricePaise: 40000, Quantity: 1},
	)}
	repo := &fakeRepo{failSupplier: map[int64]error{
		10: pkgerrors.New(pkgerrors.CodeDependency, "insert failed"),
		20: pkgerrors.New(pkgerrors.CodeDependency, "insert failed"),
	}}
	svc := testService(t, repo, carts, &fakeEmitter{})

	_, err := svc.Submit(context.Background(), buyerID, SubmitInput{
		CartID:          carts.record.ID,
		ShippingAddress: testAddress(),
		PaymentType:     enums.PaymentTypeUPI,
	})
	if err == nil {
		t.Fatal("expected error when every supplier fails")
	}
	if len(carts.removedFor) != 0 || len(carts.record.Items) != 2 {
		t.Fatal("cart must stay untouched when nothing succeeded")
	}
}

func TestSubmitRejectsMultiSupplierGateway(t *testing.T) {
	t.Parallel()
	buyerID := uuid.New()
	carts := &fakeCartRepo{record: testCart(buyerID,
		models.CartItem{ProductID: 1, SupplierID: 10, UnitPricePaise: 30000, Quantity: 1},
		models.CartItem{ProductID: 2, SupplierID: 20, UnitPricePaise: 40000, Quantity: 1},
	)}
	svc := testService(t, &fakeRepo{}, carts, &fakeEmitter{})

	for _, pt := range []enums.PaymentType{
		enums.PaymentTypeRazorpay,
		enums.PaymentTypeStripe,
		enums.PaymentTypeCreditTerms,
	} {
		input := SubmitInput{CartID: carts.record.ID, ShippingAddress: testAddress(), PaymentType: pt}
		if pt == enums.PaymentTypeCreditTerms {
			days := 30
			input.CreditTermsDays = &days
		}
		_, err := svc.Submit(context.Background(), buyerID, input)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("%s: expected state conflict, got %v", pt, err)
		}
	}
}

func TestSubmitCreditTerms(t *testing.T) {
	t.Parallel()
	buyerID := uuid.New()
	carts := &fakeCartRepo{record: testCart(buyerID,
		models.CartItem{ProductID: 1, SupplierID: 10, SupplierName: "Acme", UnitPricePaise: 100000, Quantity: 1},
	)}
	repo := &fakeRepo{}
	svc := testService(t, repo, carts, &fakeEmitter{})

	days := 60
	result, err := svc.Submit(context.Background(), buyerID, SubmitInput{
		CartID:          carts.record.ID,
		ShippingAddress: testAddress(),
		PaymentType:     enums.PaymentTypeCreditTerms,
		CreditTermsDays: &days,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	order := result.Orders[0]
	if order.Status != enums.OrderStatusPlaced {
		t.Fatalf("credit terms order should be placed, got %s", order.Status)
	}
	if order.CreditTermsDays == nil || *order.CreditTermsDays != 60 {
		t.Fatalf("unexpected credit window %v", order.CreditTermsDays)
	}
	if order.PaymentDueAt == nil {
		t.Fatal("expected payment due date")
	}
	if order.CommissionPaise != 0 {
		t.Fatalf("credit terms must not carry commission, got %d", order.CommissionPaise)
	}
}

func TestSubmitCreditTermsRequiresWindow(t *testing.T) {
	t.Parallel()
	buyerID := uuid.New()
	carts := &fakeCartRepo{record: testCart(buyerID,
		models.CartItem{ProductID: 1, SupplierID: 10, UnitPricePaise: 100000, Quantity: 1},
	)}
	svc := testService(t, &fakeRepo{}, carts, &fakeEmitter{})

	_, err := svc.Submit(context.Background(), buyerID, SubmitInput{
		CartID:          carts.record.ID,
		ShippingAddress: testAddress(),
		PaymentType:     enums.PaymentTypeCreditTerms,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	bad := 45
	_, err = svc.Submit(context.Background(), buyerID, SubmitInput{
		CartID:          carts.record.ID,
		ShippingAddress: testAddress(),
		PaymentType:     enums.PaymentTypeCreditTerms,
		CreditTermsDays: &bad,
	})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for NET-45, got %v", err)
	}
}
