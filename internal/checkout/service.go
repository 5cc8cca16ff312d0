package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// SubmitInput carries a checkout submission after request validation.
type SubmitInput struct {
	CartID          uuid.UUID
	ShippingAddress types.Address
	PONumber        *string
	PaymentType     enums.PaymentType
	CreditTermsDays *int
}

// FailedSupplier reports one supplier whose order could not be created.
// Its cart items are left in place for a retry.
type FailedSupplier struct {
	SupplierID   int64  `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Reason       string `json:"reason"`
}

// SubmitResult is the orchestrator outcome: every order that was created
// plus the suppliers that failed, if any.
type SubmitResult struct {
	GroupID     uuid.UUID
	PaymentType enums.PaymentType
	Orders      []models.SupplierOrder
	Failed      []FailedSupplier
	CartCleared bool
}

// Service runs the checkout orchestration: group the cart by supplier,
// price and create one order per supplier, and reconcile the cart.
type Service interface {
	Submit(ctx context.Context, buyerID uuid.UUID, input SubmitInput) (*SubmitResult, error)
	Confirmation(ctx context.Context, buyerID, groupID uuid.UUID) (*models.CheckoutGroup, error)
}

type service struct {
	repo        Repository
	carts       cart.Repository
	tx          txRunner
	calc        *pricing.Calculator
	emitter     eventEmitter
	metrics     *metrics.CheckoutMetrics
	logg        *logger.Logger
	orderPrefix string
}

// NewService wires the orchestrator.
func NewService(
	repo Repository,
	carts cart.Repository,
	tx txRunner,
	calc *pricing.Calculator,
	emitter eventEmitter,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
	cfg config.CheckoutConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if calc == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.OrderNumberPrefix == "" {
		return nil, fmt.Errorf("order number prefix required")
	}
	return &service{
		repo:        repo,
		carts:       carts,
		tx:          tx,
		calc:        calc,
		emitter:     emitter,
		metrics:     checkoutMetrics,
		logg:        logg,
		orderPrefix: cfg.OrderNumberPrefix,
	}, nil
}

type orderCreatedPayload struct {
	OrderNumber     string `json:"orderNumber"`
	CheckoutGroupID string `json:"checkoutGroupId"`
	BuyerID         string `json:"buyerId"`
	SupplierID      int64  `json:"supplierId"`
	TotalPaise      int64  `json:"totalPaise"`
	PaymentType     string `json:"paymentType"`
}

func (s *service) Submit(ctx context.Context, buyerID uuid.UUID, input SubmitInput) (*SubmitResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveDuration(input.PaymentType.String(), time.Since(start))
	}()

	groups, creditDays, err := s.validate(ctx, buyerID, &input)
	if err != nil {
		return nil, err
	}

	quotes := s.quoteFor(groups, input.PaymentType)

	group := &models.CheckoutGroup{
		BuyerID:     buyerID,
		CartID:      &input.CartID,
		PaymentType: input.PaymentType,
	}
	if err := s.repo.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	result := &SubmitResult{GroupID: group.ID, PaymentType: input.PaymentType}
	var merr error
	var succeeded []int64

	// One transaction per supplier, in first-seen order. A failure stops
	// nothing; the supplier is reported and its cart items survive.
	for i, supplierGroup := range groups {
		order, err := s.createSupplierOrder(ctx, buyerID, group.ID, supplierGroup, quotes[i], input, creditDays)
		if err != nil {
			merr = multierr.Append(merr, fmt.Errorf("supplier %d: %w", supplierGroup.SupplierID, err))
			result.Failed = append(result.Failed, FailedSupplier{
				SupplierID:   supplierGroup.SupplierID,
				SupplierName: supplierGroup.SupplierName,
				Reason:       err.Error(),
			})
			s.metrics.IncSupplierFailures(input.PaymentType.String(), 1)
			s.logg.Error(ctx, "supplier order creation failed", err)
			continue
		}
		result.Orders = append(result.Orders, *order)
		succeeded = append(succeeded, supplierGroup.SupplierID)
	}
	s.metrics.IncOrdersCreated(input.PaymentType.String(), len(result.Orders))

	if len(result.Orders) == 0 {
		if len(groups) == 1 {
			return nil, merr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, merr, "order creation failed for every supplier")
	}

	cleared, err := s.reconcileCart(ctx, buyerID, input.CartID, succeeded)
	if err != nil {
		// Orders exist; a cart cleanup failure must not undo them.
		s.logg.Error(ctx, "cart reconciliation after checkout failed", err)
	}
	result.CartCleared = cleared

	return result, nil
}

func (s *service) Confirmation(ctx context.Context, buyerID, groupID uuid.UUID) (*models.CheckoutGroup, error) {
	if buyerID == uuid.Nil || groupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer and group ids required")
	}
	return s.repo.FindGroupByIDAndBuyer(ctx, groupID, buyerID)
}

func (s *service) validate(ctx context.Context, buyerID uuid.UUID, input *SubmitInput) ([]cart.SupplierGroup, *int, error) {
	if buyerID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if input.CartID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}
	if !input.PaymentType.IsValid() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment type")
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping address")
	}
	input.ShippingAddress = input.ShippingAddress.Normalized()

	var creditDays *int
	if input.PaymentType == enums.PaymentTypeCreditTerms {
		if input.CreditTermsDays == nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "credit terms window required")
		}
		terms, err := enums.ParseCreditTermsDays(*input.CreditTermsDays)
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid credit terms window")
		}
		days := int(terms)
		creditDays = &days
	}

	record, err := s.carts.FindByIDAndBuyer(ctx, input.CartID, buyerID)
	if err != nil {
		return nil, nil, err
	}
	if record.Status != enums.CartStatusActive {
		return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart has already been checked out")
	}
	if len(record.Items) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	groups := cart.GroupBySupplier(record.Items)
	if len(groups) > 1 && !input.PaymentType.IsOfflineRail() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("%s supports a single supplier; cart has %d", input.PaymentType, len(groups)))
	}
	return groups, creditDays, nil
}

func (s *service) quoteFor(groups []cart.SupplierGroup, paymentType enums.PaymentType) []pricing.Quote {
	if len(groups) == 1 {
		return []pricing.Quote{s.calc.QuoteOrder(groups[0].SubtotalPaise, paymentType)}
	}
	subtotals := make([]int64, len(groups))
	for i, g := range groups {
		subtotals[i] = g.SubtotalPaise
	}
	return s.calc.QuoteGroups(subtotals, paymentType)
}

func (s *service) createSupplierOrder(
	ctx context.Context,
	buyerID, groupID uuid.UUID,
	supplierGroup cart.SupplierGroup,
	quote pricing.Quote,
	input SubmitInput,
	creditDays *int,
) (*models.SupplierOrder, error) {
	var created *models.SupplierOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		orderNumber, err := repo.NextOrderNumber(ctx, s.orderPrefix)
		if err != nil {
			return err
		}

		order := &models.SupplierOrder{
			CheckoutGroupID: groupID,
			OrderNumber:     orderNumber,
			BuyerID:         buyerID,
			SupplierID:      supplierGroup.SupplierID,
			SupplierName:    supplierGroup.SupplierName,
			Currency:        enums.CurrencyINR,
			SubtotalPaise:   quote.SubtotalPaise,
			TaxPaise:        quote.TaxPaise,
			ShippingPaise:   quote.ShippingPaise,
			CommissionPaise: quote.CommissionPaise,
			TotalPaise:      quote.TotalPaise,
			BalanceDuePaise: quote.TotalPaise,
			PaymentType:     input.PaymentType,
			Status:          enums.OrderStatusAwaitingPayment,
			PONumber:        input.PONumber,
			ShippingAddress: &input.ShippingAddress,
		}
		if creditDays != nil {
			// NET terms: the order ships now, payment falls due later.
			due := time.Now().UTC().Add(time.Duration(*creditDays) * 24 * time.Hour)
			order.Status = enums.OrderStatusPlaced
			order.CreditTermsDays = creditDays
			order.PaymentDueAt = &due
		}

		for _, item := range supplierGroup.Items {
			order.Items = append(order.Items, models.OrderLineItem{
				ProductID:      item.ProductID,
				Name:           item.Name,
				UnitPricePaise: item.UnitPricePaise,
				Quantity:       item.Quantity,
				TotalPaise:     item.UnitPricePaise * int64(item.Quantity),
			})
		}
		order.PaymentIntent = &models.PaymentIntent{
			Method:      input.PaymentType,
			Status:      enums.PaymentStatusUnpaid,
			AmountPaise: quote.TotalPaise,
		}

		if err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}

		if err := s.emitter.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateSupplierOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: orderCreatedPayload{
				OrderNumber:     order.OrderNumber,
				CheckoutGroupID: groupID.String(),
				BuyerID:         buyerID.String(),
				SupplierID:      order.SupplierID,
				TotalPaise:      order.TotalPaise,
				PaymentType:     order.PaymentType.String(),
			},
		}); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// reconcileCart removes the succeeded suppliers' items and converts the cart
// only once it is empty. Failed suppliers' items stay put for a retry.
func (s *service) reconcileCart(ctx context.Context, buyerID, cartID uuid.UUID, supplierIDs []int64) (bool, error) {
	cleared := false
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.carts.WithTx(tx)
		if err := repo.RemoveItemsBySupplier(ctx, cartID, supplierIDs); err != nil {
			return err
		}
		remaining, err := repo.CountItems(ctx, cartID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := repo.UpdateStatus(ctx, cartID, buyerID, enums.CartStatusConverted); err != nil {
				return err
			}
			cleared = true
		}
		return nil
	})
	return cleared, err
}
