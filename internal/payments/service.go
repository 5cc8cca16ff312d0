package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/pkg/db/models"
	"github.com/tradekart/tradekart-backend/pkg/enums"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
	"github.com/tradekart/tradekart-backend/pkg/logger"
	"github.com/tradekart/tradekart-backend/pkg/outbox"
	"github.com/tradekart/tradekart-backend/pkg/razorpay"
	"github.com/tradekart/tradekart-backend/pkg/stripe"
)

// CancelledByUserReason records a buyer dismissing the gateway widget.
const CancelledByUserReason = "cancelled by user"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type groupLoader interface {
	FindGroupByIDAndBuyer(ctx context.Context, groupID, buyerID uuid.UUID) (*models.CheckoutGroup, error)
}

type razorpayGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*razorpay.GatewayOrder, error)
	VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool
}

type stripeGateway interface {
	CreateOrderSession(ctx context.Context, orderNumber string, lines []stripe.SessionLine) (string, error)
}

// ActionType names the client-side continuation after checkout.
type ActionType string

const (
	ActionRazorpayWidget ActionType = "razorpay_widget"
	ActionStripeRedirect ActionType = "stripe_redirect"
	ActionInstructions   ActionType = "instructions"
	ActionOrderPlaced    ActionType = "order_placed"
)

// RazorpayWidget carries the parameters the embedded checkout widget needs.
type RazorpayWidget struct {
	Key            string `json:"key"`
	GatewayOrderID string `json:"gateway_order_id"`
	AmountPaise    int64  `json:"amount_paise"`
	Currency       string `json:"currency"`
}

// Action tells the client how to complete payment for a checkout group.
type Action struct {
	Type             ActionType      `json:"type"`
	Razorpay         *RazorpayWidget `json:"razorpay,omitempty"`
	RedirectURL      string          `json:"redirect_url,omitempty"`
	InstructionsPath string          `json:"instructions_path,omitempty"`
	PaymentDueAt     *time.Time      `json:"payment_due_at,omitempty"`
}

// VerifyInput is the gateway callback relayed by the Razorpay widget.
type VerifyInput struct {
	OrderNumber      string
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
	Dismissed        bool
}

// Service routes a checkout group onto its payment path and handles the
// gateway verification callback.
type Service interface {
	Dispatch(ctx context.Context, buyerID, groupID uuid.UUID) (*Action, error)
	RazorpayKey() string
	VerifyRazorpay(ctx context.Context, buyerID uuid.UUID, input VerifyInput) (*models.SupplierOrder, error)
}

type service struct {
	repo     Repository
	groups   groupLoader
	tx       txRunner
	emitter  eventEmitter
	razorpay razorpayGateway
	stripe   stripeGateway
	logg     *logger.Logger
}

// NewService wires the payment dispatcher. Gateways may be nil when the
// deployment disables a path; dispatching onto a nil gateway fails.
func NewService(
	repo Repository,
	groups groupLoader,
	tx txRunner,
	emitter eventEmitter,
	razorpayClient razorpayGateway,
	stripeClient stripeGateway,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if groups == nil {
		return nil, fmt.Errorf("checkout group loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		groups:   groups,
		tx:       tx,
		emitter:  emitter,
		razorpay: razorpayClient,
		stripe:   stripeClient,
		logg:     logg,
	}, nil
}

func (s *service) Dispatch(ctx context.Context, buyerID, groupID uuid.UUID) (*Action, error) {
	if buyerID == uuid.Nil || groupID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer and group ids required")
	}
	group, err := s.groups.FindGroupByIDAndBuyer(ctx, groupID, buyerID)
	if err != nil {
		return nil, err
	}
	if len(group.Orders) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout group has no orders")
	}

	switch group.PaymentType {
	case enums.PaymentTypeRazorpay:
		return s.dispatchRazorpay(ctx, group)
	case enums.PaymentTypeStripe:
		return s.dispatchStripe(ctx, group)
	case enums.PaymentTypeBankTransfer, enums.PaymentTypeUPI:
		return &Action{
			Type:             ActionInstructions,
			InstructionsPath: fmt.Sprintf("/api/v1/checkout/%s/instructions", group.ID),
		}, nil
	case enums.PaymentTypeCreditTerms:
		return &Action{
			Type:         ActionOrderPlaced,
			PaymentDueAt: group.Orders[0].PaymentDueAt,
		}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment type")
	}
}

func (s *service) RazorpayKey() string {
	if s.razorpay == nil {
		return ""
	}
	return s.razorpay.KeyID()
}

func (s *service) dispatchRazorpay(ctx context.Context, group *models.CheckoutGroup) (*Action, error) {
	if s.razorpay == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "razorpay is not configured")
	}
	order := group.Orders[0]
	intent := order.PaymentIntent
	if intent == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no payment intent")
	}

	// A retried dispatch reuses the gateway order already created.
	if intent.GatewayOrderID == nil || *intent.GatewayOrderID == "" {
		gatewayOrder, err := s.razorpay.CreateOrder(ctx, intent.AmountPaise, order.OrderNumber)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "razorpay order creation failed")
		}
		if err := s.repo.MarkIntentPending(ctx, intent.ID, gatewayOrder.ID); err != nil {
			return nil, err
		}
		intent.GatewayOrderID = &gatewayOrder.ID
	}

	return &Action{
		Type: ActionRazorpayWidget,
		Razorpay: &RazorpayWidget{
			Key:            s.razorpay.KeyID(),
			GatewayOrderID: *intent.GatewayOrderID,
			AmountPaise:    intent.AmountPaise,
			Currency:       string(order.Currency),
		},
	}, nil
}

func (s *service) dispatchStripe(ctx context.Context, group *models.CheckoutGroup) (*Action, error) {
	if s.stripe == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stripe is not configured")
	}
	order := group.Orders[0]
	intent := order.PaymentIntent
	if intent == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no payment intent")
	}

	lines := make([]stripe.SessionLine, 0, len(order.Items)+1)
	for _, item := range order.Items {
		lines = append(lines, stripe.SessionLine{
			Name:        item.Name,
			AmountPaise: item.UnitPricePaise,
			Quantity:    int64(item.Quantity),
		})
	}
	if extras := order.TotalPaise - order.SubtotalPaise; extras > 0 {
		lines = append(lines, stripe.SessionLine{
			Name:        "Shipping, taxes and fees",
			AmountPaise: extras,
			Quantity:    1,
		})
	}

	url, err := s.stripe.CreateOrderSession(ctx, order.OrderNumber, lines)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "stripe session creation failed")
	}
	if err := s.repo.MarkIntentPending(ctx, intent.ID, order.OrderNumber); err != nil {
		return nil, err
	}
	return &Action{Type: ActionStripeRedirect, RedirectURL: url}, nil
}

type paymentSettledPayload struct {
	OrderNumber      string `json:"orderNumber"`
	GatewayPaymentID string `json:"gatewayPaymentId"`
	AmountPaise      int64  `json:"amountPaise"`
}

func (s *service) VerifyRazorpay(ctx context.Context, buyerID uuid.UUID, input VerifyInput) (*models.SupplierOrder, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if input.OrderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}

	order, err := s.repo.FindOrderByNumberAndBuyer(ctx, input.OrderNumber, buyerID)
	if err != nil {
		return nil, err
	}
	intent := order.PaymentIntent
	if intent == nil || intent.Method != enums.PaymentTypeRazorpay {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not on the razorpay path")
	}
	if intent.Status == enums.PaymentStatusPaid {
		return order, nil
	}

	if input.Dismissed {
		if err := s.repo.MarkIntentFailed(ctx, intent.ID, CancelledByUserReason); err != nil {
			return nil, err
		}
		intent.Status = enums.PaymentStatusFailed
		reason := CancelledByUserReason
		intent.FailureReason = &reason
		return order, nil
	}

	if input.GatewayOrderID == "" || input.GatewayPaymentID == "" || input.Signature == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway order id, payment id and signature required")
	}
	if intent.GatewayOrderID == nil || *intent.GatewayOrderID != input.GatewayOrderID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "gateway order does not match the payment intent")
	}
	if s.razorpay == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "razorpay is not configured")
	}

	if !s.razorpay.VerifyPaymentSignature(input.GatewayOrderID, input.GatewayPaymentID, input.Signature) {
		if err := s.repo.MarkIntentFailed(ctx, intent.ID, "signature verification failed"); err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment signature verification failed")
	}

	paidAt := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.MarkIntentPaid(ctx, intent.ID, input.GatewayPaymentID, paidAt); err != nil {
			return err
		}
		if err := repo.SettleOrder(ctx, order.ID); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPaymentSettled,
			AggregateType: enums.AggregateSupplierOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: paymentSettledPayload{
				OrderNumber:      order.OrderNumber,
				GatewayPaymentID: input.GatewayPaymentID,
				AmountPaise:      intent.AmountPaise,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	order.Status = enums.OrderStatusPlaced
	order.BalanceDuePaise = 0
	intent.Status = enums.PaymentStatusPaid
	intent.GatewayPaymentID = &input.GatewayPaymentID
	intent.PaidAt = &paidAt
	return order, nil
}
