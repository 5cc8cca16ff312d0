package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/pkg/db/models"
	"github.com/tradekart/tradekart-backend/pkg/enums"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
	"github.com/tradekart/tradekart-backend/pkg/outbox"
	"github.com/tradekart/tradekart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Page is one cursor page of the buyer's orders.
type Page struct {
	Orders     []models.SupplierOrder `json:"orders"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// Service exposes the buyer-facing order surface.
type Service interface {
	List(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*Page, error)
	Get(ctx context.Context, buyerID uuid.UUID, orderNumber string) (*models.SupplierOrder, error)
	Cancel(ctx context.Context, buyerID uuid.UUID, orderNumber string) (*models.SupplierOrder, error)
	AttachPaymentProof(ctx context.Context, buyerID uuid.UUID, orderNumber, reference string) (*models.SupplierOrder, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	emitter eventEmitter
}

// NewService wires the orders service.
func NewService(repo Repository, tx txRunner, emitter eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{repo: repo, tx: tx, emitter: emitter}, nil
}

func (s *service) List(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*Page, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	cursor, err := pagination.Decode(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListByBuyer(ctx, buyerID, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	page := &Page{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	page.Orders = rows
	return page, nil
}

func (s *service) Get(ctx context.Context, buyerID uuid.UUID, orderNumber string) (*models.SupplierOrder, error) {
	return s.load(ctx, buyerID, orderNumber)
}

type orderCancelledPayload struct {
	OrderNumber string `json:"orderNumber"`
	BuyerID     string `json:"buyerId"`
	SupplierID  int64  `json:"supplierId"`
}

func (s *service) Cancel(ctx context.Context, buyerID uuid.UUID, orderNumber string) (*models.SupplierOrder, error) {
	order, err := s.load(ctx, buyerID, orderNumber)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusCancelled {
		return order, nil
	}
	if !order.Status.IsCancellable() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in state %s cannot be cancelled", order.Status))
	}

	cancelledAt := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Cancel(ctx, order.ID, cancelledAt); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateSupplierOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: orderCancelledPayload{
				OrderNumber: order.OrderNumber,
				BuyerID:     buyerID.String(),
				SupplierID:  order.SupplierID,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	order.Status = enums.OrderStatusCancelled
	order.CancelledAt = &cancelledAt
	return order, nil
}

func (s *service) AttachPaymentProof(ctx context.Context, buyerID uuid.UUID, orderNumber, reference string) (*models.SupplierOrder, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "proof reference required")
	}

	order, err := s.load(ctx, buyerID, orderNumber)
	if err != nil {
		return nil, err
	}
	if !order.PaymentType.IsOfflineRail() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment proof applies to bank transfer and upi orders only")
	}
	intent := order.PaymentIntent
	if intent == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order has no payment intent")
	}
	if intent.Status == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
	}

	if err := s.repo.SetProofReference(ctx, intent.ID, reference); err != nil {
		return nil, err
	}
	intent.ProofReference = &reference
	intent.Status = enums.PaymentStatusPending
	return order, nil
}

func (s *service) load(ctx context.Context, buyerID uuid.UUID, orderNumber string) (*models.SupplierOrder, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if strings.TrimSpace(orderNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	return s.repo.FindByNumberAndBuyer(ctx, orderNumber, buyerID)
}
