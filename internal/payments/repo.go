package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/pkg/db"
	"github.com/tradekart/tradekart-backend/pkg/db/models"
	"github.com/tradekart/tradekart-backend/pkg/enums"
)

// Repository persists payment intent transitions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOrderByNumberAndBuyer(ctx context.Context, orderNumber string, buyerID uuid.UUID) (*models.SupplierOrder, error)
	MarkIntentPending(ctx context.Context, intentID uuid.UUID, gatewayOrderID string) error
	MarkIntentPaid(ctx context.Context, intentID uuid.UUID, gatewayPaymentID string, paidAt time.Time) error
	MarkIntentFailed(ctx context.Context, intentID uuid.UUID, reason string) error
	SettleOrder(ctx context.Context, orderID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed payments repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOrderByNumberAndBuyer(ctx context.Context, orderNumber string, buyerID uuid.UUID) (*models.SupplierOrder, error) {
	var order models.SupplierOrder
	err := r.db.WithContext(ctx).
		Preload("PaymentIntent").
		Where("order_number = ? AND buyer_id = ?", orderNumber, buyerID).
		First(&order).Error
	if err != nil {
		return nil, db.TranslateError(err, "order not found")
	}
	return &order, nil
}

func (r *repository) MarkIntentPending(ctx context.Context, intentID uuid.UUID, gatewayOrderID string) error {
	return r.updateIntent(ctx, intentID, map[string]any{
		"status":           enums.PaymentStatusPending,
		"gateway_order_id": gatewayOrderID,
	})
}

func (r *repository) MarkIntentPaid(ctx context.Context, intentID uuid.UUID, gatewayPaymentID string, paidAt time.Time) error {
	return r.updateIntent(ctx, intentID, map[string]any{
		"status":             enums.PaymentStatusPaid,
		"gateway_payment_id": gatewayPaymentID,
		"failure_reason":     nil,
		"paid_at":            paidAt,
	})
}

func (r *repository) MarkIntentFailed(ctx context.Context, intentID uuid.UUID, reason string) error {
	return r.updateIntent(ctx, intentID, map[string]any{
		"status":         enums.PaymentStatusFailed,
		"failure_reason": reason,
	})
}

// SettleOrder moves a paid order into the fulfillable state.
func (r *repository) SettleOrder(ctx context.Context, orderID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.SupplierOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":            enums.OrderStatusPlaced,
			"balance_due_paise": 0,
		})
	if res.Error != nil {
		return db.TranslateError(res.Error, "order not found")
	}
	if res.RowsAffected == 0 {
		return db.TranslateError(gorm.ErrRecordNotFound, "order not found")
	}
	return nil
}

func (r *repository) updateIntent(ctx context.Context, intentID uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.PaymentIntent{}).
		Where("id = ?", intentID).
		Updates(fields)
	if res.Error != nil {
		return db.TranslateError(res.Error, "payment intent not found")
	}
	if res.RowsAffected == 0 {
		return db.TranslateError(gorm.ErrRecordNotFound, "payment intent not found")
	}
	return nil
}
