package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/pkg/db"
	"github.com/tradekart/tradekart-backend/pkg/db/models"
	"github.com/tradekart/tradekart-backend/pkg/enums"
	"github.com/tradekart/tradekart-backend/pkg/pagination"
)

// Repository reads and transitions supplier orders for the buyer surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListByBuyer(ctx context.Context, buyerID uuid.UUID, cursor pagination.Cursor, limit int) ([]models.SupplierOrder, error)
	FindByNumberAndBuyer(ctx context.Context, orderNumber string, buyerID uuid.UUID) (*models.SupplierOrder, error)
	Cancel(ctx context.Context, orderID uuid.UUID, at time.Time) error
	SetProofReference(ctx context.Context, intentID uuid.UUID, reference string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed orders repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ListByBuyer pages newest-first on (created_at, id).
func (r *repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, cursor pagination.Cursor, limit int) ([]models.SupplierOrder, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Preload("PaymentIntent").
		Where("buyer_id = ?", buyerID)
	if !cursor.CreatedAt.IsZero() {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.SupplierOrder
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, db.TranslateError(err, "orders not found")
	}
	return rows, nil
}

func (r *repository) FindByNumberAndBuyer(ctx context.Context, orderNumber string, buyerID uuid.UUID) (*models.SupplierOrder, error) {
	var order models.SupplierOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("PaymentIntent").
		Where("order_number = ? AND buyer_id = ?", orderNumber, buyerID).
		First(&order).Error
	if err != nil {
		return nil, db.TranslateError(err, "order not found")
	}
	return &order, nil
}

// Cancel flips the order to cancelled; the state check lives in the service.
func (r *repository) Cancel(ctx context.Context, orderID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.SupplierOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":       enums.OrderStatusCancelled,
			"cancelled_at": at,
		})
	if res.Error != nil {
		return db.TranslateError(res.Error, "order not found")
	}
	if res.RowsAffected == 0 {
		return db.TranslateError(gorm.ErrRecordNotFound, "order not found")
	}
	return nil
}

func (r *repository) SetProofReference(ctx context.Context, intentID uuid.UUID, reference string) error {
	res := r.db.WithContext(ctx).Model(&models.PaymentIntent{}).
		Where("id = ?", intentID).
		Updates(map[string]any{
			"proof_reference": reference,
			"status":          enums.PaymentStatusPending,
		})
	if res.Error != nil {
		return db.TranslateError(res.Error, "payment intent not found")
	}
	if res.RowsAffected == 0 {
		return db.TranslateError(gorm.ErrRecordNotFound, "payment intent not found")
	}
	return nil
}
