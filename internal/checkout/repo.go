package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/pkg/db"
	"github.com/tradekart/tradekart-backend/pkg/db/models"
)

// Repository persists checkout groups and the supplier orders they produce.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateGroup(ctx context.Context, group *models.CheckoutGroup) error
	FindGroupByIDAndBuyer(ctx context.Context, groupID, buyerID uuid.UUID) (*models.CheckoutGroup, error)
	CreateOrder(ctx context.Context, order *models.SupplierOrder) error
	NextOrderNumber(ctx context.Context, prefix string) (string, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed checkout repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateGroup(ctx context.Context, group *models.CheckoutGroup) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(group).Error, "checkout group not found")
}

func (r *repository) FindGroupByIDAndBuyer(ctx context.Context, groupID, buyerID uuid.UUID) (*models.CheckoutGroup, error) {
	var group models.CheckoutGroup
	err := r.db.WithContext(ctx).
		Preload("Orders", func(q *gorm.DB) *gorm.DB {
			return q.Order("created_at ASC")
		}).
		Preload("Orders.Items").
		Preload("Orders.PaymentIntent").
		Where("id = ? AND buyer_id = ?", groupID, buyerID).
		First(&group).Error
	if err != nil {
		return nil, db.TranslateError(err, "checkout group not found")
	}
	return &group, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.SupplierOrder) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(order).Error, "order not found")
}

// NextOrderNumber claims an allocation row and formats its id. The sequence
// is global, not per supplier, so numbers stay unique across the platform.
func (r *repository) NextOrderNumber(ctx context.Context, prefix string) (string, error) {
	seq := models.OrderSequence{}
	if err := r.db.WithContext(ctx).Create(&seq).Error; err != nil {
		return "", db.TranslateError(err, "order number allocation failed")
	}
	return fmt.Sprintf("%s-%06d", prefix, seq.ID), nil
}
