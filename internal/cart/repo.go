package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/pkg/db"
	"github.com/tradekart/tradekart-backend/pkg/db/models"
	"github.com/tradekart/tradekart-backend/pkg/enums"
)

// Repository persists carts and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindActiveByBuyer(ctx context.Context, buyerID uuid.UUID) (*models.CartRecord, error)
	FindByIDAndBuyer(ctx context.Context, cartID, buyerID uuid.UUID) (*models.CartRecord, error)
	Create(ctx context.Context, record *models.CartRecord) error
	UpdateStatus(ctx context.Context, cartID, buyerID uuid.UUID, status enums.CartStatus) error

	AddItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error
	RemoveItemsBySupplier(ctx context.Context, cartID uuid.UUID, supplierIDs []int64) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
	CountItems(ctx context.Context, cartID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed cart repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveByBuyer(ctx context.Context, buyerID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(q *gorm.DB) *gorm.DB {
			return q.Order("position ASC").Order("created_at ASC")
		}).
		Where("buyer_id = ? AND status = ?", buyerID, enums.CartStatusActive).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, db.TranslateError(err, "cart not found")
	}
	return &record, nil
}

func (r *repository) FindByIDAndBuyer(ctx context.Context, cartID, buyerID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(q *gorm.DB) *gorm.DB {
			return q.Order("position ASC").Order("created_at ASC")
		}).
		Where("id = ? AND buyer_id = ?", cartID, buyerID).
		First(&record).Error
	if err != nil {
		return nil, db.TranslateError(err, "cart not found")
	}
	return &record, nil
}

func (r *repository) Create(ctx context.Context, record *models.CartRecord) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(record).Error, "cart not found")
}

func (r *repository) UpdateStatus(ctx context.Context, cartID, buyerID uuid.UUID, status enums.CartStatus) error {
	res := r.db.WithContext(ctx).Model(&models.CartRecord{}).
		Where("id = ? AND buyer_id = ?", cartID, buyerID).
		Update("status", status)
	if res.Error != nil {
		return db.TranslateError(res.Error, "cart not found")
	}
	return nil
}

func (r *repository) AddItem(ctx context.Context, item *models.CartItem) error {
	return db.TranslateError(r.db.WithContext(ctx).Create(item).Error, "cart not found")
}

func (r *repository) UpdateItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", quantity)
	if res.Error != nil {
		return db.TranslateError(res.Error, "cart item not found")
	}
	if res.RowsAffected == 0 {
		return db.TranslateError(gorm.ErrRecordNotFound, "cart item not found")
	}
	return nil
}

func (r *repository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return db.TranslateError(res.Error, "cart item not found")
	}
	if res.RowsAffected == 0 {
		return db.TranslateError(gorm.ErrRecordNotFound, "cart item not found")
	}
	return nil
}

func (r *repository) RemoveItemsBySupplier(ctx context.Context, cartID uuid.UUID, supplierIDs []int64) error {
	if len(supplierIDs) == 0 {
		return nil
	}
	// The sentinel supplier owns the zero-valued rows too.
	query := r.db.WithContext(ctx).Where("cart_id = ?", cartID)
	hasSentinel := false
	for _, id := range supplierIDs {
		if id == DefaultSupplierID {
			hasSentinel = true
		}
	}
	if hasSentinel {
		query = query.Where("supplier_id IN ? OR supplier_id = 0", supplierIDs)
	} else {
		query = query.Where("supplier_id IN ?", supplierIDs)
	}
	return db.TranslateError(query.Delete(&models.CartItem{}).Error, "cart not found")
}

func (r *repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return db.TranslateError(
		r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error,
		"cart not found",
	)
}

func (r *repository) CountItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_id = ?", cartID).
		Count(&count).Error
	if err != nil {
		return 0, db.TranslateError(err, "cart not found")
	}
	return count, nil
}
