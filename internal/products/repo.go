package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/pkg/db"
	"github.com/tradekart/tradekart-backend/pkg/db/models"
)

// Repository reads product listings. Checkout only ever needs lookups; the
// catalog write path lives outside this service.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed product repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, db.TranslateError(err, "product not found")
	}
	return &product, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.Product, error) {
	out := make(map[int64]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	if err != nil {
		return nil, db.TranslateError(err, "product not found")
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}
