package suppliers

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/pkg/db"
	"github.com/tradekart/tradekart-backend/pkg/db/models"
)

// Repository reads supplier records and their bank profiles.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*models.Supplier, error)
	FindBankProfile(ctx context.Context, supplierID int64) (*models.BankProfile, error)
	FindBankProfiles(ctx context.Context, supplierIDs []int64) (map[int64]*models.BankProfile, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed supplier repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&supplier).Error
	if err != nil {
		return nil, db.TranslateError(err, "supplier not found")
	}
	return &supplier, nil
}

// FindBankProfile returns nil, nil when the supplier has no profile. Callers
// translate absence into the not-configured presentation, never an error.
func (r *repository) FindBankProfile(ctx context.Context, supplierID int64) (*models.BankProfile, error) {
	var profile models.BankProfile
	err := r.db.WithContext(ctx).Where("supplier_id = ?", supplierID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, db.TranslateError(err, "bank profile not found")
	}
	return &profile, nil
}

func (r *repository) FindBankProfiles(ctx context.Context, supplierIDs []int64) (map[int64]*models.BankProfile, error) {
	out := make(map[int64]*models.BankProfile, len(supplierIDs))
	if len(supplierIDs) == 0 {
		return out, nil
	}
	var rows []models.BankProfile
	err := r.db.WithContext(ctx).Where("supplier_id IN ?", supplierIDs).Find(&rows).Error
	if err != nil {
		return nil, db.TranslateError(err, "bank profile not found")
	}
	for i := range rows {
		out[rows[i].SupplierID] = &rows[i]
	}
	return out, nil
}
