package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradekart/tradekart-backend/pkg/db/models"
	"github.com/tradekart/tradekart-backend/pkg/enums"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
}

type supplierNamer interface {
	Name(ctx context.Context, supplierID int64) (string, error)
}

// Service exposes cart mutation and read operations.
type Service interface {
	GetActiveCart(ctx context.Context, buyerID uuid.UUID) (*models.CartRecord, error)
	AddItem(ctx context.Context, buyerID uuid.UUID, input AddItemInput) (*models.CartRecord, error)
	UpdateItemQuantity(ctx context.Context, buyerID, itemID uuid.UUID, quantity int) (*models.CartRecord, error)
	RemoveItem(ctx context.Context, buyerID, itemID uuid.UUID) (*models.CartRecord, error)
	Clear(ctx context.Context, buyerID uuid.UUID) error
}

// AddItemInput carries an add-to-cart request.
type AddItemInput struct {
	ProductID int64
	Quantity  int
}

type service struct {
	repo      Repository
	tx        txRunner
	products  productLoader
	suppliers supplierNamer
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, products productLoader, suppliers supplierNamer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier loader required")
	}
	return &service{repo: repo, tx: tx, products: products, suppliers: suppliers}, nil
}

func (s *service) GetActiveCart(ctx context.Context, buyerID uuid.UUID) (*models.CartRecord, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	record, err := s.repo.FindActiveByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &models.CartRecord{BuyerID: buyerID, Status: enums.CartStatusActive}
	}
	return record, nil
}

func (s *service) AddItem(ctx context.Context, buyerID uuid.UUID, input AddItemInput) (*models.CartRecord, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is no longer available")
	}
	if input.Quantity < product.MOQ {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity %d below minimum order quantity %d", input.Quantity, product.MOQ))
	}

	supplierName, err := s.suppliers.Name(ctx, product.SupplierID)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindActiveByBuyer(ctx, buyerID)
		if err != nil {
			return err
		}
		if record == nil {
			record = &models.CartRecord{BuyerID: buyerID, Status: enums.CartStatusActive}
			if err := repo.Create(ctx, record); err != nil {
				return err
			}
		}

		// One line per product: adding again bumps the quantity.
		for _, existing := range record.Items {
			if existing.ProductID == input.ProductID {
				return repo.UpdateItemQuantity(ctx, record.ID, existing.ID, existing.Quantity+input.Quantity)
			}
		}

		item := &models.CartItem{
			CartID:         record.ID,
			ProductID:      product.ID,
			SupplierID:     product.SupplierID,
			SupplierName:   supplierName,
			Name:           product.Name,
			ImageURL:       product.ImageURL,
			UnitPricePaise: product.UnitPricePaise,
			Quantity:       input.Quantity,
			MOQ:            product.MOQ,
			Position:       len(record.Items),
		}
		return repo.AddItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindActiveByBuyer(ctx, buyerID)
}

func (s *service) UpdateItemQuantity(ctx context.Context, buyerID, itemID uuid.UUID, quantity int) (*models.CartRecord, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	record, err := s.activeCartOrConflict(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	var target *models.CartItem
	for i := range record.Items {
		if record.Items[i].ID == itemID {
			target = &record.Items[i]
			break
		}
	}
	if target == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if quantity < target.MOQ {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity %d below minimum order quantity %d", quantity, target.MOQ))
	}

	if err := s.repo.UpdateItemQuantity(ctx, record.ID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.repo.FindActiveByBuyer(ctx, buyerID)
}

func (s *service) RemoveItem(ctx context.Context, buyerID, itemID uuid.UUID) (*models.CartRecord, error) {
	record, err := s.activeCartOrConflict(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, record.ID, itemID); err != nil {
		return nil, err
	}
	return s.repo.FindActiveByBuyer(ctx, buyerID)
}

func (s *service) Clear(ctx context.Context, buyerID uuid.UUID) error {
	record, err := s.activeCartOrConflict(ctx, buyerID)
	if err != nil {
		return err
	}
	return s.repo.ClearItems(ctx, record.ID)
}

func (s *service) activeCartOrConflict(ctx context.Context, buyerID uuid.UUID) (*models.CartRecord, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	record, err := s.repo.FindActiveByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
	}
	return record, nil
}
