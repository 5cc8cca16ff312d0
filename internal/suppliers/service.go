package suppliers

import (
	"context"
	"fmt"

	"github.com/tradekart/tradekart-backend/pkg/db/models"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
)

// NotConfiguredText is rendered in place of missing bank fields so buyers
// always see why a transfer cannot be completed yet.
const NotConfiguredText = "Not configured. Contact supplier."

// BankDetails is the buyer-facing projection of a supplier's payout
// destination. Configured is false when the supplier has no profile; the
// rest of the fields then carry the sentinel text.
type BankDetails struct {
	SupplierID        int64   `json:"supplier_id"`
	SupplierName      string  `json:"supplier_name"`
	Configured        bool    `json:"configured"`
	BankName          string  `json:"bank_name"`
	AccountHolderName string  `json:"account_holder_name"`
	AccountNumber     string  `json:"account_number"`
	IFSCCode          string  `json:"ifsc_code"`
	UPIID             *string `json:"upi_id,omitempty"`
}

// Service exposes supplier lookups used by the checkout workflow.
type Service interface {
	Name(ctx context.Context, supplierID int64) (string, error)
	BankDetails(ctx context.Context, supplierID int64) (*BankDetails, error)
}

type service struct {
	repo Repository
}

// NewService builds the supplier service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Name(ctx context.Context, supplierID int64) (string, error) {
	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		return "", err
	}
	return supplier.Name, nil
}

// BankDetails never fails on a missing profile. A supplier without one gets
// the sentinel so order placement and instruction display stay unblocked.
func (s *service) BankDetails(ctx context.Context, supplierID int64) (*BankDetails, error) {
	if supplierID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id required")
	}
	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.FindBankProfile(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return ProjectBankDetails(supplier, profile), nil
}

// ProjectBankDetails maps a supplier and optional profile onto the DTO.
// Shared with the instruction presenter, which batch-loads profiles.
func ProjectBankDetails(supplier *models.Supplier, profile *models.BankProfile) *BankDetails {
	details := &BankDetails{
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
	}
	if profile == nil {
		details.BankName = NotConfiguredText
		details.AccountHolderName = NotConfiguredText
		details.AccountNumber = NotConfiguredText
		details.IFSCCode = NotConfiguredText
		return details
	}
	details.Configured = true
	details.BankName = profile.BankName
	details.AccountHolderName = profile.AccountHolderName
	details.AccountNumber = profile.AccountNumber
	details.IFSCCode = profile.IFSCCode
	details.UPIID = profile.UPIID
	return details
}
