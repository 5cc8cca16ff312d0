package suppliers

import (
	"context"
	"testing"

	"github.com/tradekart/tradekart-backend/pkg/db/models"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
)

type fakeRepo struct {
	supplier *models.Supplier
	profile  *models.BankProfile
	err      error
}

func (f *fakeRepo) FindByID(ctx context.Context, id int64) (*models.Supplier, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.supplier, nil
}

func (f *fakeRepo) FindBankProfile(ctx context.Context, supplierID int64) (*models.BankProfile, error) {
	return f.profile, nil
}

func (f *fakeRepo) FindBankProfiles(ctx context.Context, supplierIDs []int64) (map[int64]*models.BankProfile, error) {
	if f.profile == nil {
		return map[int64]*models.BankProfile{}, nil
	}
	return map[int64]*models.BankProfile{f.profile.SupplierID: f.profile}, nil
}

func TestBankDetailsConfigured(t *testing.T) {
	t.Parallel()
	upi := "acme@okhdfcbank"
	svc, err := NewService(&fakeRepo{
		supplier: &models.Supplier{ID: 7, Name: "Acme Traders"},
		profile: &models.BankProfile{
			SupplierID:        7,
			BankName:          "HDFC Bank",
			AccountHolderName: "Acme Traders Pvt Ltd",
			AccountNumber:     "50100212345678",
			IFSCCode:          "HDFC0001234",
			UPIID:             &upi,
		},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	details, err := svc.BankDetails(context.Background(), 7)
	if err != nil {
		t.Fatalf("BankDetails: %v", err)
	}
	if !details.Configured {
		t.Fatal("expected configured profile")
	}
	if details.IFSCCode != "HDFC0001234" {
		t.Fatalf("unexpected ifsc %q", details.IFSCCode)
	}
	if details.UPIID == nil || *details.UPIID != upi {
		t.Fatalf("unexpected upi id %v", details.UPIID)
	}
}

func TestBankDetailsNotConfiguredSentinel(t *testing.T) {
	t.Parallel()
	svc, err := NewService(&fakeRepo{supplier: &models.Supplier{ID: 7, Name: "Acme Traders"}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	details, err := svc.BankDetails(context.Background(), 7)
	if err != nil {
		t.Fatalf("BankDetails: %v", err)
	}
	if details.Configured {
		t.Fatal("expected unconfigured profile")
	}
	if details.BankName != NotConfiguredText || details.AccountNumber != NotConfiguredText {
		t.Fatalf("expected sentinel text, got %+v", details)
	}
	if details.UPIID != nil {
		t.Fatalf("expected no upi id, got %v", details.UPIID)
	}
	if details.SupplierName != "Acme Traders" {
		t.Fatalf("supplier name should still render, got %q", details.SupplierName)
	}
}

func TestBankDetailsRejectsBadSupplierID(t *testing.T) {
	t.Parallel()
	svc, err := NewService(&fakeRepo{supplier: &models.Supplier{ID: 1, Name: "x"}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	_, err = svc.BankDetails(context.Background(), 0)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
