package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	suppliersvc "github.com/tradekart/tradekart-backend/internal/suppliers"
)

type stubSupplierService struct {
	details *suppliersvc.BankDetails
	err     error
}

func (s stubSupplierService) Name(ctx context.Context, supplierID int64) (string, error) {
	if s.details != nil {
		return s.details.SupplierName, s.err
	}
	return "", s.err
}

func (s stubSupplierService) BankDetails(ctx context.Context, supplierID int64) (*suppliersvc.BankDetails, error) {
	return s.details, s.err
}

func supplierRouter(svc suppliersvc.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/suppliers/{supplierId}/bank-details", SupplierBankDetails(svc, nil))
	return r
}

func TestSupplierBankDetailsNotConfiguredStillOK(t *testing.T) {
	t.Parallel()

	svc := stubSupplierService{details: &suppliersvc.BankDetails{
		SupplierID:        9,
		SupplierName:      "Verma Metals",
		Configured:        false,
		BankName:          suppliersvc.NotConfiguredText,
		AccountHolderName: suppliersvc.NotConfiguredText,
		AccountNumber:     suppliersvc.NotConfiguredText,
		IFSCCode:          suppliersvc.NotConfiguredText,
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/suppliers/9/bank-details", nil)
	resp := httptest.NewRecorder()
	supplierRouter(svc).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data suppliersvc.BankDetails `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Data.Configured {
		t.Fatal("expected configured=false")
	}
	if envelope.Data.BankName != suppliersvc.NotConfiguredText {
		t.Fatalf("expected sentinel text, got %q", envelope.Data.BankName)
	}
}

func TestSupplierBankDetailsRejectsBadID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/suppliers/not-a-number/bank-details", nil)
	resp := httptest.NewRecorder()
	supplierRouter(stubSupplierService{}).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
