package pricing

import (
	"testing"

	"github.com/tradekart/tradekart-backend/pkg/config"
	"github.com/tradekart/tradekart-backend/pkg/enums"
)

func testConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		FlatShippingPaise:   15000, // Rs 150
		TaxRateBasisPoints:  1000,  // 10%
		GatewayCommissionBP: 200,   // 2%
	}
}

func newCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := NewCalculator(testConfig())
	if err != nil {
		t.Fatalf("NewCalculator: %v", err)
	}
	return calc
}

func TestQuoteOrderGatewayCommission(t *testing.T) {
	t.Parallel()
	calc := newCalculator(t)

	// Rs 1000 subtotal, Rs 150 shipping, Rs 100 tax: commission is 2% of
	// 1250 = Rs 25, total Rs 1275.
	q := calc.QuoteOrder(100000, enums.PaymentTypeRazorpay)
	if q.TaxPaise != 10000 {
		t.Fatalf("expected tax 10000, got %d", q.TaxPaise)
	}
	if q.CommissionPaise != 2500 {
		t.Fatalf("expected commission 2500, got %d", q.CommissionPaise)
	}
	if q.TotalPaise != 127500 {
		t.Fatalf("expected total 127500, got %d", q.TotalPaise)
	}
}

func TestCommissionZeroOffGatewayTypes(t *testing.T) {
	t.Parallel()
	calc := newCalculator(t)

	for _, pt := range []enums.PaymentType{
		enums.PaymentTypeBankTransfer,
		enums.PaymentTypeUPI,
		enums.PaymentTypeCreditTerms,
	} {
		q := calc.QuoteOrder(100000, pt)
		if q.CommissionPaise != 0 {
			t.Fatalf("%s: expected zero commission, got %d", pt, q.CommissionPaise)
		}
		if q.TotalPaise != 125000 {
			t.Fatalf("%s: expected total 125000, got %d", pt, q.TotalPaise)
		}
	}

	for _, pt := range []enums.PaymentType{enums.PaymentTypeRazorpay, enums.PaymentTypeStripe} {
		if q := calc.QuoteOrder(100000, pt); q.CommissionPaise == 0 {
			t.Fatalf("%s: expected commission to be levied", pt)
		}
	}
}

func TestQuoteGroupsSplitsShippingAndTaxesPerGroup(t *testing.T) {
	t.Parallel()
	calc := newCalculator(t)

	// Suppliers with Rs 600 and Rs 400 subtotals: Rs 75 shipping each,
	// tax Rs 60 and Rs 40.
	quotes := calc.QuoteGroups([]int64{60000, 40000}, enums.PaymentTypeBankTransfer)
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].ShippingPaise != 7500 || quotes[1].ShippingPaise != 7500 {
		t.Fatalf("expected 7500 shipping each, got %d and %d", quotes[0].ShippingPaise, quotes[1].ShippingPaise)
	}
	if quotes[0].TaxPaise != 6000 || quotes[1].TaxPaise != 4000 {
		t.Fatalf("expected tax 6000/4000, got %d/%d", quotes[0].TaxPaise, quotes[1].TaxPaise)
	}
}

func TestSplitTotalsReconstructSingleOrderTotal(t *testing.T) {
	t.Parallel()
	calc := newCalculator(t)

	single := calc.QuoteOrder(100000, enums.PaymentTypeUPI)
	split := calc.QuoteGroups([]int64{60000, 40000}, enums.PaymentTypeUPI)

	var splitTotal int64
	for _, q := range split {
		splitTotal += q.TotalPaise
	}
	if splitTotal != single.TotalPaise {
		t.Fatalf("split totals %d do not reconstruct single total %d", splitTotal, single.TotalPaise)
	}
}

func TestSplitEvenlyDistributesRemainder(t *testing.T) {
	t.Parallel()
	shares := SplitEvenly(100, 3)
	if len(shares) != 3 {
		t.Fatalf("expected 3 shares, got %d", len(shares))
	}
	if shares[0] != 34 || shares[1] != 33 || shares[2] != 33 {
		t.Fatalf("unexpected shares %v", shares)
	}
	var sum int64
	for _, s := range shares {
		sum += s
	}
	if sum != 100 {
		t.Fatalf("shares sum to %d", sum)
	}
}

func TestSplitEvenlyDegenerateInputs(t *testing.T) {
	t.Parallel()
	if shares := SplitEvenly(100, 0); shares != nil {
		t.Fatalf("expected nil for zero groups, got %v", shares)
	}
	if shares := SplitEvenly(0, 2); shares[0] != 0 || shares[1] != 0 {
		t.Fatalf("expected zero shares, got %v", shares)
	}
}

func TestCommissionRoundsHalfUp(t *testing.T) {
	t.Parallel()
	calc := newCalculator(t)

	// subtotal 1011 paise: tax rounds 101.1 -> 101; base 1011+15000+101 =
	// 16112; commission 322.24 -> 322.
	q := calc.QuoteOrder(1011, enums.PaymentTypeStripe)
	if q.TaxPaise != 101 {
		t.Fatalf("expected tax 101, got %d", q.TaxPaise)
	}
	if q.CommissionPaise != 322 {
		t.Fatalf("expected commission 322, got %d", q.CommissionPaise)
	}
}
