package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tradekart/tradekart-backend/pkg/config"
	"github.com/tradekart/tradekart-backend/pkg/enums"
)

// Quote is the priced breakdown for one order. All amounts are paise; the
// stored totals are never locale-formatted, that happens at render time.
type Quote struct {
	SubtotalPaise   int64 `json:"subtotal_paise"`
	ShippingPaise   int64 `json:"shipping_paise"`
	TaxPaise        int64 `json:"tax_paise"`
	CommissionPaise int64 `json:"commission_paise"`
	TotalPaise      int64 `json:"total_paise"`
}

// Calculator derives shipping, tax, and payment-type-dependent commission.
// It is pure: same inputs, same quote, no I/O.
type Calculator struct {
	flatShippingPaise int64
	taxRate           decimal.Decimal
	policy            *Policy
}

// NewCalculator wires the pricing constants and the commission policy.
func NewCalculator(cfg config.CheckoutConfig) (*Calculator, error) {
	if cfg.FlatShippingPaise < 0 {
		return nil, fmt.Errorf("flat shipping must not be negative")
	}
	if cfg.TaxRateBasisPoints < 0 {
		return nil, fmt.Errorf("tax rate must not be negative")
	}
	return &Calculator{
		flatShippingPaise: cfg.FlatShippingPaise,
		taxRate:           decimal.New(cfg.TaxRateBasisPoints, -4),
		policy:            NewPolicy(cfg.GatewayCommissionBP),
	}, nil
}

// FlatShippingPaise exposes the configured flat shipping charge.
func (c *Calculator) FlatShippingPaise() int64 {
	return c.flatShippingPaise
}

// QuoteOrder prices a single order with the full flat shipping charge.
func (c *Calculator) QuoteOrder(subtotalPaise int64, paymentType enums.PaymentType) Quote {
	return c.quote(subtotalPaise, c.flatShippingPaise, paymentType)
}

// QuoteGroups prices one order per supplier group subtotal. The shared flat
// shipping is split evenly; leftover paise land on the earliest groups so
// the split always reconstructs the undivided charge.
func (c *Calculator) QuoteGroups(subtotals []int64, paymentType enums.PaymentType) []Quote {
	shares := SplitEvenly(c.flatShippingPaise, len(subtotals))
	quotes := make([]Quote, len(subtotals))
	for i, subtotal := range subtotals {
		quotes[i] = c.quote(subtotal, shares[i], paymentType)
	}
	return quotes
}

func (c *Calculator) quote(subtotalPaise, shippingPaise int64, paymentType enums.PaymentType) Quote {
	subtotal := decimal.NewFromInt(subtotalPaise)
	tax := subtotal.Mul(c.taxRate).Round(0)

	base := subtotal.Add(decimal.NewFromInt(shippingPaise)).Add(tax)
	commission := base.Mul(c.policy.CommissionRate(paymentType)).Round(0)

	total := base.Add(commission)
	return Quote{
		SubtotalPaise:   subtotalPaise,
		ShippingPaise:   shippingPaise,
		TaxPaise:        tax.IntPart(),
		CommissionPaise: commission.IntPart(),
		TotalPaise:      total.IntPart(),
	}
}

// SplitEvenly divides an amount into n integer shares differing by at most
// one paise, larger shares first.
func SplitEvenly(amountPaise int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	base := amountPaise / int64(n)
	remainder := amountPaise % int64(n)
	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < remainder {
			shares[i]++
		}
	}
	return shares
}
