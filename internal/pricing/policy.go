package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tradekart/tradekart-backend/pkg/enums"
)

// Policy is the enumerated commission table: payment type to commission
// rate. Keeping the rule in one table makes the taxation auditable instead
// of scattering gateway checks through the orchestrator.
type Policy struct {
	rates map[enums.PaymentType]decimal.Decimal
}

// NewPolicy builds the table. Only the instant gateway types carry the
// configured commission; every other rail is zero-rated.
func NewPolicy(gatewayCommissionBasisPoints int64) *Policy {
	gatewayRate := decimal.New(gatewayCommissionBasisPoints, -4)
	zero := decimal.Zero

	rates := make(map[enums.PaymentType]decimal.Decimal)
	for _, pt := range []enums.PaymentType{
		enums.PaymentTypeBankTransfer,
		enums.PaymentTypeUPI,
		enums.PaymentTypeCreditTerms,
		enums.PaymentTypeRazorpay,
		enums.PaymentTypeStripe,
	} {
		if pt.IsInstantGateway() {
			rates[pt] = gatewayRate
		} else {
			rates[pt] = zero
		}
	}
	return &Policy{rates: rates}
}

// CommissionRate returns the fractional commission rate for a payment type.
// Unknown types are zero-rated rather than guessed at.
func (p *Policy) CommissionRate(paymentType enums.PaymentType) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	if rate, ok := p.rates[paymentType]; ok {
		return rate
	}
	return decimal.Zero
}
