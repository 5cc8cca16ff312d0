package enums

import "fmt"

// PaymentType identifies the settlement path chosen at checkout.
type PaymentType string

const (
	PaymentTypeBankTransfer PaymentType = "bank_transfer"
	PaymentTypeUPI          PaymentType = "upi"
	PaymentTypeCreditTerms  PaymentType = "credit_terms"
	PaymentTypeRazorpay     PaymentType = "razorpay"
	PaymentTypeStripe       PaymentType = "stripe"
)

var validPaymentTypes = []PaymentType{
	PaymentTypeBankTransfer,
	PaymentTypeUPI,
	PaymentTypeCreditTerms,
	PaymentTypeRazorpay,
	PaymentTypeStripe,
}

// String implements fmt.Stringer.
func (p PaymentType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentType.
func (p PaymentType) IsValid() bool {
	for _, candidate := range validPaymentTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsOfflineRail reports whether payment happens outside the platform with
// instruction display. Only these rails may split a multi-supplier cart.
func (p PaymentType) IsOfflineRail() bool {
	return p == PaymentTypeBankTransfer || p == PaymentTypeUPI
}

// IsInstantGateway reports whether the type settles through a hosted gateway
// at checkout time.
func (p PaymentType) IsInstantGateway() bool {
	return p == PaymentTypeRazorpay || p == PaymentTypeStripe
}

// ParsePaymentType converts raw input into a PaymentType.
func ParsePaymentType(value string) (PaymentType, error) {
	for _, candidate := range validPaymentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment type %q", value)
}
