package enums

import "fmt"

// CreditTermsDays is the deferred payment window granted on credit-terms
// orders. Only the standard NET windows are accepted.
type CreditTermsDays int

const (
	CreditTermsNet30 CreditTermsDays = 30
	CreditTermsNet60 CreditTermsDays = 60
	CreditTermsNet90 CreditTermsDays = 90
)

var validCreditTerms = []CreditTermsDays{
	CreditTermsNet30,
	CreditTermsNet60,
	CreditTermsNet90,
}

// IsValid reports whether the value is a supported NET window.
func (c CreditTermsDays) IsValid() bool {
	for _, candidate := range validCreditTerms {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCreditTermsDays converts raw input into a CreditTermsDays.
func ParseCreditTermsDays(value int) (CreditTermsDays, error) {
	terms := CreditTermsDays(value)
	if !terms.IsValid() {
		return 0, fmt.Errorf("invalid credit terms window %d", value)
	}
	return terms, nil
}
