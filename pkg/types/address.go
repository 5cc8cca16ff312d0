package types

import (
	"fmt"
	"strings"
)

// Address is the shipping destination captured at checkout. Stored as jsonb
// on supplier orders.
type Address struct {
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	Phone      string  `json:"phone,omitempty"`
}

// Validate ensures the required shipping fields are present.
func (a Address) Validate() error {
	if strings.TrimSpace(a.Line1) == "" {
		return fmt.Errorf("address: missing line1")
	}
	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("address: missing city")
	}
	if strings.TrimSpace(a.State) == "" {
		return fmt.Errorf("address: missing state")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		return fmt.Errorf("address: missing postal_code")
	}
	return nil
}

// Normalized returns a copy with a defaulted country code.
func (a Address) Normalized() Address {
	out := a
	if strings.TrimSpace(out.Country) == "" {
		out.Country = "IN"
	}
	return out
}
