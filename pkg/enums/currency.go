package enums

// Currency is the ISO 4217 code carried on orders. The platform settles in
// INR only; the column exists so historic rows stay readable if that changes.
type Currency string

const CurrencyINR Currency = "INR"

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}
