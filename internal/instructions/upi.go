package instructions

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// BuildUPIURI renders the upi://pay deep link for one order. Amounts arrive
// in paise and are rendered as rupees with two decimals, the format UPI apps
// expect. All parameter values are query-escaped.
func BuildUPIURI(vpa, payeeName string, amountPaise int64, note string) string {
	rupees := decimal.New(amountPaise, -2).StringFixed(2)
	params := url.Values{}
	params.Set("pa", vpa)
	params.Set("pn", payeeName)
	params.Set("am", rupees)
	params.Set("tn", note)
	params.Set("cu", "INR")
	return fmt.Sprintf("upi://pay?%s", params.Encode())
}
