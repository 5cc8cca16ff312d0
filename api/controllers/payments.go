package controllers

import (
	"net/http"

	"github.com/tradekart/tradekart-backend/api/responses"
	"github.com/tradekart/tradekart-backend/api/validators"
	paymentsvc "github.com/tradekart/tradekart-backend/internal/payments"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
	"github.com/tradekart/tradekart-backend/pkg/logger"
)

// RazorpayKey exposes the publishable key the checkout widget is mounted
// with.
func RazorpayKey(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		key := svc.RazorpayKey()
		if key == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "razorpay is not configured"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"key": key})
	}
}

// RazorpayVerify handles the widget callback: a signed success, or a
// dismissal that fails the intent without error.
func RazorpayVerify(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload razorpayVerifyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.VerifyRazorpay(r.Context(), buyerID, paymentsvc.VerifyInput{
			OrderNumber:      payload.OrderNumber,
			GatewayOrderID:   payload.RazorpayOrderID,
			GatewayPaymentID: payload.RazorpayPaymentID,
			Signature:        payload.RazorpaySignature,
			Dismissed:        payload.Dismissed,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type razorpayVerifyRequest struct {
	OrderNumber       string `json:"order_number" validate:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	Dismissed         bool   `json:"dismissed"`
}
