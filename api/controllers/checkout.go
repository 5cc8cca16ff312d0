package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/api/responses"
	"github.com/tradekart/tradekart-backend/api/validators"
	checkoutsvc "github.com/tradekart/tradekart-backend/internal/checkout"
	paymentsvc "github.com/tradekart/tradekart-backend/internal/payments"
	"github.com/tradekart/tradekart-backend/pkg/db/models"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
	"github.com/tradekart/tradekart-backend/pkg/logger"
	"github.com/tradekart/tradekart-backend/pkg/types"
)

// Checkout submits the buyer's cart and dispatches the group onto its
// payment path. Orders that were created survive a dispatch failure; the
// client retries payment against the confirmation endpoint.
func Checkout(svc checkoutsvc.Service, payments paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || payments == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), buyerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := payments.Dispatch(r.Context(), buyerID, result.GroupID)
		if err != nil {
			// Orders exist; surface the dispatch failure alongside them so
			// the client can retry payment without resubmitting the cart.
			if logg != nil {
				logg.Error(r.Context(), "payment dispatch after checkout failed", err)
			}
			responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(result, nil, dispatchErrorMessage(err)))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCheckoutResponse(result, action, ""))
	}
}

// CheckoutConfirmation returns the checkout group with its orders.
func CheckoutConfirmation(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		groupID, err := groupIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.Confirmation(r.Context(), buyerID, groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newConfirmationResponse(group))
	}
}

type checkoutRequest struct {
	CartID          uuid.UUID     `json:"cart_id" validate:"required"`
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
	PONumber        *string       `json:"po_number,omitempty"`
	PaymentType     string        `json:"payment_type" validate:"required"`
	CreditTermsDays *int          `json:"credit_terms_days,omitempty"`
}

func (r checkoutRequest) toInput() (checkoutsvc.SubmitInput, error) {
	paymentType, err := parsePaymentType(r.PaymentType)
	if err != nil {
		return checkoutsvc.SubmitInput{}, err
	}
	return checkoutsvc.SubmitInput{
		CartID:          r.CartID,
		ShippingAddress: r.ShippingAddress,
		PONumber:        r.PONumber,
		PaymentType:     paymentType,
		CreditTermsDays: r.CreditTermsDays,
	}, nil
}

type checkoutResponse struct {
	CheckoutGroupID uuid.UUID                    `json:"checkout_group_id"`
	PaymentType     string                       `json:"payment_type"`
	Orders          []orderResponse              `json:"orders"`
	FailedSuppliers []checkoutsvc.FailedSupplier `json:"failed_suppliers,omitempty"`
	CartCleared     bool                         `json:"cart_cleared"`
	Action          *paymentsvc.Action           `json:"action,omitempty"`
	ActionError     string                       `json:"action_error,omitempty"`
}

type confirmationResponse struct {
	CheckoutGroupID uuid.UUID       `json:"checkout_group_id"`
	PaymentType     string          `json:"payment_type"`
	Orders          []orderResponse `json:"orders"`
	CreatedAt       time.Time       `json:"created_at"`
}

func newCheckoutResponse(result *checkoutsvc.SubmitResult, action *paymentsvc.Action, actionError string) checkoutResponse {
	resp := checkoutResponse{
		CheckoutGroupID: result.GroupID,
		PaymentType:     result.PaymentType.String(),
		FailedSuppliers: result.Failed,
		CartCleared:     result.CartCleared,
		Action:          action,
		ActionError:     actionError,
	}
	for i := range result.Orders {
		resp.Orders = append(resp.Orders, newOrderResponse(&result.Orders[i]))
	}
	return resp
}

func newConfirmationResponse(group *models.CheckoutGroup) confirmationResponse {
	resp := confirmationResponse{
		CheckoutGroupID: group.ID,
		PaymentType:     group.PaymentType.String(),
		CreatedAt:       group.CreatedAt,
	}
	for i := range group.Orders {
		resp.Orders = append(resp.Orders, newOrderResponse(&group.Orders[i]))
	}
	return resp
}

func dispatchErrorMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return "payment dispatch failed"
}
