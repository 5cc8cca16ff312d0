package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/api/responses"
	"github.com/tradekart/tradekart-backend/api/validators"
	ordersvc "github.com/tradekart/tradekart-backend/internal/orders"
	"github.com/tradekart/tradekart-backend/pkg/db/models"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
	"github.com/tradekart/tradekart-backend/pkg/logger"
	"github.com/tradekart/tradekart-backend/pkg/pagination"
	"github.com/tradekart/tradekart-backend/pkg/types"
)

// OrdersList returns a cursor page of the buyer's orders, newest first.
func OrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), buyerID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderPageResponse(page))
	}
}

// OrderGet returns one of the buyer's orders by order number.
func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderNumber, err := orderNumberParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), buyerID, orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrderCancel cancels an order still in a cancellable state.
func OrderCancel(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderNumber, err := orderNumberParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), buyerID, orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// OrderPaymentProof records a transfer reference against an offline-rail
// order so the supplier can reconcile the incoming payment.
func OrderPaymentProof(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderNumber, err := orderNumberParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentProofRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AttachPaymentProof(r.Context(), buyerID, orderNumber, payload.Reference)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

type paymentProofRequest struct {
	Reference string `json:"reference" validate:"required"`
}

type orderPageResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

type orderResponse struct {
	ID              uuid.UUID              `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	SupplierID      int64                  `json:"supplier_id"`
	SupplierName    string                 `json:"supplier_name"`
	Currency        string                 `json:"currency"`
	SubtotalPaise   int64                  `json:"subtotal_paise"`
	TaxPaise        int64                  `json:"tax_paise"`
	ShippingPaise   int64                  `json:"shipping_paise"`
	CommissionPaise int64                  `json:"commission_paise"`
	TotalPaise      int64                  `json:"total_paise"`
	BalanceDuePaise int64                  `json:"balance_due_paise"`
	PaymentType     string                 `json:"payment_type"`
	Status          string                 `json:"status"`
	PONumber        *string                `json:"po_number,omitempty"`
	CreditTermsDays *int                   `json:"credit_terms_days,omitempty"`
	PaymentDueAt    *time.Time             `json:"payment_due_at,omitempty"`
	ShippingAddress *types.Address         `json:"shipping_address,omitempty"`
	Items           []orderItemResponse    `json:"items"`
	Payment         *paymentIntentResponse `json:"payment,omitempty"`
	CancelledAt     *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

type orderItemResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      int64     `json:"product_id"`
	Name           string    `json:"name"`
	UnitPricePaise int64     `json:"unit_price_paise"`
	Quantity       int       `json:"quantity"`
	TotalPaise     int64     `json:"total_paise"`
}

type paymentIntentResponse struct {
	Method           string     `json:"method"`
	Status           string     `json:"status"`
	AmountPaise      int64      `json:"amount_paise"`
	GatewayOrderID   *string    `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string    `json:"gateway_payment_id,omitempty"`
	FailureReason    *string    `json:"failure_reason,omitempty"`
	ProofReference   *string    `json:"proof_reference,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
}

func newOrderPageResponse(page *ordersvc.Page) orderPageResponse {
	resp := orderPageResponse{NextCursor: page.NextCursor}
	for i := range page.Orders {
		resp.Orders = append(resp.Orders, newOrderResponse(&page.Orders[i]))
	}
	return resp
}

func newOrderResponse(order *models.SupplierOrder) orderResponse {
	resp := orderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		Currency:        string(order.Currency),
		SubtotalPaise:   order.SubtotalPaise,
		TaxPaise:        order.TaxPaise,
		ShippingPaise:   order.ShippingPaise,
		CommissionPaise: order.CommissionPaise,
		TotalPaise:      order.TotalPaise,
		BalanceDuePaise: order.BalanceDuePaise,
		PaymentType:     order.PaymentType.String(),
		Status:          order.Status.String(),
		PONumber:        order.PONumber,
		CreditTermsDays: order.CreditTermsDays,
		PaymentDueAt:    order.PaymentDueAt,
		ShippingAddress: order.ShippingAddress,
		CancelledAt:     order.CancelledAt,
		CreatedAt:       order.CreatedAt,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPricePaise: item.UnitPricePaise,
			Quantity:       item.Quantity,
			TotalPaise:     item.TotalPaise,
		})
	}
	if intent := order.PaymentIntent; intent != nil {
		resp.Payment = &paymentIntentResponse{
			Method:           intent.Method.String(),
			Status:           string(intent.Status),
			AmountPaise:      intent.AmountPaise,
			GatewayOrderID:   intent.GatewayOrderID,
			GatewayPaymentID: intent.GatewayPaymentID,
			FailureReason:    intent.FailureReason,
			ProofReference:   intent.ProofReference,
			PaidAt:           intent.PaidAt,
		}
	}
	return resp
}
