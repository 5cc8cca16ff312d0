package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/api/responses"
	"github.com/tradekart/tradekart-backend/api/validators"
	cartsvc "github.com/tradekart/tradekart-backend/internal/cart"
	"github.com/tradekart/tradekart-backend/internal/pricing"
	"github.com/tradekart/tradekart-backend/pkg/db/models"
	"github.com/tradekart/tradekart-backend/pkg/enums"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
	"github.com/tradekart/tradekart-backend/pkg/logger"
)

// CartGet returns the buyer's active cart grouped by supplier, with a quote
// per group. The optional payment_type query previews the commission a
// gateway checkout would add; the default previews the offline rails.
func CartGet(svc cartsvc.Service, calc *pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentType := enums.PaymentTypeBankTransfer
		if raw := r.URL.Query().Get("payment_type"); raw != "" {
			parsed, err := enums.ParsePaymentType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment type"))
				return
			}
			paymentType = parsed
		}

		record, err := svc.GetActiveCart(r.Context(), buyerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record, calc, paymentType))
	}
}

// CartAddItem adds a product to the cart, creating the cart when needed.
func CartAddItem(svc cartsvc.Service, calc *pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddItem(r.Context(), buyerID, cartsvc.AddItemInput{
			ProductID: payload.ProductID,
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(record, calc, enums.PaymentTypeBankTransfer))
	}
}

// CartUpdateItem changes a line's quantity.
func CartUpdateItem(svc cartsvc.Service, calc *pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateItemQuantity(r.Context(), buyerID, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record, calc, enums.PaymentTypeBankTransfer))
	}
}

// CartRemoveItem deletes a line from the cart.
func CartRemoveItem(svc cartsvc.Service, calc *pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		record, err := svc.RemoveItem(r.Context(), buyerID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record, calc, enums.PaymentTypeBankTransfer))
	}
}

// CartClear empties the active cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		buyerID, err := buyerIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), buyerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type cartResponse struct {
	ID             uuid.UUID           `json:"id"`
	Status         string              `json:"status"`
	SupplierGroups []cartGroupResponse `json:"supplier_groups"`
	SubtotalPaise  int64               `json:"subtotal_paise"`
	ItemCount      int                 `json:"item_count"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type cartGroupResponse struct {
	SupplierID   int64              `json:"supplier_id"`
	SupplierName string             `json:"supplier_name"`
	Items        []cartItemResponse `json:"items"`
	Quote        pricing.Quote      `json:"quote"`
}

type cartItemResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      int64     `json:"product_id"`
	Name           string    `json:"name"`
	ImageURL       *string   `json:"image_url,omitempty"`
	UnitPricePaise int64     `json:"unit_price_paise"`
	Quantity       int       `json:"quantity"`
	MOQ            int       `json:"moq"`
	SubtotalPaise  int64     `json:"subtotal_paise"`
}

func newCartResponse(record *models.CartRecord, calc *pricing.Calculator, paymentType enums.PaymentType) cartResponse {
	groups := cartsvc.GroupBySupplier(record.Items)

	var quotes []pricing.Quote
	if calc != nil && len(groups) > 0 {
		subtotals := make([]int64, len(groups))
		for i, g := range groups {
			subtotals[i] = g.SubtotalPaise
		}
		if len(groups) == 1 {
			quotes = []pricing.Quote{calc.QuoteOrder(subtotals[0], paymentType)}
		} else {
			quotes = calc.QuoteGroups(subtotals, paymentType)
		}
	}

	resp := cartResponse{
		ID:            record.ID,
		Status:        string(record.Status),
		SubtotalPaise: cartsvc.Subtotal(record.Items),
		ItemCount:     len(record.Items),
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
	for i, group := range groups {
		items := make([]cartItemResponse, 0, len(group.Items))
		for _, item := range group.Items {
			items = append(items, cartItemResponse{
				ID:             item.ID,
				ProductID:      item.ProductID,
				Name:           item.Name,
				ImageURL:       item.ImageURL,
				UnitPricePaise: item.UnitPricePaise,
				Quantity:       item.Quantity,
				MOQ:            item.MOQ,
				SubtotalPaise:  item.UnitPricePaise * int64(item.Quantity),
			})
		}
		groupResp := cartGroupResponse{
			SupplierID:   group.SupplierID,
			SupplierName: group.SupplierName,
			Items:        items,
		}
		if quotes != nil {
			groupResp.Quote = quotes[i]
		}
		resp.SupplierGroups = append(resp.SupplierGroups, groupResp)
	}
	return resp
}
