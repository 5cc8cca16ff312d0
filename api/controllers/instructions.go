package controllers

import (
	"net/http"

	"github.com/tradekart/tradekart-backend/api/responses"
	instructionsvc "github.com/tradekart/tradekart-backend/internal/instructions"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
	"github.com/tradekart/tradekart-backend/pkg/logger"
)

// Instructions renders the payment sheet for an offline-rail checkout group.
// The channel query selects QR codes (default) or app deep links.
func Instructions(svc instructionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "instructions service unavailable"))
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

		channel := instructionsvc.ParseChannel(r.URL.Query().Get("channel"))
		presentation, err := svc.Present(r.Context(), buyerID, groupID, channel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, presentation)
	}
}

// InstructionsQR serves the UPI payment QR for one order as a PNG.
func InstructionsQR(svc instructionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "instructions service unavailable"))
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
		orderNumber, err := orderNumberParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		png, err := svc.QR(r.Context(), buyerID, groupID, orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

// InstructionsMarkPaid sets the buyer's advisory i-paid flag for one order.
func InstructionsMarkPaid(svc instructionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		markPaid(svc, logg, w, r, true)
	}
}

// InstructionsUnmarkPaid clears the advisory flag.
func InstructionsUnmarkPaid(svc instructionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		markPaid(svc, logg, w, r, false)
	}
}

func markPaid(svc instructionsvc.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request, marked bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "instructions service unavailable"))
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
	orderNumber, err := orderNumberParam(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	if marked {
		err = svc.MarkPaid(r.Context(), buyerID, groupID, orderNumber)
	} else {
		err = svc.UnmarkPaid(r.Context(), buyerID, groupID, orderNumber)
	}
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]any{
		"order_number": orderNumber,
		"marked_paid":  marked,
	})
}
