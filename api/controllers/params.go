package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/pkg/enums"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
)

func groupIDParam(r *http.Request) (uuid.UUID, error) {
	groupID, err := uuid.Parse(chi.URLParam(r, "groupId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout group id")
	}
	return groupID, nil
}

func orderNumberParam(r *http.Request) (string, error) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if orderNumber == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	return orderNumber, nil
}

func parsePaymentType(raw string) (enums.PaymentType, error) {
	paymentType, err := enums.ParsePaymentType(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment type")
	}
	return paymentType, nil
}
