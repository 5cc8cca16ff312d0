package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/api/middleware"
	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
)

// buyerIDFromContext resolves the authenticated buyer for the request. The
// auth middleware guarantees presence on buyer routes; the parse guards
// against a malformed claim.
func buyerIDFromContext(r *http.Request) (uuid.UUID, error) {
	raw := middleware.BuyerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "buyer context missing")
	}
	buyerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid buyer id")
	}
	return buyerID, nil
}
