package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role is the coarse actor classification carried on tokens. Token issuance
// lives in a separate identity service; this package only reads the claims.
type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  uuid.UUID
	BuyerID *uuid.UUID
	Role    Role
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	UserID  uuid.UUID  `json:"user_id"`
	BuyerID *uuid.UUID `json:"buyer_id,omitempty"`
	Role    Role       `json:"role"`
	jwt.RegisteredClaims
}
