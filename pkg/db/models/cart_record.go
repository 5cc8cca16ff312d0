package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradekart/tradekart-backend/pkg/enums"
)

// CartRecord is the buyer's server-owned cart. One active cart per buyer.
type CartRecord struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID   uuid.UUID        `gorm:"column:buyer_id;type:uuid;not null"`
	Status    enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Items     []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
