package models

import "time"

// Supplier is the seller-side party. The sentinel supplier (ID 1) exists so
// cart items with a missing supplier id are never dropped.
type Supplier struct {
	ID        int64        `gorm:"column:id;primaryKey"`
	Name      string       `gorm:"column:name;not null"`
	Email     *string      `gorm:"column:email"`
	Phone     *string      `gorm:"column:phone"`
	Bank      *BankProfile `gorm:"foreignKey:SupplierID"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

// BankProfile holds the payout destination a buyer transfers to on the
// offline rails. A supplier without a row gets the NotConfigured sentinel at
// the service layer; its absence never blocks order creation.
type BankProfile struct {
	SupplierID        int64     `gorm:"column:supplier_id;primaryKey"`
	BankName          string    `gorm:"column:bank_name;not null"`
	AccountHolderName string    `gorm:"column:account_holder_name;not null"`
	AccountNumber     string    `gorm:"column:account_number;not null"`
	IFSCCode          string    `gorm:"column:ifsc_code;not null"`
	UPIID             *string   `gorm:"column:upi_id"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
