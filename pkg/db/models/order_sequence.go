package models

import "time"

// OrderSequence backs order-number allocation. Each insert claims the next
// autoincrement id, which the checkout repository formats into TK-000123
// style numbers. Insert-based allocation works on both postgres and the
// sqlite test driver.
type OrderSequence struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
