package model

import (
	"time"
)

// CartOrder is one completed cart checkout
type CartOrder struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Price      float64   `json:"price" gorm:"not null"`
	PaidStatus bool      `json:"paid_status" gorm:"default:false"`
	OrderDate  time.Time `json:"order_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CartOrderProducts is a line item linking an order to one purchased
// product. The product reference is nullable with SET NULL on delete:
// deleting a product must not delete or alter historical order rows.
// The order reference is never null.
type CartOrderProducts struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	CartOrderID uint       `json:"cart_order_id" gorm:"index;not null"`
	CartOrder   *CartOrder `json:"cart_order,omitempty" gorm:"foreignKey:CartOrderID"`
	ProductID   *uint      `json:"product_id" gorm:"index"`
	Product     *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	InvoiceNo   string     `json:"invoice_no" gorm:"type:varchar(50)"`
	Qty         int        `json:"qty" gorm:"default:1"`
	Price       float64    `json:"price"`
	Total       float64    `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
