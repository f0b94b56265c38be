package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents an item in the catalog. PID is the public-facing
// identifier used in dashboard routes. OldPrice is nullable: empty or
// unparseable input coerces to NULL rather than failing validation.
//
// Products are hard-deleted. Historical order line items keep their row
// with the product reference set to NULL, so a soft-delete column would
// break the cascade contract.
type Product struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PID        string    `json:"pid" gorm:"column:pid;type:varchar(20);uniqueIndex"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Price      float64   `json:"price" gorm:"not null"`
	OldPrice   *float64  `json:"old_price"`
	Image      string    `json:"image" gorm:"type:varchar(255)"`
	CategoryID uint      `json:"category_id" gorm:"index"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Tags       []Tag     `json:"tags,omitempty" gorm:"many2many:product_tags;"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate assigns a public id when none was provided
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.PID == "" {
		p.PID = strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	}
	return nil
}

// Category represents a product category
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;unique"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is a deduplicated free-text label attached many-to-many to products
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
}
