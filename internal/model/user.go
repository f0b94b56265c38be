package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account stored in the database. Superuser accounts
// can view system-wide statistics and request OTP verification codes.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	FullName  string         `json:"full_name" gorm:"type:varchar(100)"`
	Phone     string         `json:"phone" gorm:"type:varchar(30)"`
	Image     string         `json:"image" gorm:"type:varchar(255)"`
	Superuser bool           `json:"superuser" gorm:"default:false"`
	Verified  bool           `json:"verified" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Products []Product   `json:"products,omitempty" gorm:"foreignKey:UserID"`
	Orders   []CartOrder `json:"orders,omitempty" gorm:"foreignKey:UserID"`
}

// TempUser pairs an email with a generated one-time passcode. A row is
// created per issuance; multiple outstanding codes per email are allowed
// and rows have no expiry. Verification consumes the matched rows.
type TempUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"type:varchar(100);index"`
	OTP       string    `json:"-" gorm:"type:varchar(10)"`
	CreatedAt time.Time `json:"created_at"`
}
