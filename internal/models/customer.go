package models

import (
	"time"
)

// Customer is the account record created by signup. OTP state lives on the
// row itself and is only meaningful while the account awaits verification.
type Customer struct {
	BaseModel
	Email        string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Phone        string    `json:"phone"`
	Otp          int       `json:"-"`
	OtpExpiry    time.Time `json:"-"`
	Verified     bool      `json:"verified"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Address      string    `json:"address"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
}

// PasswordReset tracks one forgot-password attempt, keyed by an opaque token
// handed back to the client.
type PasswordReset struct {
	BaseModel
	Phone     string     `gorm:"index" json:"phone"`
	Token     string     `gorm:"uniqueIndex" json:"token"`
	Code      int        `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	Verified  bool       `json:"verified"`
	UsedAt    *time.Time `json:"used_at"`
}
