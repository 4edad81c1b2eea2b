package domain

import "time"

// ForgotPasswordRequest Model (one-time password-reset token)
type ForgotPasswordRequest struct {
	ID        string    `gorm:"primaryKey"`     // UUID, doubles as the reset token
	UserID    uint      `gorm:"index;not null"` // Foreign key to the owning User
	IsActive  bool      `gorm:"default:true"`   // Cleared exactly once when the token is consumed
	CreatedAt time.Time // Timestamp of creation
}
