package domain

import "time"

// Order statuses
const (
	OrderPending    = "PENDING"    // Purchase intent recorded, gateway outcome unknown
	OrderSuccessful = "SUCCESSFUL" // Terminal, flips the owner to premium
	OrderFailed     = "FAILED"     // Terminal, entitlement untouched
)

// Order Model (one premium-purchase attempt, never deleted)
type Order struct {
	ID        uint      `gorm:"primaryKey"`           // Primary key
	UserID    uint      `gorm:"index;not null"`       // Foreign key to the owning User
	OrderID   string    `gorm:"uniqueIndex;not null"` // External gateway order identifier
	PaymentID string    // External payment identifier, set by the status callback
	Status    string    `gorm:"not null;default:PENDING"` // PENDING until a terminal status arrives
	CreatedAt time.Time // Timestamp of creation
}
