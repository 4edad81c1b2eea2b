package domain

// User Model
type User struct {
	ID            uint    `gorm:"primaryKey"`           // Primary key
	Name          string  `gorm:"not null"`             // Display name (shown on leaderboard)
	Email         string  `gorm:"uniqueIndex;not null"` // Unique login email
	Password      string  `gorm:"not null"`             // Hashed password
	IsPremium     bool    `gorm:"default:false"`        // Premium entitlement flag, one-way upgrade
	TotalExpenses float64 `gorm:"not null;default:0"`   // Denormalized sum of this user's expense-kind entries
}
