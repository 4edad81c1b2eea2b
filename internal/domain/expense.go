package domain

import "time"

// Expense kinds
const (
	KindExpense = "expense" // Money going out, counted in TotalExpenses
	KindIncome  = "income"  // Money coming in, never touches TotalExpenses
)

// Expense Model (one ledger entry, income or expense)
type Expense struct {
	ID          uint      `gorm:"primaryKey"`     // Primary key
	UserID      uint      `gorm:"index;not null"` // Foreign key to the owning User
	Amount      float64   `gorm:"not null"`       // Positive amount
	Type        string    `gorm:"not null"`       // KindExpense or KindIncome
	Description string    `gorm:"not null"`       // Free-text description
	Category    string    // Category label
	CreatedAt   time.Time `gorm:"index"` // Creation timestamp, ordering key
}
