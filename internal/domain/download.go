package domain

import "time"

// DownloadHistory Model (append-only record of ledger exports)
type DownloadHistory struct {
	ID           uint      `gorm:"primaryKey"`     // Primary key
	UserID       uint      `gorm:"index;not null"` // Foreign key to the owning User
	FileURL      string    `gorm:"not null"`       // Location of the generated export file
	DownloadedAt time.Time `gorm:"autoCreateTime"` // Timestamp of the export
}
