package ledger

import (
	"errors" // Sentinel errors
	"time"   // Time windows

	"expense_tracker/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Sentinel errors returned by the ledger service
var (
	ErrInvalidAmount = errors.New("amount must be a positive number")       // Non-positive amount
	ErrInvalidKind   = errors.New("type must be \"income\" or \"expense\"") // Unknown entry kind
	ErrEmptyDesc     = errors.New("description must not be empty")          // Missing description
	ErrNotFound      = errors.New("transaction not found")                  // No entry with that id for that owner
)

// Service owns the transaction ledger and keeps each user's denormalized
// expense total consistent with the underlying rows.
type Service struct {
	db *gorm.DB // Database handle
}

// NewService returns a ledger service backed by db
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Add validates and persists a new ledger entry, re-aggregating the owner's
// expense total in the same database transaction. Income entries leave the
// total untouched.
func (s *Service) Add(userID uint, amount float64, kind, description, category string) (domain.Expense, error) {
	// Validate before any persistence
	if amount <= 0 {
		return domain.Expense{}, ErrInvalidAmount
	}
	if kind != domain.KindExpense && kind != domain.KindIncome {
		return domain.Expense{}, ErrInvalidKind
	}
	if description == "" {
		return domain.Expense{}, ErrEmptyDesc
	}
	entry := domain.Expense{
		UserID:      userID,      // Owner
		Amount:      amount,      // Positive amount
		Type:        kind,        // income or expense
		Description: description, // Free text
		Category:    category,    // Category label
	}
	// Insert and re-aggregate atomically: a failure in either rolls back both
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err // Rollback on insert failure
		}
		if kind == domain.KindExpense {
			return recalcTotal(tx, userID) // Keep the aggregate in step
		}
		return nil // Income does not affect the total
	})
	if err != nil {
		return domain.Expense{}, err
	}
	return entry, nil
}

// Delete removes the entry with the given id if it belongs to userID,
// re-aggregating the owner's expense total in the same transaction.
// Returns ErrNotFound when no such entry exists for that owner, so one
// user can never delete another user's entries.
func (s *Service) Delete(userID, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var entry domain.Expense
		// Ownership check and existence check in one query
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Delete(&entry).Error; err != nil {
			return err // Rollback on delete failure
		}
		if entry.Type == domain.KindExpense {
			return recalcTotal(tx, userID) // Keep the aggregate in step
		}
		return nil
	})
}

// List returns the owner's entries newest first. When since is non-nil only
// entries created at or after it are returned.
func (s *Service) List(userID uint, since *time.Time) ([]domain.Expense, error) {
	q := s.db.Where("user_id = ?", userID)
	if since != nil {
		q = q.Where("created_at >= ?", *since) // Boundary instant included
	}
	var entries []domain.Expense
	if err := q.Order("created_at desc, id desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListPage returns one page of the owner's entries newest first, plus the
// total row count for pagination.
func (s *Service) ListPage(userID uint, page, pageSize int) ([]domain.Expense, int64, error) {
	var total int64
	if err := s.db.Model(&domain.Expense{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize // Calculate offset
	var entries []domain.Expense
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(pageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// recalcTotal rewrites the owner's denormalized expense total as the full sum
// of their current expense-kind rows. A full re-aggregation rather than an
// increment, so retries after partial failures can never make the total drift.
func recalcTotal(tx *gorm.DB, userID uint) error {
	var total float64
	if err := tx.Model(&domain.Expense{}).
		Where("user_id = ? AND type = ?", userID, domain.KindExpense).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		return err
	}
	return tx.Model(&domain.User{}).Where("id = ?", userID).Update("total_expenses", total).Error
}

// Recalculate re-runs the aggregate maintenance for one user outside any
// triggering mutation. Idempotent: running it twice yields the same value.
func (s *Service) Recalculate(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return recalcTotal(tx, userID)
	})
}
