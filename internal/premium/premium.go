package premium

import (
	"errors" // Sentinel errors

	"expense_tracker/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Sentinel errors returned by the entitlement service
var (
	ErrOrderNotFound = errors.New("order not found") // No order with that external id for that owner
	ErrNoSuchUser    = errors.New("user not found")  // Unknown owner
)

// LeaderboardRow is one leaderboard entry
type LeaderboardRow struct {
	Name          string  `json:"name"`          // Display name
	TotalExpenses float64 `json:"totalExpenses"` // Denormalized expense total
}

// Service tracks premium entitlement per user and ranks spenders. Entitlement
// is a one-way state machine: FREE becomes PREMIUM on a successful payment and
// never transitions back.
type Service struct {
	db *gorm.DB // Database handle
}

// NewService returns an entitlement service backed by db
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RecordOrder persists a purchase intent at PENDING status. Creating an order
// transitions nothing by itself.
func (s *Service) RecordOrder(userID uint, orderID string) (domain.Order, error) {
	order := domain.Order{
		UserID:  userID,              // Owner
		OrderID: orderID,             // External gateway order id
		Status:  domain.OrderPending, // Outcome unknown yet
	}
	if err := s.db.Create(&order).Error; err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// UpdateStatus persists the gateway's terminal status on the owner's order.
// When the status is SUCCESSFUL the owner is upgraded to premium in the same
// database transaction as the order write, so the order and the entitlement
// can never disagree. Any other status is stored verbatim and leaves the
// entitlement untouched; nothing ever clears the premium flag.
func (s *Service) UpdateStatus(userID uint, orderID, paymentID, status string) (bool, error) {
	var isPremium bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Order{}).
			Where("order_id = ? AND user_id = ?", orderID, userID).
			Updates(map[string]any{"status": status, "payment_id": paymentID})
		if res.Error != nil {
			return res.Error
		}
		// Ownership-scoped: another user's order id is a miss, not an update
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		if status != domain.OrderSuccessful {
			return nil // Terminal failure recorded, entitlement untouched
		}
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).Update("is_premium", true).Error; err != nil {
			return err // Rollback the order write too
		}
		isPremium = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if !isPremium {
		// Report the current flag so an already-premium user is not told otherwise
		return s.Status(userID)
	}
	return true, nil
}

// Status reports whether the user currently holds premium entitlement
func (s *Service) Status(userID uint) (bool, error) {
	var user domain.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNoSuchUser
		}
		return false, err
	}
	return user.IsPremium, nil
}

// Leaderboard ranks all users by denormalized expense total, highest first,
// ties broken by ascending id so the order is stable. It reads only the
// aggregate column and never recomputes from ledger rows.
func (s *Service) Leaderboard() ([]LeaderboardRow, error) {
	var users []domain.User
	if err := s.db.Order("total_expenses desc, id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	rows := make([]LeaderboardRow, len(users))
	for i, u := range users {
		rows[i] = LeaderboardRow{Name: u.Name, TotalExpenses: u.TotalExpenses}
	}
	return rows, nil
}
